package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/itskdhere/together-we/internal/utils"
	"github.com/itskdhere/together-we/pkg/types"
)

// Profile is the volunteer's own view of their account: the user record
// and the volunteer role record flattened together. Email is read-only,
// it is the identity provider's join key.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Skills   string `json:"skills"`
}

type UpdateProfileInput struct {
	Name   string `form:"name" validate:"required"`
	Bio    string `form:"bio"`
	Skills string `form:"skills"`
}

// VolunteerProfile returns the calling volunteer's profile. Callers without
// an onboarded volunteer role get ErrNotOnboarded.
func (s *Service) VolunteerProfile(ctx context.Context, civicID, email string) (*Profile, error) {
	user, volunteer, err := s.volunteerRecords(ctx, civicID, email)
	if err != nil {
		return nil, err
	}

	return profileView(user, volunteer), nil
}

// UpdateVolunteerProfile edits name and bio on the user record and skills
// on the volunteer record, returning the profile as stored.
func (s *Service) UpdateVolunteerProfile(ctx context.Context, civicID, email string, input UpdateProfileInput) (*Profile, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	user, volunteer, err := s.volunteerRecords(ctx, civicID, email)
	if err != nil {
		return nil, err
	}

	user.Name = utils.StringPtr(strings.TrimSpace(input.Name))
	user.Bio = utils.StringPtr(strings.TrimSpace(input.Bio))
	if err := s.users.Update(ctx, user.ID, user); err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}

	volunteer.Skills = utils.StringPtr(strings.TrimSpace(input.Skills))
	if err := s.volunteers.Update(ctx, volunteer.ID, volunteer); err != nil {
		return nil, fmt.Errorf("failed to update volunteer profile: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("volunteer profile updated")

	return profileView(user, volunteer), nil
}

func (s *Service) volunteerRecords(ctx context.Context, civicID, email string) (*types.User, *types.Volunteer, error) {
	resolution, err := s.Resolve(ctx, civicID, email)
	if err != nil {
		return nil, nil, err
	}

	role, ok := resolution.Role.(VolunteerRole)
	if !ok {
		return nil, nil, types.ErrNotOnboarded
	}

	return resolution.User, role.Volunteer, nil
}

func profileView(user *types.User, volunteer *types.Volunteer) *Profile {
	return &Profile{
		Name:     utils.PtrString(user.Name),
		Email:    user.Email,
		Username: utils.PtrString(user.Username),
		Bio:      utils.PtrString(user.Bio),
		Skills:   utils.PtrString(volunteer.Skills),
	}
}
