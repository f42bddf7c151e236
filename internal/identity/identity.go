package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/itskdhere/together-we/internal/utils"
	"github.com/itskdhere/together-we/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// UserStore is the slice of the user repository the resolver needs.
type UserStore interface {
	UserByIdentity(ctx context.Context, civicID, email string) (*types.User, error)
	UserByUsername(ctx context.Context, username string) (*types.User, error)
	Create(ctx context.Context, user *types.User) error
	Update(ctx context.Context, userID string, user *types.User) error
}

type VolunteerStore interface {
	Volunteer(ctx context.Context, volunteerID string) (*types.Volunteer, error)
	Create(ctx context.Context, volunteer *types.Volunteer) error
	Update(ctx context.Context, volunteerID string, volunteer *types.Volunteer) error
}

type OrganizationStore interface {
	Organization(ctx context.Context, organizationID string) (*types.Organization, error)
	Create(ctx context.Context, organization *types.Organization) error
}

// Role is the resolved role payload. Resolving it once at load time keeps
// the role tag and the referenced record from ever disagreeing downstream.
type Role interface {
	Kind() types.UserType
}

type VolunteerRole struct {
	Volunteer *types.Volunteer
}

func (VolunteerRole) Kind() types.UserType { return types.UserTypeVolunteer }

type OrganizationRole struct {
	Organization *types.Organization
}

func (OrganizationRole) Kind() types.UserType { return types.UserTypeOrganization }

type Destination string

const (
	DestinationOnboarding            Destination = "/onboard"
	DestinationVolunteerDashboard    Destination = "/volunteer/dashboard"
	DestinationOrganizationDashboard Destination = "/organization/dashboard"
)

type Resolution struct {
	User        *types.User
	Role        Role // nil until onboarded
	Destination Destination
	FirstLogin  bool
}

type Service struct {
	logger   *logrus.Logger
	validate *validator.Validate

	users         UserStore
	volunteers    VolunteerStore
	organizations OrganizationStore
}

func New(logger *logrus.Logger, users UserStore, volunteers VolunteerStore, organizations OrganizationStore) *Service {
	return &Service{
		logger:        logger,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		users:         users,
		volunteers:    volunteers,
		organizations: organizations,
	}
}

// Resolve maps an authenticated external identity to a local user. A first
// login creates the user in an un-onboarded state and routes to role
// selection; an onboarded user gets their role record loaded and is routed
// to the matching dashboard.
func (s *Service) Resolve(ctx context.Context, civicID, email string) (*Resolution, error) {
	if civicID == "" || email == "" {
		return nil, types.ErrNotAuthenticated
	}

	user, err := s.users.UserByIdentity(ctx, civicID, email)
	if err != nil {
		if !errors.Is(err, types.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to resolve identity: %w", err)
		}

		user = &types.User{
			CivicID: civicID,
			Email:   email,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user on first login: %w", err)
		}

		s.logger.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"civic_id": civicID,
		}).Info("created user on first login")

		return &Resolution{User: user, Destination: DestinationOnboarding, FirstLogin: true}, nil
	}

	if !user.Onboarded {
		return &Resolution{User: user, Destination: DestinationOnboarding}, nil
	}

	role, err := s.resolveRole(ctx, user)
	if err != nil {
		return nil, err
	}

	destination := DestinationOnboarding
	switch role.(type) {
	case VolunteerRole:
		destination = DestinationVolunteerDashboard
	case OrganizationRole:
		destination = DestinationOrganizationDashboard
	}

	return &Resolution{User: user, Role: role, Destination: destination}, nil
}

func (s *Service) resolveRole(ctx context.Context, user *types.User) (Role, error) {
	userType := types.UserType(utils.PtrString(user.UserType))
	dataID := utils.PtrString(user.DataID)
	if dataID == "" {
		return nil, types.ErrNotOnboarded
	}

	switch userType {
	case types.UserTypeVolunteer:
		volunteer, err := s.volunteers.Volunteer(ctx, dataID)
		if err != nil {
			return nil, err
		}
		return VolunteerRole{Volunteer: volunteer}, nil
	case types.UserTypeOrganization:
		organization, err := s.organizations.Organization(ctx, dataID)
		if err != nil {
			return nil, err
		}
		return OrganizationRole{Organization: organization}, nil
	}

	return nil, types.ErrNotOnboarded
}

type VolunteerOnboardInput struct {
	Name     string `form:"name" validate:"required"`
	Username string `form:"username" validate:"required"`
	Bio      string `form:"bio"`
	Skills   string `form:"skills"`
}

type OrganizationOnboardInput struct {
	Name     string `form:"name" validate:"required"`
	Username string `form:"username" validate:"required"`
	Bio      string `form:"bio"`
	Category string `form:"category" validate:"required"`
	Locality string `form:"locality" validate:"required"`
}

// OnboardVolunteer commits the user to the volunteer role: creates the role
// record exactly once and flips the user to onboarded with the data
// reference set. A taken username is a validation failure for the form to
// re-prompt, not a system error.
func (s *Service) OnboardVolunteer(ctx context.Context, civicID, email string, input VolunteerOnboardInput) (*types.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.onboardingUser(ctx, civicID, email, input.Username)
	if err != nil {
		return nil, err
	}

	volunteer := &types.Volunteer{
		Skills: utils.StringPtr(strings.TrimSpace(input.Skills)),
	}
	if err := s.volunteers.Create(ctx, volunteer); err != nil {
		return nil, fmt.Errorf("failed to create volunteer record: %w", err)
	}

	return s.commitOnboarding(ctx, user, input.Name, input.Username, input.Bio, types.UserTypeVolunteer, volunteer.ID)
}

// OnboardOrganization is the organization-role counterpart of
// OnboardVolunteer.
func (s *Service) OnboardOrganization(ctx context.Context, civicID, email string, input OrganizationOnboardInput) (*types.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.onboardingUser(ctx, civicID, email, input.Username)
	if err != nil {
		return nil, err
	}

	organization := &types.Organization{
		Category: utils.StringPtr(strings.TrimSpace(input.Category)),
		Locality: utils.StringPtr(strings.TrimSpace(input.Locality)),
	}
	if err := s.organizations.Create(ctx, organization); err != nil {
		return nil, fmt.Errorf("failed to create organization record: %w", err)
	}

	return s.commitOnboarding(ctx, user, input.Name, input.Username, input.Bio, types.UserTypeOrganization, organization.ID)
}

func (s *Service) onboardingUser(ctx context.Context, civicID, email, username string) (*types.User, error) {
	if civicID == "" || email == "" {
		return nil, types.ErrNotAuthenticated
	}

	user, err := s.users.UserByIdentity(ctx, civicID, email)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.UserByUsername(ctx, username)
	if err != nil && !errors.Is(err, types.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil && existing.ID != user.ID {
		return nil, types.ErrUsernameTaken
	}

	return user, nil
}

func (s *Service) commitOnboarding(ctx context.Context, user *types.User, name, username, bio string, userType types.UserType, dataID string) (*types.User, error) {
	user.Name = utils.StringPtr(strings.TrimSpace(name))
	user.Username = utils.StringPtr(strings.TrimSpace(username))
	user.Bio = utils.StringPtr(strings.TrimSpace(bio))
	user.UserType = utils.StringPtr(string(userType))
	user.Onboarded = true
	user.DataID = utils.StringPtr(dataID)

	if err := s.users.Update(ctx, user.ID, user); err != nil {
		return nil, fmt.Errorf("failed to mark user onboarded: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"user_type": string(userType),
	}).Info("user onboarded")

	return user, nil
}
