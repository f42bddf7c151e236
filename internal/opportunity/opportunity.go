// Package opportunity implements the volunteer opportunity lifecycle:
// organizations publish, edit, and retire events, volunteers join and
// leave them. The event's joined_volunteers array is the authoritative
// membership record; the volunteer experience list is a cache of it.
package opportunity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/itskdhere/together-we/internal/utils"
	"github.com/itskdhere/together-we/pkg/types"
)

const (
	// Opportunities created without an end time run for three hours.
	defaultDuration = 3 * time.Hour

	remoteLocation = "Remote/Virtual"

	datetimeLayout = "2006-01-02T15:04"
)

type UserStore interface {
	OnboardedUser(ctx context.Context, civicID, email string, userType types.UserType) (*types.User, error)
	UserByDataID(ctx context.Context, dataID string) (*types.User, error)
}

type EventStore interface {
	Event(ctx context.Context, eventID string) (*types.Event, error)
	EventsByIDs(ctx context.Context, eventIDs []string) ([]*types.Event, error)
	EventsByVolunteer(ctx context.Context, volunteerID string) ([]*types.Event, error)
	AllEvents(ctx context.Context) ([]*types.Event, error)
	Search(ctx context.Context, term string) ([]*types.Event, error)
	CreateForOrganization(ctx context.Context, organizationID string, event *types.Event) (*types.Event, error)
	UpdateFields(ctx context.Context, eventID string, fields map[string]interface{}) (*types.Event, error)
	DeleteForOrganization(ctx context.Context, organizationID, eventID string) error
	DeleteAllForOrganization(ctx context.Context, organizationID string) (int64, error)
	AddVolunteer(ctx context.Context, eventID, volunteerID string) (int, error)
	RemoveVolunteer(ctx context.Context, eventID, volunteerID string) (int, error)
}

type OrganizationStore interface {
	Organization(ctx context.Context, organizationID string) (*types.Organization, error)
	OrganizationByEvent(ctx context.Context, eventID string) (*types.Organization, error)
}

type VolunteerStore interface {
	AppendExperience(ctx context.Context, volunteerID, eventID string) error
	RemoveExperience(ctx context.Context, volunteerID, eventID string) error
	AwardBadge(ctx context.Context, volunteerID, badgeID string) error
}

type BadgeStore interface {
	BadgeByName(ctx context.Context, name string) (*types.Badge, error)
}

type Service struct {
	logger   *logrus.Logger
	validate *validator.Validate

	users         UserStore
	events        EventStore
	organizations OrganizationStore
	volunteers    VolunteerStore
	badges        BadgeStore
}

func New(logger *logrus.Logger, users UserStore, events EventStore, organizations OrganizationStore, volunteers VolunteerStore, badges BadgeStore) *Service {
	return &Service{
		logger:        logger,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		users:         users,
		events:        events,
		organizations: organizations,
		volunteers:    volunteers,
		badges:        badges,
	}
}

type CreateOpportunityInput struct {
	Title            string   `form:"title" validate:"required"`
	Description      string   `form:"description" validate:"required"`
	Category         string   `form:"category" validate:"required"`
	Date             string   `form:"date" validate:"required"`
	StartTime        string   `form:"start_time" validate:"required"`
	EndTime          string   `form:"end_time"`
	Location         string   `form:"location" validate:"required_unless=IsRemote true"`
	IsRemote         bool     `form:"is_remote"`
	VolunteersNeeded int      `form:"volunteers_needed" validate:"required,gt=0"`
	SkillsRequired   []string `form:"skills_required"`
	ContactEmail     string   `form:"contact_email" validate:"required,email"`
}

// Create publishes a new opportunity for the calling organization. The
// event row and the organization's event list are written in the same
// transaction, so a failure leaves no orphaned event behind.
func (s *Service) Create(ctx context.Context, civicID, email string, input CreateOpportunityInput) (*types.Event, error) {
	user, err := s.users.OnboardedUser(ctx, civicID, email, types.UserTypeOrganization)
	if err != nil {
		return nil, err
	}

	err = s.validate.StructCtx(ctx, input)
	if err != nil {
		return nil, err
	}

	startTime, err := parseDatetime(input.Date, input.StartTime)
	if err != nil {
		return nil, err
	}

	endTime := startTime.Add(defaultDuration)
	if input.EndTime != "" {
		endTime, err = parseDatetime(input.Date, input.EndTime)
		if err != nil {
			return nil, err
		}
	}

	location := strings.TrimSpace(input.Location)
	if input.IsRemote {
		location = remoteLocation
	}

	event := &types.Event{
		Name:             input.Title,
		Description:      input.Description,
		VolunteerCap:     input.VolunteersNeeded,
		Location:         location,
		RequiredSkills:   strings.Join(input.SkillsRequired, ", "),
		StartTime:        startTime,
		EndTime:          endTime,
		JoinedVolunteers: []string{},
	}

	event, err = s.events.CreateForOrganization(ctx, utils.PtrString(user.DataID), event)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"event_id":        event.ID,
		"organization_id": utils.PtrString(user.DataID),
	}).Info("opportunity created")

	return event, nil
}

type UpdateOpportunityInput struct {
	Title            *string  `form:"title"`
	Description      *string  `form:"description"`
	VolunteersNeeded *int     `form:"volunteers_needed" validate:"omitempty,gt=0"`
	Location         *string  `form:"location"`
	IsRemote         *bool    `form:"is_remote"`
	SkillsRequired   []string `form:"skills_required"`
	Date             *string  `form:"date"`
	StartTime        *string  `form:"start_time"`
	EndTime          *string  `form:"end_time"`
}

// Update applies a partial edit. Only provided fields change; the start
// time is only recomputed when both a date and a start time are supplied,
// and likewise for the end time.
func (s *Service) Update(ctx context.Context, civicID, email, eventID string, input UpdateOpportunityInput) (*types.Event, error) {
	_, err := s.users.OnboardedUser(ctx, civicID, email, types.UserTypeOrganization)
	if err != nil {
		return nil, err
	}

	err = s.validate.StructCtx(ctx, input)
	if err != nil {
		return nil, err
	}

	_, err = s.events.Event(ctx, eventID)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if input.Title != nil {
		fields["name"] = *input.Title
	}

	if input.Description != nil {
		fields["description"] = *input.Description
	}

	if input.VolunteersNeeded != nil {
		fields["volunteer_cap"] = *input.VolunteersNeeded
	}

	if input.IsRemote != nil && *input.IsRemote {
		fields["location"] = remoteLocation
	} else if input.Location != nil {
		fields["location"] = strings.TrimSpace(*input.Location)
	}

	if input.SkillsRequired != nil {
		fields["required_skills"] = strings.Join(input.SkillsRequired, ", ")
	}

	if input.Date != nil && input.StartTime != nil {
		startTime, err := parseDatetime(*input.Date, *input.StartTime)
		if err != nil {
			return nil, err
		}

		fields["start_time"] = startTime
	}

	if input.Date != nil && input.EndTime != nil {
		endTime, err := parseDatetime(*input.Date, *input.EndTime)
		if err != nil {
			return nil, err
		}

		fields["end_time"] = endTime
	}

	event, err := s.events.UpdateFields(ctx, eventID, fields)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("event_id", eventID).Info("opportunity updated")

	return event, nil
}

// Delete removes one of the caller's opportunities and drops its id from
// the organization's event list in the same transaction.
func (s *Service) Delete(ctx context.Context, civicID, email, eventID string) error {
	user, err := s.users.OnboardedUser(ctx, civicID, email, types.UserTypeOrganization)
	if err != nil {
		return err
	}

	_, err = s.events.Event(ctx, eventID)
	if err != nil {
		return err
	}

	err = s.events.DeleteForOrganization(ctx, utils.PtrString(user.DataID), eventID)
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"event_id":        eventID,
		"organization_id": utils.PtrString(user.DataID),
	}).Info("opportunity deleted")

	return nil
}

// DeleteAll removes every opportunity the caller has published and
// returns how many were deleted. Zero is not an error.
func (s *Service) DeleteAll(ctx context.Context, civicID, email string) (int64, error) {
	user, err := s.users.OnboardedUser(ctx, civicID, email, types.UserTypeOrganization)
	if err != nil {
		return 0, err
	}

	deleted, err := s.events.DeleteAllForOrganization(ctx, utils.PtrString(user.DataID))
	if err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"organization_id": utils.PtrString(user.DataID),
		"deleted":         deleted,
	}).Info("all opportunities deleted")

	return deleted, nil
}

func parseDatetime(date, clock string) (time.Time, error) {
	parsed, err := time.ParseInLocation(datetimeLayout, fmt.Sprintf("%sT%s", date, clock), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date or time: %w", err)
	}

	return parsed, nil
}
