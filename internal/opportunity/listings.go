package opportunity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/itskdhere/together-we/internal/stats"
	"github.com/itskdhere/together-we/internal/utils"
	"github.com/itskdhere/together-we/pkg/types"
)

type EventSummary struct {
	ID                   string            `json:"id"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	Location             string            `json:"location"`
	RequiredSkills       string            `json:"requiredSkills"`
	VolunteersNeeded     int               `json:"volunteersNeeded"`
	VolunteersRegistered int               `json:"volunteersRegistered"`
	StartTime            time.Time         `json:"startTime"`
	EndTime              time.Time         `json:"endTime"`
	Status               stats.EventStatus `json:"status"`
}

// OrganizationEvents lists the caller's own opportunities with their
// derived status. Event ids in the organization's list that no longer
// resolve are skipped.
func (s *Service) OrganizationEvents(ctx context.Context, civicID, email string) ([]*EventSummary, error) {
	user, err := s.users.OnboardedUser(ctx, civicID, email, types.UserTypeOrganization)
	if err != nil {
		return nil, err
	}

	organization, err := s.organizations.Organization(ctx, utils.PtrString(user.DataID))
	if err != nil {
		return nil, err
	}

	events, err := s.events.EventsByIDs(ctx, organization.Events)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	summaries := make([]*EventSummary, 0, len(events))
	for _, event := range events {
		summaries = append(summaries, &EventSummary{
			ID:                   event.ID,
			Title:                event.Name,
			Description:          event.Description,
			Location:             event.Location,
			RequiredSkills:       event.RequiredSkills,
			VolunteersNeeded:     event.VolunteerCap,
			VolunteersRegistered: len(event.JoinedVolunteers),
			StartTime:            event.StartTime,
			EndTime:              event.EndTime,
			Status:               stats.StatusAt(event, now),
		})
	}

	return summaries, nil
}

type BrowseEvent struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Organization     string    `json:"organization"`
	Category         string    `json:"category"`
	Location         string    `json:"location"`
	RequiredSkills   string    `json:"requiredSkills"`
	MaxCapacity      int       `json:"maxCapacity"`
	CurrentJoined    int       `json:"currentJoined"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	IsAlreadyJoined  bool      `json:"isAlreadyJoined"`
}

// BrowseEvents lists every opportunity that has not yet ended for the
// calling volunteer, annotated with the hosting organization and whether
// the caller already joined.
func (s *Service) BrowseEvents(ctx context.Context, civicID, email string) ([]*BrowseEvent, error) {
	user, err := s.users.OnboardedUser(ctx, civicID, email, types.UserTypeVolunteer)
	if err != nil {
		return nil, err
	}

	events, err := s.events.AllEvents(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	upcoming := make([]*types.Event, 0, len(events))
	for _, event := range events {
		if event.EndTime.After(now) {
			upcoming = append(upcoming, event)
		}
	}

	return s.annotateEvents(ctx, upcoming, utils.PtrString(user.DataID))
}

// SearchEvents matches opportunities against a free-text term over the
// name, description, location, and skills columns, optionally narrowed to
// the hosting organization's category. A category of "all" or an empty
// string means no category filter.
func (s *Service) SearchEvents(ctx context.Context, civicID, email, term, category string) ([]*BrowseEvent, error) {
	user, err := s.users.OnboardedUser(ctx, civicID, email, types.UserTypeVolunteer)
	if err != nil {
		return nil, err
	}

	events, err := s.events.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	annotated, err := s.annotateEvents(ctx, events, utils.PtrString(user.DataID))
	if err != nil {
		return nil, err
	}

	if category == "" || strings.EqualFold(category, "all") {
		return annotated, nil
	}

	filtered := make([]*BrowseEvent, 0, len(annotated))
	for _, event := range annotated {
		if strings.EqualFold(event.Category, category) {
			filtered = append(filtered, event)
		}
	}

	return filtered, nil
}

func (s *Service) annotateEvents(ctx context.Context, events []*types.Event, volunteerID string) ([]*BrowseEvent, error) {
	annotated := make([]*BrowseEvent, 0, len(events))
	for _, event := range events {
		entry := &BrowseEvent{
			ID:              event.ID,
			Name:            event.Name,
			Description:     event.Description,
			Organization:    "Unknown Organization",
			Category:        "General",
			Location:        event.Location,
			RequiredSkills:  event.RequiredSkills,
			MaxCapacity:     event.VolunteerCap,
			CurrentJoined:   len(event.JoinedVolunteers),
			StartTime:       event.StartTime,
			EndTime:         event.EndTime,
			IsAlreadyJoined: event.HasVolunteer(volunteerID),
		}

		organization, err := s.organizations.OrganizationByEvent(ctx, event.ID)
		if err != nil {
			if !errors.Is(err, types.ErrOrganizationNotFound) {
				return nil, err
			}

			annotated = append(annotated, entry)
			continue
		}

		entry.Category = utils.PtrString(organization.Category)

		host, err := s.users.UserByDataID(ctx, organization.ID)
		if err != nil {
			if !errors.Is(err, types.ErrUserNotFound) {
				return nil, err
			}
		} else {
			entry.Organization = utils.PtrString(host.Name)
		}

		annotated = append(annotated, entry)
	}

	return annotated, nil
}

type JoinedEvent struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Organization string    `json:"organization"`
	Location     string    `json:"location"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	Phase        string    `json:"phase"`
}

// MyEvents lists the caller's joined opportunities ordered by start time,
// each tagged with its schedule phase.
func (s *Service) MyEvents(ctx context.Context, civicID, email string) ([]*JoinedEvent, error) {
	user, err := s.users.OnboardedUser(ctx, civicID, email, types.UserTypeVolunteer)
	if err != nil {
		return nil, err
	}

	events, err := s.events.EventsByVolunteer(ctx, utils.PtrString(user.DataID))
	if err != nil {
		return nil, err
	}

	now := time.Now()

	joined := make([]*JoinedEvent, 0, len(events))
	for _, event := range events {
		entry := &JoinedEvent{
			ID:           event.ID,
			Name:         event.Name,
			Organization: "Unknown Organization",
			Location:     event.Location,
			StartTime:    event.StartTime,
			EndTime:      event.EndTime,
			Phase:        schedulePhase(event, now),
		}

		organization, err := s.organizations.OrganizationByEvent(ctx, event.ID)
		if err == nil {
			host, hostErr := s.users.UserByDataID(ctx, organization.ID)
			if hostErr == nil {
				entry.Organization = utils.PtrString(host.Name)
			}
		} else if !errors.Is(err, types.ErrOrganizationNotFound) {
			return nil, err
		}

		joined = append(joined, entry)
	}

	return joined, nil
}

func schedulePhase(event *types.Event, now time.Time) string {
	switch {
	case now.After(event.EndTime):
		return "completed"
	case now.After(event.StartTime):
		return "ongoing"
	default:
		return "upcoming"
	}
}
