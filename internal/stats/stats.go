// Package stats derives organization and volunteer aggregates from the
// event membership arrays. Nothing here is persisted; every figure is
// recomputed from the store on each call.
package stats

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/itskdhere/together-we/internal/utils"
	"github.com/itskdhere/together-we/pkg/types"
)

type UserStore interface {
	OnboardedUser(ctx context.Context, civicID, email string, userType types.UserType) (*types.User, error)
	UsersByDataIDs(ctx context.Context, dataIDs []string) ([]*types.User, error)
}

type EventStore interface {
	EventsByIDs(ctx context.Context, eventIDs []string) ([]*types.Event, error)
	EventsByVolunteer(ctx context.Context, volunteerID string) ([]*types.Event, error)
}

type OrganizationStore interface {
	Organization(ctx context.Context, organizationID string) (*types.Organization, error)
	OrganizationByEvent(ctx context.Context, eventID string) (*types.Organization, error)
}

type Service struct {
	logger *logrus.Logger

	users         UserStore
	events        EventStore
	organizations OrganizationStore
}

func New(logger *logrus.Logger, users UserStore, events EventStore, organizations OrganizationStore) *Service {
	return &Service{
		logger:        logger,
		users:         users,
		events:        events,
		organizations: organizations,
	}
}

type OrganizationStats struct {
	TotalVolunteers     int `json:"totalVolunteers"`
	ActiveOpportunities int `json:"activeOpportunities"`
	CompletedProjects   int `json:"completedProjects"`
	TotalHoursLogged    int `json:"totalHoursLogged"`
}

// OrganizationStats summarizes the caller's events. Distinct volunteers
// are counted across all events, hours accrue only for completed events,
// and a completed event contributes its estimated hours once per joiner.
func (s *Service) OrganizationStats(ctx context.Context, civicID, email string) (*OrganizationStats, error) {
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

	var (
		out        OrganizationStats
		hours      float64
		volunteers = make(map[string]struct{})
		now        = time.Now()
	)

	for _, event := range events {
		for _, volunteerID := range event.JoinedVolunteers {
			volunteers[volunteerID] = struct{}{}
		}

		if event.EndTime.Before(now) {
			out.CompletedProjects++
			hours += EstimateHours(event) * float64(len(event.JoinedVolunteers))
		} else {
			out.ActiveOpportunities++
		}
	}

	out.TotalVolunteers = len(volunteers)
	out.TotalHoursLogged = int(math.Round(hours))

	return &out, nil
}

type RosterEntry struct {
	VolunteerID     string    `json:"volunteerID"`
	Name            string    `json:"name"`
	EventsJoined    int       `json:"eventsJoined"`
	CompletedEvents int       `json:"completedEvents"`
	TotalHours      int       `json:"totalHours"`
	Status          string    `json:"status"`
	MemberSince     time.Time `json:"memberSince"`
}

// VolunteerRoster lists every distinct volunteer across the caller's
// events, newest accounts first. A volunteer is active while they have at
// least one joined event that is not yet completed.
func (s *Service) VolunteerRoster(ctx context.Context, civicID, email string) ([]*RosterEntry, error) {
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

	type tally struct {
		joined    int
		completed int
		hours     float64
	}

	var (
		tallies = make(map[string]*tally)
		now     = time.Now()
	)

	for _, event := range events {
		done := event.EndTime.Before(now)
		for _, volunteerID := range event.JoinedVolunteers {
			entry, ok := tallies[volunteerID]
			if !ok {
				entry = &tally{}
				tallies[volunteerID] = entry
			}

			entry.joined++
			if done {
				entry.completed++
				entry.hours += EstimateHours(event)
			}
		}
	}

	volunteerIDs := make([]string, 0, len(tallies))
	for volunteerID := range tallies {
		volunteerIDs = append(volunteerIDs, volunteerID)
	}

	users, err := s.users.UsersByDataIDs(ctx, volunteerIDs)
	if err != nil {
		return nil, err
	}

	accounts := make(map[string]*types.User, len(users))
	for _, account := range users {
		accounts[utils.PtrString(account.DataID)] = account
	}

	roster := make([]*RosterEntry, 0, len(tallies))
	for volunteerID, entry := range tallies {
		rosterEntry := &RosterEntry{
			VolunteerID:     volunteerID,
			Name:            "Unknown Volunteer",
			EventsJoined:    entry.joined,
			CompletedEvents: entry.completed,
			TotalHours:      int(math.Round(entry.hours)),
			Status:          "completed",
		}

		if entry.joined > entry.completed {
			rosterEntry.Status = "active"
		}

		if account, ok := accounts[volunteerID]; ok {
			rosterEntry.Name = utils.PtrString(account.Name)
			rosterEntry.MemberSince = account.CreatedAt
		}

		roster = append(roster, rosterEntry)
	}

	sort.Slice(roster, func(i, j int) bool {
		return roster[i].MemberSince.After(roster[j].MemberSince)
	})

	return roster, nil
}

type VolunteerStats struct {
	EventsJoined        int `json:"eventsJoined"`
	OrganizationsHelped int `json:"organizationsHelped"`
	HoursVolunteered    int `json:"hoursVolunteered"`
}

// VolunteerStats summarizes the caller's participation. Hours accrue only
// for events that have ended, and each event's hosting organization is
// counted once.
func (s *Service) VolunteerStats(ctx context.Context, civicID, email string) (*VolunteerStats, error) {
	user, err := s.users.OnboardedUser(ctx, civicID, email, types.UserTypeVolunteer)
	if err != nil {
		return nil, err
	}

	events, err := s.events.EventsByVolunteer(ctx, utils.PtrString(user.DataID))
	if err != nil {
		return nil, err
	}

	var (
		hours         float64
		organizations = make(map[string]struct{})
		now           = time.Now()
	)

	for _, event := range events {
		organization, err := s.organizations.OrganizationByEvent(ctx, event.ID)
		if err != nil {
			if errors.Is(err, types.ErrOrganizationNotFound) {
				s.logger.WithField("event_id", event.ID).Warn("event is not referenced by any organization")
				continue
			}

			return nil, err
		}

		organizations[organization.ID] = struct{}{}

		if event.EndTime.Before(now) {
			hours += EstimateHours(event)
		}
	}

	return &VolunteerStats{
		EventsJoined:        len(events),
		OrganizationsHelped: len(organizations),
		HoursVolunteered:    int(math.Round(hours)),
	}, nil
}
