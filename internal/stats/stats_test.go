package stats

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itskdhere/together-we/internal/utils"
	"github.com/itskdhere/together-we/pkg/types"
)

type fakeUserStore struct {
	onboarded map[string]*types.User
	accounts  map[string]*types.User
}

func (f *fakeUserStore) OnboardedUser(_ context.Context, civicID, _ string, userType types.UserType) (*types.User, error) {
	user, ok := f.onboarded[civicID]
	if !ok || utils.PtrString(user.UserType) != string(userType) {
		return nil, types.ErrUserNotFound
	}

	return user, nil
}

func (f *fakeUserStore) UsersByDataIDs(_ context.Context, dataIDs []string) ([]*types.User, error) {
	var users []*types.User
	for _, dataID := range dataIDs {
		if user, ok := f.accounts[dataID]; ok {
			users = append(users, user)
		}
	}

	return users, nil
}

type fakeEventStore struct {
	events map[string]*types.Event
}

func (f *fakeEventStore) EventsByIDs(_ context.Context, eventIDs []string) ([]*types.Event, error) {
	var events []*types.Event
	for _, eventID := range eventIDs {
		if event, ok := f.events[eventID]; ok {
			events = append(events, event)
		}
	}

	return events, nil
}

func (f *fakeEventStore) EventsByVolunteer(_ context.Context, volunteerID string) ([]*types.Event, error) {
	var events []*types.Event
	for _, event := range f.events {
		if event.HasVolunteer(volunteerID) {
			events = append(events, event)
		}
	}

	return events, nil
}

type fakeOrganizationStore struct {
	organizations map[string]*types.Organization
}

func (f *fakeOrganizationStore) Organization(_ context.Context, organizationID string) (*types.Organization, error) {
	organization, ok := f.organizations[organizationID]
	if !ok {
		return nil, types.ErrOrganizationNotFound
	}

	return organization, nil
}

func (f *fakeOrganizationStore) OrganizationByEvent(_ context.Context, eventID string) (*types.Organization, error) {
	for _, organization := range f.organizations {
		for _, ownedEventID := range organization.Events {
			if ownedEventID == eventID {
				return organization, nil
			}
		}
	}

	return nil, types.ErrOrganizationNotFound
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func organizationUser(civicID, dataID string) *types.User {
	return &types.User{
		ID:        "user-" + civicID,
		CivicID:   civicID,
		Email:     civicID + "@example.com",
		Name:      utils.StringPtr("Helping Hands"),
		UserType:  utils.StringPtr(string(types.UserTypeOrganization)),
		DataID:    utils.StringPtr(dataID),
		Onboarded: true,
	}
}

func volunteerUser(civicID, dataID, name string, createdAt time.Time) *types.User {
	return &types.User{
		ID:        "user-" + civicID,
		CivicID:   civicID,
		Email:     civicID + "@example.com",
		Name:      utils.StringPtr(name),
		UserType:  utils.StringPtr(string(types.UserTypeVolunteer)),
		DataID:    utils.StringPtr(dataID),
		Onboarded: true,
		CreatedAt: createdAt,
	}
}

func TestStatusAt(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		event    *types.Event
		expected EventStatus
	}{
		{
			name: "upcoming with open slots",
			event: &types.Event{
				VolunteerCap:     5,
				EndTime:          now.Add(2 * time.Hour),
				JoinedVolunteers: []string{"v1"},
			},
			expected: EventStatusActive,
		},
		{
			name: "ended with open slots",
			event: &types.Event{
				VolunteerCap:     5,
				EndTime:          now.Add(-time.Hour),
				JoinedVolunteers: []string{"v1"},
			},
			expected: EventStatusCompleted,
		},
		{
			name: "upcoming at capacity",
			event: &types.Event{
				VolunteerCap:     2,
				EndTime:          now.Add(2 * time.Hour),
				JoinedVolunteers: []string{"v1", "v2"},
			},
			expected: EventStatusFull,
		},
		{
			name: "ended at capacity reports full",
			event: &types.Event{
				VolunteerCap:     2,
				EndTime:          now.Add(-time.Hour),
				JoinedVolunteers: []string{"v1", "v2"},
			},
			expected: EventStatusFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusAt(tt.event, now))
		})
	}
}

func TestOrganizationStats(t *testing.T) {
	now := time.Now()

	completed := &types.Event{
		ID:               "event-1",
		VolunteerCap:     10,
		StartTime:        now.Add(-26 * time.Hour),
		EndTime:          now.Add(-24 * time.Hour),
		JoinedVolunteers: []string{"vol-1", "vol-2"},
	}

	active := &types.Event{
		ID:               "event-2",
		VolunteerCap:     10,
		StartTime:        now.Add(24 * time.Hour),
		EndTime:          now.Add(27 * time.Hour),
		JoinedVolunteers: []string{"vol-2", "vol-3"},
	}

	service := New(
		discardLogger(),
		&fakeUserStore{
			onboarded: map[string]*types.User{
				"civic-org": organizationUser("civic-org", "org-1"),
			},
		},
		&fakeEventStore{
			events: map[string]*types.Event{
				"event-1": completed,
				"event-2": active,
			},
		},
		&fakeOrganizationStore{
			organizations: map[string]*types.Organization{
				"org-1": {
					ID:     "org-1",
					Events: []string{"event-1", "event-2", "event-gone"},
				},
			},
		},
	)

	out, err := service.OrganizationStats(context.Background(), "civic-org", "civic-org@example.com")
	require.NoError(t, err)

	assert.Equal(t, 3, out.TotalVolunteers)
	assert.Equal(t, 1, out.ActiveOpportunities)
	assert.Equal(t, 1, out.CompletedProjects)
	assert.Equal(t, 4, out.TotalHoursLogged, "two hours per joiner for the completed event")
}

func TestOrganizationStatsUnknownCaller(t *testing.T) {
	service := New(
		discardLogger(),
		&fakeUserStore{onboarded: map[string]*types.User{}},
		&fakeEventStore{},
		&fakeOrganizationStore{},
	)

	_, err := service.OrganizationStats(context.Background(), "civic-missing", "missing@example.com")
	assert.ErrorIs(t, err, types.ErrUserNotFound)
}

func TestVolunteerRoster(t *testing.T) {
	now := time.Now()

	service := New(
		discardLogger(),
		&fakeUserStore{
			onboarded: map[string]*types.User{
				"civic-org": organizationUser("civic-org", "org-1"),
			},
			accounts: map[string]*types.User{
				"vol-old": volunteerUser("civic-old", "vol-old", "Ada", now.Add(-48*time.Hour)),
				"vol-new": volunteerUser("civic-new", "vol-new", "Grace", now.Add(-time.Hour)),
			},
		},
		&fakeEventStore{
			events: map[string]*types.Event{
				"event-done": {
					ID:               "event-done",
					VolunteerCap:     10,
					StartTime:        now.Add(-5 * time.Hour),
					EndTime:          now.Add(-2 * time.Hour),
					JoinedVolunteers: []string{"vol-old", "vol-new"},
				},
				"event-live": {
					ID:               "event-live",
					VolunteerCap:     10,
					StartTime:        now.Add(time.Hour),
					EndTime:          now.Add(4 * time.Hour),
					JoinedVolunteers: []string{"vol-new", "vol-ghost"},
				},
			},
		},
		&fakeOrganizationStore{
			organizations: map[string]*types.Organization{
				"org-1": {
					ID:     "org-1",
					Events: []string{"event-done", "event-live"},
				},
			},
		},
	)

	roster, err := service.VolunteerRoster(context.Background(), "civic-org", "civic-org@example.com")
	require.NoError(t, err)
	require.Len(t, roster, 3)

	assert.Equal(t, "Grace", roster[0].Name, "newest account first")
	assert.Equal(t, 2, roster[0].EventsJoined)
	assert.Equal(t, 1, roster[0].CompletedEvents)
	assert.Equal(t, 3, roster[0].TotalHours)
	assert.Equal(t, "active", roster[0].Status)

	assert.Equal(t, "Ada", roster[1].Name)
	assert.Equal(t, 1, roster[1].EventsJoined)
	assert.Equal(t, 1, roster[1].CompletedEvents)
	assert.Equal(t, "completed", roster[1].Status)

	assert.Equal(t, "Unknown Volunteer", roster[2].Name, "unresolvable volunteer ids still appear")
	assert.Equal(t, "vol-ghost", roster[2].VolunteerID)
	assert.Equal(t, "active", roster[2].Status)
}

func TestVolunteerStats(t *testing.T) {
	now := time.Now()

	service := New(
		discardLogger(),
		&fakeUserStore{
			onboarded: map[string]*types.User{
				"civic-vol": volunteerUser("civic-vol", "vol-1", "Ada", now.Add(-72*time.Hour)),
			},
		},
		&fakeEventStore{
			events: map[string]*types.Event{
				"event-a": {
					ID:               "event-a",
					VolunteerCap:     10,
					StartTime:        now.Add(-6 * time.Hour),
					EndTime:          now.Add(-3 * time.Hour),
					JoinedVolunteers: []string{"vol-1"},
				},
				"event-b": {
					ID:               "event-b",
					VolunteerCap:     10,
					StartTime:        now.Add(time.Hour),
					EndTime:          now.Add(5 * time.Hour),
					JoinedVolunteers: []string{"vol-1"},
				},
				"event-c": {
					ID:               "event-c",
					VolunteerCap:     10,
					StartTime:        now.Add(-10 * time.Hour),
					EndTime:          now.Add(-8 * time.Hour),
					JoinedVolunteers: []string{"vol-1"},
				},
			},
		},
		&fakeOrganizationStore{
			organizations: map[string]*types.Organization{
				"org-1": {ID: "org-1", Events: []string{"event-a", "event-b"}},
				"org-2": {ID: "org-2", Events: []string{"event-c"}},
			},
		},
	)

	out, err := service.VolunteerStats(context.Background(), "civic-vol", "civic-vol@example.com")
	require.NoError(t, err)

	assert.Equal(t, 3, out.EventsJoined)
	assert.Equal(t, 2, out.OrganizationsHelped)
	assert.Equal(t, 5, out.HoursVolunteered, "three hours for event-a plus two for event-c")
}
