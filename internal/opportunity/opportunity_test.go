package opportunity

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
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

func (f *fakeUserStore) UserByDataID(_ context.Context, dataID string) (*types.User, error) {
	user, ok := f.accounts[dataID]
	if !ok {
		return nil, types.ErrUserNotFound
	}

	return user, nil
}

type fakeEventStore struct {
	events        map[string]*types.Event
	organizations map[string]*types.Organization

	addVolunteerErr  error
	beforeAddRefused func()
}

func (f *fakeEventStore) Event(_ context.Context, eventID string) (*types.Event, error) {
	event, ok := f.events[eventID]
	if !ok {
		return nil, types.ErrEventNotFound
	}

	return event, nil
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

func (f *fakeEventStore) AllEvents(_ context.Context) ([]*types.Event, error) {
	var events []*types.Event
	for _, event := range f.events {
		events = append(events, event)
	}

	return events, nil
}

func (f *fakeEventStore) Search(_ context.Context, _ string) ([]*types.Event, error) {
	return f.AllEvents(context.Background())
}

func (f *fakeEventStore) CreateForOrganization(_ context.Context, organizationID string, event *types.Event) (*types.Event, error) {
	organization, ok := f.organizations[organizationID]
	if !ok {
		return nil, types.ErrOrganizationNotFound
	}

	event.ID = "event-" + utils.NanoID()
	f.events[event.ID] = event
	organization.Events = append(organization.Events, event.ID)

	return event, nil
}

func (f *fakeEventStore) UpdateFields(_ context.Context, eventID string, fields map[string]interface{}) (*types.Event, error) {
	event, ok := f.events[eventID]
	if !ok {
		return nil, types.ErrEventNotFound
	}

	if name, ok := fields["name"]; ok {
		event.Name = name.(string)
	}

	if description, ok := fields["description"]; ok {
		event.Description = description.(string)
	}

	if cap, ok := fields["volunteer_cap"]; ok {
		event.VolunteerCap = cap.(int)
	}

	if location, ok := fields["location"]; ok {
		event.Location = location.(string)
	}

	if skills, ok := fields["required_skills"]; ok {
		event.RequiredSkills = skills.(string)
	}

	if startTime, ok := fields["start_time"]; ok {
		event.StartTime = startTime.(time.Time)
	}

	if endTime, ok := fields["end_time"]; ok {
		event.EndTime = endTime.(time.Time)
	}

	return event, nil
}

func (f *fakeEventStore) DeleteForOrganization(_ context.Context, organizationID, eventID string) error {
	delete(f.events, eventID)

	if organization, ok := f.organizations[organizationID]; ok {
		remaining := organization.Events[:0]
		for _, ownedEventID := range organization.Events {
			if ownedEventID != eventID {
				remaining = append(remaining, ownedEventID)
			}
		}

		organization.Events = remaining
	}

	return nil
}

func (f *fakeEventStore) DeleteAllForOrganization(_ context.Context, organizationID string) (int64, error) {
	organization, ok := f.organizations[organizationID]
	if !ok {
		return 0, types.ErrOrganizationNotFound
	}

	var deleted int64
	for _, eventID := range organization.Events {
		if _, ok := f.events[eventID]; ok {
			delete(f.events, eventID)
			deleted++
		}
	}

	organization.Events = []string{}

	return deleted, nil
}

func (f *fakeEventStore) AddVolunteer(_ context.Context, eventID, volunteerID string) (int, error) {
	if f.addVolunteerErr != nil {
		if f.beforeAddRefused != nil {
			f.beforeAddRefused()
		}

		return 0, f.addVolunteerErr
	}

	event, ok := f.events[eventID]
	if !ok {
		return 0, types.ErrEventNotFound
	}

	if event.HasVolunteer(volunteerID) || len(event.JoinedVolunteers) >= event.VolunteerCap {
		return 0, types.ErrEventFull
	}

	event.JoinedVolunteers = append(event.JoinedVolunteers, volunteerID)

	return len(event.JoinedVolunteers), nil
}

func (f *fakeEventStore) RemoveVolunteer(_ context.Context, eventID, volunteerID string) (int, error) {
	event, ok := f.events[eventID]
	if !ok {
		return 0, types.ErrEventNotFound
	}

	remaining := make([]string, 0, len(event.JoinedVolunteers))
	for _, joinedID := range event.JoinedVolunteers {
		if joinedID != volunteerID {
			remaining = append(remaining, joinedID)
		}
	}

	event.JoinedVolunteers = remaining

	return len(event.JoinedVolunteers), nil
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

type fakeVolunteerStore struct {
	experience map[string][]string
	badges     map[string][]string
}

func (f *fakeVolunteerStore) AwardBadge(_ context.Context, volunteerID, badgeID string) error {
	f.badges[volunteerID] = append(f.badges[volunteerID], badgeID)
	return nil
}

func (f *fakeVolunteerStore) AppendExperience(_ context.Context, volunteerID, eventID string) error {
	f.experience[volunteerID] = append(f.experience[volunteerID], eventID)
	return nil
}

func (f *fakeVolunteerStore) RemoveExperience(_ context.Context, volunteerID, eventID string) error {
	remaining := make([]string, 0, len(f.experience[volunteerID]))
	for _, experiencedEventID := range f.experience[volunteerID] {
		if experiencedEventID != eventID {
			remaining = append(remaining, experiencedEventID)
		}
	}

	f.experience[volunteerID] = remaining

	return nil
}

type fakeBadgeStore struct {
	badges map[string]*types.Badge
}

func (f *fakeBadgeStore) BadgeByName(_ context.Context, name string) (*types.Badge, error) {
	badge, ok := f.badges[name]
	if !ok {
		return nil, types.ErrBadgeNotFound
	}

	return badge, nil
}

type fixture struct {
	service    *Service
	events     *fakeEventStore
	volunteers *fakeVolunteerStore
}

func newFixture() *fixture {
	organizations := map[string]*types.Organization{
		"org-1": {
			ID:       "org-1",
			Category: utils.StringPtr("Environment"),
			Events:   []string{},
		},
	}

	events := &fakeEventStore{
		events:        map[string]*types.Event{},
		organizations: organizations,
	}

	volunteers := &fakeVolunteerStore{
		experience: map[string][]string{},
		badges:     map[string][]string{},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	service := New(
		logger,
		&fakeUserStore{
			onboarded: map[string]*types.User{
				"civic-org": {
					ID:        "user-org",
					CivicID:   "civic-org",
					Email:     "org@example.com",
					Name:      utils.StringPtr("Helping Hands"),
					UserType:  utils.StringPtr(string(types.UserTypeOrganization)),
					DataID:    utils.StringPtr("org-1"),
					Onboarded: true,
				},
				"civic-vol": {
					ID:        "user-vol",
					CivicID:   "civic-vol",
					Email:     "vol@example.com",
					Name:      utils.StringPtr("Ada"),
					UserType:  utils.StringPtr(string(types.UserTypeVolunteer)),
					DataID:    utils.StringPtr("vol-1"),
					Onboarded: true,
				},
			},
			accounts: map[string]*types.User{
				"org-1": {
					ID:     "user-org",
					Name:   utils.StringPtr("Helping Hands"),
					DataID: utils.StringPtr("org-1"),
				},
			},
		},
		events,
		&fakeOrganizationStore{organizations: organizations},
		volunteers,
		&fakeBadgeStore{
			badges: map[string]*types.Badge{
				"First Step": {ID: "badge-first-step", Name: "First Step"},
			},
		},
	)

	return &fixture{service: service, events: events, volunteers: volunteers}
}

func (f *fixture) seedEvent(t *testing.T, cap int, joined ...string) *types.Event {
	t.Helper()

	event := &types.Event{
		Name:             "Beach Cleanup",
		Description:      "Clear the shoreline",
		VolunteerCap:     cap,
		Location:         "Pier 4",
		StartTime:        time.Now().Add(24 * time.Hour),
		EndTime:          time.Now().Add(27 * time.Hour),
		JoinedVolunteers: append([]string{}, joined...),
	}

	event, err := f.events.CreateForOrganization(context.Background(), "org-1", event)
	require.NoError(t, err)

	return event
}

func TestCreateDefaultsEndTime(t *testing.T) {
	f := newFixture()

	event, err := f.service.Create(context.Background(), "civic-org", "org@example.com", CreateOpportunityInput{
		Title:            "Park Restoration",
		Description:      "Replant the north meadow",
		Category:         "Environment",
		Date:             "2026-04-18",
		StartTime:        "09:30",
		Location:         "Riverside Park",
		VolunteersNeeded: 12,
		SkillsRequired:   []string{"gardening", "teamwork"},
		ContactEmail:     "org@example.com",
	})
	require.NoError(t, err)

	expectedStart := time.Date(2026, time.April, 18, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, expectedStart, event.StartTime)
	assert.Equal(t, expectedStart.Add(3*time.Hour), event.EndTime, "end time defaults to three hours after start")
	assert.Equal(t, "gardening, teamwork", event.RequiredSkills)
	assert.Empty(t, event.JoinedVolunteers)
}

func TestCreateRemoteOverridesLocation(t *testing.T) {
	f := newFixture()

	event, err := f.service.Create(context.Background(), "civic-org", "org@example.com", CreateOpportunityInput{
		Title:            "Online Tutoring",
		Description:      "Math help over video calls",
		Category:         "Education",
		Date:             "2026-04-18",
		StartTime:        "17:00",
		EndTime:          "18:00",
		IsRemote:         true,
		VolunteersNeeded: 4,
		ContactEmail:     "org@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "Remote/Virtual", event.Location)
	assert.Equal(t, time.Hour, event.EndTime.Sub(event.StartTime))
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), "civic-org", "org@example.com", CreateOpportunityInput{
		Description:      "No title supplied",
		Category:         "Environment",
		Date:             "2026-04-18",
		StartTime:        "09:30",
		Location:         "Riverside Park",
		VolunteersNeeded: 12,
		ContactEmail:     "org@example.com",
	})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
}

func TestCreateRejectsVolunteerCaller(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), "civic-vol", "vol@example.com", CreateOpportunityInput{})
	assert.ErrorIs(t, err, types.ErrUserNotFound)
}

func TestUpdatePartialFields(t *testing.T) {
	f := newFixture()
	event := f.seedEvent(t, 10)

	originalStart := event.StartTime

	date := "2026-05-01"
	endTime := "21:00"
	title := "Beach Cleanup (Extended)"

	updated, err := f.service.Update(context.Background(), "civic-org", "org@example.com", event.ID, UpdateOpportunityInput{
		Title:   &title,
		Date:    &date,
		EndTime: &endTime,
	})
	require.NoError(t, err)

	assert.Equal(t, "Beach Cleanup (Extended)", updated.Name)
	assert.Equal(t, originalStart, updated.StartTime, "start time untouched without a new start clock")
	assert.Equal(t, time.Date(2026, time.May, 1, 21, 0, 0, 0, time.UTC), updated.EndTime)
	assert.Equal(t, "Clear the shoreline", updated.Description)
}

func TestUpdateUnknownEvent(t *testing.T) {
	f := newFixture()

	_, err := f.service.Update(context.Background(), "civic-org", "org@example.com", "event-missing", UpdateOpportunityInput{})
	assert.ErrorIs(t, err, types.ErrEventNotFound)
}

func TestDeleteAll(t *testing.T) {
	f := newFixture()
	f.seedEvent(t, 10)
	f.seedEvent(t, 10)

	deleted, err := f.service.DeleteAll(context.Background(), "civic-org", "org@example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	deleted, err = f.service.DeleteAll(context.Background(), "civic-org", "org@example.com")
	require.NoError(t, err, "deleting with nothing published is not an error")
	assert.EqualValues(t, 0, deleted)
}

func TestJoin(t *testing.T) {
	f := newFixture()
	event := f.seedEvent(t, 2)

	joined, err := f.service.Join(context.Background(), "civic-vol", "vol@example.com", event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, joined)
	assert.Equal(t, []string{event.ID}, f.volunteers.experience["vol-1"], "join mirrors into the experience cache")
	assert.Equal(t, []string{"badge-first-step"}, f.volunteers.badges["vol-1"], "first join awards the starter badge")

	_, err = f.service.Join(context.Background(), "civic-vol", "vol@example.com", event.ID)
	assert.ErrorIs(t, err, types.ErrAlreadyJoined)
}

func TestJoinFull(t *testing.T) {
	f := newFixture()
	event := f.seedEvent(t, 2, "vol-a", "vol-b")

	_, err := f.service.Join(context.Background(), "civic-vol", "vol@example.com", event.ID)
	assert.ErrorIs(t, err, types.ErrEventFull)
}

func TestJoinLostRaceToDuplicate(t *testing.T) {
	f := newFixture()
	event := f.seedEvent(t, 5)

	// The pre-read sees no membership, then the conditional append is
	// refused because the same volunteer landed in the array meanwhile.
	f.events.addVolunteerErr = types.ErrEventFull
	f.events.beforeAddRefused = func() {
		event.JoinedVolunteers = append(event.JoinedVolunteers, "vol-1")
	}

	_, err := f.service.Join(context.Background(), "civic-vol", "vol@example.com", event.ID)
	assert.ErrorIs(t, err, types.ErrAlreadyJoined)
}

func TestLeave(t *testing.T) {
	f := newFixture()
	event := f.seedEvent(t, 5, "vol-1", "vol-2")
	f.volunteers.experience["vol-1"] = []string{event.ID}

	remaining, err := f.service.Leave(context.Background(), "civic-vol", "vol@example.com", event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
	assert.Empty(t, f.volunteers.experience["vol-1"], "leave clears the experience cache entry")

	_, err = f.service.Leave(context.Background(), "civic-vol", "vol@example.com", event.ID)
	assert.ErrorIs(t, err, types.ErrNotJoined)
}

func TestBrowseEventsAnnotations(t *testing.T) {
	f := newFixture()
	event := f.seedEvent(t, 5, "vol-1")

	orphan := &types.Event{
		Name:             "Orphaned Drive",
		VolunteerCap:     5,
		StartTime:        time.Now().Add(24 * time.Hour),
		EndTime:          time.Now().Add(26 * time.Hour),
		JoinedVolunteers: []string{},
	}
	orphan.ID = "event-orphan"
	f.events.events[orphan.ID] = orphan

	browse, err := f.service.BrowseEvents(context.Background(), "civic-vol", "vol@example.com")
	require.NoError(t, err)
	require.Len(t, browse, 2)

	byID := make(map[string]*BrowseEvent, len(browse))
	for _, entry := range browse {
		byID[entry.ID] = entry
	}

	hosted := byID[event.ID]
	require.NotNil(t, hosted)
	assert.Equal(t, "Helping Hands", hosted.Organization)
	assert.Equal(t, "Environment", hosted.Category)
	assert.True(t, hosted.IsAlreadyJoined)

	unhosted := byID["event-orphan"]
	require.NotNil(t, unhosted)
	assert.Equal(t, "Unknown Organization", unhosted.Organization)
	assert.Equal(t, "General", unhosted.Category)
	assert.False(t, unhosted.IsAlreadyJoined)
}

func TestSearchEventsCategoryFilter(t *testing.T) {
	f := newFixture()
	f.seedEvent(t, 5)

	matches, err := f.service.SearchEvents(context.Background(), "civic-vol", "vol@example.com", "beach", "Environment")
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	matches, err = f.service.SearchEvents(context.Background(), "civic-vol", "vol@example.com", "beach", "Education")
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = f.service.SearchEvents(context.Background(), "civic-vol", "vol@example.com", "beach", "all")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
