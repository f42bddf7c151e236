package identity

import (
	"context"
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itskdhere/together-we/internal/utils"
	"github.com/itskdhere/together-we/pkg/types"
)

type fakeUserStore struct {
	users map[string]*types.User
}

func (f *fakeUserStore) UserByIdentity(_ context.Context, civicID, email string) (*types.User, error) {
	for _, user := range f.users {
		if user.CivicID == civicID && user.Email == email {
			return user, nil
		}
	}

	return nil, types.ErrUserNotFound
}

func (f *fakeUserStore) UserByUsername(_ context.Context, username string) (*types.User, error) {
	for _, user := range f.users {
		if utils.PtrString(user.Username) == username {
			return user, nil
		}
	}

	return nil, types.ErrUserNotFound
}

func (f *fakeUserStore) Create(_ context.Context, user *types.User) error {
	if user.ID == "" {
		user.ID = "user-" + utils.NanoID()
	}

	f.users[user.ID] = user

	return nil
}

func (f *fakeUserStore) Update(_ context.Context, userID string, user *types.User) error {
	if _, ok := f.users[userID]; !ok {
		return types.ErrUserNotFound
	}

	f.users[userID] = user

	return nil
}

type fakeVolunteerStore struct {
	volunteers map[string]*types.Volunteer
}

func (f *fakeVolunteerStore) Volunteer(_ context.Context, volunteerID string) (*types.Volunteer, error) {
	volunteer, ok := f.volunteers[volunteerID]
	if !ok {
		return nil, types.ErrVolunteerNotFound
	}

	return volunteer, nil
}

func (f *fakeVolunteerStore) Create(_ context.Context, volunteer *types.Volunteer) error {
	if volunteer.ID == "" {
		volunteer.ID = "vol-" + utils.NanoID()
	}

	f.volunteers[volunteer.ID] = volunteer

	return nil
}

func (f *fakeVolunteerStore) Update(_ context.Context, volunteerID string, volunteer *types.Volunteer) error {
	if _, ok := f.volunteers[volunteerID]; !ok {
		return types.ErrVolunteerNotFound
	}

	f.volunteers[volunteerID] = volunteer

	return nil
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

func (f *fakeOrganizationStore) Create(_ context.Context, organization *types.Organization) error {
	if organization.ID == "" {
		organization.ID = "org-" + utils.NanoID()
	}

	f.organizations[organization.ID] = organization

	return nil
}

func newService() (*Service, *fakeUserStore) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	users := &fakeUserStore{users: map[string]*types.User{}}

	service := New(
		logger,
		users,
		&fakeVolunteerStore{volunteers: map[string]*types.Volunteer{}},
		&fakeOrganizationStore{organizations: map[string]*types.Organization{}},
	)

	return service, users
}

func TestResolveFirstLogin(t *testing.T) {
	service, users := newService()

	resolution, err := service.Resolve(context.Background(), "civic-1", "ada@example.com")
	require.NoError(t, err)

	assert.True(t, resolution.FirstLogin)
	assert.Equal(t, DestinationOnboarding, resolution.Destination)
	assert.Nil(t, resolution.Role)
	assert.False(t, resolution.User.Onboarded)
	assert.Len(t, users.users, 1, "first login persists the user")

	resolution, err = service.Resolve(context.Background(), "civic-1", "ada@example.com")
	require.NoError(t, err)

	assert.False(t, resolution.FirstLogin, "second login reuses the existing user")
	assert.Equal(t, DestinationOnboarding, resolution.Destination)
	assert.Len(t, users.users, 1)
}

func TestResolveRejectsEmptyIdentity(t *testing.T) {
	service, _ := newService()

	_, err := service.Resolve(context.Background(), "", "ada@example.com")
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)

	_, err = service.Resolve(context.Background(), "civic-1", "")
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)
}

func TestOnboardVolunteerThenResolve(t *testing.T) {
	service, _ := newService()

	_, err := service.Resolve(context.Background(), "civic-1", "ada@example.com")
	require.NoError(t, err)

	user, err := service.OnboardVolunteer(context.Background(), "civic-1", "ada@example.com", VolunteerOnboardInput{
		Name:     "Ada",
		Username: "ada",
		Bio:      "I plant trees",
		Skills:   "gardening",
	})
	require.NoError(t, err)

	assert.True(t, user.Onboarded)
	assert.Equal(t, string(types.UserTypeVolunteer), utils.PtrString(user.UserType))
	require.NotNil(t, user.DataID)

	resolution, err := service.Resolve(context.Background(), "civic-1", "ada@example.com")
	require.NoError(t, err)

	assert.Equal(t, DestinationVolunteerDashboard, resolution.Destination)

	role, ok := resolution.Role.(VolunteerRole)
	require.True(t, ok, "onboarded volunteer resolves to a volunteer role")
	assert.Equal(t, utils.PtrString(user.DataID), role.Volunteer.ID)
	assert.Equal(t, "gardening", utils.PtrString(role.Volunteer.Skills))
}

func TestOnboardOrganizationThenResolve(t *testing.T) {
	service, _ := newService()

	_, err := service.Resolve(context.Background(), "civic-2", "org@example.com")
	require.NoError(t, err)

	user, err := service.OnboardOrganization(context.Background(), "civic-2", "org@example.com", OrganizationOnboardInput{
		Name:     "Helping Hands",
		Username: "helpinghands",
		Category: "Environment",
		Locality: "Springfield",
	})
	require.NoError(t, err)

	resolution, err := service.Resolve(context.Background(), "civic-2", "org@example.com")
	require.NoError(t, err)

	assert.Equal(t, DestinationOrganizationDashboard, resolution.Destination)

	role, ok := resolution.Role.(OrganizationRole)
	require.True(t, ok)
	assert.Equal(t, utils.PtrString(user.DataID), role.Organization.ID)
	assert.Equal(t, "Environment", utils.PtrString(role.Organization.Category))
}

func TestOnboardDuplicateUsername(t *testing.T) {
	service, _ := newService()

	_, err := service.Resolve(context.Background(), "civic-1", "ada@example.com")
	require.NoError(t, err)

	_, err = service.Resolve(context.Background(), "civic-2", "grace@example.com")
	require.NoError(t, err)

	_, err = service.OnboardVolunteer(context.Background(), "civic-1", "ada@example.com", VolunteerOnboardInput{
		Name:     "Ada",
		Username: "pioneer",
	})
	require.NoError(t, err)

	_, err = service.OnboardVolunteer(context.Background(), "civic-2", "grace@example.com", VolunteerOnboardInput{
		Name:     "Grace",
		Username: "pioneer",
	})
	assert.ErrorIs(t, err, types.ErrUsernameTaken)
}

func TestOnboardValidation(t *testing.T) {
	service, _ := newService()

	_, err := service.Resolve(context.Background(), "civic-1", "ada@example.com")
	require.NoError(t, err)

	_, err = service.OnboardVolunteer(context.Background(), "civic-1", "ada@example.com", VolunteerOnboardInput{
		Name: "Ada",
	})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Equal(t, "Username", validationErrs[0].StructField())

	_, err = service.OnboardOrganization(context.Background(), "civic-1", "ada@example.com", OrganizationOnboardInput{
		Name:     "Helping Hands",
		Username: "helpinghands",
	})

	require.ErrorAs(t, err, &validationErrs)
	assert.Len(t, validationErrs, 2, "category and locality are both required")
}

func TestOnboardUnknownIdentity(t *testing.T) {
	service, _ := newService()

	_, err := service.OnboardVolunteer(context.Background(), "civic-unknown", "nobody@example.com", VolunteerOnboardInput{
		Name:     "Nobody",
		Username: "nobody",
	})
	assert.ErrorIs(t, err, types.ErrUserNotFound)
}
