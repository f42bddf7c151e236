package identity

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itskdhere/together-we/pkg/types"
)

func onboardedVolunteerService(t *testing.T) *Service {
	t.Helper()

	service, _ := newService()

	_, err := service.Resolve(context.Background(), "civic-1", "ada@example.com")
	require.NoError(t, err)

	_, err = service.OnboardVolunteer(context.Background(), "civic-1", "ada@example.com", VolunteerOnboardInput{
		Name:     "Ada",
		Username: "ada",
		Bio:      "I plant trees",
		Skills:   "gardening",
	})
	require.NoError(t, err)

	return service
}

func TestVolunteerProfile(t *testing.T) {
	service := onboardedVolunteerService(t)

	profile, err := service.VolunteerProfile(context.Background(), "civic-1", "ada@example.com")
	require.NoError(t, err)

	assert.Equal(t, "Ada", profile.Name)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, "ada", profile.Username)
	assert.Equal(t, "I plant trees", profile.Bio)
	assert.Equal(t, "gardening", profile.Skills)
}

func TestUpdateVolunteerProfile(t *testing.T) {
	service := onboardedVolunteerService(t)

	updated, err := service.UpdateVolunteerProfile(context.Background(), "civic-1", "ada@example.com", UpdateProfileInput{
		Name:   "Ada L.",
		Bio:    "I plant forests",
		Skills: "gardening, logistics",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "I plant forests", updated.Bio)
	assert.Equal(t, "gardening, logistics", updated.Skills)
	assert.Equal(t, "ada", updated.Username, "username is not editable here")

	profile, err := service.VolunteerProfile(context.Background(), "civic-1", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, updated, profile, "update persists to both records")
}

func TestUpdateVolunteerProfileValidation(t *testing.T) {
	service := onboardedVolunteerService(t)

	_, err := service.UpdateVolunteerProfile(context.Background(), "civic-1", "ada@example.com", UpdateProfileInput{
		Bio: "no name supplied",
	})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	assert.Equal(t, "Name", validationErrs[0].StructField())
}

func TestVolunteerProfileRejectsOrganization(t *testing.T) {
	service, _ := newService()

	_, err := service.Resolve(context.Background(), "civic-2", "org@example.com")
	require.NoError(t, err)

	_, err = service.OnboardOrganization(context.Background(), "civic-2", "org@example.com", OrganizationOnboardInput{
		Name:     "Helping Hands",
		Username: "helpinghands",
		Category: "Environment",
		Locality: "Springfield",
	})
	require.NoError(t, err)

	_, err = service.VolunteerProfile(context.Background(), "civic-2", "org@example.com")
	assert.ErrorIs(t, err, types.ErrNotOnboarded)
}
