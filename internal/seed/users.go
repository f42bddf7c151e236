package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/itskdhere/together-we/internal/store"
	"github.com/itskdhere/together-we/internal/utils"
	"github.com/itskdhere/together-we/pkg/types"
)

type fakeUserSeed struct {
	ID       string
	CivicID  string
	Email    string
	Name     string
	Username string
	UserType types.UserType

	// volunteer fields
	Skills string

	// organization fields
	Category string
	Locality string
}

// Fixed IDs keep the seed idempotent across runs.
// To generate new IDs: `go run ./cmd/togetherwe nanoid`
var fakeUsers = []fakeUserSeed{
	{ID: "fYVoltr01aaaaaaaaaaaaaaaaaaaaaa1", CivicID: "seed-civic-vol-1", Email: "ava.williams+seed1@example.com", Name: "Ava Williams", Username: "ava.williams", UserType: types.UserTypeVolunteer, Skills: "gardening, first aid"},
	{ID: "fYVoltr02aaaaaaaaaaaaaaaaaaaaaa2", CivicID: "seed-civic-vol-2", Email: "liam.johnson+seed2@example.com", Name: "Liam Johnson", Username: "liam.johnson", UserType: types.UserTypeVolunteer, Skills: "tutoring, spanish"},
	{ID: "fYVoltr03aaaaaaaaaaaaaaaaaaaaaa3", CivicID: "seed-civic-vol-3", Email: "noah.brown+seed3@example.com", Name: "Noah Brown", Username: "noah.brown", UserType: types.UserTypeVolunteer, Skills: "carpentry"},
	{ID: "fYVoltr04aaaaaaaaaaaaaaaaaaaaaa4", CivicID: "seed-civic-vol-4", Email: "mia.davis+seed4@example.com", Name: "Mia Davis", Username: "mia.davis", UserType: types.UserTypeVolunteer, Skills: "cooking, logistics"},
	{ID: "fYVoltr05aaaaaaaaaaaaaaaaaaaaaa5", CivicID: "seed-civic-vol-5", Email: "elijah.garcia+seed5@example.com", Name: "Elijah Garcia", Username: "elijah.garcia", UserType: types.UserTypeVolunteer, Skills: "photography"},
	{ID: "fYOrgzn01bbbbbbbbbbbbbbbbbbbbbb1", CivicID: "seed-civic-org-1", Email: "hello+seed@greenroots.example.com", Name: "Green Roots Collective", Username: "greenroots", UserType: types.UserTypeOrganization, Category: "Environment", Locality: "Springfield"},
	{ID: "fYOrgzn02bbbbbbbbbbbbbbbbbbbbbb2", CivicID: "seed-civic-org-2", Email: "team+seed@brightminds.example.com", Name: "Bright Minds Tutoring", Username: "brightminds", UserType: types.UserTypeOrganization, Category: "Education", Locality: "Riverton"},
	{ID: "fYOrgzn03bbbbbbbbbbbbbbbbbbbbbb3", CivicID: "seed-civic-org-3", Email: "info+seed@shorelinecare.example.com", Name: "Shoreline Care", Username: "shorelinecare", UserType: types.UserTypeOrganization, Category: "Community", Locality: "Bayview"},
}

func seedVolunteerDataIDs() []string {
	ids := make([]string, 0, len(fakeUsers))
	for _, user := range fakeUsers {
		if user.UserType == types.UserTypeVolunteer {
			ids = append(ids, volunteerDataID(user.ID))
		}
	}
	return ids
}

func seedOrganizationDataIDs() []string {
	ids := make([]string, 0, len(fakeUsers))
	for _, user := range fakeUsers {
		if user.UserType == types.UserTypeOrganization {
			ids = append(ids, organizationDataID(user.ID))
		}
	}
	return ids
}

// Role record ids are derived from the user id so reruns find them again.
func volunteerDataID(userID string) string {
	return "v" + userID[1:]
}

func organizationDataID(userID string) string {
	return "o" + userID[1:]
}

func SeedFakeUsers(
	ctx context.Context,
	userRepo *store.UserRepository,
	volunteerRepo *store.VolunteerRepository,
	organizationRepo *store.OrganizationRepository,
) error {
	seeded := 0
	for _, fakeUser := range fakeUsers {
		dataID, err := ensureRoleRecord(ctx, fakeUser, volunteerRepo, organizationRepo)
		if err != nil {
			return err
		}

		userType := string(fakeUser.UserType)
		record := &types.User{
			ID:        fakeUser.ID,
			CivicID:   fakeUser.CivicID,
			Email:     fakeUser.Email,
			Name:      utils.StringPtr(fakeUser.Name),
			Username:  utils.StringPtr(fakeUser.Username),
			UserType:  &userType,
			DataID:    utils.StringPtr(dataID),
			Onboarded: true,
		}

		existing, err := userRepo.User(ctx, fakeUser.ID)
		if err != nil {
			if !errors.Is(err, types.ErrUserNotFound) {
				return fmt.Errorf("failed to fetch fake user %s: %w", fakeUser.ID, err)
			}

			if err := userRepo.Create(ctx, record); err != nil {
				return fmt.Errorf("failed to create fake user %s: %w", fakeUser.ID, err)
			}
			seeded++
			continue
		}

		record.CreatedAt = existing.CreatedAt
		if err := userRepo.Update(ctx, fakeUser.ID, record); err != nil {
			return fmt.Errorf("failed to update fake user %s: %w", fakeUser.ID, err)
		}
		seeded++
	}

	fmt.Printf("Fake users seeded: %d upserted\n", seeded)
	return nil
}

func ensureRoleRecord(
	ctx context.Context,
	fakeUser fakeUserSeed,
	volunteerRepo *store.VolunteerRepository,
	organizationRepo *store.OrganizationRepository,
) (string, error) {
	switch fakeUser.UserType {
	case types.UserTypeVolunteer:
		dataID := volunteerDataID(fakeUser.ID)

		_, err := volunteerRepo.Volunteer(ctx, dataID)
		if err == nil {
			return dataID, nil
		}
		if !errors.Is(err, types.ErrVolunteerNotFound) {
			return "", fmt.Errorf("failed to fetch fake volunteer %s: %w", dataID, err)
		}

		volunteer := &types.Volunteer{
			ID:     dataID,
			Skills: utils.StringPtr(fakeUser.Skills),
		}
		if err := volunteerRepo.Create(ctx, volunteer); err != nil {
			return "", fmt.Errorf("failed to create fake volunteer %s: %w", dataID, err)
		}

		return dataID, nil
	case types.UserTypeOrganization:
		dataID := organizationDataID(fakeUser.ID)

		_, err := organizationRepo.Organization(ctx, dataID)
		if err == nil {
			return dataID, nil
		}
		if !errors.Is(err, types.ErrOrganizationNotFound) {
			return "", fmt.Errorf("failed to fetch fake organization %s: %w", dataID, err)
		}

		organization := &types.Organization{
			ID:       dataID,
			Category: utils.StringPtr(fakeUser.Category),
			Locality: utils.StringPtr(fakeUser.Locality),
		}
		if err := organizationRepo.Create(ctx, organization); err != nil {
			return "", fmt.Errorf("failed to create fake organization %s: %w", dataID, err)
		}

		return dataID, nil
	}

	return "", fmt.Errorf("unknown user type %q for fake user %s", fakeUser.UserType, fakeUser.ID)
}
