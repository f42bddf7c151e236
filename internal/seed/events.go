package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itskdhere/together-we/internal/store"
	"github.com/itskdhere/together-we/pkg/types"
)

var fakeEventTemplates = []struct {
	Name           string
	Description    string
	RequiredSkills string
	Location       string
}{
	{Name: "[seed] River Cleanup", Description: "Pull trash and debris from the river banks before spring rains.", RequiredSkills: "teamwork", Location: "Miller's Crossing"},
	{Name: "[seed] Community Garden Day", Description: "Prepare beds and plant seedlings at the neighborhood garden.", RequiredSkills: "gardening", Location: "Elm Street Garden"},
	{Name: "[seed] Homework Club", Description: "Help middle schoolers with math and reading after school.", RequiredSkills: "tutoring, patience", Location: "Public Library"},
	{Name: "[seed] Food Bank Sorting", Description: "Sort and shelve donated goods for weekend distribution.", RequiredSkills: "logistics", Location: "Warehouse 12"},
	{Name: "[seed] Senior Tech Help", Description: "Walk seniors through phones, email, and video calls.", RequiredSkills: "patience, communication", Location: "Remote/Virtual"},
	{Name: "[seed] Park Trail Repair", Description: "Rebuild washed-out sections of the lakeside trail.", RequiredSkills: "carpentry", Location: "Lakeside Park"},
}

func SeedFakeEvents(
	ctx context.Context,
	pool *pgxpool.Pool,
	eventRepo *store.EventRepository,
	volunteerRepo *store.VolunteerRepository,
	count int,
	reset bool,
) error {
	if count <= 0 {
		fmt.Println("Skipping fake events seed because count <= 0")
		return nil
	}

	if reset {
		result, err := pool.Exec(ctx, `DELETE FROM togetherwe.events WHERE name LIKE '[seed] %'`)
		if err != nil {
			return fmt.Errorf("failed to reset seeded fake events: %w", err)
		}
		fmt.Printf("Reset seeded fake events: %d deleted\n", result.RowsAffected())
	}

	organizationIDs := seedOrganizationDataIDs()
	if len(organizationIDs) == 0 {
		return fmt.Errorf("no fake organizations available; seed fake users first")
	}

	volunteerIDs := seedVolunteerDataIDs()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	created := 0
	for i := 0; i < count; i++ {
		template := fakeEventTemplates[rng.Intn(len(fakeEventTemplates))]

		// Mix past and upcoming events so the dashboards have both
		// completed and active rows to aggregate.
		startOffset := time.Duration(rng.Intn(21*24)-7*24) * time.Hour
		startTime := time.Now().Add(startOffset).Truncate(time.Hour)
		duration := time.Duration(2+rng.Intn(4)) * time.Hour

		event := &types.Event{
			Name:             template.Name,
			Description:      template.Description,
			VolunteerCap:     2 + rng.Intn(10),
			Location:         template.Location,
			RequiredSkills:   template.RequiredSkills,
			StartTime:        startTime,
			EndTime:          startTime.Add(duration),
			JoinedVolunteers: []string{},
		}

		organizationID := organizationIDs[rng.Intn(len(organizationIDs))]
		event, err := eventRepo.CreateForOrganization(ctx, organizationID, event)
		if err != nil {
			return fmt.Errorf("failed to create fake event %d: %w", i+1, err)
		}

		joiners := rng.Intn(len(volunteerIDs) + 1)
		for _, volunteerID := range pickVolunteers(rng, volunteerIDs, joiners) {
			_, err := eventRepo.AddVolunteer(ctx, event.ID, volunteerID)
			if err != nil {
				// The random cap can be smaller than the joiner count.
				continue
			}

			if err := volunteerRepo.AppendExperience(ctx, volunteerID, event.ID); err != nil {
				return fmt.Errorf("failed to append experience for fake volunteer %s: %w", volunteerID, err)
			}
		}

		created++
	}

	fmt.Printf("Fake events seeded: %d created\n", created)
	return nil
}

func pickVolunteers(rng *rand.Rand, volunteerIDs []string, count int) []string {
	shuffled := append([]string{}, volunteerIDs...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count > len(shuffled) {
		count = len(shuffled)
	}

	return shuffled[:count]
}
