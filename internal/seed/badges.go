package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/itskdhere/together-we/internal/storage"
	"github.com/itskdhere/together-we/internal/store"
	"github.com/itskdhere/together-we/pkg/types"
)

type badgeSeed struct {
	ID          string
	Name        string
	Description string
	Color       string
}

// SeedBadges syncs the badge catalog and uploads placeholder artwork.
// This file is the source of truth for badges:
// - Inserts new badges that don't exist
// - Leaves existing badges untouched
//
// To generate new IDs: `go run ./cmd/togetherwe nanoid`
var badges = []badgeSeed{
	{ID: "bdFirstStep0cccccccccccccccccc01", Name: "First Step", Description: "Joined a first volunteer opportunity", Color: "#4CAF50"},
	{ID: "bdHelpingHand0cccccccccccccccc02", Name: "Helping Hand", Description: "Completed five volunteer opportunities", Color: "#2196F3"},
	{ID: "bdCommunityPillar0cccccccccccc03", Name: "Community Pillar", Description: "Volunteered with three different organizations", Color: "#9C27B0"},
	{ID: "bdMarathoner0cccccccccccccccccc4", Name: "Marathoner", Description: "Logged fifty volunteer hours", Color: "#FF9800"},
}

func badgeArtwork(seed badgeSeed) string {
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 96 96"><circle cx="48" cy="48" r="44" fill="%s"/><text x="48" y="54" font-size="40" text-anchor="middle" fill="#fff">%s</text></svg>`,
		seed.Color, seed.Name[:1],
	)
}

func SeedBadges(ctx context.Context, badgeRepo *store.BadgeRepository, badgeStorage *storage.S3Storage) error {
	seeded := 0
	for _, seed := range badges {
		_, err := badgeRepo.BadgeByName(ctx, seed.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrBadgeNotFound) {
			return fmt.Errorf("failed to fetch badge %q: %w", seed.Name, err)
		}

		key := fmt.Sprintf("badges/%s.svg", seed.ID)
		key, err = badgeStorage.UploadFile(ctx, key, strings.NewReader(badgeArtwork(seed)), "image/svg+xml")
		if err != nil {
			return fmt.Errorf("failed to upload artwork for badge %q: %w", seed.Name, err)
		}

		badge := &types.Badge{
			ID:          seed.ID,
			Name:        seed.Name,
			Description: seed.Description,
			URL:         key,
		}

		if err := badgeRepo.Create(ctx, badge); err != nil {
			return fmt.Errorf("failed to create badge %q: %w", seed.Name, err)
		}

		seeded++
	}

	fmt.Printf("Badges seeded: %d created\n", seeded)
	return nil
}
