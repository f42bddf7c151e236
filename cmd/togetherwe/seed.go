package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/k0kubun/pp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/itskdhere/together-we/internal/db"
	"github.com/itskdhere/together-we/internal/seed"
	"github.com/itskdhere/together-we/internal/storage"
	"github.com/itskdhere/together-we/internal/store"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with initial data",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "events",
			Usage: "Number of fake events to create",
			Value: 12,
		},
		&cli.BoolFlag{
			Name:  "reset",
			Usage: "Delete previously seeded fake events first",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		userRepo := store.NewUserRepository(pool)
		volunteerRepo := store.NewVolunteerRepository(pool)
		organizationRepo := store.NewOrganizationRepository(pool)
		eventRepo := store.NewEventRepository(pool)
		badgeRepo := store.NewBadgeRepository(pool)
		badgeStorage := storage.NewS3Storage(s3.NewFromConfig(awsConfig), cfg.BadgeBucketName, cfg.AWSRegion)

		logrus.Info("Seeding badges...")
		if err := seed.SeedBadges(ctx, badgeRepo, badgeStorage); err != nil {
			return fmt.Errorf("failed to seed badges: %w", err)
		}

		logrus.Info("Seeding fake users...")
		if err := seed.SeedFakeUsers(ctx, userRepo, volunteerRepo, organizationRepo); err != nil {
			return fmt.Errorf("failed to seed fake users: %w", err)
		}

		logrus.Info("Seeding fake events...")
		if err := seed.SeedFakeEvents(ctx, pool, eventRepo, volunteerRepo, c.Int("events"), c.Bool("reset")); err != nil {
			return fmt.Errorf("failed to seed fake events: %w", err)
		}

		pp.Println(map[string]interface{}{
			"events": c.Int("events"),
			"reset":  c.Bool("reset"),
		})

		return nil
	},
}
