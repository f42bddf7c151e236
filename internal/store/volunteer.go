package store

import (
	"context"
	"fmt"
	"time"

	"github.com/itskdhere/together-we/internal/utils"
	"github.com/itskdhere/together-we/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const volunteerTableName = "togetherwe.volunteers"

var volunteerColumns = utils.StructTagValues(types.Volunteer{})

type VolunteerRepository struct {
	pool *pgxpool.Pool
}

func NewVolunteerRepository(pool *pgxpool.Pool) *VolunteerRepository {
	return &VolunteerRepository{pool: pool}
}

func (r *VolunteerRepository) Volunteer(ctx context.Context, volunteerID string) (*types.Volunteer, error) {
	query, args, err := psql().
		Select(volunteerColumns...).
		From(volunteerTableName).
		Where(sq.Eq{"id": volunteerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate volunteer query: %w", err)
	}

	var volunteer types.Volunteer
	err = pgxscan.Get(ctx, r.pool, &volunteer, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("failed to fetch volunteer: %w", err)
	}

	return &volunteer, nil
}

func (r *VolunteerRepository) Create(ctx context.Context, volunteer *types.Volunteer) error {
	now := time.Now()
	if volunteer.ID == "" {
		volunteer.ID = utils.NanoID()
	}
	if volunteer.Experience == nil {
		volunteer.Experience = []string{}
	}
	if volunteer.Badges == nil {
		volunteer.Badges = []string{}
	}
	volunteer.CreatedAt = now
	volunteer.UpdatedAt = now

	query, args, err := psql().
		Insert(volunteerTableName).
		SetMap(utils.StructToMap(volunteer)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create volunteer query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create volunteer")
}

func (r *VolunteerRepository) Update(ctx context.Context, volunteerID string, volunteer *types.Volunteer) error {
	volunteer.ID = volunteerID
	volunteer.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(volunteerTableName).
		SetMap(utils.StructToMap(volunteer)).
		Where(sq.Eq{"id": volunteerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update volunteer query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update volunteer")
}

// AppendExperience records a joined event in the volunteer's cache list.
// The event side of the edge is authoritative; duplicates are guarded here
// the same way as on the event side.
func (r *VolunteerRepository) AppendExperience(ctx context.Context, volunteerID, eventID string) error {
	query, args, err := psql().
		Update(volunteerTableName).
		Set("experience", sq.Expr("array_append(experience, ?)", eventID)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": volunteerID}).
		Where(sq.Expr("NOT (? = ANY(experience))", eventID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate append experience query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to append volunteer experience")
}

func (r *VolunteerRepository) RemoveExperience(ctx context.Context, volunteerID, eventID string) error {
	query, args, err := psql().
		Update(volunteerTableName).
		Set("experience", sq.Expr("array_remove(experience, ?)", eventID)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": volunteerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate remove experience query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to remove volunteer experience")
}

func (r *VolunteerRepository) AwardBadge(ctx context.Context, volunteerID, badgeID string) error {
	query, args, err := psql().
		Update(volunteerTableName).
		Set("badges", sq.Expr("array_append(badges, ?)", badgeID)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": volunteerID}).
		Where(sq.Expr("NOT (? = ANY(badges))", badgeID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate award badge query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to award badge")
}
