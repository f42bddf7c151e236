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

const badgeTableName = "togetherwe.badges"

var badgeColumns = utils.StructTagValues(types.Badge{})

type BadgeRepository struct {
	pool *pgxpool.Pool
}

func NewBadgeRepository(pool *pgxpool.Pool) *BadgeRepository {
	return &BadgeRepository{pool: pool}
}

func (r *BadgeRepository) AllBadges(ctx context.Context) ([]*types.Badge, error) {
	query, args, err := psql().
		Select(badgeColumns...).
		From(badgeTableName).
		OrderBy("name asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate badges query: %w", err)
	}

	var badges []*types.Badge
	err = pgxscan.Select(ctx, r.pool, &badges, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch badges: %w", err)
	}

	return badges, nil
}

func (r *BadgeRepository) BadgesByIDs(ctx context.Context, badgeIDs []string) ([]*types.Badge, error) {
	if len(badgeIDs) == 0 {
		return []*types.Badge{}, nil
	}

	query, args, err := psql().
		Select(badgeColumns...).
		From(badgeTableName).
		Where(sq.Eq{"id": badgeIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate badges-by-ids query: %w", err)
	}

	var badges []*types.Badge
	err = pgxscan.Select(ctx, r.pool, &badges, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch badges by ids: %w", err)
	}

	return badges, nil
}

func (r *BadgeRepository) BadgeByName(ctx context.Context, name string) (*types.Badge, error) {
	query, args, err := psql().
		Select(badgeColumns...).
		From(badgeTableName).
		Where(sq.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate badge-by-name query: %w", err)
	}

	var badge types.Badge
	err = pgxscan.Get(ctx, r.pool, &badge, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrBadgeNotFound
		}
		return nil, fmt.Errorf("failed to fetch badge by name: %w", err)
	}

	return &badge, nil
}

func (r *BadgeRepository) Create(ctx context.Context, badge *types.Badge) error {
	now := time.Now()
	if badge.ID == "" {
		badge.ID = utils.NanoID()
	}
	badge.CreatedAt = now
	badge.UpdatedAt = now

	query, args, err := psql().
		Insert(badgeTableName).
		SetMap(utils.StructToMap(badge)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create badge query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create badge")
}
