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

const organizationTableName = "togetherwe.organizations"

var organizationColumns = utils.StructTagValues(types.Organization{})

type OrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

func (r *OrganizationRepository) Organization(ctx context.Context, organizationID string) (*types.Organization, error) {
	query, args, err := psql().
		Select(organizationColumns...).
		From(organizationTableName).
		Where(sq.Eq{"id": organizationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization query: %w", err)
	}

	var organization types.Organization
	err = pgxscan.Get(ctx, r.pool, &organization, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}

	return &organization, nil
}

// OrganizationByEvent reverse-resolves the owner of an event through the
// events reference array.
func (r *OrganizationRepository) OrganizationByEvent(ctx context.Context, eventID string) (*types.Organization, error) {
	query, args, err := psql().
		Select(organizationColumns...).
		From(organizationTableName).
		Where(sq.Expr("? = ANY(events)", eventID)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization-by-event query: %w", err)
	}

	var organization types.Organization
	err = pgxscan.Get(ctx, r.pool, &organization, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to fetch organization by event: %w", err)
	}

	return &organization, nil
}

func (r *OrganizationRepository) Create(ctx context.Context, organization *types.Organization) error {
	now := time.Now()
	if organization.ID == "" {
		organization.ID = utils.NanoID()
	}
	if organization.Events == nil {
		organization.Events = []string{}
	}
	organization.CreatedAt = now
	organization.UpdatedAt = now

	query, args, err := psql().
		Insert(organizationTableName).
		SetMap(utils.StructToMap(organization)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create organization query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create organization")
}

func (r *OrganizationRepository) Update(ctx context.Context, organizationID string, organization *types.Organization) error {
	organization.ID = organizationID
	organization.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(organizationTableName).
		SetMap(utils.StructToMap(organization)).
		Where(sq.Eq{"id": organizationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update organization query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update organization")
}
