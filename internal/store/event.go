package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/itskdhere/together-we/internal/utils"
	"github.com/itskdhere/together-we/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventTableName = "togetherwe.events"

var eventColumns = utils.StructTagValues(types.Event{})

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Event(ctx context.Context, eventID string) (*types.Event, error) {
	query, args, err := psql().
		Select(eventColumns...).
		From(eventTableName).
		Where(sq.Eq{"id": eventID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate event query: %w", err)
	}

	var event types.Event
	err = pgxscan.Get(ctx, r.pool, &event, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}

	return &event, nil
}

func (r *EventRepository) EventsByIDs(ctx context.Context, eventIDs []string) ([]*types.Event, error) {
	if len(eventIDs) == 0 {
		return []*types.Event{}, nil
	}

	query, args, err := psql().
		Select(eventColumns...).
		From(eventTableName).
		Where(sq.Eq{"id": eventIDs}).
		OrderBy("start_time asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate events-by-ids query: %w", err)
	}

	var events []*types.Event
	err = pgxscan.Select(ctx, r.pool, &events, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events by ids: %w", err)
	}

	return events, nil
}

func (r *EventRepository) EventsByVolunteer(ctx context.Context, volunteerID string) ([]*types.Event, error) {
	query, args, err := psql().
		Select(eventColumns...).
		From(eventTableName).
		Where(sq.Expr("? = ANY(joined_volunteers)", volunteerID)).
		OrderBy("start_time asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate events-by-volunteer query: %w", err)
	}

	var events []*types.Event
	err = pgxscan.Select(ctx, r.pool, &events, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events by volunteer: %w", err)
	}

	return events, nil
}

func (r *EventRepository) AllEvents(ctx context.Context) ([]*types.Event, error) {
	query, args, err := psql().
		Select(eventColumns...).
		From(eventTableName).
		OrderBy("start_time asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate all events query: %w", err)
	}

	var events []*types.Event
	err = pgxscan.Select(ctx, r.pool, &events, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	return events, nil
}

func (r *EventRepository) Search(ctx context.Context, term string) ([]*types.Event, error) {
	pattern := "%" + term + "%"

	query, args, err := psql().
		Select(eventColumns...).
		From(eventTableName).
		Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
			sq.ILike{"location": pattern},
			sq.ILike{"required_skills": pattern},
		}).
		OrderBy("start_time asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate event search query: %w", err)
	}

	var events []*types.Event
	err = pgxscan.Select(ctx, r.pool, &events, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}

	return events, nil
}

// CreateForOrganization inserts the event and appends its id to the owning
// organization's event list in one transaction, so a crash can never leave
// an event unreachable from its organization.
func (r *EventRepository) CreateForOrganization(ctx context.Context, organizationID string, event *types.Event) (*types.Event, error) {
	now := time.Now()
	if event.ID == "" {
		event.ID = utils.NanoID()
	}
	if event.JoinedVolunteers == nil {
		event.JoinedVolunteers = []string{}
	}
	event.CreatedAt = now
	event.UpdatedAt = now

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query, args, err := psql().
		Insert(eventTableName).
		SetMap(utils.StructToMap(event)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate insert event query: %w", err)
	}

	_, err = tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	query, args, err = psql().
		Update(organizationTableName).
		Set("events", sq.Expr("array_append(events, ?)", event.ID)).
		Set("updated_at", now).
		Where(sq.Eq{"id": organizationID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization event append query: %w", err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to append event to organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, types.ErrOrganizationNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return event, nil
}

// UpdateFields applies a partial update and returns the fresh row.
func (r *EventRepository) UpdateFields(ctx context.Context, eventID string, fields map[string]any) (*types.Event, error) {
	if len(fields) == 0 {
		return r.Event(ctx, eventID)
	}
	fields["updated_at"] = time.Now()

	query, args, err := psql().
		Update(eventTableName).
		SetMap(fields).
		Where(sq.Eq{"id": eventID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update event query for event %s: %w", eventID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return r.Event(ctx, eventID)
}

// DeleteForOrganization removes the event and strips its id from the owner's
// list. The strip is idempotent; a missing array entry is not an error.
func (r *EventRepository) DeleteForOrganization(ctx context.Context, organizationID, eventID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query, args, err := psql().
		Delete(eventTableName).
		Where(sq.Eq{"id": eventID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete event query for event %s: %w", eventID, err)
	}

	_, err = tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	query, args, err = psql().
		Update(organizationTableName).
		Set("events", sq.Expr("array_remove(events, ?)", eventID)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": organizationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate organization event remove query: %w", err)
	}

	_, err = tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to remove event from organization: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteAllForOrganization batch-deletes every event the organization
// references and clears its list, returning the number of events actually
// deleted. Ids that no longer resolve are skipped silently.
func (r *EventRepository) DeleteAllForOrganization(ctx context.Context, organizationID string) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query, args, err := psql().
		Select("events").
		From(organizationTableName).
		Where(sq.Eq{"id": organizationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate organization events query: %w", err)
	}

	var eventIDs []string
	err = tx.QueryRow(ctx, query, args...).Scan(&eventIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, types.ErrOrganizationNotFound
		}
		return 0, fmt.Errorf("failed to fetch organization events: %w", err)
	}

	var deleted int64
	if len(eventIDs) > 0 {
		query, args, err = psql().
			Delete(eventTableName).
			Where(sq.Eq{"id": eventIDs}).
			ToSql()
		if err != nil {
			return 0, fmt.Errorf("failed to generate batch delete query: %w", err)
		}

		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to batch delete events: %w", err)
		}
		deleted = tag.RowsAffected()
	}

	query, args, err = psql().
		Update(organizationTableName).
		Set("events", []string{}).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": organizationID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate organization events clear query: %w", err)
	}

	_, err = tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clear organization events: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return deleted, nil
}

// AddVolunteer appends the volunteer to the event only while the list is
// below capacity and the volunteer is not already present, as a single
// conditional update. Two concurrent joins near capacity therefore cannot
// both commit. Returns the joined count after the append.
func (r *EventRepository) AddVolunteer(ctx context.Context, eventID, volunteerID string) (int, error) {
	query, args, err := psql().
		Update(eventTableName).
		Set("joined_volunteers", sq.Expr("array_append(joined_volunteers, ?)", volunteerID)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": eventID}).
		Where(sq.Expr("NOT (? = ANY(joined_volunteers))", volunteerID)).
		Where(sq.Expr("cardinality(joined_volunteers) < volunteer_cap")).
		Suffix("RETURNING cardinality(joined_volunteers)").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate add volunteer query: %w", err)
	}

	var joined int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&joined)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The guard did not match: either the event filled up or the
			// volunteer joined concurrently. The caller classifies from a
			// fresh read.
			return 0, types.ErrEventFull
		}
		return 0, fmt.Errorf("failed to add volunteer to event: %w", err)
	}

	return joined, nil
}

// RemoveVolunteer removes the volunteer's id from the event. Returns the
// joined count after the removal.
func (r *EventRepository) RemoveVolunteer(ctx context.Context, eventID, volunteerID string) (int, error) {
	query, args, err := psql().
		Update(eventTableName).
		Set("joined_volunteers", sq.Expr("array_remove(joined_volunteers, ?)", volunteerID)).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": eventID}).
		Suffix("RETURNING cardinality(joined_volunteers)").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate remove volunteer query: %w", err)
	}

	var joined int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&joined)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, types.ErrEventNotFound
		}
		return 0, fmt.Errorf("failed to remove volunteer from event: %w", err)
	}

	return joined, nil
}
