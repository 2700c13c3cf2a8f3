package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// PostgresEventRepository stores calendar events in PostgreSQL.
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgreSQL event repository.
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// Save upserts a calendar event.
func (r *PostgresEventRepository) Save(ctx context.Context, event domain.CalendarEvent) error {
	query := `
		INSERT INTO calendar_events (id, title, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID, event.Title, event.Start.UTC(), event.End.UTC(), event.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save calendar event: %w", err)
	}
	return nil
}

// FindByID returns a single event or ErrEventNotFound.
func (r *PostgresEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	query := `
		SELECT id, title, start_time, end_time, created_at
		FROM calendar_events WHERE id = $1
	`
	var event domain.CalendarEvent
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&event.ID, &event.Title, &event.Start, &event.End, &event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find calendar event: %w", err)
	}
	return &event, nil
}

// FindByRange returns events overlapping [start, end), ordered by start.
func (r *PostgresEventRepository) FindByRange(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error) {
	query := `
		SELECT id, title, start_time, end_time, created_at
		FROM calendar_events
		WHERE start_time < $1 AND end_time > $2
		ORDER BY start_time ASC
	`
	rows, err := r.pool.Query(ctx, query, end.UTC(), start.UTC())
	if err != nil {
		return nil, fmt.Errorf("query calendar events: %w", err)
	}
	defer rows.Close()

	var events []domain.CalendarEvent
	for rows.Next() {
		var event domain.CalendarEvent
		if err := rows.Scan(&event.ID, &event.Title, &event.Start, &event.End, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan calendar event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Delete removes an event by id.
func (r *PostgresEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

var _ domain.EventRepository = (*PostgresEventRepository)(nil)
