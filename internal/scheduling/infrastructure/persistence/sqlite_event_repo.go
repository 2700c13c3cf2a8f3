// Package persistence implements the calendar event store against SQLite
// (local default) and PostgreSQL.
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

// SQLiteEventRepository stores calendar events in SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

// NewSQLiteEventRepository creates a new SQLite event repository.
func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

// Save inserts or replaces a calendar event.
func (r *SQLiteEventRepository) Save(ctx context.Context, event domain.CalendarEvent) error {
	query := `
		INSERT OR REPLACE INTO calendar_events (id, title, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID.String(),
		event.Title,
		event.Start.UTC().Format(time.RFC3339),
		event.End.UTC().Format(time.RFC3339),
		event.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save calendar event: %w", err)
	}
	return nil
}

// FindByID returns a single event or ErrEventNotFound.
func (r *SQLiteEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	query := `
		SELECT id, title, start_time, end_time, created_at
		FROM calendar_events WHERE id = ?
	`
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find calendar event: %w", err)
	}
	return event, nil
}

// FindByRange returns events overlapping [start, end), ordered by start.
func (r *SQLiteEventRepository) FindByRange(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error) {
	query := `
		SELECT id, title, start_time, end_time, created_at
		FROM calendar_events
		WHERE start_time < ? AND end_time > ?
		ORDER BY start_time ASC
	`
	rows, err := r.db.QueryContext(ctx, query,
		end.UTC().Format(time.RFC3339),
		start.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("query calendar events: %w", err)
	}
	defer rows.Close()

	var events []domain.CalendarEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calendar event: %w", err)
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// Delete removes an event by id.
func (r *SQLiteEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.CalendarEvent, error) {
	var (
		idStr, title, startStr, endStr, createdStr string
	)
	if err := row.Scan(&idStr, &title, &startStr, &endStr, &createdStr); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse event id: %w", err)
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return nil, fmt.Errorf("parse start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return nil, fmt.Errorf("parse end time: %w", err)
	}
	created, err := time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return nil, fmt.Errorf("parse created time: %w", err)
	}

	return &domain.CalendarEvent{
		ID:        id,
		Title:     title,
		Start:     start,
		End:       end,
		CreatedAt: created,
	}, nil
}

var _ domain.EventRepository = (*SQLiteEventRepository)(nil)
