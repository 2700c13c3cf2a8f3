package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEventNotFound is returned when an event does not exist in the store.
var ErrEventNotFound = errors.New("calendar event not found")

// EventRepository is the read/write boundary to the user's committed events.
// The pipeline itself only reads; the CLI uses Save to populate the store.
type EventRepository interface {
	Save(ctx context.Context, event CalendarEvent) error
	FindByID(ctx context.Context, id uuid.UUID) (*CalendarEvent, error)
	// FindByRange returns events overlapping [start, end), ordered by start.
	FindByRange(ctx context.Context, start, end time.Time) ([]CalendarEvent, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
