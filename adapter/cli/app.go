package cli

import (
	"github.com/flowgenius/scheduler/internal/scheduling/application/commands"
	"github.com/flowgenius/scheduler/internal/scheduling/application/queries"
	"github.com/flowgenius/scheduler/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Scheduling Command Handlers
	SuggestSlotsHandler *commands.SuggestSlotsHandler
	AddEventHandler     *commands.AddEventHandler

	// Scheduling Query Handlers
	ListEventsHandler *queries.ListEventsHandler

	// Health checks for the configured backends
	Health *observability.HealthRegistry
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	suggestSlotsHandler *commands.SuggestSlotsHandler,
	addEventHandler *commands.AddEventHandler,
	listEventsHandler *queries.ListEventsHandler,
	health *observability.HealthRegistry,
) *App {
	return &App{
		SuggestSlotsHandler: suggestSlotsHandler,
		AddEventHandler:     addEventHandler,
		ListEventsHandler:   listEventsHandler,
		Health:              health,
	}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
