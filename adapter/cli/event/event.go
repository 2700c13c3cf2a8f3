// Package event contains the calendar event CLI commands.
package event

import (
	"github.com/spf13/cobra"
)

// Cmd is the parent command for calendar event operations.
var Cmd = &cobra.Command{
	Use:     "event",
	Short:   "Manage calendar events",
	Aliases: []string{"events", "ev"},
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
}
