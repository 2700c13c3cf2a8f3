package event

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowgenius/scheduler/adapter/cli"
	"github.com/flowgenius/scheduler/internal/scheduling/application/commands"
)

var (
	addStart    string
	addEnd      string
	addDuration int
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a calendar event",
	Long: `Add a committed event to the calendar. Future suggestions treat it
as a conflict source.

Examples:
  flowgenius event add "Standup" --start "2026-09-01 09:30" --end "2026-09-01 09:45"
  flowgenius event add "Dentist" --start "2026-09-03 14:00" --duration 45`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AddEventHandler == nil {
			fmt.Println("Calendar events require an initialized event store.")
			return nil
		}

		start, err := time.ParseInLocation("2006-01-02 15:04", addStart, time.Local)
		if err != nil {
			return fmt.Errorf("invalid start, use \"YYYY-MM-DD HH:MM\": %w", err)
		}

		var end time.Time
		switch {
		case addEnd != "":
			end, err = time.ParseInLocation("2006-01-02 15:04", addEnd, time.Local)
			if err != nil {
				return fmt.Errorf("invalid end, use \"YYYY-MM-DD HH:MM\": %w", err)
			}
		case addDuration > 0:
			end = start.Add(time.Duration(addDuration) * time.Minute)
		default:
			return fmt.Errorf("either --end or --duration is required")
		}

		event, err := app.AddEventHandler.Handle(cmd.Context(), commands.AddEventCommand{
			Title: args[0],
			Start: start,
			End:   end,
		})
		if err != nil {
			return fmt.Errorf("failed to add event: %w", err)
		}

		fmt.Printf("Added %q  %s - %s\n",
			event.Title,
			event.Start.Format("Mon Jan 2 15:04"),
			event.End.Format("15:04"),
		)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addStart, "start", "s", "", "start time (YYYY-MM-DD HH:MM)")
	addCmd.Flags().StringVarP(&addEnd, "end", "e", "", "end time (YYYY-MM-DD HH:MM)")
	addCmd.Flags().IntVarP(&addDuration, "duration", "m", 0, "duration in minutes, alternative to --end")
	_ = addCmd.MarkFlagRequired("start")
}
