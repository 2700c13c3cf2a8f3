package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowgenius/scheduler/adapter/cli"
	"github.com/flowgenius/scheduler/internal/scheduling/application/queries"
)

var (
	listFrom string
	listDays int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List calendar events",
	Long: `List calendar events within a window.

Examples:
  flowgenius event list
  flowgenius event list --days 14
  flowgenius event list --from 2026-09-01 --days 7`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListEventsHandler == nil {
			fmt.Println("Calendar events require an initialized event store.")
			return nil
		}

		from := time.Now()
		if listFrom != "" {
			parsed, err := time.ParseInLocation("2006-01-02", listFrom, time.Local)
			if err != nil {
				return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
			}
			from = parsed
		}
		from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
		to := from.AddDate(0, 0, listDays)

		events, err := app.ListEventsHandler.Handle(cmd.Context(), queries.ListEventsQuery{
			From: from,
			To:   to,
		})
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}

		fmt.Printf("Events %s - %s\n", from.Format("Jan 2"), to.Format("Jan 2, 2006"))
		fmt.Println(strings.Repeat("-", 50))

		if len(events) == 0 {
			fmt.Println("\n  No events in this window.")
			return nil
		}

		lastDay := ""
		for _, ev := range events {
			day := ev.Start.Format("Mon Jan 2")
			if day != lastDay {
				fmt.Printf("\n%s\n", day)
				lastDay = day
			}
			fmt.Printf("  %s - %s  %s\n",
				ev.Start.Format("15:04"),
				ev.End.Format("15:04"),
				ev.Title,
			)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFrom, "from", "f", "", "window start date (YYYY-MM-DD), defaults to today")
	listCmd.Flags().IntVarP(&listDays, "days", "n", 10, "window length in days")
}
