package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowgenius/scheduler/internal/scheduling/application/commands"
	"github.com/flowgenius/scheduler/internal/scheduling/domain"
)

var (
	suggestDescription string
	suggestDate        string
	suggestStart       string
	suggestEnd         string
	suggestWorkDays    []string
	suggestBuffer      int
	suggestMaxPerDay   int
	suggestBusinessDur int
	suggestHobbyDur    int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <title>",
	Short: "Suggest time slots for an event",
	Long: `Suggest ranked time slots for an event described in plain language.

Examples:
  flowgenius suggest "Team sync meeting"
  flowgenius suggest "Guitar practice" --description "weekly 1 hour session"
  flowgenius suggest "Budget review" --date 2026-09-07 --start 08:00 --end 16:00
  flowgenius suggest "Lunch with Sam" --max-per-day 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.SuggestSlotsHandler == nil {
			fmt.Println("Scheduling requires an initialized event store.")
			return nil
		}

		command := commands.SuggestSlotsCommand{
			Title:       args[0],
			Description: suggestDescription,
		}

		if suggestDate != "" {
			date, err := time.ParseInLocation("2006-01-02", suggestDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
			}
			command.PreferredDate = &date
		}

		override, err := buildOverride(cmd)
		if err != nil {
			return err
		}
		command.Overrides = override

		result, err := app.SuggestSlotsHandler.Handle(cmd.Context(), command)
		if err != nil {
			return fmt.Errorf("failed to compute suggestions: %w", err)
		}

		fmt.Printf("Event: %s\n", args[0])
		fmt.Printf("Type: %s (%.0f%% confidence)\n", result.Classification.Type, result.Classification.Confidence*100)
		fmt.Printf("Duration: %d minutes\n", result.DurationMinutes)
		fmt.Println(strings.Repeat("-", 60))

		if len(result.Slots) == 0 {
			fmt.Println("\n  No suitable slots found.")
		}
		for i, slot := range result.Slots {
			fmt.Printf("\n  %d. %s  %s - %s\n",
				i+1,
				slot.Start.Format("Mon Jan 2"),
				slot.Start.Format("15:04"),
				slot.End.Format("15:04"),
			)
			fmt.Printf("     priority %.0f, conflict %.0f, optimality %.0f\n",
				slot.Priority, slot.ConflictScore, slot.OptimalityScore)
			if slot.Reasoning != "" {
				fmt.Printf("     %s\n", slot.Reasoning)
			}
		}

		if verbose {
			fmt.Println(strings.Repeat("-", 60))
			fmt.Printf("Steps: %s\n", strings.Join(result.Metadata.StepsExecuted, ", "))
			fmt.Printf("Processing time: %dms\n", result.Metadata.TotalProcessingTime.Milliseconds())
			for _, line := range result.ReasoningTrail {
				fmt.Printf("  %s\n", line)
			}
			for _, line := range result.Errors {
				fmt.Printf("  error: %s\n", line)
			}
		}

		return nil
	},
}

// buildOverride translates the preference flags into a partial override.
// Only flags the user actually set are included.
func buildOverride(cmd *cobra.Command) (*domain.PreferenceOverride, error) {
	override := &domain.PreferenceOverride{}
	set := false

	if cmd.Flags().Changed("start") {
		min, err := parseClockFlag(suggestStart)
		if err != nil {
			return nil, fmt.Errorf("invalid start time, use HH:MM: %w", err)
		}
		override.BusinessStartMinute = &min
		set = true
	}
	if cmd.Flags().Changed("end") {
		min, err := parseClockFlag(suggestEnd)
		if err != nil {
			return nil, fmt.Errorf("invalid end time, use HH:MM: %w", err)
		}
		override.BusinessEndMinute = &min
		set = true
	}
	if cmd.Flags().Changed("work-days") {
		days, err := parseWeekdays(suggestWorkDays)
		if err != nil {
			return nil, err
		}
		override.WorkDays = days
		set = true
	}
	if cmd.Flags().Changed("buffer") {
		override.BufferMinutes = &suggestBuffer
		set = true
	}
	if cmd.Flags().Changed("max-per-day") {
		override.MaxSuggestionsPerDay = &suggestMaxPerDay
		set = true
	}
	if cmd.Flags().Changed("business-duration") {
		override.BusinessDuration = &suggestBusinessDur
		set = true
	}
	if cmd.Flags().Changed("hobby-duration") {
		override.HobbyDuration = &suggestHobbyDur
		set = true
	}

	if !set {
		return nil, nil
	}
	return override, nil
}

func parseClockFlag(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if len(key) > 3 {
			key = key[:3]
		}
		day, ok := weekdayNames[key]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		days = append(days, day)
	}
	return days, nil
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestDescription, "description", "d", "", "event description")
	suggestCmd.Flags().StringVar(&suggestDate, "date", "", "preferred date (YYYY-MM-DD)")
	suggestCmd.Flags().StringVar(&suggestStart, "start", "09:00", "business hours start (HH:MM)")
	suggestCmd.Flags().StringVar(&suggestEnd, "end", "17:00", "business hours end (HH:MM)")
	suggestCmd.Flags().StringSliceVar(&suggestWorkDays, "work-days", nil, "work days (e.g. mon,tue,wed)")
	suggestCmd.Flags().IntVar(&suggestBuffer, "buffer", 15, "buffer around existing events in minutes")
	suggestCmd.Flags().IntVar(&suggestMaxPerDay, "max-per-day", 3, "maximum suggestions per day")
	suggestCmd.Flags().IntVar(&suggestBusinessDur, "business-duration", 60, "default business event duration in minutes")
	suggestCmd.Flags().IntVar(&suggestHobbyDur, "hobby-duration", 90, "default hobby event duration in minutes")

	rootCmd.AddCommand(suggestCmd)
}
