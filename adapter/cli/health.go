package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the configured backends",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		if app.Health == nil {
			fmt.Println("ok")
			return nil
		}

		overall := app.Health.GetOverallHealth(cmd.Context())

		names := make([]string, 0, len(overall.Checks))
		for name := range overall.Checks {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			check := overall.Checks[name]
			fmt.Printf("%-10s %-10s %s\n", name, check.Status, check.Message)
		}
		fmt.Printf("overall: %s\n", overall.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
