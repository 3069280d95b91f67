package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/phrazzld/kioku/internal/domain"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := app.Settings.GetForgettingSettings()
			sort := app.Settings.GetSortSettings()
			dark := app.Settings.GetDarkModeSettings()
			flash := app.Settings.GetFlashcardSettings()

			cmd.Printf("forgetting curve: enabled=%t notifications=%t max-reviews=%d intervals=%v\n",
				fs.Enabled, fs.Notifications, fs.ReviewCount, fs.Intervals)
			cmd.Printf("sort:             %s %s\n", sort.Field, sort.Direction)
			cmd.Printf("flashcard mode:   %t\n", flash.Enabled)
			cmd.Printf("dark mode:        %t\n", dark.Enabled)
			return nil
		},
	}

	cmd.AddCommand(newSettingsForgettingCmd(app))
	cmd.AddCommand(newSettingsFlashcardCmd(app))
	cmd.AddCommand(newSettingsSortCmd(app))
	cmd.AddCommand(newSettingsDarkModeCmd(app))
	cmd.AddCommand(newSettingsResetCmd(app))
	return cmd
}

func newSettingsForgettingCmd(app *App) *cobra.Command {
	var enabled, notifications bool
	var maxReviews int
	var intervals []int

	cmd := &cobra.Command{
		Use:   "forgetting",
		Short: "Configure the forgetting curve",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := app.Settings.GetForgettingSettings()
			if cmd.Flags().Changed("enabled") {
				fs.Enabled = enabled
			}
			if cmd.Flags().Changed("notifications") {
				fs.Notifications = notifications
			}
			if cmd.Flags().Changed("max-reviews") {
				fs.ReviewCount = maxReviews
				// Extend the table when the new budget outgrows it.
				if len(fs.Intervals) < maxReviews {
					fs.Intervals = app.Settings.GenerateIntervals(maxReviews)
				}
			}
			if cmd.Flags().Changed("intervals") {
				fs.Intervals = intervals
			}
			if err := app.Settings.UpdateForgettingSettings(cmd.Context(), fs); err != nil {
				return err
			}
			cmd.Println("forgetting-curve settings updated")
			return nil
		},
	}

	cmd.Flags().BoolVar(&enabled, "enabled", true, "enable the forgetting curve")
	cmd.Flags().BoolVar(&notifications, "notifications", true, "notify when cards come back for review")
	cmd.Flags().IntVar(&maxReviews, "max-reviews", 5, "maximum scheduled reviews per card (1-10)")
	cmd.Flags().IntSliceVar(&intervals, "intervals", nil, "days per review step, e.g. 1,3,7,14,30")
	return cmd
}

func newSettingsFlashcardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "flashcard",
		Short: "Toggle flashcard mode (click to reveal details)",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := app.Settings.GetFlashcardSettings()
			fs.Enabled = !fs.Enabled
			if err := app.Settings.UpdateFlashcardSettings(cmd.Context(), fs); err != nil {
				return err
			}
			cmd.Printf("flashcard mode: %t\n", fs.Enabled)
			return nil
		},
	}
}

func newSettingsSortCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sort <createdAt|updatedAt>",
		Short: "Change the sort field (repeating a field flips direction)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sort, err := app.Settings.ChangeSortOrder(cmd.Context(), domain.SortField(strings.TrimSpace(args[0])))
			if err != nil {
				return err
			}
			cmd.Printf("sorting by %s %s\n", sort.Field, sort.Direction)
			return nil
		},
	}
}

func newSettingsDarkModeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dark-mode",
		Short: "Toggle dark mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled := app.Settings.ToggleDarkMode(cmd.Context())
			cmd.Printf("dark mode: %t\n", enabled)
			return nil
		},
	}
}

func newSettingsResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore every settings category to its defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Settings.ResetToDefaults(cmd.Context())
			cmd.Println("settings reset to defaults")
			return nil
		},
	}
}
