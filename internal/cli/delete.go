package cli

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <card>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := resolveCard(cmd, app, args[0])
			if err != nil {
				return err
			}
			deleted, err := app.Cards.DeleteCard(cmd.Context(), card.ID)
			if err != nil {
				return err
			}
			cmd.Printf("deleted card #%d\n", deleted.DisplayID)
			return nil
		},
	}
}

func newClearCompletedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every mastered card",
		RunE: func(cmd *cobra.Command, args []string) error {
			count := app.Cards.ClearCompleted(cmd.Context())
			cmd.Printf("removed %d mastered cards\n", count)
			return nil
		},
	}
}
