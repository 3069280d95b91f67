package cli

import (
	"github.com/spf13/cobra"
)

func newCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <card>",
		Short: "Toggle a card between learning and mastered",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := resolveCard(cmd, app, args[0])
			if err != nil {
				return err
			}
			card, err = app.Cards.ToggleCardCompletion(cmd.Context(), card.ID)
			if err != nil {
				return err
			}
			if card.Completed {
				cmd.Printf("card #%d mastered", card.DisplayID)
				if card.NextReviewDate != nil {
					cmd.Printf(", review on %s", card.NextReviewDate.Local().Format("2006-01-02"))
				}
				cmd.Println()
			} else {
				cmd.Printf("card #%d back to learning\n", card.DisplayID)
			}
			return nil
		},
	}
}

func newFavoriteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <card>",
		Short: "Toggle a card's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := resolveCard(cmd, app, args[0])
			if err != nil {
				return err
			}
			card, err = app.Cards.ToggleCardFavorite(cmd.Context(), card.ID)
			if err != nil {
				return err
			}
			if card.Favorite {
				cmd.Printf("card #%d favorited\n", card.DisplayID)
			} else {
				cmd.Printf("card #%d unfavorited\n", card.DisplayID)
			}
			return nil
		},
	}
}
