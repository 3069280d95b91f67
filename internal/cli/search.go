package cli

import (
	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search cards by question, answer, or tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cards := app.Cards.SearchCards(cmd.Context(), args[0])
			if len(cards) == 0 {
				cmd.Println("no matches")
				return nil
			}
			for _, card := range cards {
				printCard(cmd, card)
			}
			return nil
		},
	}
}
