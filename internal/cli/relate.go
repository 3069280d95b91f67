package cli

import (
	"github.com/spf13/cobra"
)

func newRelateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "relate <card> [related...]",
		Short: "Replace a card's related-card set (bidirectional)",
		Long: `Replace the set of cards related to the given card. The relation is kept
symmetric: deselected cards drop the back-reference, newly selected cards
gain one. Passing no related cards clears the set.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := resolveCard(cmd, app, args[0])
			if err != nil {
				return err
			}
			related := make([]int64, 0, len(args)-1)
			for _, ref := range args[1:] {
				r, err := resolveCard(cmd, app, ref)
				if err != nil {
					return err
				}
				related = append(related, r.ID)
			}
			card, err = app.Cards.SetRelatedCards(cmd.Context(), card.ID, related)
			if err != nil {
				return err
			}
			cmd.Printf("card #%d now has %d related cards\n", card.DisplayID, len(card.RelatedCards))
			return nil
		},
	}
}
