package cli

import (
	"github.com/spf13/cobra"

	"github.com/phrazzld/kioku/internal/domain"
)

func newAddCmd(app *App) *cobra.Command {
	var answer string
	var tags []string
	var urls []string

	cmd := &cobra.Command{
		Use:   "add <question>",
		Short: "Add a new card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := app.Cards.AddCard(cmd.Context(), domain.CardData{
				Question: args[0],
				Answer:   answer,
				Tags:     tags,
				URLs:     urls,
			})
			if err != nil {
				return err
			}
			cmd.Printf("added card #%d\n", card.DisplayID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&answer, "answer", "a", "", "answer text")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tags (repeatable)")
	cmd.Flags().StringSliceVarP(&urls, "url", "u", nil, "reference URLs (repeatable)")
	return cmd
}
