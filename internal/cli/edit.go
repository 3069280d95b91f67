package cli

import (
	"github.com/spf13/cobra"

	"github.com/phrazzld/kioku/internal/domain"
)

func newEditCmd(app *App) *cobra.Command {
	var question, answer string
	var tags, urls []string

	cmd := &cobra.Command{
		Use:   "edit <card>",
		Short: "Edit a card's question, answer, tags, or URLs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := resolveCard(cmd, app, args[0])
			if err != nil {
				return err
			}

			var upd domain.CardUpdate
			if cmd.Flags().Changed("question") {
				upd.Question = &question
			}
			if cmd.Flags().Changed("answer") {
				upd.Answer = &answer
			}
			if cmd.Flags().Changed("tag") {
				upd.Tags = tags
			}
			if cmd.Flags().Changed("url") {
				upd.URLs = urls
			}

			card, err = app.Cards.UpdateCard(cmd.Context(), card.ID, upd)
			if err != nil {
				return err
			}
			cmd.Printf("updated card #%d\n", card.DisplayID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&question, "question", "Q", "", "new question text")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "new answer text")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "replace tags (repeatable)")
	cmd.Flags().StringSliceVarP(&urls, "url", "u", nil, "replace reference URLs (repeatable)")
	return cmd
}
