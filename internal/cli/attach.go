package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func newAttachCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "attach <card> <image-file>",
		Short: "Attach an image to a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := resolveCard(cmd, app, args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			card, err = app.Cards.AttachImage(cmd.Context(), card.ID, data)
			if err != nil {
				return err
			}
			cmd.Printf("card #%d now has %d images\n", card.DisplayID, len(card.Images))
			return nil
		},
	}
}
