package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show collection statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := app.Cards.GetStats(cmd.Context())
			cmd.Printf("total:     %d\n", stats.Total)
			cmd.Printf("learning:  %d\n", stats.Active)
			cmd.Printf("mastered:  %d\n", stats.Completed)
			cmd.Printf("favorites: %d\n", stats.Favorite)
			return nil
		},
	}
}

func newReviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Show the upcoming review schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cards := app.Cards.GetCardsNeedingReview(cmd.Context())
			if len(cards) == 0 {
				cmd.Println("no reviews scheduled")
				return nil
			}
			sort.SliceStable(cards, func(i, j int) bool {
				return cards[i].NextReviewDate.Before(*cards[j].NextReviewDate)
			})
			for _, card := range cards {
				printCard(cmd, card)
			}
			return nil
		},
	}
}
