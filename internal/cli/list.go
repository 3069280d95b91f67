package cli

import (
	"github.com/spf13/cobra"

	"github.com/phrazzld/kioku/internal/service"
)

func newListCmd(app *App) *cobra.Command {
	var status string
	var tags []string
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			sort := app.Settings.GetSortSettings()
			cards := app.Cards.GetFilteredCards(cmd.Context(), service.Filter{
				SearchQuery:   query,
				SelectedTags:  tags,
				Status:        service.Status(status),
				SortField:     sort.Field,
				SortDirection: sort.Direction,
			})
			if len(cards) == 0 {
				cmd.Println("no cards")
				return nil
			}
			for _, card := range cards {
				printCard(cmd, card)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "filter: active, completed, or favorites")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "only cards carrying all given tags")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search query (\"#3\" matches a display ID exactly)")
	return cmd
}

func newTagsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List all tags in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, tag := range app.Cards.GetAllTags(cmd.Context()) {
				cmd.Println(tag)
			}
			return nil
		},
	}
}
