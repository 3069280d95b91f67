// Package cli is the UI adapter. It renders repository output and invokes
// the service operations on user action; no business logic lives here.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/phrazzld/kioku/internal/domain"
	"github.com/phrazzld/kioku/internal/service"
)

// App bundles the services the commands operate on.
type App struct {
	Cards         *service.CardService
	Settings      *service.SettingsService
	SweepInterval time.Duration
}

// NewRootCmd creates the root command for kioku.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "kioku",
		Short: "Flashcard study with spaced repetition",
		Long: `kioku is a flashcard study tool. Cards you master come back for
review on a forgetting-curve schedule until they stick.`,
		SilenceUsage: true,
	}

	root.AddCommand(newAddCmd(app))
	root.AddCommand(newEditCmd(app))
	root.AddCommand(newListCmd(app))
	root.AddCommand(newSearchCmd(app))
	root.AddCommand(newCompleteCmd(app))
	root.AddCommand(newFavoriteCmd(app))
	root.AddCommand(newRelateCmd(app))
	root.AddCommand(newAttachCmd(app))
	root.AddCommand(newDeleteCmd(app))
	root.AddCommand(newClearCompletedCmd(app))
	root.AddCommand(newTagsCmd(app))
	root.AddCommand(newStatsCmd(app))
	root.AddCommand(newReviewCmd(app))
	root.AddCommand(newSettingsCmd(app))
	root.AddCommand(newWatchCmd(app))

	return root
}

// resolveCard accepts either a raw card ID or a "#n" display-ID reference.
func resolveCard(cmd *cobra.Command, app *App, ref string) (*domain.Card, error) {
	if strings.HasPrefix(ref, "#") {
		displayID, err := strconv.Atoi(ref[1:])
		if err != nil {
			return nil, fmt.Errorf("invalid card reference %q", ref)
		}
		return app.Cards.GetCardByDisplayID(cmd.Context(), displayID)
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid card reference %q", ref)
	}
	return app.Cards.GetCard(cmd.Context(), id)
}

func printCard(cmd *cobra.Command, card *domain.Card) {
	status := "learning"
	if card.Completed {
		status = "mastered"
	}
	marker := " "
	if card.Favorite {
		marker = "*"
	}
	line := fmt.Sprintf("#%-4d %s [%s] %s", card.DisplayID, marker, status, card.Question)
	if len(card.Tags) > 0 {
		line += "  (" + strings.Join(card.Tags, ", ") + ")"
	}
	if card.NextReviewDate != nil {
		line += "  review " + card.NextReviewDate.Local().Format("2006-01-02")
	}
	cmd.Println(line)
}
