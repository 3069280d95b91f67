package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phrazzld/kioku/internal/events"
	"github.com/phrazzld/kioku/internal/service"
)

// reviewNotifier prints the aggregate sweep notification the way the
// original UI toasts it: one message per sweep, never one per card.
type reviewNotifier struct {
	cmd *cobra.Command
}

func (n *reviewNotifier) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeReviewsDue {
		return nil
	}
	var payload events.ReviewsDuePayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return err
	}
	n.cmd.Printf("%d cards are due and moved back to learning\n", payload.Count)
	return nil
}

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the forgetting-curve sweep until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if emitter, ok := app.Cards.Emitter().(*events.InMemoryEmitter); ok {
				emitter.RegisterHandler(&reviewNotifier{cmd: cmd})
			}

			sweeper, err := service.NewSweeper(app.Cards, app.SweepInterval, nil)
			if err != nil {
				return err
			}
			if err := sweeper.Start(); err != nil {
				return err
			}
			defer sweeper.Stop()

			cmd.Printf("watching, sweep every %s (ctrl-c to stop)\n", app.SweepInterval)
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			select {
			case <-stop:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}
}
