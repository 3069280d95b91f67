// Command kioku is the flashcard study CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/phrazzld/kioku/internal/cli"
	"github.com/phrazzld/kioku/internal/config"
	"github.com/phrazzld/kioku/internal/events"
	"github.com/phrazzld/kioku/internal/platform/localstore"
	"github.com/phrazzld/kioku/internal/platform/logger"
	"github.com/phrazzld/kioku/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kioku: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.LogLevel)

	storage, err := localstore.New(cfg.DataDir, log)
	if err != nil {
		return err
	}
	blobs, err := localstore.NewBlobStore(cfg.DataDir)
	if err != nil {
		return err
	}
	emitter := events.NewInMemoryEmitter(log)

	settings, err := service.NewSettingsService(storage, emitter, log)
	if err != nil {
		return err
	}
	cards, err := service.NewCardService(storage, blobs, settings, emitter, log)
	if err != nil {
		return err
	}

	app := &cli.App{
		Cards:         cards,
		Settings:      settings,
		SweepInterval: time.Duration(cfg.SweepIntervalSeconds) * time.Second,
	}
	return cli.NewRootCmd(app).Execute()
}
