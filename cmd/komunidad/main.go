// Command komunidad is a terminal client for the Komunidad bulletin board.
// It talks to the API server and drives the same screens, session store and
// navigation guards as any other client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/komunidad/bulletin-board/internal/app"
	"github.com/komunidad/bulletin-board/internal/core/guard"
	"github.com/komunidad/bulletin-board/internal/core/service"
	"github.com/komunidad/bulletin-board/internal/core/session"
	"github.com/komunidad/bulletin-board/internal/infrastructure/apiclient"
	"github.com/komunidad/bulletin-board/internal/infrastructure/config"
	"github.com/komunidad/bulletin-board/internal/infrastructure/db/memory"
	"github.com/komunidad/bulletin-board/pkg/logger"
)

func main() {
	var (
		apiURL  string
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:           "komunidad",
		Short:         "Terminal client for the Komunidad bulletin board",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := config.LoadClient(ctx)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("api") {
				cfg.APIURL = apiURL
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = timeout
			}
			return run(ctx, cfg)
		},
	}
	root.Flags().StringVar(&apiURL, "api", "", "API base URL (overrides KOMUNIDAD_API_URL)")
	root.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout (overrides KOMUNIDAD_TIMEOUT)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.ClientConfig) error {
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr})

	client := apiclient.New(cfg.APIURL, cfg.Timeout, log)
	store := session.NewStore(client, client, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := store.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("session store stopped")
		}
	}()

	// Snapshots live in process memory: the feed falls back to the last
	// list seen in this run when the API is unreachable.
	announcements := service.NewAnnouncements(client.Announcements(), memory.NewSnapshotCache(), log)

	sh := &shell{
		in:  os.Stdin,
		out: os.Stdout,
		deps: app.Deps{
			Accounts:      service.NewAccountService(client, client, log),
			Announcements: announcements,
			Areas:         service.NewAreaDirectory(client.Areas()),
			Notifier:      consoleNotifier{out: os.Stdout},
			Log:           log,
		},
		store:   store,
		nav:     guard.NewNavigator(guard.Routes, guard.RequireSession(store), guard.RequireRole(store)),
		timeout: client.Timeout(),
	}
	return sh.run(ctx)
}
