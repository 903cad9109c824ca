// Command seed-areas bulk-loads barangay names into the area collection.
//
//	seed-areas barangays.txt
//
// The file holds one name per line; blank lines and '#' comments are
// skipped. Names already stored are left alone, so the command can be rerun.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/komunidad/bulletin-board/internal/infrastructure/config"
	"github.com/komunidad/bulletin-board/internal/infrastructure/db/mongo"
	"github.com/komunidad/bulletin-board/internal/infrastructure/seed"
	"github.com/komunidad/bulletin-board/pkg/logger"
)

func main() {
	var verbose bool

	cmd := &cobra.Command{
		Use:          "seed-areas [file]",
		Short:        "Load area names into MongoDB",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				in = f
			}
			return run(cmd.Context(), in, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every staged name")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, verbose bool) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logger.Init(logger.Options{Level: level, Pretty: true})

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	areas := mongo.NewAreaRepository(db)
	if err := areas.EnsureIndexes(ctx); err != nil {
		return err
	}

	read, inserted, err := seed.LoadAreas(ctx, in, areas, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%d names read, %d new areas stored\n", read, inserted)
	return nil
}
