package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/people-analytics/mailing-cli/internal/config"
	"github.com/people-analytics/mailing-cli/internal/pipeline"
	"github.com/people-analytics/mailing-cli/internal/store"
	"github.com/people-analytics/mailing-cli/pkg/geocode"
)

var (
	runGroup       string
	runPrefix      string
	runTargetFiles int
	runOverwrite   bool
	runNoStore     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the mailing batch and write the dialing files",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyRunFlags(cfg)
		return executeRun(cmd.Context(), cfg)
	},
}

// applyRunFlags folds the command-line overrides into the loaded config.
func applyRunFlags(cfg *config.Config) {
	if runGroup != "" {
		cfg.Run.Group = runGroup
	}
	if runPrefix != "" {
		cfg.Run.Prefix = runPrefix
	}
	if runTargetFiles > 0 {
		cfg.Run.TargetFiles = runTargetFiles
	}
	if runOverwrite {
		cfg.Run.OnExisting = config.OnExistingOverwrite
	}
	if runNoStore {
		cfg.Store.Enabled = false
	}
}

func executeRun(ctx context.Context, cfg *config.Config) error {
	opts := []pipeline.Option{}

	if cfg.Store.Enabled {
		sink, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer sink.Close() //nolint:errcheck
		if err := sink.Migrate(ctx); err != nil {
			return err
		}
		opts = append(opts, pipeline.WithSink(sink))
	}

	if cfg.Geocode.Enabled {
		opts = append(opts, pipeline.WithGeocoder(
			geocode.New(cfg.Geocode.BaseURL, cfg.Geocode.UserAgent),
		))
	}

	result, err := pipeline.New(cfg, opts...).Run(ctx)
	if err != nil {
		return err
	}

	log := zap.L()
	for _, m := range result.Matrices {
		log.Info("run: city summary",
			zap.String("city", m.City),
			zap.Int("raw", m.Total.Raw),
			zap.Int("clean", m.Total.Clean),
		)
	}
	log.Info("run: done",
		zap.String("prefix", result.Run.Prefix),
		zap.Int("files", len(result.Files)),
	)
	return nil
}

func init() {
	runCmd.Flags().StringVar(&runGroup, "group", "", "shift group for the file prefix (default by time of day)")
	runCmd.Flags().StringVar(&runPrefix, "prefix", "", "override the generated file prefix")
	runCmd.Flags().IntVar(&runTargetFiles, "files", 0, "target file count per partition (default from config)")
	runCmd.Flags().BoolVar(&runOverwrite, "overwrite", false, "overwrite existing output files instead of aborting")
	runCmd.Flags().BoolVar(&runNoStore, "no-store", false, "skip persisting the run to the database")
	rootCmd.AddCommand(runCmd)
}
