package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"expert-match/internal/config"
	"expert-match/internal/domain/matching"
	"expert-match/internal/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const cliName = "matchctl"

type cli struct {
	logLevel  string
	logFormat string
	timeout   time.Duration

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          cliName,
		Short:        "matchctl scores expert pools offline and manages the matching database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := logger.New(c.logLevel, c.logFormat)
			if err != nil {
				return fmt.Errorf("creating a logger: %w", err)
			}
			c.logger = l.Named(cliName)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "console", "log format (console or json)")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 2*time.Minute, "overall command timeout")

	root.AddCommand(
		newRecommendCmd(c),
		newCompatCmd(c),
		newMigrateCmd(c),
		newSeedCmd(c),
		newTokenCmd(c),
	)
	return root
}

func (c *cli) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// calculator honours SCORING_* from the environment so offline runs score
// exactly like the service.
func (c *cli) calculator() (*matching.Calculator, config.ScoringConfig, error) {
	sc, err := config.LoadScoring()
	if err != nil {
		return nil, config.ScoringConfig{}, err
	}
	calc, err := matching.NewCalculator(sc.Weights, sc.Policy)
	if err != nil {
		return nil, config.ScoringConfig{}, err
	}
	return calc, sc, nil
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
