package main

import (
	"expert-match/internal/domain/matching"
	"expert-match/internal/fixture"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRecommendCmd(c *cli) *cobra.Command {
	var (
		file        string
		demand      string
		topN        int
		minScore    float64
		format      string
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank the experts of a fixture file against one of its demands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			demandID, err := parseID("demand", demand)
			if err != nil {
				return err
			}
			set, err := fixture.Load(file)
			if err != nil {
				return err
			}
			d, err := set.Demand(demandID)
			if err != nil {
				return err
			}

			calc, sc, err := c.calculator()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("top-n") {
				topN = sc.DefaultTopN
			}
			if !cmd.Flags().Changed("min-score") {
				minScore = sc.DefaultMinScore
			}
			if !cmd.Flags().Changed("parallelism") {
				parallelism = sc.Parallelism
			}

			ctx, cancel := c.context(cmd)
			defer cancel()

			rec, err := matching.NewRecommender(calc, parallelism).Recommend(ctx, d, set.Experts, topN, minScore)
			if err != nil {
				return err
			}
			for _, s := range rec.Skipped {
				c.logger.Warn("expert skipped", zap.String("expert_id", s.ExpertID.String()), zap.Error(s.Err))
			}
			c.logger.Info("recommendation computed",
				zap.String("demand_id", d.ID.String()),
				zap.Int("considered", rec.Considered),
				zap.Int("eligible", rec.Eligible),
				zap.Int("returned", len(rec.Candidates)),
			)

			if topN > matching.MaxTopN {
				topN = matching.MaxTopN
			}
			return render(out(cmd), format, toRecommendView(d, topN, minScore, rec))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixture with experts and demands")
	cmd.Flags().StringVar(&demand, "demand", "", "demand id from the fixture")
	cmd.Flags().IntVar(&topN, "top-n", matching.DefaultTopN, "maximum candidates to return (capped at 50)")
	cmd.Flags().Float64Var(&minScore, "min-score", matching.DefaultMinScore, "minimum total score")
	cmd.Flags().StringVarP(&format, "output", "o", "json", "output format (json or yaml)")
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "scoring goroutines; 0 uses GOMAXPROCS")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("demand")

	return cmd
}
