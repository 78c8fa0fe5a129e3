package main

import (
	"expert-match/internal/fixture"

	"github.com/spf13/cobra"
)

func newCompatCmd(c *cli) *cobra.Command {
	var file, expert, demand, format string

	cmd := &cobra.Command{
		Use:   "compat",
		Short: "Explain how one expert of a fixture scores against one demand",
		RunE: func(cmd *cobra.Command, _ []string) error {
			expertID, err := parseID("expert", expert)
			if err != nil {
				return err
			}
			demandID, err := parseID("demand", demand)
			if err != nil {
				return err
			}

			set, err := fixture.Load(file)
			if err != nil {
				return err
			}
			e, err := set.Expert(expertID)
			if err != nil {
				return err
			}
			d, err := set.Demand(demandID)
			if err != nil {
				return err
			}

			calc, _, err := c.calculator()
			if err != nil {
				return err
			}
			res, err := calc.CheckCompatibility(e, d)
			if err != nil {
				return err
			}
			return render(out(cmd), format, toCompatView(res))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixture with experts and demands")
	cmd.Flags().StringVar(&expert, "expert", "", "expert id from the fixture")
	cmd.Flags().StringVar(&demand, "demand", "", "demand id from the fixture")
	cmd.Flags().StringVarP(&format, "output", "o", "json", "output format (json or yaml)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("expert")
	_ = cmd.MarkFlagRequired("demand")

	return cmd
}
