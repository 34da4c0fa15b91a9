package main

import (
	"github.com/spf13/cobra"

	"docparse/internal/supervisor"
)

type healthReport struct {
	URL       string `json:"url" yaml:"url"`
	Reachable bool   `json:"reachable" yaml:"reachable"`
}

func newHealthCmd(output *string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the parser server once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zl, err := setup()
			if err != nil {
				return err
			}
			sup := supervisor.New(&cfg.Supervisor, zl)
			return render(cmd.OutOrStdout(), *output, healthReport{
				URL:       cfg.Supervisor.HealthURL,
				Reachable: sup.HealthCheck(cmd.Context()),
			})
		},
	}
}
