package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MathiasVDS1/ProjectManagement/config"
	"github.com/MathiasVDS1/ProjectManagement/core/catalog"
	"github.com/MathiasVDS1/ProjectManagement/core/planner"
	"github.com/MathiasVDS1/ProjectManagement/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "leadtime",
	Short: "Probabilistic lead time and expedite decision service",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// buildPlanner assembles a one-shot planner for the decide and schedule
// commands, without the server surfaces.
func buildPlanner() (*planner.Planner, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return planner.New(cat, cfg.Policy, cfg.Optimizer, planner.Config{
		Trials: cfg.Simulation.Trials,
		Seed:   cfg.Simulation.Seed,
	}, logger.New("planner")), nil
}
