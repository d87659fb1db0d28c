package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the attrition CLI root with all subcommands
func NewRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "attrition",
		Short: "Attrition construction and economy engine",
		Long: `Attrition construction and economy engine.

Computes per-base capacities, schedules construction/production/research
queue items against them and accrues empire income over time.

Examples:
  attrition serve
  attrition capacities --empire 1 --base A00:00:00:01
  attrition build start --empire 1 --base A00:00:00:01 --key solar_plants
  attrition economy tick --empire 1 --elapsed 3600000`,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: search standard locations)")

	cmd.AddCommand(NewServeCommand(&configPath))
	cmd.AddCommand(NewCapacitiesCommand(&configPath))
	cmd.AddCommand(NewBuildCommand(&configPath))
	cmd.AddCommand(NewEconomyCommand(&configPath))

	return cmd
}
