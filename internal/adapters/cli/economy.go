package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	economyTypes "github.com/attritiongame/attrition-core/internal/application/economy/types"
)

// NewEconomyCommand creates the economy command with subcommands
func NewEconomyCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "economy",
		Short: "Inspect and tick empire economies",
	}

	cmd.AddCommand(newEconomyTickCommand(configPath))
	cmd.AddCommand(newEconomyShowCommand(configPath))

	return cmd
}

func newEconomyTickCommand(configPath *string) *cobra.Command {
	var empireID int
	var elapsedMs int64

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Apply an income payout for an elapsed window",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, ctx, err := engineContext(configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := engine.Mediator.Send(ctx, &economyTypes.TickEconomyCommand{
				EmpireID:  empireID,
				ElapsedMs: elapsedMs,
			})
			if err != nil {
				return err
			}

			result := resp.(*economyTypes.TickEconomyResponse)
			fmt.Printf("Earned %d credits at %.1f credits/hour (balance: %d)\n",
				result.CreditsEarned, result.CreditsPerHour, result.NewBalance)
			return nil
		},
	}

	cmd.Flags().IntVar(&empireID, "empire", 0, "Empire ID (required)")
	cmd.Flags().Int64Var(&elapsedMs, "elapsed", 0, "Elapsed window in milliseconds (required)")
	_ = cmd.MarkFlagRequired("empire")
	_ = cmd.MarkFlagRequired("elapsed")

	return cmd
}

func newEconomyShowCommand(configPath *string) *cobra.Command {
	var empireID int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show an empire's economic summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, ctx, err := engineContext(configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := engine.Mediator.Send(ctx, &economyTypes.GetEmpireQuery{
				EmpireID: empireID,
			})
			if err != nil {
				return err
			}

			result := resp.(*economyTypes.GetEmpireResponse)
			fmt.Printf("Empire %d: %s\n", empireID, result.Name)
			fmt.Printf("  Credits:   %d (+%d milli in remainder)\n", result.Credits, result.RemainderMilli)
			fmt.Printf("  Income:    %.1f credits/hour\n", result.CreditsPerHour)
			fmt.Printf("  Bases:     %d\n", result.Bases)
			if len(result.TechLevels) > 0 {
				fmt.Println("  Technologies:")
				for key, level := range result.TechLevels {
					fmt.Printf("    %-20s L%d\n", key, level)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&empireID, "empire", 0, "Empire ID (required)")
	_ = cmd.MarkFlagRequired("empire")

	return cmd
}
