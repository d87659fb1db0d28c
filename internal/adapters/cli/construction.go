package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attritiongame/attrition-core/internal/application/common"
	constructionTypes "github.com/attritiongame/attrition-core/internal/application/construction/types"
	economyTypes "github.com/attritiongame/attrition-core/internal/application/economy/types"
)

// NewBuildCommand creates the build command with subcommands
func NewBuildCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Manage construction, production and research queues",
	}

	cmd.AddCommand(newBuildStartCommand(configPath))
	cmd.AddCommand(newBuildCancelCommand(configPath))
	cmd.AddCommand(newBuildQueueCommand(configPath))
	cmd.AddCommand(newBuildSweepCommand(configPath))

	return cmd
}

func newBuildStartCommand(configPath *string) *cobra.Command {
	var empireID int
	var baseCoord, catalogKey string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Queue one construction, production or research action",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, ctx, err := engineContext(configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := engine.Mediator.Send(ctx, &constructionTypes.StartConstructionCommand{
				EmpireID:   empireID,
				BaseCoord:  baseCoord,
				CatalogKey: catalogKey,
			})
			if err != nil {
				return err
			}

			result := resp.(*constructionTypes.StartConstructionResponse)
			item := result.Item
			fmt.Printf("Queued %s (slot Q%d, target level %d, cost %d credits)\n",
				item.IdentityKey(), item.Slot(), item.TargetLevel(), item.CreditsCost())
			if completes := item.CompletesAt(); completes != nil {
				fmt.Printf("Completes at %s\n", completes.Format("2006-01-02 15:04:05 MST"))
			} else {
				fmt.Println("Pending: waiting for an active slot")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&empireID, "empire", 0, "Empire ID (required)")
	cmd.Flags().StringVar(&baseCoord, "base", "", "Base coordinate (required)")
	cmd.Flags().StringVar(&catalogKey, "key", "", "Catalog key (required)")
	_ = cmd.MarkFlagRequired("empire")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newBuildCancelCommand(configPath *string) *cobra.Command {
	var empireID int
	var itemID string

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a pending queue item and refund its cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, ctx, err := engineContext(configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := engine.Mediator.Send(ctx, &constructionTypes.CancelQueueItemCommand{
				QueueItemID: itemID,
				EmpireID:    empireID,
			})
			if err != nil {
				return err
			}

			result := resp.(*constructionTypes.CancelQueueItemResponse)
			fmt.Printf("Refunded %d credits (new balance: %d)\n", result.RefundedCredits, result.NewBalance)
			return nil
		},
	}

	cmd.Flags().IntVar(&empireID, "empire", 0, "Empire ID (required)")
	cmd.Flags().StringVar(&itemID, "item", "", "Queue item ID (required)")
	_ = cmd.MarkFlagRequired("empire")
	_ = cmd.MarkFlagRequired("item")

	return cmd
}

func newBuildQueueCommand(configPath *string) *cobra.Command {
	var empireID int
	var baseCoord string

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List queue items for an empire",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, ctx, err := engineContext(configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := engine.Mediator.Send(ctx, &constructionTypes.GetQueueQuery{
				EmpireID:  empireID,
				BaseCoord: baseCoord,
			})
			if err != nil {
				return err
			}

			result := resp.(*constructionTypes.GetQueueResponse)
			if len(result.Items) == 0 {
				fmt.Println("Queue is empty")
				return nil
			}
			for _, item := range result.Items {
				completes := "-"
				if t := item.CompletesAt(); t != nil {
					completes = t.Format("2006-01-02 15:04:05")
				}
				fmt.Printf("%-10s %-50s cost=%-8d completes=%s\n",
					item.Status(), item.IdentityKey(), item.CreditsCost(), completes)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&empireID, "empire", 0, "Empire ID (required)")
	cmd.Flags().StringVar(&baseCoord, "base", "", "Base coordinate (optional: all bases if omitted)")
	_ = cmd.MarkFlagRequired("empire")

	return cmd
}

func newBuildSweepCommand(configPath *string) *cobra.Command {
	var empireID int
	var baseCoord string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Finalize due items at a base and promote pending ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, ctx, err := engineContext(configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := engine.Mediator.Send(ctx, &constructionTypes.FinalizeDueItemsCommand{
				EmpireID:  empireID,
				BaseCoord: baseCoord,
			})
			if err != nil {
				return err
			}

			result := resp.(*constructionTypes.FinalizeDueItemsResponse)
			fmt.Printf("Completed %d item(s), promoted %d\n", result.Completed, result.Promoted)
			return nil
		},
	}

	cmd.Flags().IntVar(&empireID, "empire", 0, "Empire ID (required)")
	cmd.Flags().StringVar(&baseCoord, "base", "", "Base coordinate (required)")
	_ = cmd.MarkFlagRequired("empire")
	_ = cmd.MarkFlagRequired("base")

	return cmd
}

// NewCapacitiesCommand creates the capacities command
func NewCapacitiesCommand(configPath *string) *cobra.Command {
	var empireID int
	var baseCoord string

	cmd := &cobra.Command{
		Use:   "capacities",
		Short: "Show a base's current throughput snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, ctx, err := engineContext(configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			resp, err := engine.Mediator.Send(ctx, &economyTypes.GetCapacitiesQuery{
				EmpireID:  empireID,
				BaseCoord: baseCoord,
			})
			if err != nil {
				return err
			}

			result := resp.(*economyTypes.GetCapacitiesResponse)
			s := result.Snapshot
			fmt.Printf("Base %s\n", baseCoord)
			fmt.Printf("  Construction: %8.1f credits/hour\n", s.ConstructionRate)
			fmt.Printf("  Production:   %8.1f credits/hour\n", s.ProductionRate)
			fmt.Printf("  Research:     %8.1f credits/hour\n", s.ResearchRate)
			fmt.Printf("  Income:       %8.1f credits/hour\n", result.IncomeRate)
			fmt.Printf("  Net energy:   %8d\n", s.NetEnergy)
			return nil
		},
	}

	cmd.Flags().IntVar(&empireID, "empire", 0, "Empire ID (required)")
	cmd.Flags().StringVar(&baseCoord, "base", "", "Base coordinate (required)")
	_ = cmd.MarkFlagRequired("empire")
	_ = cmd.MarkFlagRequired("base")

	return cmd
}

// engineContext builds the engine and a context carrying the configured
// logger
func engineContext(configPath *string) (*Engine, context.Context, error) {
	engine, err := NewEngine(*configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := NewConsoleLogger(engine.Config.Logging.Level, engine.Config.Logging.Format, engine.Config.Logging.Output)
	ctx := common.WithLogger(context.Background(), logger)
	return engine, ctx, nil
}
