package cli

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/attritiongame/attrition-core/internal/adapters/metrics"
	"github.com/attritiongame/attrition-core/internal/application/common"
	constructionTypes "github.com/attritiongame/attrition-core/internal/application/construction/types"
	economyTypes "github.com/attritiongame/attrition-core/internal/application/economy/types"
)

// NewServeCommand creates the serve command: a paced sweep loop that
// finalizes due queue items and ticks every empire's economy.
func NewServeCommand(configPath *string) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the periodic sweep loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, ctx, err := engineContext(configPath)
			if err != nil {
				return err
			}
			defer engine.Close()

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if engine.Config.Metrics.Enabled {
				go serveMetrics(metricsAddr)
			}

			fmt.Printf("Sweeping every %s\n", engine.Config.Sweep.Interval)
			limiter := rate.NewLimiter(rate.Every(engine.Config.Sweep.Interval), 1)
			for {
				if err := limiter.Wait(ctx); err != nil {
					// Context cancelled: clean shutdown
					return nil
				}
				sweepOnce(ctx, engine)
			}
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9190", "Prometheus metrics listen address")

	return cmd
}

// sweepOnce ticks every empire's economy and finalizes due items at every
// base. Failures are logged and skipped: the next pass retries naturally.
func sweepOnce(ctx context.Context, engine *Engine) {
	logger := common.LoggerFromContext(ctx)

	ids, err := engine.EmpireRepo.ListIDs(ctx)
	if err != nil {
		logger.Log("ERROR", "sweep: failed to list empires", map[string]interface{}{"error": err.Error()})
		return
	}

	for _, id := range ids {
		emp, err := engine.EmpireRepo.FindByID(ctx, id)
		if err != nil {
			logger.Log("WARN", "sweep: failed to load empire", map[string]interface{}{
				"empire_id": id.Value(), "error": err.Error(),
			})
			continue
		}

		elapsed := time.Since(emp.LastPayoutAt())
		if elapsed > 0 {
			_, err := engine.Mediator.Send(ctx, &economyTypes.TickEconomyCommand{
				EmpireID:  id.Value(),
				ElapsedMs: elapsed.Milliseconds(),
			})
			if err != nil {
				logger.Log("WARN", "sweep: economy tick failed", map[string]interface{}{
					"empire_id": id.Value(), "error": err.Error(),
				})
			}
		}

		bases, err := engine.BaseRepo.ListByEmpire(ctx, id)
		if err != nil {
			logger.Log("WARN", "sweep: failed to list bases", map[string]interface{}{
				"empire_id": id.Value(), "error": err.Error(),
			})
			continue
		}
		for _, b := range bases {
			_, err := engine.Mediator.Send(ctx, &constructionTypes.FinalizeDueItemsCommand{
				EmpireID:  id.Value(),
				BaseCoord: b.Coord().Value(),
			})
			if err != nil {
				logger.Log("WARN", "sweep: finalize failed", map[string]interface{}{
					"empire_id": id.Value(), "base": b.Coord().Value(), "error": err.Error(),
				})
			}
		}
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	_ = http.ListenAndServe(addr, mux)
}
