// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/plantdesk/plantdesk/internal/app/system/occupancycache"
	"github.com/plantdesk/plantdesk/internal/app/system/timeouts"
	"github.com/plantdesk/plantdesk/internal/app/system/workers"
	"go.uber.org/zap"
)

// reconcileWorker is started here and stopped in Shutdown.
var reconcileWorker *workers.Reconcile

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It
// configures handler timeouts and starts the mirror reconciliation sweep.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("handler timeouts configured from environment", zap.Int("count", n))
	}

	if appCfg.SweepInterval > 0 {
		cache := occupancycache.New(deps.Redis, appCfg.OccupancyTTL)
		reconcileWorker = workers.NewReconcile(deps.MongoDatabase, cache, logger, appCfg.SweepInterval)
		reconcileWorker.Start()
	} else {
		logger.Info("mirror reconciliation sweep disabled (sweep_interval is 0)")
	}

	return nil
}
