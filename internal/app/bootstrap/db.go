// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/plantdesk/plantdesk/internal/app/store/audit"
	"github.com/plantdesk/plantdesk/internal/app/system/indexes"
	"go.uber.org/zap"
)

// EnsureSchema creates the indexes the stores and audit views rely on.
// Every ensure step is idempotent, so restarts are safe.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return err
	}
	return audit.New(deps.MongoDatabase).EnsureIndexes(ctx)
}
