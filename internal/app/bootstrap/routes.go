// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	employeesfeature "github.com/plantdesk/plantdesk/internal/app/features/employees"
	healthfeature "github.com/plantdesk/plantdesk/internal/app/features/health"
	lockersfeature "github.com/plantdesk/plantdesk/internal/app/features/lockers"
	roomsfeature "github.com/plantdesk/plantdesk/internal/app/features/rooms"
	"github.com/plantdesk/plantdesk/internal/app/locker"
	audit "github.com/plantdesk/plantdesk/internal/app/store/audit"
	lockerstore "github.com/plantdesk/plantdesk/internal/app/store/lockers"
	"github.com/plantdesk/plantdesk/internal/app/system/auditlog"
	"github.com/plantdesk/plantdesk/internal/app/system/mailer"
	"github.com/plantdesk/plantdesk/internal/app/system/occupancycache"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// PlantDesk assembles the audit logger, the locker writer and its
// reconciliation service, the bulk importer, and the optional email
// notifier, then mounts the JSON API: health, lockers, employees, rooms.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Locker: appCfg.AuditLogLocker,
		Admin:  appCfg.AuditLogAdmin,
	})

	var notifier locker.Notifier
	if appCfg.MailEnabled {
		sender := mailer.NewSender(mailer.Config{
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			Username: appCfg.MailSMTPUser,
			Password: appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
		})
		notifier = mailer.NewLockerNotifier(sender, appCfg.SiteName)
	}

	writer := locker.NewWriter(db, notifier, auditLog, logger)
	service := locker.NewService(db, writer, auditLog, logger)
	importer := locker.NewImporter(db, writer, logger)
	cache := occupancycache.New(deps.Redis, appCfg.OccupancyTTL)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Locker assignment, audit, diagnostics, occupancy, and import
	lockersHandler := lockersfeature.NewHandler(writer, service, importer, lockerstore.New(db), cache, logger)
	r.Mount("/api/lockers", lockersfeature.Routes(lockersHandler))

	// Employee directory (writes mirror into the master projection)
	employeesHandler := employeesfeature.NewHandler(db, writer, auditLog, logger)
	r.Mount("/api/employees", employeesfeature.Routes(employeesHandler))

	// Locker room configuration
	roomsHandler := roomsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/api/rooms", roomsfeature.Routes(roomsHandler))

	return r, nil
}
