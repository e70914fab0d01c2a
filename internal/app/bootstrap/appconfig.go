// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to PlantDesk lives: database
// connection strings, the Redis snapshot cache, SMTP for locker
// notifications, audit routing, and the reconciliation sweep cadence.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Redis occupancy snapshot cache (blank addr disables caching)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Email/SMTP configuration for locker notifications
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@plantdesk.example)
	MailEnabled  bool   // When false no notification emails are sent

	// Display name used in notification emails
	SiteName string

	// Base URL of the deployment, used in email links
	BaseURL string

	// Audit logging routing: "all" (db+log), "db", "log", or "off"
	AuditLogLocker string
	AuditLogAdmin  string

	// Reconciliation sweep cadence and occupancy snapshot TTL
	SweepInterval time.Duration
	OccupancyTTL  time.Duration
}
