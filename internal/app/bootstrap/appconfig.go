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
//   - Request body size limits
//
// The struct is passed to most lifecycle hooks, so any configuration
// needed during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer tokens
	JWTSecret string        // HS256 signing secret (must be strong in production)
	TokenTTL  time.Duration // lifetime of an issued token

	// Admin account created or promoted at startup
	AdminEmail    string
	AdminPassword string
	AdminNPI      string

	// Mailgun. Emails are only logged when the domain or key is empty.
	MailgunDomain string
	MailgunAPIKey string
	MailFrom      string // e.g. "Practice Finder <noreply@example.com>"

	// SiteDomain is the public base URL used for listing links in emails.
	SiteDomain string

	// Listing images
	ImagesDir      string        // root directory with one folder per state
	ImagesURL      string        // URL prefix the folders are served under
	ImagesCacheTTL time.Duration // how long a folder scan is reused

	// Per-state counts cache. Redis is optional.
	RedisAddr      string
	StatesCountTTL time.Duration

	// Outbound identity and registry endpoints
	NPIBaseURL        string
	GoogleUserInfoURL string

	// Allowed CORS origins, comma separated. "*" allows any.
	CORSOrigins string

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string
}
