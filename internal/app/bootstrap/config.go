// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/practicefinder/internal/app/system/googleid"
	"github.com/dalemusser/practicefinder/internal/app/system/npi"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devJWTSecret is accepted outside prod only.
const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// minJWTSecretLen is the shortest secret accepted in prod.
const minJWTSecretLen = 32

// appConfigKeys defines the configuration keys for Practice Finder.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: PRACTICEFINDER_MONGO_URI, PRACTICEFINDER_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "practice_finder", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Bearer tokens
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "Token signing secret (must be strong in production)"},
	{Name: "token_ttl", Default: "24h", Desc: "Token lifetime (e.g., 24h, 90m)"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the admin user (created or promoted on startup)"},
	{Name: "admin_password", Default: "", Desc: "Password for a newly created admin user"},
	{Name: "admin_npi", Default: "", Desc: "NPI stored on a newly created admin user"},

	// Email
	{Name: "mailgun_domain", Default: "", Desc: "Mailgun sending domain (blank logs emails instead)"},
	{Name: "mailgun_api_key", Default: "", Desc: "Mailgun API key"},
	{Name: "mail_from", Default: "Practice Finder <noreply@practicefinder.local>", Desc: "From address"},
	{Name: "site_domain", Default: "http://localhost:3000", Desc: "Public base URL for links in emails"},

	// Listing images
	{Name: "images_dir", Default: "./public/images", Desc: "Directory holding one image folder per state"},
	{Name: "images_url", Default: "/images", Desc: "URL prefix for state image folders"},
	{Name: "images_cache_ttl", Default: "10m", Desc: "How long an image folder listing is cached"},

	// Counts cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the states count cache (blank uses memory)"},
	{Name: "states_count_ttl", Default: "5m", Desc: "How long per-state listing counts are cached"},

	// Collaborators
	{Name: "npi_base_url", Default: npi.DefaultBaseURL, Desc: "NPI registry API endpoint"},
	{Name: "google_userinfo_url", Default: googleid.DefaultUserInfoURL, Desc: "Google userinfo endpoint"},

	{Name: "cors_origins", Default: "*", Desc: "Allowed CORS origins, comma separated"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, PRACTICEFINDER_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PRACTICEFINDER", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		TokenTTL:  appValues.Duration("token_ttl", 24*time.Hour),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
		AdminNPI:      appValues.String("admin_npi"),

		MailgunDomain: appValues.String("mailgun_domain"),
		MailgunAPIKey: appValues.String("mailgun_api_key"),
		MailFrom:      appValues.String("mail_from"),
		SiteDomain:    appValues.String("site_domain"),

		ImagesDir:      appValues.String("images_dir"),
		ImagesURL:      appValues.String("images_url"),
		ImagesCacheTTL: appValues.Duration("images_cache_ttl", 10*time.Minute),

		RedisAddr:      appValues.String("redis_addr"),
		StatesCountTTL: appValues.Duration("states_count_ttl", 5*time.Minute),

		NPIBaseURL:        appValues.String("npi_base_url"),
		GoogleUserInfoURL: appValues.String("google_userinfo_url"),

		CORSOrigins: appValues.String("cors_origins"),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked before attempting to connect. In prod
// the development token secret and short secrets are rejected.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateSecret(coreCfg.Env, appCfg.JWTSecret)
}

func validateSecret(env, secret string) error {
	if secret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if env != "prod" {
		return nil
	}
	if secret == devJWTSecret {
		return fmt.Errorf("jwt_secret must be changed from the development default in prod")
	}
	if len(secret) < minJWTSecretLen {
		return fmt.Errorf("jwt_secret must be at least %d characters in prod", minJWTSecretLen)
	}
	return nil
}
