// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	authgooglefeature "github.com/dalemusser/practicefinder/internal/app/features/authgoogle"
	errorsfeature "github.com/dalemusser/practicefinder/internal/app/features/errors"
	healthfeature "github.com/dalemusser/practicefinder/internal/app/features/health"
	loginfeature "github.com/dalemusser/practicefinder/internal/app/features/login"
	practicefeature "github.com/dalemusser/practicefinder/internal/app/features/practice"
	publicfeature "github.com/dalemusser/practicefinder/internal/app/features/public"
	systemusersfeature "github.com/dalemusser/practicefinder/internal/app/features/systemusers"
	auditstore "github.com/dalemusser/practicefinder/internal/app/store/audit"
	"github.com/dalemusser/practicefinder/internal/app/system/auditlog"
	"github.com/dalemusser/practicefinder/internal/app/system/auth"
	"github.com/dalemusser/practicefinder/internal/app/system/countcache"
	"github.com/dalemusser/practicefinder/internal/app/system/googleid"
	"github.com/dalemusser/practicefinder/internal/app/system/imagecache"
	"github.com/dalemusser/practicefinder/internal/app/system/metrics"
	"github.com/dalemusser/practicefinder/internal/app/system/npi"
	"github.com/dalemusser/practicefinder/internal/app/system/requestlog"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Practice Finder serves a JSON API under /api/v1 (auth, user, public and
// practice), plus /health, /metrics and the state image folders.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tm, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.TokenTTL, logger)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	errLog := errorsfeature.NewErrorLogger(logger)
	m := metrics.New()
	audit := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
	registry := npi.NewRegistry(appCfg.NPIBaseURL)

	var counts countcache.Cache = countcache.NewMemory(appCfg.StatesCountTTL)
	if deps.Redis != nil {
		counts = countcache.NewRedis(deps.Redis, appCfg.StatesCountTTL, logger)
	}

	r := chi.NewRouter()
	r.Use(requestlog.Middleware(logger))
	r.Use(m.Middleware)
	r.Use(cors.Handler(corsOptions(appCfg.CORSOrigins)))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", m.Handler())

	// State image folders, listed by /practice/{state}/listing-images
	if prefix := strings.TrimRight(appCfg.ImagesURL, "/"); strings.HasPrefix(prefix, "/") {
		r.Handle(prefix+"/*", fileserver.Handler(prefix, appCfg.ImagesDir))
	}

	r.Route("/api/v1", func(api chi.Router) {
		// Authentication: password, Google, and the signed-in account
		loginHandler := loginfeature.NewHandler(db, tm, loginfeature.Options{
			NPI:      registry,
			Limiter:  deps.SigninLimiter,
			Notifier: deps.Notifier,
			Audit:    audit,
			Metrics:  m,
		}, errLog, logger)
		googleHandler := authgooglefeature.NewHandler(db, tm, googleid.NewUserInfo(appCfg.GoogleUserInfoURL), audit, m, errLog, logger)

		authRouter := loginfeature.Routes(loginHandler, tm)
		authRouter.Mount("/google", authgooglefeature.Routes(googleHandler))
		api.Mount("/auth", authRouter)

		// User management
		usersHandler := systemusersfeature.NewHandler(db, systemusersfeature.Options{
			NPI:      registry,
			Notifier: deps.Notifier,
			Audit:    audit,
			Metrics:  m,
		}, errLog, logger)
		api.Mount("/user", systemusersfeature.Routes(usersHandler, tm))

		// Public forms
		publicHandler := publicfeature.NewHandler(db, registry, deps.Notifier, m, errLog, logger)
		api.Mount("/public", publicfeature.Routes(publicHandler))

		// Listings
		practiceHandler := practicefeature.NewHandler(db, practicefeature.Options{
			Notifier:   deps.Notifier,
			Images:     imagecache.New(appCfg.ImagesDir, appCfg.ImagesURL, appCfg.ImagesCacheTTL),
			Counts:     counts,
			Metrics:    m,
			SiteDomain: appCfg.SiteDomain,
		}, errLog, logger)
		api.Mount("/practice", practicefeature.Routes(practiceHandler, tm))
	})

	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	return r, nil
}

// corsOptions allows the configured origins. An empty list allows any.
func corsOptions(origins string) cors.Options {
	allowed := []string{"*"}
	if list := splitList(origins); len(list) > 0 {
		allowed = list
	}
	return cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{requestlog.Header},
		MaxAge:         300,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
