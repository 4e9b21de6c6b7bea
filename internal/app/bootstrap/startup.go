// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/practicefinder/internal/app/store/users"
	"github.com/dalemusser/practicefinder/internal/app/system/authutil"
	"github.com/dalemusser/practicefinder/internal/app/system/normalize"
	"github.com/dalemusser/practicefinder/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		logger.Warn("admin_email not set; no admin account ensured")
		return nil
	}
	return ensureAdmin(ctx, deps, appCfg, logger)
}

// ensureAdmin creates the configured admin account, or promotes and
// activates the existing account with that email.
func ensureAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)
	email := normalize.Email(appCfg.AdminEmail)

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		changed, err := users.PromoteAdmin(ctx, existing.ID)
		if err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		if changed {
			logger.Info("existing user promoted to admin", zap.String("email", email))
		} else {
			logger.Info("admin user already exists", zap.String("email", email))
		}
		return nil
	case !errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("lookup admin: %w", err)
	}

	if err := authutil.ValidatePassword(appCfg.AdminPassword); err != nil {
		return fmt.Errorf("admin_password: %w", err)
	}
	hash, err := authutil.HashPassword(appCfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	u, err := users.Create(ctx, models.User{
		FirstName: "Phoenix",
		LastName:  "Creator",
		Email:     email,
		NPI:       appCfg.AdminNPI,
		Password:  hash,
		Role:      models.RoleAdmin,
		Activated: true,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logger.Info("admin user created", zap.String("email", email), zap.String("user_id", u.ID.Hex()))
	return nil
}
