// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown drains pending emails and tears down connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Notifier != nil {
		logger.Info("waiting for pending emails")
		deps.Notifier.Wait()
	}
	if deps.SigninLimiter != nil {
		deps.SigninLimiter.Close()
	}
	if deps.Redis != nil {
		if err := deps.Redis.Close(); err != nil {
			logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
