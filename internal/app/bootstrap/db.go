// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/practicefinder/internal/app/system/countcache"
	"github.com/dalemusser/practicefinder/internal/app/system/indexes"
	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/ratelimit"
	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens MongoDB (required), Redis (optional) and the outbound
// mail transport.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n))
	}

	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("MongoDB connected", zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Redis:         countcache.Connect(ctx, appCfg.RedisAddr, logger),
		Notifier:      mailer.NewNotifier(newSender(appCfg, logger), appCfg.AdminEmail, logger),
		SigninLimiter: ratelimit.NewSigninLimiter(),
	}, nil
}

// newSender picks Mailgun when it is configured and the log sender
// otherwise.
func newSender(appCfg AppConfig, logger *zap.Logger) mailer.Sender {
	if appCfg.MailgunDomain == "" || appCfg.MailgunAPIKey == "" {
		logger.Warn("mailgun not configured; emails will be logged, not sent")
		return mailer.LogSender{Log: logger}
	}
	return mailer.NewMailgunSender(appCfg.MailgunDomain, appCfg.MailgunAPIKey, appCfg.MailFrom)
}

// EnsureSchema reconciles the indexes of every collection.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}
