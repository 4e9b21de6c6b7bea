// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/ratelimit"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app. Everything
// here is opened in ConnectDB and released in Shutdown.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil when redis_addr is empty or the server is unreachable.
	Redis *redis.Client

	// Notifier owns the in-flight email goroutines.
	Notifier *mailer.Notifier

	// SigninLimiter owns a sweeper goroutine.
	SigninLimiter *ratelimit.SigninLimiter
}
