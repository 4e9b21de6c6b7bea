// internal/app/features/systemusers/handler.go
package systemusers

import (
	uierrors "github.com/dalemusser/practicefinder/internal/app/features/errors"
	authproviderstore "github.com/dalemusser/practicefinder/internal/app/store/authproviders"
	listingstore "github.com/dalemusser/practicefinder/internal/app/store/listings"
	userstore "github.com/dalemusser/practicefinder/internal/app/store/users"
	"github.com/dalemusser/practicefinder/internal/app/system/auditlog"
	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/metrics"
	"github.com/dalemusser/practicefinder/internal/app/system/npi"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const msgUserNotFound = "User not found."

// Options carries the collaborators of user management.
type Options struct {
	NPI      npi.Validator
	Notifier *mailer.Notifier
	Audit    *auditlog.Logger
	Metrics  *metrics.Metrics
}

type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Users         *userstore.Store
	Listings      *listingstore.Store
	AuthProviders *authproviderstore.Store

	NPI      npi.Validator
	Notifier *mailer.Notifier
	Audit    *auditlog.Logger
	Metrics  *metrics.Metrics
}

// NewHandler constructs the user management handler bound to the given
// Mongo database and logger.
func NewHandler(db *mongo.Database, opts Options, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		ErrLog:        errLog,
		Users:         userstore.New(db),
		Listings:      listingstore.New(db),
		AuthProviders: authproviderstore.New(db),
		NPI:           opts.NPI,
		Notifier:      opts.Notifier,
		Audit:         opts.Audit,
		Metrics:       opts.Metrics,
	}
}
