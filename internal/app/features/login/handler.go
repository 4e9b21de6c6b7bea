// internal/app/features/login/handler.go
package login

import (
	uierrors "github.com/dalemusser/practicefinder/internal/app/features/errors"
	authproviderstore "github.com/dalemusser/practicefinder/internal/app/store/authproviders"
	userstore "github.com/dalemusser/practicefinder/internal/app/store/users"
	"github.com/dalemusser/practicefinder/internal/app/system/auditlog"
	"github.com/dalemusser/practicefinder/internal/app/system/auth"
	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/metrics"
	"github.com/dalemusser/practicefinder/internal/app/system/npi"
	"github.com/dalemusser/practicefinder/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Options carries the collaborators of the auth endpoints. NPI is
// required; the rest may be nil.
type Options struct {
	NPI      npi.Validator
	Limiter  *ratelimit.SigninLimiter
	Notifier *mailer.Notifier
	Audit    *auditlog.Logger
	Metrics  *metrics.Metrics
}

// Handler serves sign-in, sign-up, the current user and password change.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Tokens *auth.TokenManager

	Users         *userstore.Store
	AuthProviders *authproviderstore.Store

	NPI      npi.Validator
	Limiter  *ratelimit.SigninLimiter
	Notifier *mailer.Notifier
	Audit    *auditlog.Logger
	Metrics  *metrics.Metrics
}

func NewHandler(db *mongo.Database, tm *auth.TokenManager, opts Options, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Log:           logger,
		ErrLog:        errLog,
		Tokens:        tm,
		Users:         userstore.New(db),
		AuthProviders: authproviderstore.New(db),
		NPI:           opts.NPI,
		Limiter:       opts.Limiter,
		Notifier:      opts.Notifier,
		Audit:         opts.Audit,
		Metrics:       opts.Metrics,
	}
}
