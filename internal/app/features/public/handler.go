// internal/app/features/public/handler.go
package public

import (
	uierrors "github.com/dalemusser/practicefinder/internal/app/features/errors"
	userstore "github.com/dalemusser/practicefinder/internal/app/store/users"
	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/metrics"
	"github.com/dalemusser/practicefinder/internal/app/system/npi"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const msgNoAdminEmail = "Server email configuration missing."

// Handler serves the unauthenticated form endpoints: contact, sign-up
// pre-checks and listing interest.
type Handler struct {
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Users    *userstore.Store
	NPI      npi.Validator
	Notifier *mailer.Notifier
	Metrics  *metrics.Metrics
}

func NewHandler(db *mongo.Database, v npi.Validator, n *mailer.Notifier, m *metrics.Metrics, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		Users:    userstore.New(db),
		NPI:      v,
		Notifier: n,
		Metrics:  m,
	}
}

// adminConfigured reports whether admin notifications have somewhere to go.
func (h *Handler) adminConfigured() bool {
	return h.Notifier != nil && h.Notifier.AdminAddress() != ""
}
