// internal/app/features/practice/handler.go
package practice

import (
	uierrors "github.com/dalemusser/practicefinder/internal/app/features/errors"
	listingstore "github.com/dalemusser/practicefinder/internal/app/store/listings"
	statedescriptionstore "github.com/dalemusser/practicefinder/internal/app/store/statedescriptions"
	userstore "github.com/dalemusser/practicefinder/internal/app/store/users"
	"github.com/dalemusser/practicefinder/internal/app/system/countcache"
	"github.com/dalemusser/practicefinder/internal/app/system/imagecache"
	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Options carries the optional collaborators of the practice feature.
type Options struct {
	Notifier   *mailer.Notifier
	Images     *imagecache.Cache
	Counts     countcache.Cache
	Metrics    *metrics.Metrics
	SiteDomain string // base URL used in listing links inside emails
}

// Handler serves listing search, detail, likes and the public
// per-state aggregates.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Listings   *listingstore.Store
	Users      *userstore.Store
	StateDescs *statedescriptionstore.Store

	Notifier   *mailer.Notifier
	Images     *imagecache.Cache
	Counts     countcache.Cache
	Metrics    *metrics.Metrics
	SiteDomain string
}

func NewHandler(db *mongo.Database, opts Options, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	counts := opts.Counts
	if counts == nil {
		counts = countcache.NewMemory(0)
	}
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		Listings:   listingstore.New(db),
		Users:      userstore.New(db),
		StateDescs: statedescriptionstore.New(db),
		Notifier:   opts.Notifier,
		Images:     opts.Images,
		Counts:     counts,
		Metrics:    opts.Metrics,
		SiteDomain: opts.SiteDomain,
	}
}
