// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/practicefinder/internal/app/store/audit"
	"github.com/dalemusser/practicefinder/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destinations accepted by Config.Auth and Config.Admin.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls sign-in, sign-up and password events.
	Auth string
	// Admin controls activation, profile update and deletion events.
	Admin string
}

// Logger records account events to MongoDB (via audit.Store) and to zap.
// A nil *Logger is a no-op.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to the destination configured for its
// category. Unknown categories go everywhere.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := All
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	}
	if setting == "" {
		setting = All
	}
	if setting == Off {
		return
	}

	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if setting == All || setting == DB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func request(r *http.Request, e audit.Event) audit.Event {
	e.IP = ratelimit.ClientIP(r)
	e.UserAgent = r.UserAgent()
	return e
}

// --- Authentication Events ---

// SigninSuccess logs a successful sign-in. method is "password" or "google".
func (l *Logger) SigninSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, method, email string) {
	l.Log(ctx, request(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSigninSuccess,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"method": method, "email": email},
	}))
}

// SigninFailedUserNotFound logs a sign-in for an unknown email.
func (l *Logger) SigninFailedUserNotFound(ctx context.Context, r *http.Request, method, email string) {
	l.Log(ctx, request(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventSigninFailedUserNotFound,
		FailureReason: "user not found",
		Details:       map[string]string{"method": method, "attempted_email": email},
	}))
}

// SigninFailedWrongPassword logs a sign-in with bad credentials.
func (l *Logger) SigninFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, email string) {
	l.Log(ctx, request(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventSigninFailedWrongPassword,
		UserID:        &userID,
		FailureReason: "wrong password",
		Details:       map[string]string{"email": email},
	}))
}

// SigninFailedNotActivated logs a sign-in to an account an admin has not
// activated yet.
func (l *Logger) SigninFailedNotActivated(ctx context.Context, r *http.Request, userID primitive.ObjectID, method, email string) {
	l.Log(ctx, request(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventSigninFailedNotActivated,
		UserID:        &userID,
		FailureReason: "not activated",
		Details:       map[string]string{"method": method, "email": email},
	}))
}

// SigninFailedRateLimit logs a sign-in refused by the limiter.
func (l *Logger) SigninFailedRateLimit(ctx context.Context, r *http.Request, email string) {
	l.Log(ctx, request(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventSigninFailedRateLimit,
		FailureReason: "rate limit exceeded",
		Details:       map[string]string{"attempted_email": email},
	}))
}

// Signup logs a new registration.
func (l *Logger) Signup(ctx context.Context, r *http.Request, userID primitive.ObjectID, method string) {
	l.Log(ctx, request(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventSignup,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"method": method},
	}))
}

// PasswordChanged logs a password change by the user.
func (l *Logger) PasswordChanged(ctx context.Context, r *http.Request, userID primitive.ObjectID) {
	l.Log(ctx, request(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPasswordChanged,
		UserID:    &userID,
		Success:   true,
	}))
}

// --- Admin Events ---

// UserActivated logs an admin activating an account.
func (l *Logger) UserActivated(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID) {
	l.Log(ctx, request(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserActivated,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		Success:   true,
	}))
}

// UserUpdated logs a profile update. actorID equals targetUserID when the
// user edited their own profile.
func (l *Logger) UserUpdated(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, fieldsChanged string) {
	l.Log(ctx, request(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserUpdated,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		Success:   true,
		Details:   map[string]string{"fields_changed": fieldsChanged},
	}))
}

// UserDeleted logs an admin deleting an account.
func (l *Logger) UserDeleted(ctx context.Context, r *http.Request, actorID, targetUserID primitive.ObjectID, email string) {
	l.Log(ctx, request(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserDeleted,
		UserID:    &targetUserID,
		ActorID:   &actorID,
		Success:   true,
		Details:   map[string]string{"email": email},
	}))
}
