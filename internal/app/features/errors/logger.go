// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/practicefinder/internal/app/system/auth"
	"github.com/dalemusser/practicefinder/internal/app/system/requestlog"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"go.uber.org/zap"
)

// MsgServerError is the only text a client sees for an unexpected failure.
const MsgServerError = "Server error, please try again later."

// ErrorLogger logs handler failures and writes the matching envelope.
// The underlying error is never sent to the client.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger wraps logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	f := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := requestlog.ID(r.Context()); id != "" {
		f = append(f, zap.String("request_id", id))
	}
	if u, ok := auth.CurrentUser(r); ok {
		f = append(f, zap.String("user_id", u.ID))
	}
	if err != nil {
		f = append(f, zap.Error(err))
	}
	return f
}

// LogServerError logs msg with err at error level and writes a 500.
// userMsg replaces the generic client message when set; detail is
// logged only.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, detail string) {
	f := e.fields(r, err)
	if detail != "" {
		f = append(f, zap.String("detail", detail))
	}
	e.Log.Error(msg, f...)
	if userMsg == "" {
		userMsg = MsgServerError
	}
	respond.Fail(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs at info level and writes a 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Info(msg, e.fields(r, err)...)
	respond.Fail(w, http.StatusBadRequest, userMsg)
}

// LogNotFound logs at debug level and writes a 404 with userMsg.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, msg string, userMsg string) {
	e.Log.Debug(msg, e.fields(r, nil)...)
	respond.Fail(w, http.StatusNotFound, userMsg)
}
