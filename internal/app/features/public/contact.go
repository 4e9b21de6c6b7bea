// internal/app/features/public/contact.go
package public

import (
	"net/http"
	"strings"

	"github.com/dalemusser/practicefinder/internal/app/system/authutil"
	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"go.uber.org/zap"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// HandleContact handles POST /public/contact-us and forwards the form to
// the admin.
func (h *Handler) HandleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := respond.Decode(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "contact: bad body", err, "Invalid request body.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if req.Message == "" {
		h.ErrLog.LogBadRequest(w, r, "contact: empty message", nil, "Message is required.")
		return
	}
	if err := authutil.ValidateEmail(req.Email); err != nil {
		h.ErrLog.LogBadRequest(w, r, "contact: bad email", err, "Please provide a valid email address.")
		return
	}
	if !h.adminConfigured() {
		h.Log.Error("contact form received but no admin email is configured")
		respond.Fail(w, http.StatusInternalServerError, msgNoAdminEmail)
		return
	}

	h.Notifier.ToAdmin(mailer.BuildContact(req.Name, req.Email, req.Message))
	h.Metrics.EmailDispatched("contact")
	h.Log.Info("contact form submitted", zap.String("email", req.Email))

	respond.OK(w, "Contact form submitted successfully.", nil)
}
