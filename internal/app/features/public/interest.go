// internal/app/features/public/interest.go
package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/respond"
	"go.uber.org/zap"
)

type interestRequest struct {
	User struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	} `json:"user"`
	Practice struct {
		ObjectID string `json:"_id"`
		ID       int    `json:"id"`
		Name     string `json:"name"`
		URL      string `json:"url"`
	} `json:"practice"`
	Choices []string `json:"choices"`
}

// choices drops blank options.
func (req interestRequest) choices() []string {
	out := make([]string, 0, len(req.Choices))
	for _, c := range req.Choices {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// HandleRequestInterest handles POST /public/request-interest and emails
// the selected options with the visitor's contact details to the admin.
func (h *Handler) HandleRequestInterest(w http.ResponseWriter, r *http.Request) {
	var req interestRequest
	if err := respond.Decode(r, &req); err != nil && !errors.Is(err, respond.ErrEmptyBody) {
		h.ErrLog.LogBadRequest(w, r, "request-interest: bad body", err, "Invalid request body.")
		return
	}

	choices := req.choices()
	if len(choices) == 0 {
		respond.Fail(w, http.StatusBadRequest, "At least one option must be selected.")
		return
	}
	if !h.adminConfigured() {
		h.Log.Error("interest request received but no admin email is configured")
		respond.Fail(w, http.StatusInternalServerError, msgNoAdminEmail)
		return
	}

	h.Notifier.ToAdmin(mailer.BuildInterest(mailer.Interest{
		FirstName:  req.User.FirstName,
		LastName:   req.User.LastName,
		Email:      req.User.Email,
		Phone:      req.User.Phone,
		ListingID:  req.Practice.ObjectID,
		ListingNum: req.Practice.ID,
		Name:       req.Practice.Name,
		URL:        req.Practice.URL,
		Choices:    choices,
	}))
	h.Metrics.EmailDispatched("interest")
	h.Log.Info("listing interest requested",
		zap.Int("listing", req.Practice.ID),
		zap.Int("choices", len(choices)))

	respond.OK(w, "Email sent", nil)
}
