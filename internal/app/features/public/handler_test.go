package public_test

import (
	"net/http"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/practicefinder/internal/app/features/errors"
	"github.com/dalemusser/practicefinder/internal/app/features/public"
	"github.com/dalemusser/practicefinder/internal/app/system/mailer"
	"github.com/dalemusser/practicefinder/internal/app/system/npi"
	"github.com/dalemusser/practicefinder/internal/testutil"
	"go.uber.org/zap"
)

const adminEmail = "admin@practicefinder.test"

type env struct {
	h        *public.Handler
	fixtures *testutil.Fixtures
	sender   *mailer.MemorySender
	notifier *mailer.Notifier
}

func newEnv(t *testing.T, admin string) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sender := &mailer.MemorySender{}
	notifier := mailer.NewNotifier(sender, admin, logger)
	h := public.NewHandler(db, npi.Static{"1112223334": true, "1234567890": true}, notifier, nil,
		uierrors.NewErrorLogger(logger), logger)
	return env{h: h, fixtures: testutil.NewFixtures(t, db), sender: sender, notifier: notifier}
}

func post(t *testing.T, fn http.HandlerFunc, target string, body any) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	fn(rec, testutil.NewJSONRequest(t, http.MethodPost, target, body))
	return rec
}

func TestHandleContact(t *testing.T) {
	e := newEnv(t, adminEmail)

	rec := post(t, e.h.HandleContact, "/public/contact-us", map[string]string{
		"name":    "Visitor <b>",
		"email":   "visitor@example.com",
		"message": "Hello\nthere",
	})
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertMessage(t, "Contact form submitted successfully.")

	e.notifier.Wait()
	sent := e.sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sent))
	}
	if sent[0].To != adminEmail {
		t.Errorf("to: got %q, want admin", sent[0].To)
	}
	if strings.Contains(sent[0].HTMLBody, "<b>") {
		t.Errorf("markup from the form reached the email: %s", sent[0].HTMLBody)
	}
}

func TestHandleContact_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		admin string
		body  map[string]string
		code  int
		msg   string
	}{
		{"no message", adminEmail, map[string]string{"name": "A", "email": "a@example.com"}, http.StatusBadRequest, "Message is required."},
		{"bad email", adminEmail, map[string]string{"name": "A", "email": "nope", "message": "hi"}, http.StatusBadRequest, "Please provide a valid email address."},
		{"no admin address", "", map[string]string{"name": "A", "email": "a@example.com", "message": "hi"}, http.StatusInternalServerError, "Server email configuration missing."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, tt.admin)
			rec := post(t, e.h.HandleContact, "/public/contact-us", tt.body)
			rec.AssertStatus(t, tt.code)
			rec.AssertMessage(t, tt.msg)
		})
	}
}

func TestServeValidateNPI(t *testing.T) {
	e := newEnv(t, adminEmail)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Fixture users carry NPI 1234567890.
	e.fixtures.CreateUser(ctx, "doc@example.com", "", true)

	tests := []struct {
		name  string
		npi   string
		code  int
		valid bool
		msg   string
	}{
		{"taken", "1234567890", http.StatusBadRequest, false, "NPI# is already taken."},
		{"taken, formatted", "123-456-7890", http.StatusBadRequest, false, "NPI# is already taken."},
		{"registered", "1112223334", http.StatusOK, true, ""},
		{"unknown", "9999999999", http.StatusOK, false, ""},
		{"empty", "", http.StatusOK, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, e.h.ServeValidateNPI, "/public/validate-npi", map[string]string{"npi": tt.npi})
			rec.AssertStatus(t, tt.code)
			if tt.code != http.StatusOK {
				rec.AssertMessage(t, tt.msg)
				return
			}
			var out struct {
				Valid bool `json:"valid"`
			}
			rec.Envelope(t, &out)
			if out.Valid != tt.valid {
				t.Errorf("valid: got %v, want %v", out.Valid, tt.valid)
			}
		})
	}
}

func TestServeCheckEmail(t *testing.T) {
	e := newEnv(t, adminEmail)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fixtures.CreateUser(ctx, "doc@example.com", "", true)

	tests := []struct {
		email string
		taken bool
	}{
		{"doc@example.com", true},
		{"  DOC@Example.com ", true},
		{"free@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			rec := post(t, e.h.ServeCheckEmail, "/public/check-email", map[string]string{"email": tt.email})
			rec.AssertStatus(t, http.StatusOK)
			var out struct {
				Taken bool `json:"taken"`
			}
			rec.Envelope(t, &out)
			if out.Taken != tt.taken {
				t.Errorf("taken: got %v, want %v", out.Taken, tt.taken)
			}
		})
	}

	rec := post(t, e.h.ServeCheckEmail, "/public/check-email", map[string]string{"email": " "})
	rec.AssertStatus(t, http.StatusBadRequest)
}

func interestBody(choices ...string) map[string]any {
	return map[string]any{
		"user": map[string]string{
			"firstName": "Jane",
			"lastName":  "Doe",
			"email":     "jane@example.com",
			"phone":     "555-0100",
		},
		"practice": map[string]any{
			"id":   12,
			"name": "Harbor Dental",
			"url":  "javascript:alert(1)",
		},
		"choices": choices,
	}
}

func TestHandleRequestInterest(t *testing.T) {
	e := newEnv(t, adminEmail)

	rec := post(t, e.h.HandleRequestInterest, "/public/request-interest", interestBody("Schedule a call", " "))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertMessage(t, "Email sent")

	e.notifier.Wait()
	sent := e.sender.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sent))
	}
	got := sent[0]
	if got.To != adminEmail {
		t.Errorf("to: got %q", got.To)
	}
	if got.Subject != "New Listing Interest - ID 12 - Harbor Dental" {
		t.Errorf("subject: got %q", got.Subject)
	}
	if !strings.Contains(got.TextBody, "jane@example.com") || !strings.Contains(got.TextBody, "Schedule a call") {
		t.Errorf("text body: %s", got.TextBody)
	}
	if strings.Contains(strings.ToLower(got.HTMLBody), "javascript:") {
		t.Error("script href reached the email")
	}
}

func TestHandleRequestInterest_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		admin string
		body  any
		code  int
		msg   string
	}{
		{"no choices", adminEmail, interestBody(), http.StatusBadRequest, "At least one option must be selected."},
		{"blank choices", adminEmail, interestBody("", "  "), http.StatusBadRequest, "At least one option must be selected."},
		{"no admin address", "", interestBody("Schedule a call"), http.StatusInternalServerError, "Server email configuration missing."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, tt.admin)
			rec := post(t, e.h.HandleRequestInterest, "/public/request-interest", tt.body)
			rec.AssertStatus(t, tt.code)
			rec.AssertMessage(t, tt.msg)

			e.notifier.Wait()
			if n := len(e.sender.Sent()); n != 0 {
				t.Errorf("sent %d emails on rejection", n)
			}
		})
	}
}
