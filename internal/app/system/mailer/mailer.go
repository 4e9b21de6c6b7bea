// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mailgun/mailgun-go/v4"
	"go.uber.org/zap"
)

// Email is one outbound message. HTMLBody is optional.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

var errNoRecipient = errors.New("email has no recipient")

/*─────────────────────────────────────────────────────────────────────────────*
| Mailgun                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// MailgunSender sends through the Mailgun HTTP API.
type MailgunSender struct {
	mg   mailgun.Mailgun
	from string
}

// NewMailgunSender builds a sender for domain using apiKey. from is the
// envelope sender, e.g. "Practice Finder <noreply@example.com>".
func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{mg: mailgun.NewMailgun(domain, apiKey), from: from}
}

// Send implements Sender.
func (s *MailgunSender) Send(ctx context.Context, e Email) error {
	if e.To == "" {
		return errNoRecipient
	}
	m := s.mg.NewMessage(s.from, e.Subject, e.TextBody, e.To)
	if e.HTMLBody != "" {
		m.SetHtml(e.HTMLBody)
	}
	if _, _, err := s.mg.Send(ctx, m); err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Log (development)                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// LogSender writes emails to the log instead of sending them. It is used
// when Mailgun is not configured.
type LogSender struct {
	Log *zap.Logger
}

// Send implements Sender.
func (s LogSender) Send(_ context.Context, e Email) error {
	if e.To == "" {
		return errNoRecipient
	}
	s.Log.Info("email (not sent, mail transport disabled)",
		zap.String("to", e.To),
		zap.String("subject", e.Subject))
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Memory (tests)                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// MemorySender records every email. Safe for concurrent use.
type MemorySender struct {
	mu   sync.Mutex
	sent []Email
	Err  error // returned from Send when set
}

// Send implements Sender.
func (s *MemorySender) Send(_ context.Context, e Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.sent = append(s.sent, e)
	return nil
}

// Sent returns a copy of the recorded emails.
func (s *MemorySender) Sent() []Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Email(nil), s.sent...)
}

// Reset forgets recorded emails.
func (s *MemorySender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
}
