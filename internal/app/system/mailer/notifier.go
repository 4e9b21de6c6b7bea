package mailer

import (
	"context"
	"sync"

	"github.com/dalemusser/practicefinder/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Notifier sends emails in the background. A failed send is logged and
// never reaches the request that triggered it.
type Notifier struct {
	sender Sender
	admin  string
	log    *zap.Logger
	wg     sync.WaitGroup
}

// NewNotifier wraps sender. adminEmail receives the ToAdmin messages.
func NewNotifier(sender Sender, adminEmail string, logger *zap.Logger) *Notifier {
	return &Notifier{sender: sender, admin: adminEmail, log: logger}
}

// AdminAddress is the configured admin recipient.
func (n *Notifier) AdminAddress() string { return n.admin }

// Dispatch sends e on its own goroutine with a detached deadline, so the
// send outlives the request.
func (n *Notifier) Dispatch(e Email) {
	if e.To == "" {
		n.log.Warn("email skipped: no recipient", zap.String("subject", e.Subject))
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Long(), n.log, "send email")
		defer cancel()
		if err := n.sender.Send(ctx, e); err != nil {
			n.log.Warn("email send failed",
				zap.String("to", e.To),
				zap.String("subject", e.Subject),
				zap.Error(err))
		}
	}()
}

// ToAdmin dispatches e to the admin address.
func (n *Notifier) ToAdmin(e Email) {
	e.To = n.admin
	n.Dispatch(e)
}

// Wait blocks until every dispatched email has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
