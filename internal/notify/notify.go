// Package notify delivers generated briefs over email and Slack.
package notify

import (
	"context"
	"errors"
	"log"

	"github.com/jonathan/marketing-intel/internal/types"
)

// Notifier delivers one aggregated daily brief.
type Notifier interface {
	Deliver(ctx context.Context, daily *types.DailyBrief) error
}

// Multi fans one brief out to several channels. Every channel is attempted;
// Deliver fails only when all of them fail, so a Slack outage never blocks
// the email run.
type Multi []Notifier

// Deliver sends the brief to every channel.
func (m Multi) Deliver(ctx context.Context, daily *types.DailyBrief) error {
	if len(m) == 0 {
		return errors.New("no delivery channels configured")
	}

	var errs []error
	for _, n := range m {
		if err := n.Deliver(ctx, daily); err != nil {
			log.Printf("[NOTIFY] Channel delivery failed: %v", err)
			errs = append(errs, err)
		}
	}
	if len(errs) == len(m) {
		return errors.Join(errs...)
	}
	return nil
}
