// Package notify fans alert text out to the operator through whatever
// channels are configured: email, SMS, and optionally a Notion database.
package notify

import (
	"context"
	"errors"
	"log"
)

// Dispatcher delivers one text message out of band. Callers treat delivery as
// fire-and-forget: a returned error is for logging, never for control flow.
type Dispatcher interface {
	Send(ctx context.Context, message string) error
}

// Multi sends through every channel. A failing channel never stops the
// others; all failures come back joined.
type Multi struct {
	channels []Dispatcher
}

func NewMulti(channels ...Dispatcher) *Multi {
	return &Multi{channels: channels}
}

func (m *Multi) Send(ctx context.Context, message string) error {
	var errs []error
	for _, ch := range m.channels {
		if err := ch.Send(ctx, message); err != nil {
			log.Printf("[notify] channel %T: %v", ch, err)
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		log.Printf("[notify] notification sent: %s", truncate(message, 80))
	}
	return errors.Join(errs...)
}

// truncate cuts on rune boundaries; member names are not guaranteed ASCII.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
