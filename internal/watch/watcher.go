package watch

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Adeoluwa12/chidibot/internal/domain"
	"github.com/Adeoluwa12/chidibot/internal/session"
)

// Fetcher is one fetch against the portal API with the current session.
type Fetcher interface {
	FetchReferrals(ctx context.Context, sess *session.Session) ([]domain.Referral, error)
}

// SessionSource hands out the current session and runs the interactive login
// when a fresh one is needed.
type SessionSource interface {
	Acquire(ctx context.Context) (*session.Session, error)
	Current() *session.Session
}

// Processor consumes one fetch's output.
type Processor interface {
	ProcessFetch(ctx context.Context, fetched []domain.Referral) error
}

// Watcher drives the poll loop: one interactive login up front, an immediate
// first cycle, then a fixed-interval ticker. Cycles run under a mutex so a
// tick that fires while a reacquisition is still blocking on 2FA waits
// instead of racing it.
type Watcher struct {
	sessions SessionSource
	fetcher  Fetcher
	engine   Processor
	interval time.Duration

	cycleMu sync.Mutex
}

func NewWatcher(sessions SessionSource, fetcher Fetcher, engine Processor, interval time.Duration) *Watcher {
	return &Watcher{
		sessions: sessions,
		fetcher:  fetcher,
		engine:   engine,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := w.sessions.Acquire(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// No session yet. The first tick fetches anyway, gets rejected, and
		// that rejection starts the next login attempt.
		log.Printf("[watch] initial login failed: %v", err)
	} else {
		w.runCycle(ctx)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

// runCycle executes one fetch → diff pass. On 401/403 it runs the interactive
// login again and, with the fresh session, fires the one fetch a successful
// acquisition owes the scheduler. The rejected cycle's records are lost, not
// retried.
func (w *Watcher) runCycle(ctx context.Context) {
	w.cycleMu.Lock()
	defer w.cycleMu.Unlock()

	err := w.fetchAndProcess(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrSessionExpired):
		log.Println("[watch] session expired, logging in again")
		if _, aerr := w.sessions.Acquire(ctx); aerr != nil {
			log.Printf("[watch] login failed: %v", aerr)
			return
		}
		if ferr := w.fetchAndProcess(ctx); ferr != nil {
			// Even if this is another 401, no second login this cycle.
			log.Printf("[watch] fetch after login failed: %v", ferr)
		}
	default:
		log.Printf("[watch] fetch failed: %v", err)
	}
}

func (w *Watcher) fetchAndProcess(ctx context.Context) error {
	refs, err := w.fetcher.FetchReferrals(ctx, w.sessions.Current())
	if err != nil {
		return err
	}
	if err := w.engine.ProcessFetch(ctx, refs); err != nil {
		// Side-effect failures are independent of each other and of the
		// cycle outcome; they only get surfaced here.
		log.Printf("[watch] cycle side effects: %v", err)
	}
	return nil
}
