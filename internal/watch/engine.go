package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Adeoluwa12/chidibot/internal/domain"
	"github.com/Adeoluwa12/chidibot/internal/notify"
)

// RecentWindow is how many of the most recently detected referrals each
// fresh fetch is diffed against. The diff never looks at the full history.
const RecentWindow = 20

// Store is what the engine needs from the record store.
type Store interface {
	RecentReferrals(ctx context.Context, n int) ([]domain.Referral, error)
	InsertReferrals(ctx context.Context, refs []domain.Referral) error
	AppendLog(ctx context.Context, message string) error
}

// Engine turns one fetch's output into persisted new referrals and
// notifications.
type Engine struct {
	store    Store
	notifier notify.Dispatcher
}

func NewEngine(store Store, notifier notify.Dispatcher) *Engine {
	return &Engine{store: store, notifier: notifier}
}

// ProcessFetch diffs the fetched list against the recent window by member
// name, notifies and persists what is new, and records the activity-log line.
// Each side effect fails independently; failures come back joined so the
// scheduler loop can surface them without any of them changing the outcome
// of the others.
func (e *Engine) ProcessFetch(ctx context.Context, fetched []domain.Referral) error {
	var errs []error

	// The full list goes out every cycle, new or not.
	if err := e.notifier.Send(ctx, fetchedMessage(fetched)); err != nil {
		errs = append(errs, fmt.Errorf("fetched notification: %w", err))
	}

	recent, err := e.store.RecentReferrals(ctx, RecentWindow)
	if err != nil {
		// No window, no diff; the log entry below still gets written.
		errs = append(errs, fmt.Errorf("read recent window: %w", err))
	} else {
		seen := make(map[string]bool, len(recent))
		for _, r := range recent {
			seen[r.MemberName] = true
		}

		// Comparison is by member name only; memberID stays unused here.
		var newRefs []domain.Referral
		for _, r := range fetched {
			if !seen[r.MemberName] {
				newRefs = append(newRefs, r)
			}
		}

		if len(newRefs) > 0 {
			names := make([]string, 0, len(newRefs))
			for _, r := range newRefs {
				names = append(names, r.MemberName)
			}
			if err := e.notifier.Send(ctx, "New referrals detected: "+strings.Join(names, ", ")); err != nil {
				errs = append(errs, fmt.Errorf("new-referrals notification: %w", err))
			}
			if err := e.store.InsertReferrals(ctx, newRefs); err != nil {
				errs = append(errs, fmt.Errorf("insert new referrals: %w", err))
			}
		}
	}

	if err := e.store.AppendLog(ctx, fmt.Sprintf("Fetched %d referrals", len(fetched))); err != nil {
		errs = append(errs, fmt.Errorf("append activity log: %w", err))
	}

	return errors.Join(errs...)
}

func fetchedMessage(fetched []domain.Referral) string {
	list := make([]apiReferral, 0, len(fetched))
	for _, r := range fetched {
		list = append(list, apiReferral{MemberName: r.MemberName, MemberID: r.MemberID})
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Sprintf("Members List: (%d referrals)", len(fetched))
	}
	return "Members List:\n" + string(data)
}
