package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Notifier is the slice of the notification fan-out the manager needs for the
// operator-facing "please verify" notice.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// loginSurface is the interactive browser the login flow drives. The chromedp
// implementation lives in browser.go; tests swap in a stub.
type loginSurface interface {
	SubmitLogin(ctx context.Context) error
	Cookies(ctx context.Context) ([]Cookie, error)
	Close() error
}

const verifyNotice = "Please complete the 2FA process in the browser and click the 'I'm Done' button on the dashboard."

// Options configures a Manager.
type Options struct {
	LoginURL   string
	UserID     string
	Password   string
	CookieFile string
	Marker     Marker

	// WaitInterval is how often the 2FA marker is checked. Defaults to 1s.
	WaitInterval time.Duration
}

// Manager owns the current portal session. It is the only writer; everyone
// else reads through Current.
type Manager struct {
	opts     Options
	notifier Notifier

	openSurface func(ctx context.Context) (loginSurface, error)

	acquireMu sync.Mutex // one interactive login at a time
	mu        sync.Mutex // guards current
	current   *Session
}

func NewManager(opts Options, notifier Notifier) *Manager {
	if opts.WaitInterval <= 0 {
		opts.WaitInterval = time.Second
	}
	m := &Manager{opts: opts, notifier: notifier}
	m.openSurface = func(ctx context.Context) (loginSurface, error) {
		return newBrowser(ctx, opts.LoginURL, opts.UserID, opts.Password)
	}
	return m
}

// Current returns the session from the last successful Acquire, or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Acquire runs the full interactive login: open a visible browser, submit
// credentials, tell the operator to finish 2FA, then block until the marker
// appears (no timeout; only ctx cancellation ends the wait). On success the
// cookie set is persisted and the new session replaces the old one wholesale.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	m.acquireMu.Lock()
	defer m.acquireMu.Unlock()

	log.Println("[session] launching browser for login...")

	surface, err := m.openSurface(ctx)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if cerr := surface.Close(); cerr != nil {
			log.Printf("[session] close browser: %v", cerr)
		}
	}()

	if err := surface.SubmitLogin(ctx); err != nil {
		return nil, fmt.Errorf("submit login form: %w", err)
	}

	if err := m.notifier.Send(ctx, verifyNotice); err != nil {
		log.Printf("[session] verify notice failed: %v", err)
	}

	// A leftover marker from a previous run must not satisfy this wait.
	if err := m.opts.Marker.Clear(); err != nil {
		log.Printf("[session] clear stale 2FA marker: %v", err)
	}

	log.Println("[session] waiting for user to complete 2FA...")
	if err := m.opts.Marker.Wait(ctx, m.opts.WaitInterval); err != nil {
		return nil, fmt.Errorf("wait for 2FA marker: %w", err)
	}

	cookies, err := surface.Cookies(ctx)
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	log.Printf("[session] fetched %d cookies", len(cookies))

	sess := &Session{Cookies: cookies}
	sess.XSRFToken = sess.findXSRFToken()
	if sess.XSRFToken == "" {
		// Not fatal: the next fetch will 401/403 and force a reacquisition.
		log.Println("[session] XSRF-TOKEN not found in cookies")
	}

	if m.opts.CookieFile != "" {
		if err := sess.SaveFile(m.opts.CookieFile); err != nil {
			log.Printf("[session] save cookies: %v", err)
		} else {
			log.Printf("[session] cookies saved to %s", m.opts.CookieFile)
		}
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	return sess, nil
}
