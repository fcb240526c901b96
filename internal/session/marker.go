package session

import (
	"context"
	"os"
	"time"
)

// Marker is the verification-complete signal: a file the operator creates
// (via the dashboard's "I'm Done" button) once the 2FA challenge is finished.
type Marker struct {
	Path string
}

func (m Marker) Set() error {
	return os.WriteFile(m.Path, []byte("done"), 0o644)
}

func (m Marker) IsSet() bool {
	_, err := os.Stat(m.Path)
	return err == nil
}

// Clear removes a stale marker so an old "done" from a previous run cannot
// satisfy a new wait.
func (m Marker) Clear() error {
	err := os.Remove(m.Path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// Wait blocks until the marker appears, checking every interval. There is no
// timeout; the wait ends only when the marker shows up or ctx is cancelled.
func (m Marker) Wait(ctx context.Context, interval time.Duration) error {
	if m.IsSet() {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if m.IsSet() {
				return nil
			}
		}
	}
}
