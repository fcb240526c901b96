package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMarker(t *testing.T) Marker {
	t.Helper()
	return Marker{Path: filepath.Join(t.TempDir(), "2fa_done.txt")}
}

func TestMarkerSetIsSetClear(t *testing.T) {
	m := testMarker(t)

	assert.False(t, m.IsSet())
	require.NoError(t, m.Set())
	assert.True(t, m.IsSet())
	require.NoError(t, m.Clear())
	assert.False(t, m.IsSet())

	// Clearing an absent marker is fine.
	require.NoError(t, m.Clear())
}

func TestMarkerWaitAlreadySet(t *testing.T) {
	m := testMarker(t)
	require.NoError(t, m.Set())

	done := make(chan error, 1)
	go func() { done <- m.Wait(context.Background(), 10*time.Millisecond) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return for an already-set marker")
	}
}

func TestMarkerWaitResumesAfterSet(t *testing.T) {
	m := testMarker(t)

	done := make(chan error, 1)
	go func() { done <- m.Wait(context.Background(), 10*time.Millisecond) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, m.Set())

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Wait did not resume within one polling interval of the marker appearing")
	}
}

func TestMarkerWaitCancelled(t *testing.T) {
	m := testMarker(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Wait(ctx, 10*time.Millisecond) }()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Wait ignored cancellation")
	}
}
