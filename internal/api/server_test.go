package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adeoluwa12/chidibot/internal/domain"
	"github.com/Adeoluwa12/chidibot/internal/session"
)

type fakeRecords struct {
	referrals []domain.Referral
	logs      []domain.LogEntry
}

func (f *fakeRecords) RecentReferrals(ctx context.Context, n int) ([]domain.Referral, error) {
	return f.referrals, nil
}

func (f *fakeRecords) RecentLogs(ctx context.Context, n int) ([]domain.LogEntry, error) {
	return f.logs, nil
}

func newTestServer(t *testing.T) (*Server, session.Marker) {
	t.Helper()
	marker := session.Marker{Path: filepath.Join(t.TempDir(), "2fa_done.txt")}
	records := &fakeRecords{
		referrals: []domain.Referral{
			{MemberName: "Jane Doe", MemberID: "42", DetectedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		},
		logs: []domain.LogEntry{
			{Message: "Fetched 3 referrals", Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		},
	}
	return New(records, marker, nil), marker
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDoneSetsMarker(t *testing.T) {
	s, marker := newTestServer(t)
	require.False(t, marker.IsSet())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/done", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, marker.IsSet())
}

func TestDoneRejectsGet(t *testing.T) {
	s, marker := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/done", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.False(t, marker.IsSet())
}

func TestDashboardRendersRecentActivity(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "42")
	assert.Contains(t, body, "Fetched 3 referrals")
	assert.Contains(t, body, `action="/done"`)
}

func TestDebugNotionRouteOnlyWhenConfigured(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/notion", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
