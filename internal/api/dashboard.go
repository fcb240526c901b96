package api

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/Adeoluwa12/chidibot/internal/domain"
)

const dashboardLimit = 20

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>Care Central Bot</title>
  <style>
    body { font-family: sans-serif; margin: 2rem; }
    table { border-collapse: collapse; margin-bottom: 2rem; }
    th, td { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: left; }
    button { padding: 0.5rem 1.5rem; font-size: 1rem; }
  </style>
</head>
<body>
  <h1>Care Central Bot</h1>

  <form method="POST" action="/done">
    <button type="submit">I'm Done</button>
    <p>Click after completing the 2FA challenge in the browser window.</p>
  </form>

  <h2>Recent Referrals</h2>
  <table>
    <tr><th>Member</th><th>Member ID</th><th>Detected</th></tr>
    {{range .Referrals}}<tr><td>{{.MemberName}}</td><td>{{.MemberID}}</td><td>{{.DetectedAt.Format "2006-01-02 15:04"}}</td></tr>
    {{else}}<tr><td colspan="3">none yet</td></tr>{{end}}
  </table>

  <h2>Activity Log</h2>
  <table>
    <tr><th>Time</th><th>Message</th></tr>
    {{range .Logs}}<tr><td>{{.Timestamp.Format "2006-01-02 15:04"}}</td><td>{{.Message}}</td></tr>
    {{else}}<tr><td colspan="2">none yet</td></tr>{{end}}
  </table>
</body>
</html>
`))

type dashboardData struct {
	Referrals []domain.Referral
	Logs      []domain.LogEntry
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	referrals, err := s.records.RecentReferrals(ctx, dashboardLimit)
	if err != nil {
		log.Printf("[api] load referrals: %v", err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	logs, err := s.records.RecentLogs(ctx, dashboardLimit)
	if err != nil {
		log.Printf("[api] load logs: %v", err)
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, dashboardData{Referrals: referrals, Logs: logs}); err != nil {
		log.Printf("[api] render dashboard: %v", err)
	}
}
