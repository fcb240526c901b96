package domain

import "time"

// Referral is one care-coordination record surfaced by the Availity portal.
// MemberName is what we compare across polls; MemberID is present in the feed
// but not used for comparison (matching what the portal bot has always done).
type Referral struct {
	ID         int64
	MemberName string
	MemberID   string
	DetectedAt time.Time
}

// LogEntry is one line of the activity log shown on the dashboard.
type LogEntry struct {
	ID        int64
	Message   string
	Timestamp time.Time
}
