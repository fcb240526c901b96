package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Adeoluwa12/chidibot/internal/domain"
)

type Store struct {
	DB *sql.DB
}

func New(db *sql.DB) *Store { return &Store{DB: db} }

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS referrals (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	member_name TEXT,
	member_id TEXT,
	detected_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS activity_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	message TEXT,
	timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`)
	return err
}

// RecentReferrals returns the n most recently detected referrals, newest
// first. This window is what each fresh fetch gets diffed against.
func (s *Store) RecentReferrals(ctx context.Context, n int) ([]domain.Referral, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, member_name, member_id, detected_at
		FROM referrals
		ORDER BY detected_at DESC, id DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []domain.Referral
	for rows.Next() {
		var r domain.Referral
		if err := rows.Scan(&r.ID, &r.MemberName, &r.MemberID, &r.DetectedAt); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// InsertReferrals inserts all records in one statement. DetectedAt is stamped
// by the database unless the caller already set it.
func (s *Store) InsertReferrals(ctx context.Context, refs []domain.Referral) error {
	if len(refs) == 0 {
		return nil
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`INSERT INTO referrals (member_name, member_id, detected_at) VALUES `)
	for i, r := range refs {
		if i > 0 {
			sb.WriteString(", ")
		}
		if r.DetectedAt.IsZero() {
			sb.WriteString("(?, ?, CURRENT_TIMESTAMP)")
			args = append(args, r.MemberName, r.MemberID)
		} else {
			sb.WriteString("(?, ?, ?)")
			args = append(args, r.MemberName, r.MemberID, r.DetectedAt)
		}
	}

	_, err := s.DB.ExecContext(ctx, sb.String(), args...)
	return err
}

func (s *Store) AppendLog(ctx context.Context, message string) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO activity_log (message) VALUES (?)`, message)
	return err
}

// RecentLogs feeds the dashboard; the watcher itself never reads these back.
func (s *Store) RecentLogs(ctx context.Context, n int) ([]domain.LogEntry, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, message, timestamp
		FROM activity_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		if err := rows.Scan(&e.ID, &e.Message, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
