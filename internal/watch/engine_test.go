package watch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adeoluwa12/chidibot/internal/domain"
)

type fakeStore struct {
	recent []domain.Referral

	inserted    [][]domain.Referral
	logs        []string
	recentErr   error
	insertErr   error
	appendErr   error
	recentCalls int
}

func (f *fakeStore) RecentReferrals(ctx context.Context, n int) ([]domain.Referral, error) {
	f.recentCalls++
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	if len(f.recent) > n {
		return f.recent[:n], nil
	}
	return f.recent, nil
}

func (f *fakeStore) InsertReferrals(ctx context.Context, refs []domain.Referral) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, refs)
	// Mimic the real store: inserted records join the recent window.
	f.recent = append(refs, f.recent...)
	return nil
}

func (f *fakeStore) AppendLog(ctx context.Context, message string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.logs = append(f.logs, message)
	return nil
}

type fakeDispatcher struct {
	sent []string
	err  error
}

func (f *fakeDispatcher) Send(ctx context.Context, message string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, message)
	return nil
}

func refs(names ...string) []domain.Referral {
	out := make([]domain.Referral, 0, len(names))
	for i, n := range names {
		out = append(out, domain.Referral{MemberName: n, MemberID: string(rune('1' + i))})
	}
	return out
}

// Empty store: everything fetched is new.
func TestProcessFetchAllNew(t *testing.T) {
	st := &fakeStore{}
	d := &fakeDispatcher{}
	e := NewEngine(st, d)

	require.NoError(t, e.ProcessFetch(context.Background(), refs("X", "Y", "Z")))

	// One bulk insert with all three, in fetch order.
	require.Len(t, st.inserted, 1)
	require.Len(t, st.inserted[0], 3)
	assert.Equal(t, "X", st.inserted[0][0].MemberName)
	assert.Equal(t, "Z", st.inserted[0][2].MemberName)

	// "Fetched" notification plus the "new referrals" one.
	require.Len(t, d.sent, 2)
	assert.True(t, strings.HasPrefix(d.sent[0], "Members List:"))
	assert.Equal(t, "New referrals detected: X, Y, Z", d.sent[1])

	assert.Equal(t, []string{"Fetched 3 referrals"}, st.logs)
}

// Store already holds the whole fetch: no insert, no second notification.
func TestProcessFetchNothingNew(t *testing.T) {
	st := &fakeStore{recent: refs("X", "Y", "Z")}
	d := &fakeDispatcher{}
	e := NewEngine(st, d)

	require.NoError(t, e.ProcessFetch(context.Background(), refs("X", "Y", "Z")))

	assert.Empty(t, st.inserted)
	require.Len(t, d.sent, 1)
	assert.True(t, strings.HasPrefix(d.sent[0], "Members List:"))
	assert.Equal(t, []string{"Fetched 3 referrals"}, st.logs)
}

// Running the same fetch twice: the second pass finds nothing new.
func TestProcessFetchIdempotentOncePersisted(t *testing.T) {
	st := &fakeStore{}
	d := &fakeDispatcher{}
	e := NewEngine(st, d)
	ctx := context.Background()

	require.NoError(t, e.ProcessFetch(ctx, refs("X", "Y")))
	require.Len(t, st.inserted, 1)

	require.NoError(t, e.ProcessFetch(ctx, refs("X", "Y")))
	assert.Len(t, st.inserted, 1, "second identical fetch must not insert again")
	assert.Equal(t, []string{"Fetched 2 referrals", "Fetched 2 referrals"}, st.logs)
}

func TestProcessFetchPartialOverlap(t *testing.T) {
	st := &fakeStore{recent: refs("X", "Y")}
	d := &fakeDispatcher{}
	e := NewEngine(st, d)

	require.NoError(t, e.ProcessFetch(context.Background(), refs("X", "Y", "Z")))

	require.Len(t, st.inserted, 1)
	require.Len(t, st.inserted[0], 1)
	assert.Equal(t, "Z", st.inserted[0][0].MemberName)
	assert.Equal(t, "New referrals detected: Z", d.sent[1])
}

// Diff is by member name only; a changed memberID does not make a record new.
func TestProcessFetchDiffByNameOnly(t *testing.T) {
	st := &fakeStore{recent: []domain.Referral{{MemberName: "X", MemberID: "old"}}}
	d := &fakeDispatcher{}
	e := NewEngine(st, d)

	require.NoError(t, e.ProcessFetch(context.Background(), []domain.Referral{{MemberName: "X", MemberID: "new"}}))
	assert.Empty(t, st.inserted)
}

func TestProcessFetchEmptyFetch(t *testing.T) {
	st := &fakeStore{recent: refs("X")}
	d := &fakeDispatcher{}
	e := NewEngine(st, d)

	require.NoError(t, e.ProcessFetch(context.Background(), nil))
	assert.Empty(t, st.inserted)
	assert.Equal(t, []string{"Fetched 0 referrals"}, st.logs)
	require.Len(t, d.sent, 1)
}

// Side effects fail independently: a dispatcher failure doesn't stop the
// insert or the log entry, and the errors come back joined.
func TestProcessFetchNotificationFailureIndependent(t *testing.T) {
	st := &fakeStore{}
	d := &fakeDispatcher{err: errors.New("smtp down")}
	e := NewEngine(st, d)

	err := e.ProcessFetch(context.Background(), refs("X"))
	require.Error(t, err)

	require.Len(t, st.inserted, 1)
	assert.Equal(t, []string{"Fetched 1 referrals"}, st.logs)
}

func TestProcessFetchInsertFailureIndependent(t *testing.T) {
	insertErr := errors.New("db down")
	st := &fakeStore{insertErr: insertErr}
	d := &fakeDispatcher{}
	e := NewEngine(st, d)

	err := e.ProcessFetch(context.Background(), refs("X"))
	assert.ErrorIs(t, err, insertErr)

	// Notifications and the log entry still happened.
	assert.Len(t, d.sent, 2)
	assert.Equal(t, []string{"Fetched 1 referrals"}, st.logs)
}

func TestProcessFetchWindowReadFailureSkipsDiff(t *testing.T) {
	recentErr := errors.New("db down")
	st := &fakeStore{recentErr: recentErr}
	d := &fakeDispatcher{}
	e := NewEngine(st, d)

	err := e.ProcessFetch(context.Background(), refs("X"))
	assert.ErrorIs(t, err, recentErr)

	// Without a window there is no diff, so no insert and no "new" alert,
	// but the fetched notification and the log entry still go out.
	assert.Empty(t, st.inserted)
	assert.Len(t, d.sent, 1)
	assert.Equal(t, []string{"Fetched 1 referrals"}, st.logs)
}
