package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"skill-alert/internal/database"
	"skill-alert/internal/domain/match"
)

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, v := range r.vals {
		switch d := dest[i].(type) {
		case *time.Time:
			*d = v.(time.Time)
		case *uuid.UUID:
			*d = v.(uuid.UUID)
		}
	}
	return nil
}

// fakeDB keeps one timestamp per key and applies the monotonic update when
// the statement asks for it, so tests see what Postgres would store.
type fakeDB struct {
	queries []string
	stamps  map[uuid.UUID]time.Time
	matches map[string]uuid.UUID
}

func newFakeDB() *fakeDB {
	return &fakeDB{stamps: map[uuid.UUID]time.Time{}, matches: map[string]uuid.UUID{}}
}

func (d *fakeDB) advance(query string, id uuid.UUID, at time.Time) (time.Time, bool) {
	cur, ok := d.stamps[id]
	if !ok {
		return time.Time{}, false
	}
	monotonic := strings.Contains(query, "GREATEST(COALESCE(")
	if cur.IsZero() || !monotonic || at.After(cur) {
		cur = at
	}
	d.stamps[id] = cur
	return cur, true
}

func (d *fakeDB) Ping(context.Context) error { return nil }
func (d *fakeDB) Close() error               { return nil }
func (d *fakeDB) Exec(_ context.Context, query string, args ...any) (int64, error) {
	d.queries = append(d.queries, query)
	if strings.HasPrefix(strings.TrimSpace(query), "INSERT INTO job_matches") {
		key := args[1].(uuid.UUID).String() + "|" + args[2].(string)
		if _, ok := d.matches[key]; ok {
			return 0, nil
		}
		d.matches[key] = args[0].(uuid.UUID)
		return 1, nil
	}
	if _, ok := d.advance(query, args[0].(uuid.UUID), args[1].(time.Time)); !ok {
		return 0, nil
	}
	return 1, nil
}
func (d *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) { return nil, nil }
func (d *fakeDB) QueryRow(_ context.Context, query string, args ...any) database.Row {
	d.queries = append(d.queries, query)
	if strings.HasPrefix(strings.TrimSpace(query), "SELECT id FROM job_matches") {
		id, ok := d.matches[args[0].(uuid.UUID).String()+"|"+args[1].(string)]
		if !ok {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{vals: []any{id}}
	}
	stored, ok := d.advance(query, args[0].(uuid.UUID), args[1].(time.Time))
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{vals: []any{stored}}
}
func (d *fakeDB) Begin(context.Context) (database.Tx, error) { return nil, errors.New("no tx") }
func (d *fakeDB) SQLDB() *sql.DB                             { return nil }

func (d *fakeDB) last() string { return d.queries[len(d.queries)-1] }

var (
	t0 = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func TestAlertRepository_MarkSentNeverMovesBackwards(t *testing.T) {
	db := newFakeDB()
	id := uuid.New()
	db.stamps[id] = time.Time{}
	repo := NewPostgresAlertRepository(db)

	stored, err := repo.MarkSent(context.Background(), id, t1)
	if err != nil || !stored.Equal(t1) {
		t.Fatalf("expected %v, got %v (%v)", t1, stored, err)
	}
	if !strings.Contains(db.last(), "last_sent_at = GREATEST(COALESCE(last_sent_at, $2), $2)") {
		t.Fatalf("expected monotonic update, got %q", db.last())
	}
	if !strings.Contains(db.last(), "RETURNING last_sent_at") {
		t.Fatalf("expected stored value to be returned, got %q", db.last())
	}

	stored, err = repo.MarkSent(context.Background(), id, t0)
	if err != nil || !stored.Equal(t1) {
		t.Fatalf("expected stale stamp to keep %v, got %v (%v)", t1, stored, err)
	}

	if _, err := repo.MarkSent(context.Background(), uuid.New(), t1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAlertRepository_MarkEvaluated(t *testing.T) {
	db := newFakeDB()
	id := uuid.New()
	db.stamps[id] = time.Time{}
	repo := NewPostgresAlertRepository(db)

	if err := repo.MarkEvaluated(context.Background(), id, t1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.last(), "last_evaluated_at = GREATEST(COALESCE(last_evaluated_at, $2), $2)") {
		t.Fatalf("expected monotonic update, got %q", db.last())
	}
	if err := repo.MarkEvaluated(context.Background(), id, t0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !db.stamps[id].Equal(t1) {
		t.Fatalf("expected %v, got %v", t1, db.stamps[id])
	}
	if err := repo.MarkEvaluated(context.Background(), uuid.New(), t1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPreferenceRepository_MarkDigestSent(t *testing.T) {
	db := newFakeDB()
	userID := uuid.New()
	db.stamps[userID] = time.Time{}
	repo := NewPostgresPreferenceRepository(db)

	if err := repo.MarkDigestSent(context.Background(), userID, t1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := db.last()
	if !strings.Contains(q, "last_digest_sent_at = GREATEST(COALESCE(last_digest_sent_at, $2), $2)") ||
		!strings.Contains(q, "WHERE user_id = $1") {
		t.Fatalf("expected monotonic update keyed by user, got %q", q)
	}
	if err := repo.MarkDigestSent(context.Background(), userID, t0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !db.stamps[userID].Equal(t1) {
		t.Fatalf("expected %v, got %v", t1, db.stamps[userID])
	}
	if err := repo.MarkDigestSent(context.Background(), uuid.New(), t1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJobMatchRepository_CreateOncePerCycle(t *testing.T) {
	db := newFakeDB()
	repo := NewPostgresJobMatchRepository(db)
	alertID := uuid.New()
	m := match.JobMatch{AlertID: alertID, UserID: uuid.New(), CycleKey: "never/never", MatchScore: 80}

	first, inserted, err := repo.Create(context.Background(), m)
	if err != nil || !inserted || first == uuid.Nil {
		t.Fatalf("expected a new row, got id=%v inserted=%v err=%v", first, inserted, err)
	}
	if !strings.Contains(db.last(), "ON CONFLICT (alert_id, cycle_key) DO NOTHING") {
		t.Fatalf("expected conflict clause, got %q", db.last())
	}

	again, inserted, err := repo.Create(context.Background(), m)
	if err != nil || inserted || again != first {
		t.Fatalf("expected existing row %v, got id=%v inserted=%v err=%v", first, again, inserted, err)
	}

	m.CycleKey = "never/" + t1.Format(time.RFC3339Nano)
	next, inserted, err := repo.Create(context.Background(), m)
	if err != nil || !inserted || next == first {
		t.Fatalf("expected a row for the next cycle, got id=%v inserted=%v err=%v", next, inserted, err)
	}
}

func TestJobMatchRepository_CreateWithoutCycleKeyAlwaysInserts(t *testing.T) {
	db := newFakeDB()
	repo := NewPostgresJobMatchRepository(db)
	m := match.JobMatch{AlertID: uuid.New(), UserID: uuid.New()}

	for i := 0; i < 2; i++ {
		if _, inserted, err := repo.Create(context.Background(), m); err != nil || !inserted {
			t.Fatalf("expected insert %d, got inserted=%v err=%v", i, inserted, err)
		}
	}
}
