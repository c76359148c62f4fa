package seeder

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"skill-alert/internal/database"
	"skill-alert/internal/domain/skill"
)

type fakeRows struct {
	vals []string
	i    int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Next() bool { r.i++; return r.i <= len(r.vals) }
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.vals[r.i-1]
	return nil
}

type fakeTx struct {
	db *fakeDB
}

func (t fakeTx) Exec(_ context.Context, _ string, args ...any) (int64, error) {
	name := args[0].(string)
	if t.db.names[name] {
		return 0, nil
	}
	t.db.names[name] = true
	t.db.categories = append(t.db.categories, args[1].(string))
	return 1, nil
}
func (t fakeTx) Query(context.Context, string, ...any) (database.Rows, error) { return nil, nil }
func (t fakeTx) QueryRow(context.Context, string, ...any) database.Row        { return nil }
func (t fakeTx) Commit(context.Context) error                                 { t.db.commits++; return nil }
func (t fakeTx) Rollback(context.Context) error                               { return nil }

type fakeDB struct {
	columns    []string
	names      map[string]bool
	categories []string
	commits    int
}

func (d *fakeDB) Ping(context.Context) error { return nil }
func (d *fakeDB) Close() error               { return nil }
func (d *fakeDB) Exec(context.Context, string, ...any) (int64, error) {
	return 0, nil
}
func (d *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) {
	return &fakeRows{vals: d.columns}, nil
}
func (d *fakeDB) QueryRow(context.Context, string, ...any) database.Row { return nil }
func (d *fakeDB) Begin(context.Context) (database.Tx, error)            { return fakeTx{db: d}, nil }
func (d *fakeDB) SQLDB() *sql.DB                                        { return nil }

func TestSkillsSeeder_InsertsMissingOnly(t *testing.T) {
	db := &fakeDB{
		columns: []string{"id", "name", "category", "created_at"},
		names:   map[string]bool{"Go": true},
	}
	s := SkillsSeeder{Tokens: []skill.Token{{Name: "Go"}, {Name: "Rust", Category: "Language"}, {Name: "Kafka"}}}

	n, err := s.Run(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || db.commits != 1 {
		t.Fatalf("expected 2 inserts in one commit, got %d inserts and %d commits", n, db.commits)
	}
	if strings.Join(db.categories, ",") != "Language,"+skill.DefaultCategory {
		t.Fatalf("unexpected categories: %v", db.categories)
	}
}

func TestEnsureTableColumns_ReportsMissing(t *testing.T) {
	db := &fakeDB{columns: []string{"id", "name"}}
	err := EnsureTableColumns(context.Background(), db, "skills", "id", "name", "category")
	if err == nil || !strings.Contains(err.Error(), "skills.category") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestDefaults_SeedsFallbackList(t *testing.T) {
	db := &fakeDB{
		columns: []string{"id", "name", "category", "created_at"},
		names:   map[string]bool{},
	}
	if err := Defaults(nil).Run(context.Background(), db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(db.names) != len(skill.FallbackTokens()) {
		t.Fatalf("expected %d skills, got %d", len(skill.FallbackTokens()), len(db.names))
	}
}
