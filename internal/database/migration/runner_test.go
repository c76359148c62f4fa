package migration

import (
	"strings"
	"testing"
	"testing/fstest"

	"skill-alert/migrations"
)

func TestLoad_OrdersAndFilters(t *testing.T) {
	src := fstest.MapFS{
		"V10__add_index.sql": {Data: []byte("CREATE INDEX x ON t(a);")},
		"V2__create_t.sql":   {Data: []byte("  CREATE TABLE t(a int);  ")},
		"README.md":          {Data: []byte("not a migration")},
		"V3_bad_name.sql":    {Data: []byte("SELECT 1;")},
	}

	migs, err := Load(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migs))
	}
	if migs[0].Version != 2 || migs[1].Version != 10 {
		t.Fatalf("expected numeric ordering, got %d then %d", migs[0].Version, migs[1].Version)
	}
	if migs[0].SQL != "CREATE TABLE t(a int);" || migs[0].Name != "create_t" {
		t.Fatalf("unexpected migration: %+v", migs[0])
	}
	if len(migs[0].Checksum) != 64 {
		t.Fatalf("expected sha256 hex checksum, got %q", migs[0].Checksum)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  fstest.MapFS
		want string
	}{
		{
			name: "duplicate version",
			src: fstest.MapFS{
				"V1__a.sql": {Data: []byte("SELECT 1;")},
				"V1__b.sql": {Data: []byte("SELECT 2;")},
			},
			want: "duplicate migration version",
		},
		{
			name: "empty file",
			src:  fstest.MapFS{"V1__a.sql": {Data: []byte("   ")}},
			want: "empty migration file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.src)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_EmbeddedMigrations(t *testing.T) {
	migs, err := Load(migrations.FS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(migs) == 0 || migs[0].Version != 1 {
		t.Fatalf("expected embedded migrations starting at V1, got %+v", migs)
	}
	for _, table := range []string{"job_alerts", "notification_preferences", "resumes", "job_matches", "skills"} {
		if !strings.Contains(migs[0].SQL, table) {
			t.Fatalf("expected initial migration to create %s", table)
		}
	}
}
