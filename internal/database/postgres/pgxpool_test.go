package postgres

import (
	"testing"

	"skill-alert/internal/config"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{name: "plain", password: "secret", want: "host=db port=5432 user=app password=secret dbname=alerts sslmode=disable"},
		{name: "empty", password: "", want: "host=db port=5432 user=app password='' dbname=alerts sslmode=disable"},
		{name: "quoted", password: `it's a \ pass`, want: `host=db port=5432 user=app password='it\'s a \\ pass' dbname=alerts sslmode=disable`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DSN(config.DatabaseConfig{
				Host: " db ", Port: "5432", User: "app", Password: tt.password, Name: "alerts", SSLMode: "disable",
			})
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
