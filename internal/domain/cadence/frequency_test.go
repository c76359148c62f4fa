package cadence

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Frequency
		wantErr bool
	}{
		{in: "DAILY", want: Daily},
		{in: " weekly ", want: Weekly},
		{in: "Monthly", want: Monthly},
		{in: "hourly", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownFrequency) {
				t.Fatalf("Parse(%q): expected ErrUnknownFrequency, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Parse(%q): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestNext(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		f    Frequency
		want time.Time
	}{
		{f: Daily, want: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)},
		{f: Weekly, want: time.Date(2024, 2, 7, 9, 0, 0, 0, time.UTC)},
		{f: Monthly, want: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)},
		{f: Frequency("bogus"), want: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := Next(base, tt.f); !got.Equal(tt.want) {
			t.Fatalf("Next(%s): expected %s, got %s", tt.f, tt.want, got)
		}
	}
}

func TestDue(t *testing.T) {
	t.Parallel()

	sent := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if !Due(nil, Daily, sent) {
		t.Fatalf("expected never-sent cycle to be due")
	}
	zero := time.Time{}
	if !Due(&zero, Weekly, sent) {
		t.Fatalf("expected zero timestamp to be treated as never sent")
	}

	tests := []struct {
		name string
		f    Frequency
		now  time.Time
		want bool
	}{
		{name: "daily 23h", f: Daily, now: sent.Add(23 * time.Hour), want: false},
		{name: "daily exactly 24h", f: Daily, now: sent.Add(24 * time.Hour), want: false},
		{name: "daily 25h", f: Daily, now: sent.Add(25 * time.Hour), want: true},
		{name: "weekly 6d", f: Weekly, now: sent.AddDate(0, 0, 6), want: false},
		{name: "weekly 8d", f: Weekly, now: sent.AddDate(0, 0, 8), want: true},
		{name: "monthly 30d", f: Monthly, now: sent.AddDate(0, 0, 30), want: false},
		{name: "monthly 31d", f: Monthly, now: sent.AddDate(0, 0, 31).Add(time.Second), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Due(&sent, tt.f, tt.now); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
