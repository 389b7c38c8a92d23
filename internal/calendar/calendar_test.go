package calendar_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/liftcycle/liftcycle/internal/calendar"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name           string
		timestamp      time.Time
		transitionHour int
		want           calendar.Date
	}{
		{
			name:           "before transition hour counts as previous day",
			timestamp:      time.Date(2024, 3, 10, 2, 0, 0, 0, time.Local),
			transitionHour: 3,
			want:           calendar.MustParse("2024-03-09"),
		},
		{
			name:           "after transition hour counts as same day",
			timestamp:      time.Date(2024, 3, 10, 4, 0, 0, 0, time.Local),
			transitionHour: 3,
			want:           calendar.MustParse("2024-03-10"),
		},
		{
			name:           "exactly at transition hour counts as same day",
			timestamp:      time.Date(2024, 3, 10, 3, 0, 0, 0, time.Local),
			transitionHour: 3,
			want:           calendar.MustParse("2024-03-10"),
		},
		{
			name:           "zero transition hour is plain truncation at midnight",
			timestamp:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local),
			transitionHour: 0,
			want:           calendar.MustParse("2024-03-10"),
		},
		{
			name:           "zero transition hour is plain truncation late at night",
			timestamp:      time.Date(2024, 3, 10, 23, 59, 0, 0, time.Local),
			transitionHour: 0,
			want:           calendar.MustParse("2024-03-10"),
		},
		{
			name:           "transition across month boundary",
			timestamp:      time.Date(2024, 3, 1, 1, 30, 0, 0, time.Local),
			transitionHour: 3,
			want:           calendar.MustParse("2024-02-29"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calendar.Normalize(tt.timestamp, tt.transitionHour)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	ts := time.Date(2024, 6, 15, 1, 45, 12, 0, time.Local)
	first := calendar.Normalize(ts, 4)
	for range 10 {
		if got := calendar.Normalize(ts, 4); got != first {
			t.Fatalf("Normalize() = %v, want %v on repeated call", got, first)
		}
	}
}

func TestDaysSince(t *testing.T) {
	tests := []struct {
		name string
		d    calendar.Date
		o    calendar.Date
		want int
	}{
		{"same day", calendar.MustParse("2024-03-10"), calendar.MustParse("2024-03-10"), 0},
		{"next day", calendar.MustParse("2024-03-11"), calendar.MustParse("2024-03-10"), 1},
		{"previous day is negative", calendar.MustParse("2024-03-09"), calendar.MustParse("2024-03-10"), -1},
		{"across leap day", calendar.MustParse("2024-03-01"), calendar.MustParse("2024-02-28"), 2},
		{"across year boundary", calendar.MustParse("2025-01-02"), calendar.MustParse("2024-12-30"), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.DaysSince(tt.o); got != tt.want {
				t.Errorf("DaysSince() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	d := calendar.MustParse("2024-02-28")
	if got := d.AddDays(1); got != calendar.MustParse("2024-02-29") {
		t.Errorf("AddDays(1) = %v, want 2024-02-29", got)
	}
	if got := d.AddDays(-28); got != calendar.MustParse("2024-01-31") {
		t.Errorf("AddDays(-28) = %v, want 2024-01-31", got)
	}
	if got := d.AddDays(0); got != d {
		t.Errorf("AddDays(0) = %v, want %v", got, d)
	}
}

func TestISOWeekday(t *testing.T) {
	// 2024-03-11 is a Monday.
	for i := range 7 {
		d := calendar.MustParse("2024-03-11").AddDays(i)
		if got := d.ISOWeekday(); got != i {
			t.Errorf("ISOWeekday(%v) = %d, want %d", d, got, i)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	monday := calendar.MustParse("2024-03-11")
	for i := range 7 {
		d := monday.AddDays(i)
		if got := d.StartOfWeek(); got != monday {
			t.Errorf("StartOfWeek(%v) = %v, want %v", d, got, monday)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	const s = "2024-11-05"
	d, err := calendar.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", s, err)
	}
	if got := d.String(); got != s {
		t.Errorf("String() = %q, want %q", got, s)
	}

	if _, err = calendar.Parse("not-a-date"); err == nil {
		t.Error("Parse() with garbage input should return an error")
	}
}
