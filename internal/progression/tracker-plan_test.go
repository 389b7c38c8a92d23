package progression

import (
	"testing"

	"github.com/liftcycle/liftcycle/internal/calendar"
	"github.com/liftcycle/liftcycle/internal/ptr"
)

func TestOpenForDay(t *testing.T) {
	t.Parallel()

	monday := calendar.MustParse("2026-08-24")
	tuesday := calendar.MustParse("2026-08-25")

	tests := []struct {
		name          string
		progress      PlanProgress
		totalDays     int
		today         calendar.Date
		prevCompleted bool
		wantIndex     int
	}{
		{
			name:      "first open keeps starting day",
			progress:  PlanProgress{CurrentDayIndex: 1},
			totalDays: 3,
			today:     monday,
			wantIndex: 1,
		},
		{
			name:          "same day is idempotent",
			progress:      PlanProgress{CurrentDayIndex: 2, LastOpenedOn: ptr.Ref(monday)},
			totalDays:     3,
			today:         monday,
			prevCompleted: true,
			wantIndex:     2,
		},
		{
			name:          "new day with completed workout advances",
			progress:      PlanProgress{CurrentDayIndex: 1, LastOpenedOn: ptr.Ref(monday)},
			totalDays:     3,
			today:         tuesday,
			prevCompleted: true,
			wantIndex:     2,
		},
		{
			name:      "new day without completion stays",
			progress:  PlanProgress{CurrentDayIndex: 2, LastOpenedOn: ptr.Ref(monday)},
			totalDays: 3,
			today:     tuesday,
			wantIndex: 2,
		},
		{
			name:          "last day wraps to first",
			progress:      PlanProgress{CurrentDayIndex: 3, LastOpenedOn: ptr.Ref(monday)},
			totalDays:     3,
			today:         tuesday,
			prevCompleted: true,
			wantIndex:     1,
		},
		{
			name:          "zero index repaired before use",
			progress:      PlanProgress{CurrentDayIndex: 0},
			totalDays:     3,
			today:         monday,
			wantIndex:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := tt.progress
			got := openForDay(&p, tt.totalDays, tt.today, tt.prevCompleted)
			if got != tt.wantIndex {
				t.Errorf("openForDay = %d, want %d", got, tt.wantIndex)
			}
			if p.LastOpenedOn == nil || *p.LastOpenedOn != tt.today {
				t.Errorf("LastOpenedOn = %v, want %v", p.LastOpenedOn, tt.today)
			}
		})
	}
}
