package progression

import (
	"errors"
	"testing"

	"github.com/liftcycle/liftcycle/internal/calendar"
	"github.com/liftcycle/liftcycle/internal/ptr"
)

func TestAdvanceDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		progress      CycleProgress
		dayCounts     []int
		wantItemIndex int
		wantDayIndex  int
		wantSwitched  bool
	}{
		{
			name:          "within plan",
			progress:      CycleProgress{ItemIndex: 0, DayIndex: 0},
			dayCounts:     []int{3, 2},
			wantItemIndex: 0,
			wantDayIndex:  1,
		},
		{
			name:          "last day rolls into next plan",
			progress:      CycleProgress{ItemIndex: 0, DayIndex: 1},
			dayCounts:     []int{2, 3},
			wantItemIndex: 1,
			wantDayIndex:  0,
			wantSwitched:  true,
		},
		{
			name:          "last plan wraps to first",
			progress:      CycleProgress{ItemIndex: 1, DayIndex: 2},
			dayCounts:     []int{2, 3},
			wantItemIndex: 0,
			wantDayIndex:  0,
			wantSwitched:  true,
		},
		{
			name:          "single day plans alternate",
			progress:      CycleProgress{ItemIndex: 0, DayIndex: 0},
			dayCounts:     []int{1, 1},
			wantItemIndex: 1,
			wantDayIndex:  0,
			wantSwitched:  true,
		},
		{
			name:          "dangling item skipped",
			progress:      CycleProgress{ItemIndex: 0, DayIndex: 1},
			dayCounts:     []int{2, -1, 3},
			wantItemIndex: 2,
			wantDayIndex:  0,
			wantSwitched:  true,
		},
		{
			name:          "empty plan skipped",
			progress:      CycleProgress{ItemIndex: 0, DayIndex: 1},
			dayCounts:     []int{2, 0, 3},
			wantItemIndex: 2,
			wantDayIndex:  0,
			wantSwitched:  true,
		},
		{
			name:          "current item dangling moves off immediately",
			progress:      CycleProgress{ItemIndex: 1, DayIndex: 0},
			dayCounts:     []int{2, -1},
			wantItemIndex: 0,
			wantDayIndex:  0,
			wantSwitched:  true,
		},
		{
			name:          "stale index beyond items",
			progress:      CycleProgress{ItemIndex: 5, DayIndex: 2},
			dayCounts:     []int{2, 3},
			wantItemIndex: 0,
			wantDayIndex:  0,
			wantSwitched:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := tt.progress
			switched, err := advanceDay(&p, tt.dayCounts)
			if err != nil {
				t.Fatalf("advanceDay: %v", err)
			}
			if switched != tt.wantSwitched {
				t.Errorf("switched = %v, want %v", switched, tt.wantSwitched)
			}
			if p.ItemIndex != tt.wantItemIndex || p.DayIndex != tt.wantDayIndex {
				t.Errorf("pointer = (%d, %d), want (%d, %d)",
					p.ItemIndex, p.DayIndex, tt.wantItemIndex, tt.wantDayIndex)
			}
		})
	}
}

func TestAdvanceDayErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		dayCounts []int
		wantErr   error
	}{
		{name: "no items", dayCounts: nil, wantErr: ErrEmptyCycle},
		{name: "only empty plans", dayCounts: []int{0, 0}, wantErr: ErrEmptyCycle},
		{name: "only dangling items", dayCounts: []int{-1, -1}, wantErr: ErrDanglingPlan},
		{name: "dangling and empty mixed", dayCounts: []int{-1, 0}, wantErr: ErrEmptyCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := CycleProgress{ItemIndex: 0, DayIndex: 0}
			if _, err := advanceDay(&p, tt.dayCounts); !errors.Is(err, tt.wantErr) {
				t.Errorf("advanceDay error = %v, want %v", err, tt.wantErr)
			}
			if p.ItemIndex != 0 || p.DayIndex != 0 {
				t.Errorf("pointer mutated on error: (%d, %d)", p.ItemIndex, p.DayIndex)
			}
		})
	}
}

func TestMarkCompleted(t *testing.T) {
	t.Parallel()

	monday := calendar.MustParse("2026-08-24")
	tuesday := calendar.MustParse("2026-08-25")
	wednesday := calendar.MustParse("2026-08-26")
	dayCounts := []int{3}

	p := CycleProgress{ItemIndex: 0, DayIndex: 0}

	advanced, err := markCompleted(&p, dayCounts, monday)
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if !advanced || p.DayIndex != 1 {
		t.Fatalf("first completion: advanced=%v dayIndex=%d, want true, 1", advanced, p.DayIndex)
	}

	// Same day again is a no-op.
	advanced, err = markCompleted(&p, dayCounts, monday)
	if err != nil {
		t.Fatalf("repeat completion: %v", err)
	}
	if advanced || p.DayIndex != 1 {
		t.Fatalf("repeat completion moved the pointer: advanced=%v dayIndex=%d", advanced, p.DayIndex)
	}

	advanced, err = markCompleted(&p, dayCounts, wednesday)
	if err != nil {
		t.Fatalf("later completion: %v", err)
	}
	if !advanced || p.DayIndex != 2 {
		t.Fatalf("later completion: advanced=%v dayIndex=%d, want true, 2", advanced, p.DayIndex)
	}

	// Backfilling an earlier day never rewinds.
	advanced, err = markCompleted(&p, dayCounts, tuesday)
	if err != nil {
		t.Fatalf("backfilled completion: %v", err)
	}
	if advanced || p.DayIndex != 2 {
		t.Fatalf("backfilled completion moved the pointer: advanced=%v dayIndex=%d", advanced, p.DayIndex)
	}
	if *p.LastCompletedOn != wednesday {
		t.Errorf("LastCompletedOn = %v, want %v", *p.LastCompletedOn, wednesday)
	}
}

func TestPreviewDayIndex(t *testing.T) {
	t.Parallel()

	today := calendar.MustParse("2026-08-24")
	dayCounts := []int{3}

	tests := []struct {
		name     string
		progress CycleProgress
		target   calendar.Date
		want     int
	}{
		{name: "today", progress: CycleProgress{DayIndex: 2}, target: today, want: 2},
		{name: "tomorrow wraps", progress: CycleProgress{DayIndex: 2}, target: today.AddDays(1), want: 0},
		{name: "two days out", progress: CycleProgress{DayIndex: 2}, target: today.AddDays(2), want: 1},
		{name: "yesterday", progress: CycleProgress{DayIndex: 0}, target: today.AddDays(-1), want: 2},
		{name: "full week ahead", progress: CycleProgress{DayIndex: 1}, target: today.AddDays(7), want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := previewDayIndex(tt.progress, dayCounts, tt.target, today)
			if err != nil {
				t.Fatalf("previewDayIndex: %v", err)
			}
			if got != tt.want {
				t.Errorf("previewDayIndex = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("dangling current item", func(t *testing.T) {
		t.Parallel()
		p := CycleProgress{ItemIndex: 0}
		if _, err := previewDayIndex(p, []int{-1}, today, today); !errors.Is(err, ErrDanglingPlan) {
			t.Errorf("previewDayIndex error = %v, want %v", err, ErrDanglingPlan)
		}
	})
}

func TestEnsureValidItem(t *testing.T) {
	t.Parallel()

	t.Run("valid pointer untouched", func(t *testing.T) {
		t.Parallel()
		p := CycleProgress{ItemIndex: 1, DayIndex: 1}
		moved, err := ensureValidItem(&p, []int{2, 3})
		if err != nil {
			t.Fatalf("ensureValidItem: %v", err)
		}
		if moved || p.ItemIndex != 1 || p.DayIndex != 1 {
			t.Errorf("pointer changed: moved=%v (%d, %d)", moved, p.ItemIndex, p.DayIndex)
		}
	})

	t.Run("day index past shrunk plan resets", func(t *testing.T) {
		t.Parallel()
		p := CycleProgress{ItemIndex: 0, DayIndex: 5}
		moved, err := ensureValidItem(&p, []int{3})
		if err != nil {
			t.Fatalf("ensureValidItem: %v", err)
		}
		if !moved || p.DayIndex != 0 {
			t.Errorf("moved=%v dayIndex=%d, want true, 0", moved, p.DayIndex)
		}
	})

	t.Run("dangling item skipped", func(t *testing.T) {
		t.Parallel()
		p := CycleProgress{ItemIndex: 0, DayIndex: 1}
		moved, err := ensureValidItem(&p, []int{-1, 2})
		if err != nil {
			t.Fatalf("ensureValidItem: %v", err)
		}
		if !moved || p.ItemIndex != 1 || p.DayIndex != 0 {
			t.Errorf("moved=%v pointer=(%d, %d), want true, (1, 0)", moved, p.ItemIndex, p.DayIndex)
		}
	})
}

func TestMarkCompletedFirstEver(t *testing.T) {
	t.Parallel()

	day := calendar.MustParse("2026-08-24")
	p := CycleProgress{ItemIndex: 0, DayIndex: 0, LastCompletedOn: ptr.Ref(day)}

	advanced, err := markCompleted(&p, []int{3}, day)
	if err != nil {
		t.Fatalf("markCompleted: %v", err)
	}
	if advanced {
		t.Error("completion for the already recorded day advanced the pointer")
	}
}
