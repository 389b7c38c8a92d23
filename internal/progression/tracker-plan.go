package progression

import "github.com/liftcycle/liftcycle/internal/calendar"

// openForDay advances the single-plan pointer for an app open on the given
// calendar day and returns the (possibly advanced) 1-based day index.
//
// The first open only records the day. Re-opens on the same day are
// idempotent. On a new day the pointer advances, wrapping after the last day,
// but only when the previously opened day's workout was fully completed; a
// missed day never silently skips content.
func openForDay(p *PlanProgress, totalDays int, today calendar.Date, prevCompleted bool) int {
	if p.CurrentDayIndex < 1 {
		p.CurrentDayIndex = 1
	}
	switch {
	case p.LastOpenedOn == nil:
		// First open: keep the starting day.
	case *p.LastOpenedOn == today:
		return p.CurrentDayIndex
	case prevCompleted && totalDays > 0:
		p.CurrentDayIndex = p.CurrentDayIndex%totalDays + 1
	}
	p.LastOpenedOn = &today
	return p.CurrentDayIndex
}
