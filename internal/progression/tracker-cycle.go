package progression

import "github.com/liftcycle/liftcycle/internal/calendar"

// dayCountDangling marks a cycle item whose plan no longer resolves. A zero
// entry is a plan that exists but has no days. Neither is advanceable.
const dayCountDangling = -1

// noValidItems picks the error for a cycle with nothing to advance to.
func noValidItems(dayCounts []int) error {
	if len(dayCounts) == 0 {
		return ErrEmptyCycle
	}
	for _, c := range dayCounts {
		if c != dayCountDangling {
			return ErrEmptyCycle
		}
	}
	return ErrDanglingPlan
}

// advancePlan moves the item pointer to the next resolvable, non-empty plan,
// wrapping modulo the item count, and resets the day pointer. It scans at most
// one full lap; a cycle with no valid item fails without mutating p.
func advancePlan(p *CycleProgress, dayCounts []int) error {
	n := len(dayCounts)
	if n == 0 {
		return ErrEmptyCycle
	}
	idx := p.ItemIndex % n
	for range n {
		idx = (idx + 1) % n
		if dayCounts[idx] > 0 {
			p.ItemIndex = idx
			p.DayIndex = 0
			return nil
		}
	}
	return noValidItems(dayCounts)
}

// advanceDay moves the day pointer forward by one, rolling over into the next
// plan when the current plan's days are exhausted. It reports whether a plan
// switch occurred. A current item that no longer resolves is skipped the same
// way a finished plan is.
func advanceDay(p *CycleProgress, dayCounts []int) (bool, error) {
	n := len(dayCounts)
	if n == 0 {
		return false, ErrEmptyCycle
	}
	if p.ItemIndex >= n || dayCounts[p.ItemIndex] <= 0 {
		if err := advancePlan(p, dayCounts); err != nil {
			return false, err
		}
		return true, nil
	}
	if p.DayIndex+1 >= dayCounts[p.ItemIndex] {
		if err := advancePlan(p, dayCounts); err != nil {
			return false, err
		}
		return true, nil
	}
	p.DayIndex++
	return false, nil
}

// markCompleted applies a completion signal for the given calendar day.
//
// The pointer advances exactly once per calendar day: a strictly later
// completion advances and records the day, a repeated signal for the same day
// is a no-op, and a backfilled completion for an earlier day never rewinds or
// re-advances. It reports whether the pointer moved.
func markCompleted(p *CycleProgress, dayCounts []int, completion calendar.Date) (bool, error) {
	if p.LastCompletedOn != nil && !completion.After(*p.LastCompletedOn) {
		return false, nil
	}
	if _, err := advanceDay(p, dayCounts); err != nil {
		return false, err
	}
	p.LastCompletedOn = &completion
	return true, nil
}

// previewDayIndex estimates the 0-based day index the target date would land
// on, assuming one advancement per day with no completions in between.
//
// The estimate wraps modulo the current plan's day count only; it does not
// simulate rolling over into subsequent plans of the cycle. That restriction
// is intentional and callers present it as an approximation.
func previewDayIndex(p CycleProgress, dayCounts []int, target, today calendar.Date) (int, error) {
	if p.ItemIndex >= len(dayCounts) || dayCounts[p.ItemIndex] <= 0 {
		return 0, noValidItems(dayCounts)
	}
	n := dayCounts[p.ItemIndex]
	idx := (p.DayIndex + target.DaysSince(today)) % n
	if idx < 0 {
		idx += n
	}
	return idx, nil
}

// ensureValidItem repositions the pointer onto a resolvable plan if the
// current item is dangling or empty. It reports whether it moved.
func ensureValidItem(p *CycleProgress, dayCounts []int) (bool, error) {
	if p.ItemIndex < len(dayCounts) && dayCounts[p.ItemIndex] > 0 {
		if p.DayIndex >= dayCounts[p.ItemIndex] {
			p.DayIndex = 0
			return true, nil
		}
		return false, nil
	}
	if err := advancePlan(p, dayCounts); err != nil {
		return false, err
	}
	return true, nil
}
