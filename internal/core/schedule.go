package core

import (
	"time"

	"attendance.service/internal/core/model"
)

// ResolveDay returns the worker's expected slots for the given calendar
// day, looked up by day of week (0=Sunday). A missing schedule or one
// with zero slots means the worker is not scheduled: expected time is
// zero and the day is excluded from absence detection.
func ResolveDay(w *model.Worker, day time.Time) []model.Slot {
	dow := int(day.Weekday())
	for _, s := range w.Schedules {
		if s.DayOfWeek == dow {
			return s.Slots
		}
	}
	return nil
}

// SlotMinutes is a slot's duration in minutes, end-of-day minutes minus
// start-of-day minutes. Slots with end before start yield a negative
// contribution; they are summed as-is, not special-cased.
func SlotMinutes(s model.Slot) int {
	return parseClock(s.EndTime) - parseClock(s.StartTime)
}

// ExpectedMinutes sums a day's slots without deduplication or overlap
// validation.
func ExpectedMinutes(slots []model.Slot) int {
	total := 0
	for _, s := range slots {
		total += SlotMinutes(s)
	}
	return total
}

// IsScheduled reports whether the worker has at least one slot that day.
func IsScheduled(w *model.Worker, day time.Time) bool {
	return len(ResolveDay(w, day)) > 0
}
