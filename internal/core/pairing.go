package core

import (
	"attendance.service/internal/core/model"
)

// PairEvents reconstructs worked intervals from one worker's clock
// events for a single day, sorted ascending by timestamp. Events are
// consumed two at a time; only an IN followed by an OUT counts. Anything
// else, including a trailing unpaired event, is dropped silently: a
// dangling IN contributes zero, it is not counted as "worked until now".
func PairEvents(events []model.ClockEvent) (int, []model.Interval) {
	worked := 0
	intervals := []model.Interval{}
	for i := 0; i+1 < len(events); i += 2 {
		in, out := events[i], events[i+1]
		if in.Direction != model.DirectionIn || out.Direction != model.DirectionOut {
			continue
		}
		worked += int(out.Timestamp.Sub(in.Timestamp).Minutes())
		intervals = append(intervals, model.Interval{
			Start: FormatClock(in.Timestamp),
			End:   FormatClock(out.Timestamp),
		})
	}
	return worked, intervals
}

// NextDirection derives the direction of a worker's next clock event
// from their latest one: IN flips to OUT and vice versa. The state is a
// derived read of the event log, never a stored field, so it cannot
// diverge from the events. No history defaults to IN.
func NextDirection(last *model.ClockEvent) model.Direction {
	if last != nil && last.Direction == model.DirectionIn {
		return model.DirectionOut
	}
	return model.DirectionIn
}
