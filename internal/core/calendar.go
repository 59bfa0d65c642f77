package core

import (
	"time"

	"attendance.service/internal/core/model"
)

// SuppressionKind names what suppressed a day's expected time.
type SuppressionKind string

const (
	SuppressionNone     SuppressionKind = "none"
	SuppressionIncident SuppressionKind = "incident"
	SuppressionHoliday  SuppressionKind = "holiday"
	SuppressionClosure  SuppressionKind = "closure"
)

// DayClassification is the leave/holiday/closure verdict for one worker
// on one day. When Suppressed is true expected minutes are forced to
// zero and the schedule is not consulted.
type DayClassification struct {
	Suppressed   bool
	Kind         SuppressionKind
	Incident     *model.Incident
	IncidentKind model.IncidentKind
}

// IncidentCoversDay applies the overlap rule: the incident's start is on
// or before the day's end, and its end (when present) is on or after the
// day's start. A nil end date means a single-day incident.
func IncidentCoversDay(inc model.Incident, day time.Time) bool {
	if inc.StartDate.After(EndOfDay(day)) {
		return false
	}
	return inc.EndDate == nil || !inc.EndDate.Before(StartOfDay(day))
}

// ClosureCoversDay checks the closure's inclusive date-only range.
func ClosureCoversDay(c model.CompanyClosure, day time.Time) bool {
	return !c.StartDate.After(EndOfDay(day)) && !c.EndDate.Before(StartOfDay(day))
}

// Classify evaluates incidents, holidays and closures for a worker's
// day. Incidents win the label when several suppressions coincide;
// holiday beats closure. Time-of-day on holiday dates is ignored.
func Classify(workerID string, day time.Time, incidents []model.Incident, holidays []model.Holiday, closures []model.CompanyClosure) DayClassification {
	for i := range incidents {
		inc := incidents[i]
		if inc.WorkerID != workerID {
			continue
		}
		if IncidentCoversDay(inc, day) {
			return DayClassification{
				Suppressed:   true,
				Kind:         SuppressionIncident,
				Incident:     &incidents[i],
				IncidentKind: model.KindOfIncidentType(inc.Type),
			}
		}
	}
	for _, h := range holidays {
		if SameDay(h.Date, day) {
			return DayClassification{Suppressed: true, Kind: SuppressionHoliday}
		}
	}
	for _, c := range closures {
		if ClosureCoversDay(c, day) {
			return DayClassification{Suppressed: true, Kind: SuppressionClosure}
		}
	}
	return DayClassification{Kind: SuppressionNone}
}
