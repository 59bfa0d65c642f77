package messaging

import "time"

// LedgerEvent is the JSON payload sent to the payroll ledger queue when
// a worker clocks out.
type LedgerEvent struct {
	ClockEventID  int64     `json:"clockEventId"`
	WorkerID      string    `json:"workerId"`
	WorkedMinutes int       `json:"workedMinutes"`
	ClockOutTime  time.Time `json:"clockOutTime"`
}

// AbsenceEmailEvent is the JSON payload sent to the email queue for each
// auto-detected unexcused absence.
type AbsenceEmailEvent struct {
	IncidentID string    `json:"incidentId"`
	WorkerID   string    `json:"workerId"`
	WorkerName string    `json:"workerName"`
	Date       string    `json:"date"`
	OccurredAt time.Time `json:"occurredAt"`
}
