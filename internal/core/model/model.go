package model

import (
	"strings"
	"time"
)

// Direction of a clock event. The next event's direction is always the
// opposite of the worker's most recent one; a worker with no history
// starts with IN.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Method records how a clock event was captured at the kiosk.
type Method string

const (
	MethodPIN    Method = "PIN"
	MethodQR     Method = "QR"
	MethodNFC    Method = "NFC"
	MethodManual Method = "MANUAL"
)

// Worker is an employee tracked by the kiosk. Each credential (PIN, NFC
// tag, QR token) is unique across workers when present. Days before
// CreatedAt are excluded from reconciliation and absence detection.
type Worker struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     *string    `json:"email,omitempty"`
	PIN       *string    `json:"-"`
	NFCTag    *string    `json:"-"`
	QRToken   *string    `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	Schedules []Schedule `json:"schedules,omitempty"`
}

// Schedule holds the expected slots for one day of the week.
// DayOfWeek follows time.Weekday numbering: 0=Sunday .. 6=Saturday.
// A nil WorkerID marks the ownerless global template.
type Schedule struct {
	ID        string  `json:"id"`
	WorkerID  *string `json:"workerId,omitempty"`
	DayOfWeek int     `json:"dayOfWeek"`
	Slots     []Slot  `json:"slots"`
}

// Slot is a single expected work interval, wall-clock "HH:MM" with an
// implied same-day span. Slots are summed as-is; an end before start
// contributes negative minutes.
type Slot struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ClockEvent is an immutable clock-in/out fact. Events are consumed in
// timestamp order within a worker's day and never mutated.
type ClockEvent struct {
	ID        int64     `json:"id"`
	WorkerID  string    `json:"workerId"`
	Direction Direction `json:"direction"`
	Method    Method    `json:"method"`
	Timestamp time.Time `json:"timestamp"`
	Location  *string   `json:"location,omitempty"`
}

// Incident statuses. GENERATED marks system-created absences, NOTIFIED
// that the admin email went out, REVIEWED that a human touched it.
const (
	IncidentStatusGenerated = "GENERATED"
	IncidentStatusNotified  = "NOTIFIED"
	IncidentStatusReviewed  = "REVIEWED"
)

// TypeUnexcusedAbsence is the type tag used by the absence auto-detector,
// distinct from manually entered types.
const TypeUnexcusedAbsence = "FALTA"

// Incident is a leave/absence record. A nil EndDate means a single-day
// incident. Type is free text kept for display; its kind is derived once
// via KindOfIncidentType.
type Incident struct {
	ID          string     `json:"id"`
	WorkerID    string     `json:"workerId"`
	Type        string     `json:"type"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Status      string     `json:"status"`
	Description *string    `json:"description,omitempty"`
}

// IncidentKind is the closed classification of an incident's free-text
// type. It replaces ad hoc substring matching at aggregation time: the
// kind is resolved once and carried through tallies.
type IncidentKind string

const (
	KindVacation IncidentKind = "VACATION"
	KindSick     IncidentKind = "SICK"
	KindAbsence  IncidentKind = "ABSENCE"
	KindOther    IncidentKind = "OTHER"
)

// KindOfIncidentType classifies a free-text incident type. Matching is
// case-insensitive on the legacy Spanish substrings.
func KindOfIncidentType(t string) IncidentKind {
	s := strings.ToLower(t)
	switch {
	case strings.Contains(s, "vacaci"):
		return KindVacation
	case strings.Contains(s, "baja"), strings.Contains(s, "enfermedad"), strings.Contains(s, "accidente"):
		return KindSick
	case strings.Contains(s, "falta"), strings.Contains(s, "ausencia"):
		return KindAbsence
	default:
		return KindOther
	}
}

// Holiday suppresses expected time company-wide on its calendar date.
type Holiday struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

// CompanyClosure suppresses expected time and blocks clock-in for every
// worker on every day in [StartDate, EndDate], both ends inclusive.
type CompanyClosure struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Description *string   `json:"description,omitempty"`
}

// ConfigSnapshot is the phase-in configuration resolved once per
// operation from the system_config table. Both dates are optional and
// normalized to the start of their day.
type ConfigSnapshot struct {
	PilotStart      *time.Time
	ProductionStart *time.Time
}

// Interval is a worked span within a day, rendered "HH:MM".
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayStatus classifies a reconciled day. Display priority:
// incident > holiday > off > missing > extra > ok.
type DayStatus string

const (
	StatusOK       DayStatus = "ok"
	StatusMissing  DayStatus = "missing"
	StatusExtra    DayStatus = "extra"
	StatusIncident DayStatus = "incident"
	StatusHoliday  DayStatus = "holiday"
	StatusOff      DayStatus = "off"
)

// IncidentCounts tallies classified incident days over a range.
type IncidentCounts struct {
	Vacation int `json:"vacation"`
	Sick     int `json:"sick"`
	Absence  int `json:"absence"`
	Other    int `json:"other"`
}

// DailyStat is one reconciled day for one worker. BalanceMinutes shows
// the theoretical worked-expected delta for the day regardless of phase.
type DailyStat struct {
	Date            string     `json:"date"`
	DayName         string     `json:"dayName"`
	WorkedMinutes   int        `json:"workedMinutes"`
	ExpectedMinutes int        `json:"expectedMinutes"`
	BalanceMinutes  int        `json:"balanceMinutes"`
	Status          DayStatus  `json:"status"`
	IncidentType    string     `json:"incidentType,omitempty"`
	Intervals       []Interval `json:"intervals"`
}

// WorkerStat aggregates one worker over the requested range. Balance
// accrues only over production-phase days; ExpectedToDateMinutes stops
// accruing for days after "now".
type WorkerStat struct {
	WorkerID              string         `json:"userId"`
	WorkerName            string         `json:"userName"`
	WorkedMinutes         int            `json:"workedMinutes"`
	ExpectedMinutes       int            `json:"expectedMinutes"`
	ExpectedToDateMinutes int            `json:"expectedToDateMinutes"`
	BalanceMinutes        int            `json:"balanceMinutes"`
	Incidents             IncidentCounts `json:"incidents"`
	DailyBreakdown        []DailyStat    `json:"dailyBreakdown"`
}

// DashboardStats is the company-wide aggregation payload.
type DashboardStats struct {
	TotalWorkers          int            `json:"totalUsers"`
	TotalWorkedMinutes    int            `json:"totalWorkedMinutes"`
	TotalExpectedMinutes  int            `json:"totalExpectedMinutes"`
	TotalExpectedToDate   int            `json:"totalExpectedToDateMinutes"`
	BalanceMinutes        int            `json:"balanceMinutes"`
	IncidentCounts        IncidentCounts `json:"incidentCounts"`
	WorkerStats           []WorkerStat   `json:"userStats"`
}
