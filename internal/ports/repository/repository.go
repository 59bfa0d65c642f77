package repository

import (
	"context"
	"time"

	"attendance.service/internal/core/model"
)

// Repository contract. Lookup reads return (nil, nil) when nothing
// matches; only storage failures surface as errors.
type Repository interface {
	// FindWorkerByCredential resolves a kiosk identifier (PIN, QR token
	// or NFC tag) to at most one worker, schedules and slots included.
	FindWorkerByCredential(ctx context.Context, method model.Method, identifier string) (*model.Worker, error)
	// ListWorkers returns workers with their schedules and slots.
	// An empty or "all" workerID returns every worker.
	ListWorkers(ctx context.Context, workerID string) ([]model.Worker, error)

	LatestClockEvent(ctx context.Context, workerID string) (*model.ClockEvent, error)
	CreateClockEvent(ctx context.Context, ev *model.ClockEvent) (int64, error)
	// ListClockEvents returns events in [from, to] ordered by timestamp
	// ascending. An empty or "all" workerID spans every worker.
	ListClockEvents(ctx context.Context, from, to time.Time, workerID string) ([]model.ClockEvent, error)

	// ListIncidentsOverlapping returns incidents whose [start, end]
	// range overlaps [from, to]; open-ended incidents always overlap.
	ListIncidentsOverlapping(ctx context.Context, from, to time.Time, workerID string) ([]model.Incident, error)
	CreateIncident(ctx context.Context, inc *model.Incident) error
	GetIncident(ctx context.Context, id string) (*model.Incident, error)
	UpdateIncidentStatus(ctx context.Context, id, status string) error

	ListHolidays(ctx context.Context, from, to time.Time) ([]model.Holiday, error)
	ListClosures(ctx context.Context, from, to time.Time) ([]model.CompanyClosure, error)
	ClosureForDate(ctx context.Context, day time.Time) (*model.CompanyClosure, error)

	// LoadConfigSnapshot resolves the phase-in dates once per operation.
	LoadConfigSnapshot(ctx context.Context) (model.ConfigSnapshot, error)
}
