package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"attendance.service/internal/core/model"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	workers   []model.Worker
	events    []model.ClockEvent
	incidents []model.Incident
	holidays  []model.Holiday
	closures  []model.CompanyClosure
	cfg       model.ConfigSnapshot

	nextEventID    int64
	nextIncidentID int
}

func (f *fakeRepo) FindWorkerByCredential(_ context.Context, method model.Method, identifier string) (*model.Worker, error) {
	for i := range f.workers {
		w := &f.workers[i]
		var cred *string
		switch method {
		case model.MethodPIN:
			cred = w.PIN
		case model.MethodQR:
			cred = w.QRToken
		case model.MethodNFC:
			cred = w.NFCTag
		}
		if cred != nil && *cred == identifier {
			return w, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListWorkers(_ context.Context, workerID string) ([]model.Worker, error) {
	if workerID == "" || workerID == "all" {
		return f.workers, nil
	}
	for _, w := range f.workers {
		if w.ID == workerID {
			return []model.Worker{w}, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) LatestClockEvent(_ context.Context, workerID string) (*model.ClockEvent, error) {
	var latest *model.ClockEvent
	for i := range f.events {
		ev := &f.events[i]
		if ev.WorkerID != workerID {
			continue
		}
		if latest == nil || ev.Timestamp.After(latest.Timestamp) {
			latest = ev
		}
	}
	return latest, nil
}

func (f *fakeRepo) CreateClockEvent(_ context.Context, ev *model.ClockEvent) (int64, error) {
	f.nextEventID++
	ev.ID = f.nextEventID
	f.events = append(f.events, *ev)
	return ev.ID, nil
}

func (f *fakeRepo) ListClockEvents(_ context.Context, from, to time.Time, workerID string) ([]model.ClockEvent, error) {
	var out []model.ClockEvent
	for _, ev := range f.events {
		if ev.Timestamp.Before(from) || ev.Timestamp.After(to) {
			continue
		}
		if workerID != "" && workerID != "all" && ev.WorkerID != workerID {
			continue
		}
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (f *fakeRepo) ListIncidentsOverlapping(_ context.Context, from, to time.Time, workerID string) ([]model.Incident, error) {
	var out []model.Incident
	for _, inc := range f.incidents {
		if inc.StartDate.After(to) {
			continue
		}
		if inc.EndDate != nil && inc.EndDate.Before(from) {
			continue
		}
		if workerID != "" && workerID != "all" && inc.WorkerID != workerID {
			continue
		}
		out = append(out, inc)
	}
	return out, nil
}

func (f *fakeRepo) CreateIncident(_ context.Context, inc *model.Incident) error {
	f.nextIncidentID++
	inc.ID = fmt.Sprintf("incident-%d", f.nextIncidentID)
	f.incidents = append(f.incidents, *inc)
	return nil
}

func (f *fakeRepo) GetIncident(_ context.Context, id string) (*model.Incident, error) {
	for i := range f.incidents {
		if f.incidents[i].ID == id {
			return &f.incidents[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) UpdateIncidentStatus(_ context.Context, id, status string) error {
	for i := range f.incidents {
		if f.incidents[i].ID == id {
			f.incidents[i].Status = status
		}
	}
	return nil
}

func (f *fakeRepo) ListHolidays(_ context.Context, from, to time.Time) ([]model.Holiday, error) {
	var out []model.Holiday
	for _, h := range f.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListClosures(_ context.Context, from, to time.Time) ([]model.CompanyClosure, error) {
	var out []model.CompanyClosure
	for _, c := range f.closures {
		if !c.StartDate.After(to) && !c.EndDate.Before(from) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) ClosureForDate(_ context.Context, day time.Time) (*model.CompanyClosure, error) {
	for i := range f.closures {
		c := &f.closures[i]
		if !c.StartDate.After(day) && !c.EndDate.Before(day) {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) LoadConfigSnapshot(_ context.Context) (model.ConfigSnapshot, error) {
	return f.cfg, nil
}

// fakeProducer captures published events.
type fakeProducer struct {
	ledger []interface{}
	emails []interface{}
	err    error
}

func (f *fakeProducer) PublishLedger(_ context.Context, body interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.ledger = append(f.ledger, body)
	return nil
}

func (f *fakeProducer) PublishEmail(_ context.Context, body interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.emails = append(f.emails, body)
	return nil
}

// --- builders ---

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.Local)
}

func strptr(s string) *string { return &s }

func timeptr(t time.Time) *time.Time { return &t }

// scheduleFor builds one single-slot schedule per listed weekday.
func scheduleFor(start, end string, weekdays ...int) []model.Schedule {
	var schedules []model.Schedule
	for _, wd := range weekdays {
		schedules = append(schedules, model.Schedule{
			ID:        fmt.Sprintf("sched-%d", wd),
			DayOfWeek: wd,
			Slots:     []model.Slot{{ID: fmt.Sprintf("slot-%d", wd), StartTime: start, EndTime: end}},
		})
	}
	return schedules
}

func event(workerID string, dir model.Direction, ts time.Time) model.ClockEvent {
	return model.ClockEvent{WorkerID: workerID, Direction: dir, Method: model.MethodPIN, Timestamp: ts}
}
