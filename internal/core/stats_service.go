package core

import (
	"context"
	"fmt"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
)

// StatsService reconciles attendance and aggregates it into per-worker
// and company-wide statistics.
type StatsService struct {
	repo repository.Repository
}

func NewStatsService(repo repository.Repository) *StatsService {
	return &StatsService{repo: repo}
}

// GetDashboardStats runs the reconciliation engine over every worker in
// scope and every day in [from, to], after clamping the start per the
// phase-in configuration. An effective start past the range end yields
// an empty result, not an error. The workerID filter accepts "" or
// "all" for everyone.
func (s *StatsService) GetDashboardStats(ctx context.Context, from, to time.Time, workerID string) (*model.DashboardStats, error) {
	return s.getDashboardStats(ctx, from, to, workerID, time.Now())
}

func (s *StatsService) getDashboardStats(ctx context.Context, from, to time.Time, workerID string, now time.Time) (*model.DashboardStats, error) {
	startDate := StartOfDay(from)
	endDate := EndOfDay(to)

	cfg, err := s.repo.LoadConfigSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config snapshot: %w", err)
	}

	stats := &model.DashboardStats{WorkerStats: []model.WorkerStat{}}

	effectiveStart := EffectiveStart(startDate, cfg, now)
	if effectiveStart.After(endDate) {
		return stats, nil
	}

	workers, err := s.repo.ListWorkers(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	events, err := s.repo.ListClockEvents(ctx, effectiveStart, endDate, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clock events: %w", err)
	}
	incidents, err := s.repo.ListIncidentsOverlapping(ctx, effectiveStart, endDate, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	holidays, err := s.repo.ListHolidays(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	closures, err := s.repo.ListClosures(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list closures: %w", err)
	}

	eventsByWorker := make(map[string][]model.ClockEvent)
	for _, ev := range events {
		eventsByWorker[ev.WorkerID] = append(eventsByWorker[ev.WorkerID], ev)
	}

	days := DaysBetween(effectiveStart, endDate)
	stats.TotalWorkers = len(workers)

	for i := range workers {
		ws := s.reconcileWorker(&workers[i], days, eventsByWorker[workers[i].ID], incidents, holidays, closures, cfg, now)

		stats.TotalWorkedMinutes += ws.WorkedMinutes
		stats.TotalExpectedMinutes += ws.ExpectedMinutes
		stats.TotalExpectedToDate += ws.ExpectedToDateMinutes
		stats.BalanceMinutes += ws.BalanceMinutes
		stats.IncidentCounts.Vacation += ws.Incidents.Vacation
		stats.IncidentCounts.Sick += ws.Incidents.Sick
		stats.IncidentCounts.Absence += ws.Incidents.Absence
		stats.IncidentCounts.Other += ws.Incidents.Other

		stats.WorkerStats = append(stats.WorkerStats, ws)
	}

	return stats, nil
}

// reconcileWorker produces one classified record per day and rolls the
// results into the worker's totals.
func (s *StatsService) reconcileWorker(w *model.Worker, days []time.Time, events []model.ClockEvent, incidents []model.Incident, holidays []model.Holiday, closures []model.CompanyClosure, cfg model.ConfigSnapshot, now time.Time) model.WorkerStat {
	ws := model.WorkerStat{
		WorkerID:       w.ID,
		WorkerName:     w.Name,
		DailyBreakdown: []model.DailyStat{},
	}

	created := StartOfDay(w.CreatedAt)
	for _, day := range days {
		// Days before the worker existed are excluded entirely.
		if day.Before(created) {
			continue
		}

		cls := Classify(w.ID, day, incidents, holidays, closures)

		expected := 0
		if !cls.Suppressed {
			expected = ExpectedMinutes(ResolveDay(w, day))
		}

		var dayEvents []model.ClockEvent
		for _, ev := range events {
			if SameDay(ev.Timestamp, day) {
				dayEvents = append(dayEvents, ev)
			}
		}
		worked, intervals := PairEvents(dayEvents)

		ws.WorkedMinutes += worked
		ws.ExpectedMinutes += expected
		// Expected-to-date stops accruing for days after "now".
		if !day.After(EndOfDay(now)) {
			ws.ExpectedToDateMinutes += expected
		}

		switch cls.IncidentKind {
		case model.KindVacation:
			ws.Incidents.Vacation++
		case model.KindSick:
			ws.Incidents.Sick++
		case model.KindAbsence:
			ws.Incidents.Absence++
		case model.KindOther:
			ws.Incidents.Other++
		}

		status := dayStatus(cls, expected, worked)

		// Pilot days are informational only; the running balance moves
		// in production phase alone.
		if DayPhase(day, cfg) == PhaseProduction {
			ws.BalanceMinutes += worked - expected
		}

		ds := model.DailyStat{
			Date:            FormatDate(day),
			DayName:         DayName(day),
			WorkedMinutes:   worked,
			ExpectedMinutes: expected,
			BalanceMinutes:  worked - expected,
			Status:          status,
			Intervals:       intervals,
		}
		if cls.Incident != nil {
			ds.IncidentType = cls.Incident.Type
		}
		ws.DailyBreakdown = append(ws.DailyBreakdown, ds)
	}

	return ws
}

// dayStatus applies the display priority:
// incident > holiday > off > missing > extra > ok.
func dayStatus(cls DayClassification, expected, worked int) model.DayStatus {
	switch {
	case cls.Kind == SuppressionIncident:
		return model.StatusIncident
	case cls.Kind == SuppressionHoliday:
		return model.StatusHoliday
	case expected == 0 && worked == 0:
		return model.StatusOff
	case worked < expected:
		return model.StatusMissing
	case worked > expected:
		return model.StatusExtra
	default:
		return model.StatusOK
	}
}
