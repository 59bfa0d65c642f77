package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
)

// absenceDescription is the note attached to auto-detected absences.
const absenceDescription = "Falta de asistencia detectada automáticamente"

// AbsenceService scans closed days and materializes unexcused-absence
// incidents for scheduled days with no clock events and no excuse.
type AbsenceService struct {
	repo     repository.Repository
	producer messaging.Producer
}

func NewAbsenceService(repo repository.Repository, p messaging.Producer) *AbsenceService {
	return &AbsenceService{repo: repo, producer: p}
}

// CheckAndGenerateAbsences scans from max(today-30d, pilot start)
// through yesterday — a day in progress is never judged absent — and
// creates one single-day incident per detected absence. The existing-
// incident skip makes the scan idempotent per (worker, day), so it is
// safe to invoke on every page load. Returns the number of incidents
// created.
func (s *AbsenceService) CheckAndGenerateAbsences(ctx context.Context) (int, error) {
	return s.checkAndGenerateAbsences(ctx, time.Now())
}

func (s *AbsenceService) checkAndGenerateAbsences(ctx context.Context, now time.Time) (int, error) {
	cfg, err := s.repo.LoadConfigSnapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load config snapshot: %w", err)
	}

	start := StartOfDay(now.AddDate(0, 0, -30))
	if cfg.PilotStart != nil && StartOfDay(*cfg.PilotStart).After(start) {
		start = StartOfDay(*cfg.PilotStart)
	}
	end := EndOfDay(now.AddDate(0, 0, -1))

	if start.After(end) {
		return 0, nil
	}

	workers, err := s.repo.ListWorkers(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("failed to list workers: %w", err)
	}
	holidays, err := s.repo.ListHolidays(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to list holidays: %w", err)
	}
	closures, err := s.repo.ListClosures(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to list closures: %w", err)
	}
	incidents, err := s.repo.ListIncidentsOverlapping(ctx, start, end, "")
	if err != nil {
		return 0, fmt.Errorf("failed to list incidents: %w", err)
	}
	events, err := s.repo.ListClockEvents(ctx, start, end, "")
	if err != nil {
		return 0, fmt.Errorf("failed to list clock events: %w", err)
	}

	days := DaysBetween(start, end)
	created := 0

	for i := range workers {
		w := &workers[i]
		createdAt := StartOfDay(w.CreatedAt)

		for _, day := range days {
			if day.Before(createdAt) {
				continue
			}
			if s.isExcused(w.ID, day, incidents, holidays, closures) {
				continue
			}
			if !IsScheduled(w, day) {
				continue
			}
			if hasEventOn(events, w.ID, day) {
				continue
			}

			// Scheduled work day, no holiday, no closure, no incident,
			// no clock event: unexcused absence.
			endDate := EndOfDay(day)
			desc := absenceDescription
			inc := &model.Incident{
				WorkerID:    w.ID,
				Type:        model.TypeUnexcusedAbsence,
				StartDate:   day,
				EndDate:     &endDate,
				Status:      model.IncidentStatusGenerated,
				Description: &desc,
			}
			if err := s.repo.CreateIncident(ctx, inc); err != nil {
				// Writes are independent; what was created so far
				// stands and the next run picks up where this one
				// failed.
				return created, fmt.Errorf("failed to create absence incident: %w", err)
			}
			created++

			log.Ctx(ctx).Info().
				Str("worker_id", w.ID).
				Str("date", FormatDate(day)).
				Msg("Unexcused absence detected")

			emailEvent := messaging.AbsenceEmailEvent{
				IncidentID: inc.ID,
				WorkerID:   w.ID,
				WorkerName: w.Name,
				Date:       FormatDate(day),
				OccurredAt: now,
			}
			if err := s.producer.PublishEmail(ctx, emailEvent); err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("incident_id", inc.ID).Msg("Failed to publish absence email event")
			}
		}
	}

	return created, nil
}

// isExcused reports whether the day is already covered by an incident
// or suppressed by a holiday or company closure.
func (s *AbsenceService) isExcused(workerID string, day time.Time, incidents []model.Incident, holidays []model.Holiday, closures []model.CompanyClosure) bool {
	for _, inc := range incidents {
		if inc.WorkerID == workerID && IncidentCoversDay(inc, day) {
			return true
		}
	}
	for _, h := range holidays {
		if SameDay(h.Date, day) {
			return true
		}
	}
	for _, c := range closures {
		if ClosureCoversDay(c, day) {
			return true
		}
	}
	return false
}

func hasEventOn(events []model.ClockEvent, workerID string, day time.Time) bool {
	for _, ev := range events {
		if ev.WorkerID == workerID && SameDay(ev.Timestamp, day) {
			return true
		}
	}
	return false
}
