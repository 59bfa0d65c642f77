package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
)

var (
	// ErrWorkerNotFound means the kiosk identifier matched no worker.
	// The action is rejected with no partial state written.
	ErrWorkerNotFound = errors.New("worker not found")
	// ErrCompanyClosed means a company closure blocks clock-in today.
	ErrCompanyClosed = errors.New("company closed")
)

// Sound is the kiosk audio feedback cue. It is UI feedback only and
// never feeds back into reconciliation.
type Sound string

const (
	SoundSuccess      Sound = "success"
	SoundEnterCorrect Sound = "enter_correct"
	SoundExitCorrect  Sound = "exit_correct"
	SoundError        Sound = "error"
)

// scheduleTolerance is the window around a slot boundary within which a
// clock event is considered "on time" for audio feedback.
const scheduleTolerance = 60 * time.Minute

// ClockInResult is what the kiosk shows after a successful punch.
type ClockInResult struct {
	WorkerName string          `json:"workerName"`
	Direction  model.Direction `json:"direction"`
	Timestamp  time.Time       `json:"timestamp"`
	Sound      Sound           `json:"sound"`
}

// ClockInService handles the kiosk clock-in action: it resolves the
// identifier, derives the event direction from the worker's latest
// event, and appends an immutable clock event.
type ClockInService struct {
	repo     repository.Repository
	producer messaging.Producer
}

func NewClockInService(repo repository.Repository, p messaging.Producer) *ClockInService {
	return &ClockInService{repo: repo, producer: p}
}

// ProcessClockIn records one clock event for the worker matching the
// identifier. A company closure covering today blocks the punch
// entirely. On clock-out the day's worked minutes are re-paired and
// published to the payroll ledger queue.
func (s *ClockInService) ProcessClockIn(ctx context.Context, identifier string, method model.Method) (*ClockInResult, error) {
	return s.processClockIn(ctx, identifier, method, time.Now())
}

func (s *ClockInService) processClockIn(ctx context.Context, identifier string, method model.Method, now time.Time) (*ClockInResult, error) {
	closure, err := s.repo.ClosureForDate(ctx, StartOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("failed to check company closure: %w", err)
	}
	if closure != nil {
		return nil, fmt.Errorf("%w: %s", ErrCompanyClosed, closure.Name)
	}

	worker, err := s.repo.FindWorkerByCredential(ctx, method, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to look up worker: %w", err)
	}
	if worker == nil {
		return nil, ErrWorkerNotFound
	}

	last, err := s.repo.LatestClockEvent(ctx, worker.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read latest clock event: %w", err)
	}
	direction := NextDirection(last)

	ev := &model.ClockEvent{
		WorkerID:  worker.ID,
		Direction: direction,
		Method:    method,
		Timestamp: now,
	}
	id, err := s.repo.CreateClockEvent(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("failed to create clock event: %w", err)
	}

	log.Ctx(ctx).Info().
		Str("worker_id", worker.ID).
		Str("direction", string(direction)).
		Str("method", string(method)).
		Msg("Clock event recorded")

	if direction == model.DirectionOut {
		if err := s.publishLedger(ctx, worker.ID, id, now); err != nil {
			return nil, err
		}
	}

	return &ClockInResult{
		WorkerName: worker.Name,
		Direction:  direction,
		Timestamp:  now,
		Sound:      feedbackSound(worker, now, direction),
	}, nil
}

// publishLedger re-pairs the day's events and hands the closed total to
// the payroll ledger queue.
func (s *ClockInService) publishLedger(ctx context.Context, workerID string, eventID int64, now time.Time) error {
	events, err := s.repo.ListClockEvents(ctx, StartOfDay(now), EndOfDay(now), workerID)
	if err != nil {
		return fmt.Errorf("failed to list today's clock events: %w", err)
	}
	worked, _ := PairEvents(events)

	ledgerEvent := messaging.LedgerEvent{
		ClockEventID:  eventID,
		WorkerID:      workerID,
		WorkedMinutes: worked,
		ClockOutTime:  now,
	}
	if err := s.producer.PublishLedger(ctx, ledgerEvent); err != nil {
		return fmt.Errorf("failed to publish ledger event: %w", err)
	}
	return nil
}

// feedbackSound checks whether the punch lands within the tolerance
// window of a slot boundary: slot starts for IN, slot ends for OUT. A
// worker without a schedule that day always gets the directional cue.
func feedbackSound(w *model.Worker, now time.Time, direction model.Direction) Sound {
	slots := ResolveDay(w, now)
	if len(slots) == 0 {
		if direction == model.DirectionIn {
			return SoundEnterCorrect
		}
		return SoundExitCorrect
	}

	minuteOfDay := now.Hour()*60 + now.Minute()
	tolerance := int(scheduleTolerance.Minutes())
	onTime := func(boundary int) bool {
		diff := minuteOfDay - boundary
		if diff < 0 {
			diff = -diff
		}
		return diff <= tolerance
	}

	for _, slot := range slots {
		if direction == model.DirectionIn && onTime(parseClock(slot.StartTime)) {
			return SoundEnterCorrect
		}
		if direction == model.DirectionOut && onTime(parseClock(slot.EndTime)) {
			return SoundExitCorrect
		}
	}
	return SoundSuccess
}
