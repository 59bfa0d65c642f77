package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
)

func kioskFixture() *fakeRepo {
	return &fakeRepo{
		workers: []model.Worker{{
			ID: "w1", Name: "Ana", PIN: strptr("1234"), QRToken: strptr("qr-ana"),
			CreatedAt: day(2025, time.January, 1),
			Schedules: scheduleFor("09:00", "17:00", 1, 2, 3, 4, 5),
		}},
	}
}

func TestProcessClockIn_FirstPunchIsIn(t *testing.T) {
	repo := kioskFixture()
	svc := NewClockInService(repo, &fakeProducer{})

	res, err := svc.processClockIn(context.Background(), "1234", model.MethodPIN, at(2025, time.June, 2, 9, 5))
	require.NoError(t, err)

	assert.Equal(t, "Ana", res.WorkerName)
	assert.Equal(t, model.DirectionIn, res.Direction)
	assert.Equal(t, SoundEnterCorrect, res.Sound, "09:05 is within the window of the 09:00 slot start")
	require.Len(t, repo.events, 1)
	assert.Equal(t, model.DirectionIn, repo.events[0].Direction)
	assert.Equal(t, model.MethodPIN, repo.events[0].Method)
}

func TestProcessClockIn_TogglesToOutAndPublishesLedger(t *testing.T) {
	repo := kioskFixture()
	repo.events = []model.ClockEvent{event("w1", model.DirectionIn, at(2025, time.June, 2, 9, 0))}
	producer := &fakeProducer{}
	svc := NewClockInService(repo, producer)

	res, err := svc.processClockIn(context.Background(), "1234", model.MethodPIN, at(2025, time.June, 2, 17, 0))
	require.NoError(t, err)

	assert.Equal(t, model.DirectionOut, res.Direction)
	assert.Equal(t, SoundExitCorrect, res.Sound)

	require.Len(t, producer.ledger, 1)
	ev, ok := producer.ledger[0].(messaging.LedgerEvent)
	require.True(t, ok)
	assert.Equal(t, "w1", ev.WorkerID)
	assert.Equal(t, 480, ev.WorkedMinutes)
	assert.Equal(t, at(2025, time.June, 2, 17, 0), ev.ClockOutTime)
}

func TestProcessClockIn_QRLookup(t *testing.T) {
	repo := kioskFixture()
	svc := NewClockInService(repo, &fakeProducer{})

	res, err := svc.processClockIn(context.Background(), "qr-ana", model.MethodQR, at(2025, time.June, 2, 9, 0))
	require.NoError(t, err)
	assert.Equal(t, "Ana", res.WorkerName)
}

func TestProcessClockIn_UnknownIdentifier(t *testing.T) {
	repo := kioskFixture()
	svc := NewClockInService(repo, &fakeProducer{})

	_, err := svc.processClockIn(context.Background(), "9999", model.MethodPIN, at(2025, time.June, 2, 9, 0))
	assert.ErrorIs(t, err, ErrWorkerNotFound)
	assert.Empty(t, repo.events, "rejected punches write nothing")
}

func TestProcessClockIn_BlockedDuringClosure(t *testing.T) {
	repo := kioskFixture()
	repo.closures = []model.CompanyClosure{{
		Name: "Vacaciones de empresa", StartDate: day(2025, time.June, 1), EndDate: day(2025, time.June, 15),
	}}
	svc := NewClockInService(repo, &fakeProducer{})

	_, err := svc.processClockIn(context.Background(), "1234", model.MethodPIN, at(2025, time.June, 2, 9, 0))
	assert.ErrorIs(t, err, ErrCompanyClosed)
	assert.Empty(t, repo.events)
}

func TestProcessClockIn_OffWindowPunchFallsBackToSuccess(t *testing.T) {
	repo := kioskFixture()
	svc := NewClockInService(repo, &fakeProducer{})

	// Noon is more than an hour from both the 09:00 start and 17:00 end.
	res, err := svc.processClockIn(context.Background(), "1234", model.MethodPIN, at(2025, time.June, 2, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, SoundSuccess, res.Sound)
}

func TestProcessClockIn_NoScheduleGetsDirectionalCue(t *testing.T) {
	repo := kioskFixture()
	repo.workers[0].Schedules = nil
	svc := NewClockInService(repo, &fakeProducer{})

	res, err := svc.processClockIn(context.Background(), "1234", model.MethodPIN, at(2025, time.June, 2, 3, 0))
	require.NoError(t, err)
	assert.Equal(t, SoundEnterCorrect, res.Sound)
}

func TestProcessClockIn_LedgerPublishFailureIsFatal(t *testing.T) {
	repo := kioskFixture()
	repo.events = []model.ClockEvent{event("w1", model.DirectionIn, at(2025, time.June, 2, 9, 0))}
	svc := NewClockInService(repo, &fakeProducer{err: assert.AnError})

	_, err := svc.processClockIn(context.Background(), "1234", model.MethodPIN, at(2025, time.June, 2, 17, 0))
	assert.Error(t, err)
}
