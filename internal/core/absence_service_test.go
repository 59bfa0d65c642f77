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

func absenceFixture() *fakeRepo {
	// Mon-Fri 9-17 worker, live since early May. Pilot starts Monday
	// June 2, so the scan window for now=June 9 is June 2-8.
	return &fakeRepo{
		workers: []model.Worker{{
			ID: "w1", Name: "Ana", CreatedAt: day(2025, time.May, 1),
			Schedules: scheduleFor("09:00", "17:00", 1, 2, 3, 4, 5),
		}},
		cfg: model.ConfigSnapshot{PilotStart: timeptr(day(2025, time.June, 2))},
	}
}

func TestCheckAndGenerateAbsences_DetectsSingleUncoveredDay(t *testing.T) {
	// GIVEN: a week where Monday has punches, Tuesday is excused by an
	// incident, Wednesday is a holiday, Thursday a closure, and Friday
	// has nothing at all
	// WHEN: the detector runs on the following Monday
	// THEN: exactly one absence is created, for Friday

	repo := absenceFixture()
	repo.events = []model.ClockEvent{
		event("w1", model.DirectionIn, at(2025, time.June, 2, 9, 0)),
		event("w1", model.DirectionOut, at(2025, time.June, 2, 17, 0)),
	}
	repo.incidents = []model.Incident{{
		ID: "i1", WorkerID: "w1", Type: "Baja médica",
		StartDate: day(2025, time.June, 3), EndDate: timeptr(day(2025, time.June, 3)),
		Status: model.IncidentStatusReviewed,
	}}
	repo.holidays = []model.Holiday{{Date: day(2025, time.June, 4), Name: "Festivo"}}
	repo.closures = []model.CompanyClosure{{
		Name: "Cierre", StartDate: day(2025, time.June, 5), EndDate: day(2025, time.June, 5),
	}}

	producer := &fakeProducer{}
	svc := NewAbsenceService(repo, producer)

	created, err := svc.checkAndGenerateAbsences(context.Background(), at(2025, time.June, 9, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	var absence *model.Incident
	for i := range repo.incidents {
		if repo.incidents[i].Type == model.TypeUnexcusedAbsence {
			absence = &repo.incidents[i]
		}
	}
	require.NotNil(t, absence)
	assert.Equal(t, day(2025, time.June, 6), absence.StartDate, "Friday is the only uncovered day")
	assert.Equal(t, model.IncidentStatusGenerated, absence.Status)
	require.NotNil(t, absence.EndDate)
	assert.True(t, SameDay(*absence.EndDate, absence.StartDate))

	require.Len(t, producer.emails, 1)
	ev, ok := producer.emails[0].(messaging.AbsenceEmailEvent)
	require.True(t, ok)
	assert.Equal(t, absence.ID, ev.IncidentID)
	assert.Equal(t, "w1", ev.WorkerID)
	assert.Equal(t, "2025-06-06", ev.Date)
}

func TestCheckAndGenerateAbsences_SecondRunIsIdempotent(t *testing.T) {
	repo := absenceFixture()
	producer := &fakeProducer{}
	svc := NewAbsenceService(repo, producer)
	now := at(2025, time.June, 9, 10, 0)

	// No events, no excuses: all five scheduled days of the window
	// are absences on the first pass.
	created, err := svc.checkAndGenerateAbsences(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	created, err = svc.checkAndGenerateAbsences(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, created, "generated incidents excuse their own day")
	assert.Len(t, producer.emails, 5)
}

func TestCheckAndGenerateAbsences_NeverJudgesToday(t *testing.T) {
	repo := absenceFixture()
	svc := NewAbsenceService(repo, &fakeProducer{})

	// Monday June 9 is scheduled and has no events, but the window
	// closes at end of Sunday June 8.
	_, err := svc.checkAndGenerateAbsences(context.Background(), at(2025, time.June, 9, 10, 0))
	require.NoError(t, err)

	for _, inc := range repo.incidents {
		assert.NotEqual(t, day(2025, time.June, 9), inc.StartDate)
	}
}

func TestCheckAndGenerateAbsences_SkipsDaysBeforeWorkerCreation(t *testing.T) {
	repo := absenceFixture()
	repo.workers[0].CreatedAt = at(2025, time.June, 5, 14, 0)

	svc := NewAbsenceService(repo, &fakeProducer{})
	created, err := svc.checkAndGenerateAbsences(context.Background(), at(2025, time.June, 9, 10, 0))
	require.NoError(t, err)

	// Only Thursday 5 and Friday 6 are both scheduled and post-creation.
	assert.Equal(t, 2, created)
	assert.Equal(t, day(2025, time.June, 5), repo.incidents[0].StartDate)
	assert.Equal(t, day(2025, time.June, 6), repo.incidents[1].StartDate)
}

func TestCheckAndGenerateAbsences_EmptyWindowWhenPilotInFuture(t *testing.T) {
	repo := absenceFixture()
	repo.cfg.PilotStart = timeptr(day(2025, time.June, 20))

	svc := NewAbsenceService(repo, &fakeProducer{})
	created, err := svc.checkAndGenerateAbsences(context.Background(), at(2025, time.June, 9, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Empty(t, repo.incidents)
}

func TestCheckAndGenerateAbsences_PublishFailureDoesNotUndoIncident(t *testing.T) {
	repo := absenceFixture()
	producer := &fakeProducer{err: assert.AnError}

	svc := NewAbsenceService(repo, producer)
	created, err := svc.checkAndGenerateAbsences(context.Background(), at(2025, time.June, 9, 10, 0))
	require.NoError(t, err, "email publication is best-effort")
	assert.Equal(t, 5, created)
	assert.Len(t, repo.incidents, 5)
}
