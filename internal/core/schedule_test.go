package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"attendance.service/internal/core/model"
)

func TestResolveDay_LooksUpByWeekday(t *testing.T) {
	w := &model.Worker{
		ID:        "w1",
		Schedules: scheduleFor("09:00", "17:00", 1, 2, 3, 4, 5),
	}

	monday := day(2025, time.June, 2)
	sunday := day(2025, time.June, 1)

	assert.Len(t, ResolveDay(w, monday), 1)
	assert.Nil(t, ResolveDay(w, sunday), "no schedule on Sunday")
}

func TestResolveDay_EmptyScheduleMeansNotScheduled(t *testing.T) {
	w := &model.Worker{
		ID:        "w1",
		Schedules: []model.Schedule{{ID: "s", DayOfWeek: 1, Slots: []model.Slot{}}},
	}
	assert.False(t, IsScheduled(w, day(2025, time.June, 2)))
}

func TestSlotMinutes(t *testing.T) {
	assert.Equal(t, 540, SlotMinutes(model.Slot{StartTime: "08:00", EndTime: "17:00"}))
	assert.Equal(t, 90, SlotMinutes(model.Slot{StartTime: "08:30", EndTime: "10:00"}))
}

func TestSlotMinutes_EndBeforeStartGoesNegative(t *testing.T) {
	// Malformed slots are not special-cased: the negative duration
	// propagates into the sum.
	assert.Equal(t, -120, SlotMinutes(model.Slot{StartTime: "10:00", EndTime: "08:00"}))
}

func TestExpectedMinutes_SumsSplitShift(t *testing.T) {
	slots := []model.Slot{
		{StartTime: "09:00", EndTime: "13:00"},
		{StartTime: "14:00", EndTime: "18:00"},
	}
	assert.Equal(t, 480, ExpectedMinutes(slots))
}

func TestExpectedMinutes_MalformedClockContributesZero(t *testing.T) {
	slots := []model.Slot{
		{StartTime: "garbage", EndTime: "garbage"},
		{StartTime: "09:00", EndTime: "10:00"},
	}
	assert.Equal(t, 60, ExpectedMinutes(slots))
}
