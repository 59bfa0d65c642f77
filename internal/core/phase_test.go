package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"attendance.service/internal/core/model"
)

func TestEffectiveStart_NoConfigUsesRangeStart(t *testing.T) {
	start := day(2025, time.June, 1)
	got := EffectiveStart(start, model.ConfigSnapshot{}, day(2025, time.June, 30))
	assert.Equal(t, start, got)
}

func TestEffectiveStart_ActiveProductionClampsStart(t *testing.T) {
	cfg := model.ConfigSnapshot{ProductionStart: timeptr(day(2025, time.June, 10))}
	now := day(2025, time.June, 30)

	got := EffectiveStart(day(2025, time.June, 1), cfg, now)
	assert.Equal(t, day(2025, time.June, 10), got)

	// A range already past the production date is untouched.
	got = EffectiveStart(day(2025, time.June, 15), cfg, now)
	assert.Equal(t, day(2025, time.June, 15), got)
}

func TestEffectiveStart_FutureProductionFallsBackToPilot(t *testing.T) {
	cfg := model.ConfigSnapshot{
		PilotStart:      timeptr(day(2025, time.June, 3)),
		ProductionStart: timeptr(day(2025, time.June, 10)),
	}
	now := day(2025, time.June, 5)

	got := EffectiveStart(day(2025, time.June, 1), cfg, now)
	assert.Equal(t, day(2025, time.June, 3), got)
}

func TestEffectiveStart_FutureProductionNoPilotClampsAnyway(t *testing.T) {
	cfg := model.ConfigSnapshot{ProductionStart: timeptr(day(2025, time.July, 1))}
	now := day(2025, time.June, 5)

	got := EffectiveStart(day(2025, time.June, 1), cfg, now)
	assert.Equal(t, day(2025, time.July, 1), got, "query over an earlier range will short-circuit empty")
}

func TestEffectiveStart_PilotOnly(t *testing.T) {
	cfg := model.ConfigSnapshot{PilotStart: timeptr(day(2025, time.June, 3))}
	got := EffectiveStart(day(2025, time.June, 1), cfg, day(2025, time.June, 30))
	assert.Equal(t, day(2025, time.June, 3), got)
}

func TestDayPhase(t *testing.T) {
	prod := timeptr(day(2025, time.June, 10))

	// With a production date, days strictly before it are pilot.
	cfg := model.ConfigSnapshot{ProductionStart: prod}
	assert.Equal(t, PhasePilot, DayPhase(day(2025, time.June, 9), cfg))
	assert.Equal(t, PhaseProduction, DayPhase(day(2025, time.June, 10), cfg))
	assert.Equal(t, PhaseProduction, DayPhase(day(2025, time.June, 11), cfg))

	// Pilot only: everything stays pilot, the balance never moves.
	cfg = model.ConfigSnapshot{PilotStart: timeptr(day(2025, time.June, 1))}
	assert.Equal(t, PhasePilot, DayPhase(day(2025, time.December, 31), cfg))

	// No configuration: balance accrues from day one.
	assert.Equal(t, PhaseProduction, DayPhase(day(2025, time.June, 1), model.ConfigSnapshot{}))
}
