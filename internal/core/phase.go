package core

import (
	"time"

	"attendance.service/internal/core/model"
)

// Phase of a reconciled day. Pilot days compute and display expected and
// worked minutes but never accrue into the running balance; production
// days do.
type Phase string

const (
	PhasePilot      Phase = "pilot"
	PhaseProduction Phase = "production"
)

// EffectiveStart clamps the requested range start per the phase-in
// configuration. A production date that is already active wins; a future
// production date falls back to the pilot date when one exists; with
// neither set the requested start is used unchanged.
func EffectiveStart(rangeStart time.Time, cfg model.ConfigSnapshot, now time.Time) time.Time {
	start := StartOfDay(rangeStart)
	clamp := func(d *time.Time) {
		if d != nil {
			day := StartOfDay(*d)
			if day.After(start) {
				start = day
			}
		}
	}
	if cfg.ProductionStart != nil {
		if !StartOfDay(*cfg.ProductionStart).After(EndOfDay(now)) {
			clamp(cfg.ProductionStart)
		} else if cfg.PilotStart != nil {
			clamp(cfg.PilotStart)
		} else {
			// Future production date and no pilot: clamp anyway, the
			// query will short-circuit to an empty result.
			clamp(cfg.ProductionStart)
		}
		return start
	}
	clamp(cfg.PilotStart)
	return start
}

// DayPhase classifies a single iterated day. With a production date set,
// days strictly before it are pilot. With only a pilot date, every day
// is pilot. With no configuration at all, balance accrues from day one.
func DayPhase(day time.Time, cfg model.ConfigSnapshot) Phase {
	if cfg.ProductionStart != nil {
		if StartOfDay(day).Before(StartOfDay(*cfg.ProductionStart)) {
			return PhasePilot
		}
		return PhaseProduction
	}
	if cfg.PilotStart != nil {
		return PhasePilot
	}
	return PhaseProduction
}
