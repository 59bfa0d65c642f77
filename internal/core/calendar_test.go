package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"attendance.service/internal/core/model"
)

func TestKindOfIncidentType(t *testing.T) {
	cases := map[string]model.IncidentKind{
		"Vacaciones":        model.KindVacation,
		"VACACIONES 2025":   model.KindVacation,
		"Baja médica":       model.KindSick,
		"enfermedad":        model.KindSick,
		"Accidente laboral": model.KindSick,
		"FALTA":             model.KindAbsence,
		"ausencia":          model.KindAbsence,
		"Permiso especial":  model.KindOther,
		"":                  model.KindOther,
	}
	for input, want := range cases {
		assert.Equal(t, want, model.KindOfIncidentType(input), "type %q", input)
	}
}

func TestIncidentCoversDay(t *testing.T) {
	inc := model.Incident{
		WorkerID:  "w1",
		StartDate: day(2025, time.June, 3),
		EndDate:   timeptr(day(2025, time.June, 5)),
	}

	assert.False(t, IncidentCoversDay(inc, day(2025, time.June, 2)))
	assert.True(t, IncidentCoversDay(inc, day(2025, time.June, 3)))
	assert.True(t, IncidentCoversDay(inc, day(2025, time.June, 5)))
	assert.False(t, IncidentCoversDay(inc, day(2025, time.June, 6)))
}

func TestIncidentCoversDay_OpenEnded(t *testing.T) {
	// No end date: the incident covers every day from its start on.
	inc := model.Incident{WorkerID: "w1", StartDate: day(2025, time.June, 3)}

	assert.False(t, IncidentCoversDay(inc, day(2025, time.June, 2)))
	assert.True(t, IncidentCoversDay(inc, day(2025, time.June, 3)))
	assert.True(t, IncidentCoversDay(inc, day(2025, time.December, 31)))
}

func TestClassify_IncidentWinsOverHoliday(t *testing.T) {
	d := day(2025, time.June, 3)
	incidents := []model.Incident{{WorkerID: "w1", Type: "Vacaciones", StartDate: d, EndDate: timeptr(d)}}
	holidays := []model.Holiday{{Date: d, Name: "Fiesta local"}}

	cls := Classify("w1", d, incidents, holidays, nil)

	assert.True(t, cls.Suppressed)
	assert.Equal(t, SuppressionIncident, cls.Kind)
	assert.Equal(t, model.KindVacation, cls.IncidentKind)
	assert.NotNil(t, cls.Incident)
}

func TestClassify_IncidentForOtherWorkerIgnored(t *testing.T) {
	d := day(2025, time.June, 3)
	incidents := []model.Incident{{WorkerID: "w2", Type: "Vacaciones", StartDate: d, EndDate: timeptr(d)}}

	cls := Classify("w1", d, incidents, nil, nil)

	assert.False(t, cls.Suppressed)
	assert.Equal(t, SuppressionNone, cls.Kind)
}

func TestClassify_HolidayIgnoresTimeOfDay(t *testing.T) {
	d := day(2025, time.June, 3)
	holidays := []model.Holiday{{Date: at(2025, time.June, 3, 12, 30), Name: "Fiesta"}}

	cls := Classify("w1", d, nil, holidays, nil)

	assert.True(t, cls.Suppressed)
	assert.Equal(t, SuppressionHoliday, cls.Kind)
}

func TestClassify_ClosureRangeInclusiveBothEnds(t *testing.T) {
	closures := []model.CompanyClosure{{
		Name:      "Cierre de agosto",
		StartDate: day(2025, time.August, 4),
		EndDate:   day(2025, time.August, 15),
	}}

	assert.Equal(t, SuppressionNone, Classify("w1", day(2025, time.August, 3), nil, nil, closures).Kind)
	assert.Equal(t, SuppressionClosure, Classify("w1", day(2025, time.August, 4), nil, nil, closures).Kind)
	assert.Equal(t, SuppressionClosure, Classify("w1", day(2025, time.August, 15), nil, nil, closures).Kind)
	assert.Equal(t, SuppressionNone, Classify("w1", day(2025, time.August, 16), nil, nil, closures).Kind)
}
