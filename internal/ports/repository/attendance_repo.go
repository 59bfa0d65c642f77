package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"attendance.service/internal/core/model"
)

// AttendanceRepository is the concrete implementation for a PostgreSQL
// database.
type AttendanceRepository struct {
	DB *sql.DB
}

// NewAttendanceRepository create new instance
func NewAttendanceRepository(db *sql.DB) Repository {
	return &AttendanceRepository{DB: db}
}

var credentialColumns = map[model.Method]string{
	model.MethodPIN: "pin",
	model.MethodQR:  "qr_token",
	model.MethodNFC: "nfc_tag",
}

// FindWorkerByCredential resolves a kiosk identifier to one worker.
func (r *AttendanceRepository) FindWorkerByCredential(ctx context.Context, method model.Method, identifier string) (*model.Worker, error) {
	col, ok := credentialColumns[method]
	if !ok {
		return nil, fmt.Errorf("unsupported credential method: %s", method)
	}

	query := fmt.Sprintf(`SELECT id, name, email, pin, nfc_tag, qr_token, created_at
              FROM workers WHERE %s = $1`, col)

	w := &model.Worker{}
	row := r.DB.QueryRowContext(ctx, query, identifier)
	err := row.Scan(&w.ID, &w.Name, &w.Email, &w.PIN, &w.NFCTag, &w.QRToken, &w.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.workerId", w.ID))

	schedules, err := r.loadSchedules(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	w.Schedules = schedules[w.ID]
	return w, nil
}

// ListWorkers returns workers with schedules and slots attached.
func (r *AttendanceRepository) ListWorkers(ctx context.Context, workerID string) ([]model.Worker, error) {
	query := `SELECT id, name, email, pin, nfc_tag, qr_token, created_at FROM workers`
	args := []any{}
	if workerID != "" && workerID != "all" {
		query += ` WHERE id = $1`
		args = append(args, workerID)
	}
	query += ` ORDER BY name`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []model.Worker
	for rows.Next() {
		var w model.Worker
		if err := rows.Scan(&w.ID, &w.Name, &w.Email, &w.PIN, &w.NFCTag, &w.QRToken, &w.CreatedAt); err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	schedules, err := r.loadSchedules(ctx, workerID)
	if err != nil {
		return nil, err
	}
	for i := range workers {
		workers[i].Schedules = schedules[workers[i].ID]
	}
	return workers, nil
}

// loadSchedules fetches schedules with their slots, grouped by worker.
// An empty or "all" workerID loads every owned schedule.
func (r *AttendanceRepository) loadSchedules(ctx context.Context, workerID string) (map[string][]model.Schedule, error) {
	query := `SELECT s.id, s.worker_id, s.day_of_week, sl.id, sl.start_time, sl.end_time
              FROM schedules s
              LEFT JOIN slots sl ON sl.schedule_id = s.id
              WHERE s.worker_id IS NOT NULL`
	args := []any{}
	if workerID != "" && workerID != "all" {
		query += ` AND s.worker_id = $1`
		args = append(args, workerID)
	}
	query += ` ORDER BY s.worker_id, s.day_of_week, sl.start_time`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grouped := make(map[string][]model.Schedule)
	index := make(map[string]int) // schedule id -> position in its worker's slice
	for rows.Next() {
		var (
			sched   model.Schedule
			ownerID string
			slotID  sql.NullString
			start   sql.NullString
			end     sql.NullString
		)
		if err := rows.Scan(&sched.ID, &ownerID, &sched.DayOfWeek, &slotID, &start, &end); err != nil {
			return nil, err
		}
		sched.WorkerID = &ownerID

		pos, seen := index[sched.ID]
		if !seen {
			grouped[ownerID] = append(grouped[ownerID], sched)
			pos = len(grouped[ownerID]) - 1
			index[sched.ID] = pos
		}
		if slotID.Valid {
			s := &grouped[ownerID][pos]
			s.Slots = append(s.Slots, model.Slot{ID: slotID.String, StartTime: start.String, EndTime: end.String})
		}
	}
	return grouped, rows.Err()
}

// LatestClockEvent gets the most recent event for a worker, used to
// derive the next direction. Returns (nil, nil) with no history.
func (r *AttendanceRepository) LatestClockEvent(ctx context.Context, workerID string) (*model.ClockEvent, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.workerId", workerID))

	query := `SELECT id, worker_id, direction, method, timestamp, location
              FROM clock_events
              WHERE worker_id = $1
              ORDER BY timestamp DESC
              LIMIT 1`

	ev := &model.ClockEvent{}
	row := r.DB.QueryRowContext(ctx, query, workerID)
	err := row.Scan(&ev.ID, &ev.WorkerID, &ev.Direction, &ev.Method, &ev.Timestamp, &ev.Location)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// CreateClockEvent appends an immutable clock event.
func (r *AttendanceRepository) CreateClockEvent(ctx context.Context, ev *model.ClockEvent) (int64, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.workerId", ev.WorkerID))

	var id int64
	query := `INSERT INTO clock_events (worker_id, direction, method, timestamp, location)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`

	err := r.DB.QueryRowContext(ctx, query, ev.WorkerID, ev.Direction, ev.Method, ev.Timestamp, ev.Location).Scan(&id)
	if err != nil {
		return 0, err
	}
	ev.ID = id
	return id, nil
}

// ListClockEvents returns events in range, timestamp ascending.
func (r *AttendanceRepository) ListClockEvents(ctx context.Context, from, to time.Time, workerID string) ([]model.ClockEvent, error) {
	query := `SELECT id, worker_id, direction, method, timestamp, location
              FROM clock_events
              WHERE timestamp >= $1 AND timestamp <= $2`
	args := []any{from, to}
	if workerID != "" && workerID != "all" {
		query += ` AND worker_id = $3`
		args = append(args, workerID)
	}
	query += ` ORDER BY timestamp ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.ClockEvent
	for rows.Next() {
		var ev model.ClockEvent
		if err := rows.Scan(&ev.ID, &ev.WorkerID, &ev.Direction, &ev.Method, &ev.Timestamp, &ev.Location); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// ListIncidentsOverlapping returns incidents overlapping [from, to].
// Incidents without an end date are treated as open and always overlap
// once started.
func (r *AttendanceRepository) ListIncidentsOverlapping(ctx context.Context, from, to time.Time, workerID string) ([]model.Incident, error) {
	query := `SELECT id, worker_id, type, start_date, end_date, status, description
              FROM incidents
              WHERE start_date <= $1 AND (end_date IS NULL OR end_date >= $2)`
	args := []any{to, from}
	if workerID != "" && workerID != "all" {
		query += ` AND worker_id = $3`
		args = append(args, workerID)
	}
	query += ` ORDER BY start_date ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []model.Incident
	for rows.Next() {
		var inc model.Incident
		if err := rows.Scan(&inc.ID, &inc.WorkerID, &inc.Type, &inc.StartDate, &inc.EndDate, &inc.Status, &inc.Description); err != nil {
			return nil, err
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}

// CreateIncident persists a new incident record.
func (r *AttendanceRepository) CreateIncident(ctx context.Context, inc *model.Incident) error {
	if inc.ID == "" {
		inc.ID = uuid.New().String()
	}
	query := `INSERT INTO incidents (id, worker_id, type, start_date, end_date, status, description)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query, inc.ID, inc.WorkerID, inc.Type, inc.StartDate, inc.EndDate, inc.Status, inc.Description)
	return err
}

// GetIncident fetches one incident by id.
func (r *AttendanceRepository) GetIncident(ctx context.Context, id string) (*model.Incident, error) {
	query := `SELECT id, worker_id, type, start_date, end_date, status, description
              FROM incidents WHERE id = $1`

	inc := &model.Incident{}
	row := r.DB.QueryRowContext(ctx, query, id)
	err := row.Scan(&inc.ID, &inc.WorkerID, &inc.Type, &inc.StartDate, &inc.EndDate, &inc.Status, &inc.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return inc, nil
}

// UpdateIncidentStatus updates the review/notification status.
func (r *AttendanceRepository) UpdateIncidentStatus(ctx context.Context, id, status string) error {
	query := `UPDATE incidents SET status = $1 WHERE id = $2`
	_, err := r.DB.ExecContext(ctx, query, status, id)
	return err
}

// ListHolidays returns holidays whose date falls in [from, to].
func (r *AttendanceRepository) ListHolidays(ctx context.Context, from, to time.Time) ([]model.Holiday, error) {
	query := `SELECT id, date, name FROM holidays
              WHERE date >= $1 AND date <= $2 ORDER BY date ASC`

	rows, err := r.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []model.Holiday
	for rows.Next() {
		var h model.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// ListClosures returns company closures overlapping [from, to].
func (r *AttendanceRepository) ListClosures(ctx context.Context, from, to time.Time) ([]model.CompanyClosure, error) {
	query := `SELECT id, name, start_date, end_date, description FROM company_closures
              WHERE start_date <= $1 AND end_date >= $2 ORDER BY start_date ASC`

	rows, err := r.DB.QueryContext(ctx, query, to, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var closures []model.CompanyClosure
	for rows.Next() {
		var c model.CompanyClosure
		if err := rows.Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate, &c.Description); err != nil {
			return nil, err
		}
		closures = append(closures, c)
	}
	return closures, rows.Err()
}

// ClosureForDate returns the closure covering the given day, if any.
func (r *AttendanceRepository) ClosureForDate(ctx context.Context, day time.Time) (*model.CompanyClosure, error) {
	query := `SELECT id, name, start_date, end_date, description FROM company_closures
              WHERE start_date <= $1 AND end_date >= $2
              LIMIT 1`

	c := &model.CompanyClosure{}
	row := r.DB.QueryRowContext(ctx, query, day, day)
	err := row.Scan(&c.ID, &c.Name, &c.StartDate, &c.EndDate, &c.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadConfigSnapshot reads the phase-in dates from system_config. Values
// are calendar date strings; unparsable values are ignored.
func (r *AttendanceRepository) LoadConfigSnapshot(ctx context.Context) (model.ConfigSnapshot, error) {
	query := `SELECT key, value FROM system_config
              WHERE key IN ('PILOT_START_DATE', 'PRODUCTION_START_DATE')`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return model.ConfigSnapshot{}, err
	}
	defer rows.Close()

	var snap model.ConfigSnapshot
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return model.ConfigSnapshot{}, err
		}
		d, err := parseConfigDate(value)
		if err != nil {
			continue
		}
		switch key {
		case "PILOT_START_DATE":
			snap.PilotStart = &d
		case "PRODUCTION_START_DATE":
			snap.ProductionStart = &d
		}
	}
	return snap, rows.Err()
}

func parseConfigDate(value string) (time.Time, error) {
	if d, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, value)
}
