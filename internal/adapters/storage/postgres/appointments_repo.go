package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/SeanKennethDMS/PetPal-sub000/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

const apptColumns = `
	id, booking_code, user_id, pet_id,
	service_id, service_option,
	date, time, status,
	original_date, original_time,
	created_at, updated_at, completed_at
`

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (`+apptColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		a.ID,
		a.BookingCode,
		a.UserID,
		a.PetID,
		a.ServiceID,
		a.ServiceOption,
		a.Date,
		a.Time,
		a.Status,
		a.OriginalDate,
		a.OriginalTime,
		a.CreatedAt,
		a.UpdatedAt,
		toNullDate(a.CompletedAt),
	)
	return err
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE id = $1
	`, id)

	return scanAppointment(row)
}

// Update es incondicional por ID: last write wins, sin version check.
func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET
			date = $2,
			time = $3,
			status = $4,
			original_date = $5,
			original_time = $6,
			updated_at = $7,
			completed_at = $8
		WHERE id = $1
	`,
		a.ID,
		a.Date,
		a.Time,
		a.Status,
		a.OriginalDate,
		a.OriginalTime,
		a.UpdatedAt,
		toNullDate(a.CompletedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) ListByStatus(ctx context.Context, st appointments.Status) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE status = $1
		ORDER BY date ASC, time ASC
	`, st)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *AppointmentsRepo) ListByOwner(ctx context.Context, userID string) ([]appointments.Appointment, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *AppointmentsRepo) HasPendingForPet(ctx context.Context, petID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM appointments
		WHERE pet_id = $1 AND status = $2
	`, petID, appointments.StatusPending).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CopyToCompleted duplica la fila en la tabla de histórico de completados.
func (r *AppointmentsRepo) CopyToCompleted(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO completed_appointments (`+apptColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		a.ID,
		a.BookingCode,
		a.UserID,
		a.PetID,
		a.ServiceID,
		a.ServiceOption,
		a.Date,
		a.Time,
		a.Status,
		a.OriginalDate,
		a.OriginalTime,
		a.CreatedAt,
		a.UpdatedAt,
		toNullDate(a.CompletedAt),
	)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var a appointments.Appointment
	var done sql.NullTime
	if err := row.Scan(
		&a.ID,
		&a.BookingCode,
		&a.UserID,
		&a.PetID,
		&a.ServiceID,
		&a.ServiceOption,
		&a.Date,
		&a.Time,
		&a.Status,
		&a.OriginalDate,
		&a.OriginalTime,
		&a.CreatedAt,
		&a.UpdatedAt,
		&done,
	); err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	if done.Valid {
		t := done.Time
		a.CompletedAt = &t
	}
	return a, nil
}

func collectAppointments(rows *sql.Rows) ([]appointments.Appointment, error) {
	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
