package store

import (
	"context"

	"hospital-appointment-api/internal/model"
)

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO appointments (id, user_id, department, doctor, appointment_date, appointment_time, start_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING created_at`,
		a.ID, a.UserID, a.Department, a.Doctor, a.Date, a.TimeLabel, a.StartAt,
	).Scan(&a.CreatedAt)
}

// ListAppointments returns the caller's appointments ordered by the
// normalized start instant (date ascending, then time of day ascending).
func (s *Store) ListAppointments(ctx context.Context, userID string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, department, doctor,
		        to_char(appointment_date, 'YYYY-MM-DD'), appointment_time, start_at, created_at
		 FROM appointments
		 WHERE user_id = $1
		 ORDER BY start_at`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Department, &a.Doctor,
			&a.Date, &a.TimeLabel, &a.StartAt, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAppointment removes one row if it exists and belongs to userID.
// A second delete of the same id reports ErrNotFound, same as deleting a
// row owned by someone else.
func (s *Store) DeleteAppointment(ctx context.Context, id, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM appointments WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
