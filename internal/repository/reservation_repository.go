package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/harbormaster/internal/domain"
)

// PostgresReservationRepository implements domain.ReservationRepository
// using PostgreSQL. The reservations table carries a CHECK constraint
// (start_date < end_date) so the date invariant also holds at
// persistence time.
type PostgresReservationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresReservationRepository creates a new reservation repository
func NewPostgresReservationRepository(db *sql.DB, logger *slog.Logger) *PostgresReservationRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresReservationRepository{db: db, logger: logger}
}

// Create inserts a new reservation
func (r *PostgresReservationRepository) Create(res *domain.Reservation) error {
	query := `
		INSERT INTO reservations (id, catway_number, client_name, boat_name, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		query,
		res.ID,
		res.BerthNumber,
		res.ClientName,
		res.BoatName,
		res.StartDate,
		res.EndDate,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create reservation",
			slog.Int("catway_number", res.BerthNumber),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	return nil
}

// GetByID retrieves a reservation matching both the id and the berth
// scope. An existing id under a different berth is reported as not found.
func (r *PostgresReservationRepository) GetByID(berthNumber int, id string) (*domain.Reservation, error) {
	res := &domain.Reservation{}

	query := `
		SELECT id, catway_number, client_name, boat_name, start_date, end_date, created_at, updated_at
		FROM reservations
		WHERE id = $1 AND catway_number = $2
	`

	err := r.db.QueryRow(query, id, berthNumber).Scan(
		&res.ID,
		&res.BerthNumber,
		&res.ClientName,
		&res.BoatName,
		&res.StartDate,
		&res.EndDate,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return res, nil
}

// Update persists a merged reservation record, keyed by (id, berth)
func (r *PostgresReservationRepository) Update(res *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET client_name = $1, boat_name = $2, start_date = $3, end_date = $4, updated_at = now()
		WHERE id = $5 AND catway_number = $6
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		res.ClientName,
		res.BoatName,
		res.StartDate,
		res.EndDate,
		res.ID,
		res.BerthNumber,
	).Scan(&res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("reservation %s: %w", res.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to update reservation: %w", err)
	}

	return nil
}

// Delete removes a reservation by the exact (id, berth) pair and reports
// not found when no row matched.
func (r *PostgresReservationRepository) Delete(berthNumber int, id string) error {
	query := `DELETE FROM reservations WHERE id = $1 AND catway_number = $2`

	result, err := r.db.Exec(query, id, berthNumber)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("reservation %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByBerth returns all reservations for one berth, newest start first
func (r *PostgresReservationRepository) ListByBerth(berthNumber int) ([]*domain.Reservation, error) {
	query := `
		SELECT id, catway_number, client_name, boat_name, start_date, end_date, created_at, updated_at
		FROM reservations
		WHERE catway_number = $1
		ORDER BY start_date DESC
	`

	return r.queryReservations(query, berthNumber)
}

// List returns every reservation in the ledger, newest start first
func (r *PostgresReservationRepository) List() ([]*domain.Reservation, error) {
	query := `
		SELECT id, catway_number, client_name, boat_name, start_date, end_date, created_at, updated_at
		FROM reservations
		ORDER BY start_date DESC
	`

	return r.queryReservations(query)
}

func (r *PostgresReservationRepository) queryReservations(query string, args ...interface{}) ([]*domain.Reservation, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("failed to list reservations", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*domain.Reservation
	for rows.Next() {
		res := &domain.Reservation{}
		err := rows.Scan(
			&res.ID,
			&res.BerthNumber,
			&res.ClientName,
			&res.BoatName,
			&res.StartDate,
			&res.EndDate,
			&res.CreatedAt,
			&res.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}
