package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/yourorg/harbormaster/internal/domain"
)

// PostgresBerthRepository implements domain.BerthRepository using PostgreSQL
type PostgresBerthRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresBerthRepository creates a new berth repository
func NewPostgresBerthRepository(db *sql.DB, logger *slog.Logger) *PostgresBerthRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBerthRepository{db: db, logger: logger}
}

// isUniqueViolation reports whether err is a postgres unique constraint error
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Create inserts a new berth. A reused berth number surfaces as
// domain.ErrDuplicate via the unique constraint.
func (r *PostgresBerthRepository) Create(berth *domain.Berth) error {
	query := `
		INSERT INTO catways (number, type, state)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(query, berth.Number, berth.Type, berth.State).
		Scan(&berth.CreatedAt, &berth.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("berth %d: %w", berth.Number, domain.ErrDuplicate)
		}
		r.logger.Error("failed to create berth",
			slog.Int("number", berth.Number),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to create berth: %w", err)
	}

	return nil
}

// GetByNumber retrieves a berth by its number
func (r *PostgresBerthRepository) GetByNumber(number int) (*domain.Berth, error) {
	berth := &domain.Berth{}

	query := `
		SELECT number, type, state, created_at, updated_at
		FROM catways
		WHERE number = $1
	`

	err := r.db.QueryRow(query, number).Scan(
		&berth.Number,
		&berth.Type,
		&berth.State,
		&berth.CreatedAt,
		&berth.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("berth %d: %w", number, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get berth: %w", err)
	}

	return berth, nil
}

// UpdateState changes the state description of a berth. Number and type
// are immutable and never touched here.
func (r *PostgresBerthRepository) UpdateState(number int, state string) (*domain.Berth, error) {
	berth := &domain.Berth{}

	query := `
		UPDATE catways
		SET state = $1, updated_at = now()
		WHERE number = $2
		RETURNING number, type, state, created_at, updated_at
	`

	err := r.db.QueryRow(query, state, number).Scan(
		&berth.Number,
		&berth.Type,
		&berth.State,
		&berth.CreatedAt,
		&berth.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("berth %d: %w", number, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update berth state: %w", err)
	}

	return berth, nil
}

// Delete removes a berth by number. Deleting an absent berth is not an
// error; the operation is idempotent.
func (r *PostgresBerthRepository) Delete(number int) error {
	query := `DELETE FROM catways WHERE number = $1`

	if _, err := r.db.Exec(query, number); err != nil {
		return fmt.Errorf("failed to delete berth: %w", err)
	}

	return nil
}

// List returns all berths ordered by number
func (r *PostgresBerthRepository) List() ([]*domain.Berth, error) {
	query := `
		SELECT number, type, state, created_at, updated_at
		FROM catways
		ORDER BY number
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("failed to list berths", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list berths: %w", err)
	}
	defer rows.Close()

	var berths []*domain.Berth
	for rows.Next() {
		berth := &domain.Berth{}
		err := rows.Scan(
			&berth.Number,
			&berth.Type,
			&berth.State,
			&berth.CreatedAt,
			&berth.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan berth: %w", err)
		}
		berths = append(berths, berth)
	}

	return berths, rows.Err()
}
