package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/yourorg/harbormaster/internal/domain"
)

func setupBerthMock(t *testing.T) (*PostgresBerthRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresBerthRepository(db, nil)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestBerthCreate_Success(t *testing.T) {
	repo, mock, cleanup := setupBerthMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO catways (number, type, state) VALUES ($1, $2, $3) RETURNING created_at, updated_at`)).
		WithArgs(1, "long", "good condition").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	berth := &domain.Berth{Number: 1, Type: "long", State: "good condition"}
	if err := repo.Create(berth); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if berth.CreatedAt.IsZero() {
		t.Errorf("expected created_at to be populated")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestBerthCreate_Duplicate(t *testing.T) {
	repo, mock, cleanup := setupBerthMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO catways (number, type, state) VALUES ($1, $2, $3) RETURNING created_at, updated_at`)).
		WithArgs(1, "long", "good condition").
		WillReturnError(&pq.Error{Code: "23505"})

	berth := &domain.Berth{Number: 1, Type: "long", State: "good condition"}
	if err := repo.Create(berth); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestBerthGetByNumber_NotFound(t *testing.T) {
	repo, mock, cleanup := setupBerthMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT number, type, state, created_at, updated_at FROM catways WHERE number = $1`)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"number", "type", "state", "created_at", "updated_at"}))

	if _, err := repo.GetByNumber(99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestBerthUpdateState(t *testing.T) {
	repo, mock, cleanup := setupBerthMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE catways SET state = $1, updated_at = now() WHERE number = $2 RETURNING number, type, state, created_at, updated_at`)).
		WithArgs("cleat loose", 5).
		WillReturnRows(sqlmock.NewRows([]string{"number", "type", "state", "created_at", "updated_at"}).
			AddRow(5, "short", "cleat loose", now, now))

	berth, err := repo.UpdateState(5, "cleat loose")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if berth.State != "cleat loose" || berth.Type != "short" {
		t.Errorf("unexpected berth: %+v", berth)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestBerthDelete_IgnoresMissingRow(t *testing.T) {
	repo, mock, cleanup := setupBerthMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM catways WHERE number = $1`)).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestBerthList(t *testing.T) {
	repo, mock, cleanup := setupBerthMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT number, type, state, created_at, updated_at FROM catways ORDER BY number`)).
		WillReturnRows(sqlmock.NewRows([]string{"number", "type", "state", "created_at", "updated_at"}).
			AddRow(1, "long", "good condition", now, now).
			AddRow(2, "short", "needs paint", now, now))

	berths, err := repo.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(berths) != 2 || berths[0].Number != 1 || berths[1].Number != 2 {
		t.Errorf("unexpected berths: %+v", berths)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
