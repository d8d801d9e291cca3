package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"github.com/yourorg/harbormaster/internal/domain"
	"github.com/yourorg/harbormaster/internal/security/auth"
	"github.com/yourorg/harbormaster/internal/service"
)

type memBerthRepo struct {
	byNumber map[int]*domain.Berth
}

func (m *memBerthRepo) Create(b *domain.Berth) error {
	if _, ok := m.byNumber[b.Number]; ok {
		return domain.ErrDuplicate
	}
	m.byNumber[b.Number] = b
	return nil
}

func (m *memBerthRepo) GetByNumber(number int) (*domain.Berth, error) {
	if b, ok := m.byNumber[number]; ok {
		return b, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memBerthRepo) UpdateState(number int, state string) (*domain.Berth, error) {
	b, ok := m.byNumber[number]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b.State = state
	return b, nil
}

func (m *memBerthRepo) Delete(number int) error {
	delete(m.byNumber, number)
	return nil
}

func (m *memBerthRepo) List() ([]*domain.Berth, error) {
	out := []*domain.Berth{}
	for _, b := range m.byNumber {
		out = append(out, b)
	}
	return out, nil
}

type memReservationRepo struct {
	byID map[string]*domain.Reservation
}

func (m *memReservationRepo) Create(r *domain.Reservation) error {
	m.byID[r.ID] = r
	return nil
}

func (m *memReservationRepo) GetByID(berthNumber int, id string) (*domain.Reservation, error) {
	r, ok := m.byID[id]
	if !ok || r.BerthNumber != berthNumber {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *memReservationRepo) Update(r *domain.Reservation) error {
	m.byID[r.ID] = r
	return nil
}

func (m *memReservationRepo) Delete(berthNumber int, id string) error {
	r, ok := m.byID[id]
	if !ok || r.BerthNumber != berthNumber {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memReservationRepo) ListByBerth(berthNumber int) ([]*domain.Reservation, error) {
	out := []*domain.Reservation{}
	for _, r := range m.byID {
		if r.BerthNumber == berthNumber {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReservationRepo) List() ([]*domain.Reservation, error) {
	out := []*domain.Reservation{}
	for _, r := range m.byID {
		out = append(out, r)
	}
	return out, nil
}

type memUserRepo struct {
	byEmail map[string]*domain.User
}

func (m *memUserRepo) Create(u *domain.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return domain.ErrDuplicate
	}
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUserRepo) GetByEmail(email string) (*domain.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) Update(u *domain.User) error {
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUserRepo) Delete(email string) error {
	delete(m.byEmail, email)
	return nil
}

func (m *memUserRepo) List() ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range m.byEmail {
		out = append(out, u)
	}
	return out, nil
}

// testFixture bundles the in-memory repositories behind a routed mux so
// path parameters resolve exactly as in production.
type testFixture struct {
	mux          *http.ServeMux
	berths       *memBerthRepo
	reservations *memReservationRepo
	users        *memUserRepo
}

func newTestFixture(t *testing.T) *testFixture {
	t.Helper()

	berths := &memBerthRepo{byNumber: map[int]*domain.Berth{}}
	reservations := &memReservationRepo{byID: map[string]*domain.Reservation{}}
	users := &memUserRepo{byEmail: map[string]*domain.User{}}

	deriver := service.NewAvailabilityDeriver(reservations, nil, 0, nil)
	berthService := service.NewBerthService(berths, deriver, nil)
	reservationService := service.NewReservationService(reservations, berths, deriver, nil)
	userService := service.NewUserService(users, nil)

	tokens, err := auth.NewTokenManager("test-secret", "harbormaster", time.Hour)
	require.NoError(t, err)
	authService := service.NewAuthService(users, tokens, nil)

	validate := validator.New()
	berthHandler := NewBerthHandler(berthService, nil, validate)
	reservationHandler := NewReservationHandler(reservationService, nil, validate)
	userHandler := NewUserHandler(userService, nil, validate)
	authHandler := NewAuthHandler(authService, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /catways", berthHandler.List)
	mux.HandleFunc("GET /catways/{number}", berthHandler.Get)
	mux.HandleFunc("POST /catways", berthHandler.Create)
	mux.HandleFunc("PUT /catways/{number}", berthHandler.UpdateState)
	mux.HandleFunc("DELETE /catways/{number}", berthHandler.Delete)
	mux.HandleFunc("GET /catways/{number}/reservations", reservationHandler.ListForBerth)
	mux.HandleFunc("GET /catways/{number}/reservations/{id}", reservationHandler.Get)
	mux.HandleFunc("POST /catways/{number}/reservations", reservationHandler.Create)
	mux.HandleFunc("PUT /catways/{number}/reservations/{id}", reservationHandler.Update)
	mux.HandleFunc("DELETE /catways/{number}/reservations/{id}", reservationHandler.Delete)
	mux.HandleFunc("GET /reservations", reservationHandler.ListAll)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /users", userHandler.List)
	mux.HandleFunc("GET /users/{email}", userHandler.Get)
	mux.HandleFunc("POST /users", userHandler.Create)
	mux.HandleFunc("PUT /users/{email}", userHandler.Update)
	mux.HandleFunc("DELETE /users/{email}", userHandler.Delete)

	return &testFixture{
		mux:          mux,
		berths:       berths,
		reservations: reservations,
		users:        users,
	}
}

func (f *testFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}
