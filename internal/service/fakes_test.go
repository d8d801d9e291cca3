package service

import (
	"sort"
	"time"

	"github.com/yourorg/harbormaster/internal/domain"
)

type memBerthRepo struct {
	byNumber map[int]*domain.Berth
}

func newMemBerthRepo() *memBerthRepo {
	return &memBerthRepo{byNumber: map[int]*domain.Berth{}}
}

func (m *memBerthRepo) Create(b *domain.Berth) error {
	if _, ok := m.byNumber[b.Number]; ok {
		return domain.ErrDuplicate
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.byNumber[b.Number] = b
	return nil
}

func (m *memBerthRepo) GetByNumber(number int) (*domain.Berth, error) {
	if b, ok := m.byNumber[number]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memBerthRepo) UpdateState(number int, state string) (*domain.Berth, error) {
	b, ok := m.byNumber[number]
	if !ok {
		return nil, domain.ErrNotFound
	}
	b.State = state
	b.UpdatedAt = time.Now()
	copied := *b
	return &copied, nil
}

func (m *memBerthRepo) Delete(number int) error {
	delete(m.byNumber, number)
	return nil
}

func (m *memBerthRepo) List() ([]*domain.Berth, error) {
	out := []*domain.Berth{}
	for _, b := range m.byNumber {
		copied := *b
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

type memReservationRepo struct {
	byID map[string]*domain.Reservation
}

func newMemReservationRepo() *memReservationRepo {
	return &memReservationRepo{byID: map[string]*domain.Reservation{}}
}

func (m *memReservationRepo) Create(r *domain.Reservation) error {
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	copied := *r
	m.byID[r.ID] = &copied
	return nil
}

func (m *memReservationRepo) GetByID(berthNumber int, id string) (*domain.Reservation, error) {
	r, ok := m.byID[id]
	if !ok || r.BerthNumber != berthNumber {
		return nil, domain.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *memReservationRepo) Update(r *domain.Reservation) error {
	existing, ok := m.byID[r.ID]
	if !ok || existing.BerthNumber != r.BerthNumber {
		return domain.ErrNotFound
	}
	r.UpdatedAt = time.Now()
	copied := *r
	m.byID[r.ID] = &copied
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
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memReservationRepo) List() ([]*domain.Reservation, error) {
	out := []*domain.Reservation{}
	for _, r := range m.byID {
		copied := *r
		out = append(out, &copied)
	}
	return out, nil
}

type memUserRepo struct {
	byEmail map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]*domain.User{}}
}

func (m *memUserRepo) Create(u *domain.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return domain.ErrDuplicate
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	copied := *u
	m.byEmail[u.Email] = &copied
	return nil
}

func (m *memUserRepo) GetByEmail(email string) (*domain.User, error) {
	if u, ok := m.byEmail[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) Update(u *domain.User) error {
	// The email may itself have been patched; drop any stale entry first.
	for email, existing := range m.byEmail {
		if existing.ID == u.ID && email != u.Email {
			delete(m.byEmail, email)
		}
	}
	u.UpdatedAt = time.Now()
	copied := *u
	m.byEmail[u.Email] = &copied
	return nil
}

func (m *memUserRepo) Delete(email string) error {
	delete(m.byEmail, email)
	return nil
}

func (m *memUserRepo) List() ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range m.byEmail {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}
