package domain

import "time"

// Berth types. A berth ("catway") is either long or short; the type is
// fixed at creation time.
const (
	BerthTypeLong  = "long"
	BerthTypeShort = "short"
)

// Berth represents a docking slot in the marina
type Berth struct {
	Number    int    `json:"catwayNumber"`
	Type      string `json:"catwayType"`
	State     string `json:"catwayState"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidBerthType reports whether t is one of the allowed berth types
func ValidBerthType(t string) bool {
	return t == BerthTypeLong || t == BerthTypeShort
}

// BerthStatus pairs a berth with its derived availability label
type BerthStatus struct {
	Berth
	Status string `json:"status"`
}

// Reservation represents a client/boat booking of a berth for a date range.
// Invariant: StartDate is strictly before EndDate.
type Reservation struct {
	ID          string    `json:"id"`
	BerthNumber int       `json:"catwayNumber"`
	ClientName  string    `json:"clientName"`
	BoatName    string    `json:"boatName"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReservationPatch carries the optional fields of a partial reservation
// update. Nil means "leave unchanged"; the merged record is re-validated
// as a whole, so a present-but-invalid field still fails the update.
type ReservationPatch struct {
	ClientName *string
	BoatName   *string
	StartDate  *time.Time
	EndDate    *time.Time
}

// BerthRepository defines data access for berths
type BerthRepository interface {
	Create(berth *Berth) error
	GetByNumber(number int) (*Berth, error)
	UpdateState(number int, state string) (*Berth, error)
	Delete(number int) error
	List() ([]*Berth, error)
}

// ReservationRepository defines data access for reservations
type ReservationRepository interface {
	Create(reservation *Reservation) error
	GetByID(berthNumber int, id string) (*Reservation, error)
	Update(reservation *Reservation) error
	Delete(berthNumber int, id string) error
	ListByBerth(berthNumber int) ([]*Reservation, error)
	List() ([]*Reservation, error)
}
