package domain

import "time"

// User represents a marina staff account. PasswordHash is never serialized;
// read paths return UserView instead.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the password-free projection of a user returned by the API
type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// View strips the credential material from a user record
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserPatch carries the optional fields of a partial user update.
// The password hash is recomputed only when Password is present.
type UserPatch struct {
	Username *string
	Email    *string
	Password *string
}

// UserRepository defines data access for users
type UserRepository interface {
	Create(user *User) error
	GetByEmail(email string) (*User, error)
	Update(user *User) error
	Delete(email string) error
	List() ([]*User, error)
}
