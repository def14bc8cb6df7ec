package entity

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      UserRole  `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TokenPair is what the token endpoints hand back.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Actor is the authenticated caller of a request. The zero value is
// anonymous.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

func (a Actor) IsAdmin() bool {
	return a.Role == string(RoleAdmin)
}

// CanModify reports whether the actor may change something owned by ownerID.
func (a Actor) CanModify(ownerID *uint) bool {
	if !a.Authenticated() {
		return false
	}
	return a.IsAdmin() || (ownerID != nil && *ownerID == a.UserID)
}
