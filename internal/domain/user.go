package domain

import "time"

type Role string

const (
	RoleUser    Role = "user"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleCreator, RoleAdmin:
		return true
	}
	return false
}

// CanCreateContests reports whether the role may open new contests.
func (r Role) CanCreateContests() bool {
	return r == RoleCreator || r == RoleAdmin
}

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Photo     string    `json:"photo"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
