// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Name         string     `db:"name"`
	Role         string     `db:"role"`
	ProfileImage *string    `db:"profile_image"`
	Bio          *string    `db:"bio"`
	Location     *string    `db:"location"`
	Website      *string    `db:"website"`
	Birthday     *time.Time `db:"birthday"`
	TokenVersion int        `db:"token_version"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Roles are a closed set. Promotion is one-way: nothing in the system
// demotes an admin back to user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
