package models

import (
	"strings"
	"time"
)

// Role is the normalized authorization role attached to a principal.
// It is resolved once, at the identity gate, from whatever raw claim the
// provider carries; handlers never look at raw metadata.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole normalizes a raw role claim (case-insensitive). Unknown or empty
// values fall back to RoleUser, the provider's default for self-registered
// accounts.
func ParseRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
