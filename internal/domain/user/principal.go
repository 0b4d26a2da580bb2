package user

import "github.com/google/uuid"

// Principal is the caller identity every core operation receives explicitly.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

func (p Principal) Authenticated() bool { return p.UserID != uuid.Nil }

func (p Principal) IsAdmin() bool { return p.Authenticated() && p.Role == RoleAdmin }
