package entity

import "github.com/google/uuid"

// Actor is the authenticated caller of an operation. It is passed explicitly
// into every usecase instead of being read from request state.
type Actor struct {
	UserID uuid.UUID
	RoleID int
	Email  string
}

// IsAdministrative reports whether the actor has staff privileges.
func (a Actor) IsAdministrative() bool {
	return a.RoleID == RoleIDAdmin
}

// Owns reports whether the actor's account is the given account.
func (a Actor) Owns(userID uuid.UUID) bool {
	return a.UserID != uuid.Nil && a.UserID == userID
}

// CanAccess reports whether the actor is staff or owns the account.
func (a Actor) CanAccess(userID uuid.UUID) bool {
	return a.IsAdministrative() || a.Owns(userID)
}
