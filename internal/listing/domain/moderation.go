package domain

import "fmt"

// CanModerate is the single authorization predicate for moderation authority.
// Both the state machine and the repository write paths consult it instead of
// re-checking roles per endpoint.
func CanModerate(u *User) bool {
	return u != nil && u.Role == RoleAdmin
}

// Transition validates a moderation status change on behalf of actor and
// returns the status the listing should move to.
//
// Every listing is created as pending. After that, any of the three states may
// be set again by an admin, and only by an admin; re-applying the current
// status is legal and idempotent. Non-admin actors always get ErrForbidden,
// leaving the listing unchanged.
func Transition(actor *User, current, next ListingStatus) (ListingStatus, error) {
	if !next.IsValid() {
		return current, fmt.Errorf("%w: unknown listing status %q", ErrInvalidInput, next)
	}
	if !current.IsValid() {
		return current, fmt.Errorf("%w: listing has unknown status %q", ErrInvalidInput, current)
	}
	if !CanModerate(actor) {
		return current, fmt.Errorf("%w: only admins may change listing status", ErrForbidden)
	}
	return next, nil
}
