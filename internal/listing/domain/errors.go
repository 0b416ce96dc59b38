package domain

import "errors"

var (
	// ErrNotFound indicates that a requested entity was not found, or that it
	// exists but the caller has no visibility into it. The two cases are
	// deliberately indistinguishable to non-privileged callers.
	ErrNotFound = errors.New("entity not found")
	// ErrForbidden indicates that the acting user is not authorized to perform
	// the action.
	ErrForbidden = errors.New("action forbidden")
	// ErrUnauthenticated indicates that the request carries no verified identity.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidInput indicates that the provided input data is invalid.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrConflict indicates a lost race with a concurrent mutation.
	ErrConflict = errors.New("conflicting concurrent modification")
	// ErrDuplicateFavorite indicates the (user, listing) pair is already favorited.
	ErrDuplicateFavorite = errors.New("favorite already exists")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
)
