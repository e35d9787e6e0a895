package services

import "errors"

var (
	// ErrNoMovies is returned by ranking queries when no movies exist at all.
	ErrNoMovies = errors.New("no movies exist")

	// ErrNoReviewedMovies is returned by critic ranking queries when the user
	// has not reviewed any movie.
	ErrNoReviewedMovies = errors.New("user has not reviewed any movies")
)

// DeniedError is returned when the review access policy rejects a mutation.
// The Reason is the fixed, user-facing denial message for the active policy.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return e.Reason
}
