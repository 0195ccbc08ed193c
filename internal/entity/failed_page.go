package entity

import "time"

// FailedPage records a review page that was skipped during a walk.
type FailedPage struct {
	ID             int64
	FilmID         int
	Page           int
	URL            string
	FailureReason  string
	HTTPStatusCode int
	AttemptedAt    time.Time
}
