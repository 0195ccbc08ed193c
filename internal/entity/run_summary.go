package entity

import "time"

// RunSummary counts what one run did, so completeness can be audited.
type RunSummary struct {
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	CurrentFilmID  int        `json:"current_film_id,omitempty"`
	Checkpoint     int        `json:"checkpoint,omitempty"`
	FilmsTotal     int        `json:"films_total"`
	FilmsWalked    int        `json:"films_walked"`
	PagesFetched   int        `json:"pages_fetched"`
	PagesFailed    int        `json:"pages_failed"`
	Reviews        int        `json:"reviews"`
	EntriesSkipped int        `json:"entries_skipped"`
	Interrupted    bool       `json:"interrupted"`
}
