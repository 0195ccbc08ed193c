package response

import (
	"time"

	"github.com/user/review-harvester/internal/entity"
)

// StatusResponse is the DTO for GET /api/status, mirroring entity.RunSummary.
type StatusResponse struct {
	State          string     `json:"state"` // "running", "finished" or "interrupted"
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
}

func NewStatusResponse(s entity.RunSummary) StatusResponse {
	state := "running"
	switch {
	case s.Interrupted:
		state = "interrupted"
	case s.FinishedAt != nil:
		state = "finished"
	}
	return StatusResponse{
		State:          state,
		StartedAt:      s.StartedAt,
		FinishedAt:     s.FinishedAt,
		CurrentFilmID:  s.CurrentFilmID,
		Checkpoint:     s.Checkpoint,
		FilmsTotal:     s.FilmsTotal,
		FilmsWalked:    s.FilmsWalked,
		PagesFetched:   s.PagesFetched,
		PagesFailed:    s.PagesFailed,
		Reviews:        s.Reviews,
		EntriesSkipped: s.EntriesSkipped,
	}
}
