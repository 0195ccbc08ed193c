package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/user/review-harvester/internal/entity"
	"github.com/user/review-harvester/internal/repository"
	"github.com/user/review-harvester/pkg/metrics"
	"go.uber.org/zap"
)

// ErrCheckpointNotInCatalog is returned when the saved checkpoint names a film
// the catalog snapshot does not contain. Resuming would either skip or repeat
// films, so the run stops and leaves the checkpoint as it is.
var ErrCheckpointNotInCatalog = errors.New("checkpoint film not in catalog")

// SinkOpener opens the review sink for appending at the start of a run.
type SinkOpener func() (repository.ReviewSink, error)

// Orchestrator drives one run: catalog, resume point, walks and checkpoints.
type Orchestrator interface {
	// Run processes every film after the checkpoint. Cancelling ctx stops the
	// run between pages; the summary then has Interrupted set and the error is nil.
	Run(ctx context.Context) (*entity.RunSummary, error)
	// Progress returns a snapshot of the current run, safe to call concurrently.
	Progress() entity.RunSummary
}

type orchestratorUseCase struct {
	catalogRepo    repository.CatalogRepository
	checkpointRepo repository.CheckpointRepository
	harvester      CatalogHarvester
	walker         ReviewWalker
	openSink       SinkOpener
	metrics        *metrics.Metrics
	logger         *zap.Logger

	mu       sync.Mutex
	progress entity.RunSummary
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(
	catalogRepo repository.CatalogRepository,
	checkpointRepo repository.CheckpointRepository,
	harvester CatalogHarvester,
	walker ReviewWalker,
	openSink SinkOpener,
	m *metrics.Metrics,
	logger *zap.Logger,
) Orchestrator {
	return &orchestratorUseCase{
		catalogRepo:    catalogRepo,
		checkpointRepo: checkpointRepo,
		harvester:      harvester,
		walker:         walker,
		openSink:       openSink,
		metrics:        m,
		logger:         logger.Named("orchestrator"),
	}
}

func (uc *orchestratorUseCase) Run(ctx context.Context) (*entity.RunSummary, error) {
	uc.update(func(p *entity.RunSummary) {
		*p = entity.RunSummary{StartedAt: time.Now()}
	})

	films, err := uc.loadCatalog(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return uc.finish(true), nil
		}
		return uc.finish(false), err
	}

	checkpoint, hasCheckpoint, err := uc.checkpointRepo.Load(ctx)
	if err != nil {
		return uc.finish(false), fmt.Errorf("load checkpoint: %w", err)
	}
	remaining := films
	if hasCheckpoint {
		uc.update(func(p *entity.RunSummary) { p.Checkpoint = checkpoint })
		uc.metrics.Checkpoint.Set(float64(checkpoint))
		var found bool
		remaining, found = resumeAfter(films, checkpoint)
		if !found {
			return uc.finish(false), fmt.Errorf("%w: film %d", ErrCheckpointNotInCatalog, checkpoint)
		}
	}
	uc.update(func(p *entity.RunSummary) { p.FilmsTotal = len(remaining) })
	uc.logger.Info("resuming run",
		zap.Int("catalog", len(films)),
		zap.Int("remaining", len(remaining)),
		zap.Bool("has_checkpoint", hasCheckpoint),
		zap.Int("checkpoint", checkpoint),
	)

	sink, err := uc.openSink()
	if err != nil {
		return uc.finish(false), fmt.Errorf("open review sink: %w", err)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			uc.logger.Error("failed to close review sink", zap.Error(err))
		}
	}()

	for _, film := range remaining {
		uc.update(func(p *entity.RunSummary) { p.CurrentFilmID = film.ID })

		stats, walkErr := uc.walker.Walk(ctx, film.ID, film.Pages, sink)
		uc.update(func(p *entity.RunSummary) {
			p.PagesFetched += stats.PagesFetched
			p.PagesFailed += stats.PagesFailed
			p.Reviews += stats.Reviews
		})
		if walkErr != nil {
			if ctx.Err() != nil {
				uc.logger.Info("run interrupted, film will be redone on the next run", zap.Int("film_id", film.ID))
				return uc.finish(true), nil
			}
			return uc.finish(false), fmt.Errorf("walk film %d: %w", film.ID, walkErr)
		}

		// The checkpoint moves only after every page of the film was attempted.
		// A cancellation arriving now must not lose a completed film.
		if err := uc.checkpointRepo.Save(context.WithoutCancel(ctx), film.ID); err != nil {
			return uc.finish(false), fmt.Errorf("save checkpoint %d: %w", film.ID, err)
		}
		uc.metrics.Checkpoint.Set(float64(film.ID))
		uc.metrics.FilmsCompleted.Inc()
		uc.update(func(p *entity.RunSummary) {
			p.Checkpoint = film.ID
			p.FilmsWalked++
		})

		uc.logger.Info("film completed",
			zap.Int("film_id", film.ID),
			zap.Int("pages", film.Pages),
			zap.Int("pages_failed", stats.PagesFailed),
			zap.Int("reviews", stats.Reviews),
		)
	}

	return uc.finish(false), nil
}

// loadCatalog returns the persisted snapshot, harvesting and persisting it on the first run.
func (uc *orchestratorUseCase) loadCatalog(ctx context.Context) ([]entity.Film, error) {
	films, err := uc.catalogRepo.Load(ctx)
	if err == nil {
		uc.logger.Info("loaded catalog snapshot", zap.Int("films", len(films)))
		return films, nil
	}
	if !errors.Is(err, repository.ErrCatalogNotFound) {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	result, err := uc.harvester.Harvest(ctx)
	if err != nil {
		return nil, fmt.Errorf("harvest catalog: %w", err)
	}
	uc.update(func(p *entity.RunSummary) { p.EntriesSkipped = result.Skipped })

	if err := uc.catalogRepo.Save(ctx, result.Films); err != nil {
		return nil, fmt.Errorf("save catalog: %w", err)
	}
	return result.Films, nil
}

// resumeAfter drops every film up to and including checkpoint, matched by id.
// When the id is absent the whole catalog is returned with found=false.
func resumeAfter(films []entity.Film, checkpoint int) (remaining []entity.Film, found bool) {
	for i, film := range films {
		if film.ID == checkpoint {
			return films[i+1:], true
		}
	}
	return films, false
}

func (uc *orchestratorUseCase) finish(interrupted bool) *entity.RunSummary {
	now := time.Now()
	uc.update(func(p *entity.RunSummary) {
		p.FinishedAt = &now
		p.CurrentFilmID = 0
		p.Interrupted = interrupted
	})

	summary := uc.Progress()
	uc.logger.Info("run summary",
		zap.Bool("interrupted", summary.Interrupted),
		zap.Int("films_walked", summary.FilmsWalked),
		zap.Int("films_total", summary.FilmsTotal),
		zap.Int("pages_fetched", summary.PagesFetched),
		zap.Int("pages_failed", summary.PagesFailed),
		zap.Int("reviews", summary.Reviews),
		zap.Int("entries_skipped", summary.EntriesSkipped),
		zap.Int("checkpoint", summary.Checkpoint),
		zap.Duration("duration", now.Sub(summary.StartedAt)),
	)
	return &summary
}

func (uc *orchestratorUseCase) update(fn func(p *entity.RunSummary)) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	fn(&uc.progress)
}

func (uc *orchestratorUseCase) Progress() entity.RunSummary {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.progress
}
