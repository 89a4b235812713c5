package service

import (
	"context"
	"log"
	"time"

	"github.com/worklane/worklane-backend/internal/projects/domain"
	"github.com/worklane/worklane-backend/internal/projects/repository"
)

// Sweeper advances every non-terminal lifecycle against the clock. It is
// the only writer of time-driven transitions; commands never wait on it and
// it never performs command-only transitions.
type Sweeper struct {
	lifecycles *repository.LifecycleRepository
	apps       *repository.ApplicationRepository

	// now is injected so tests drive ticks with a fake clock.
	now func() time.Time
}

func NewSweeper(lifecycles *repository.LifecycleRepository, apps *repository.ApplicationRepository) *Sweeper {
	return &Sweeper{
		lifecycles: lifecycles,
		apps:       apps,
		now:        time.Now,
	}
}

// WithClock replaces the sweeper's clock. Test hook.
func (s *Sweeper) WithClock(now func() time.Time) *Sweeper {
	s.now = now
	return s
}

// Tick runs one sweep: load all active lifecycles, evaluate the state
// machine, persist only the rows that changed. One row's failure is logged
// and skipped; it never aborts the rest of the batch. Returns the number of
// lifecycles updated.
func (s *Sweeper) Tick(ctx context.Context) int {
	now := s.now()

	active, err := s.lifecycles.ListActive(ctx)
	if err != nil {
		log.Printf("sweep: load active lifecycles failed: %v", err)
		return 0
	}

	updated := 0
	for _, lc := range active {
		if ctx.Err() != nil {
			log.Printf("sweep: cancelled after %d updates", updated)
			return updated
		}

		hasAccepted, err := s.apps.HasAccepted(ctx, lc.ProjectID)
		if err != nil {
			log.Printf("sweep: lifecycle %s: check accepted application failed: %v", lc.ID, err)
			continue
		}

		next, changed := domain.Advance(lc, hasAccepted, now)
		if !changed {
			continue
		}

		if err := s.lifecycles.Update(ctx, &next); err != nil {
			log.Printf("sweep: lifecycle %s: update %s -> %s failed: %v", lc.ID, lc.Status, next.Status, err)
			continue
		}

		log.Printf("sweep: lifecycle %s: %s -> %s", lc.ID, lc.Status, next.Status)
		updated++
	}

	return updated
}
