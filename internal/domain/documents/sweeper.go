package documents

import (
	"context"
	"time"

	"bizerp/internal/core/id"
	"bizerp/pkg/logger"
)

// Sweepable is a document type that can report headers left without lines.
type Sweepable interface {
	Name() string
	SweepOrphans(ctx context.Context, cutoff time.Time, remove bool) ([]id.ID, error)
}

// Sweeper finds orphan headers across document types.
type Sweeper struct {
	targets []Sweepable
	grace   time.Duration
	now     func() time.Time
}

// NewSweeper creates a sweeper. Headers younger than grace are never reported.
func NewSweeper(grace time.Duration, targets ...Sweepable) *Sweeper {
	return &Sweeper{
		targets: targets,
		grace:   grace,
		now:     time.Now,
	}
}

// Run sweeps every target and returns orphan ids per document type.
func (s *Sweeper) Run(ctx context.Context, remove bool) (map[string][]id.ID, error) {
	cutoff := s.now().UTC().Add(-s.grace)
	report := make(map[string][]id.ID)
	for _, target := range s.targets {
		ids, err := target.SweepOrphans(ctx, cutoff, remove)
		if err != nil {
			return report, err
		}
		if len(ids) == 0 {
			continue
		}
		report[target.Name()] = ids
		logger.Warn(ctx, "orphan document headers found",
			"document", target.Name(),
			"count", len(ids),
			"removed", remove)
	}
	return report, nil
}
