package job

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/contentflow/internal/metrics"
	"github.com/maheshrc27/contentflow/internal/service"
)

// OverdueContentJob marks scheduled content whose date has passed as ready.
// It catches items whose content:due task never ran.
type OverdueContentJob struct {
	cs service.ContentService
	m  *metrics.Metrics
}

func NewOverdueContentJob(cs service.ContentService, m *metrics.Metrics) *OverdueContentJob {
	return &OverdueContentJob{
		cs: cs,
		m:  m,
	}
}

func (j *OverdueContentJob) SweepOverdue() {
	ctx := context.Background()

	n, err := j.cs.SweepOverdue(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	if n > 0 {
		slog.Info("overdue content marked ready", "count", n)
	}
	j.m.ObserveContentReady("sweep", n)
}
