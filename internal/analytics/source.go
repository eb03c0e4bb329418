package analytics

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/maheshrc27/contentflow/internal/calendar"
)

// Source serves chart series. MockSource stands in until a real analytics
// backend exists.
type Source interface {
	Series(ctx context.Context, r DateRange, metric Metric, filter calendar.Filter) ([]Point, error)
}

type MockSource struct {
	seed int64
}

func NewMockSource(seed int64) *MockSource {
	return &MockSource{seed: seed}
}

// Series is stable for the same seed and arguments, so a chart does not
// reshuffle on every refresh.
func (s *MockSource) Series(_ context.Context, r DateRange, metric Metric, filter calendar.Filter) ([]Point, error) {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d|%s", metric, filter, r.Days, r.End.Format("2006-01-02"))
	rng := rand.New(rand.NewSource(s.seed ^ int64(h.Sum64())))
	return GenerateSeries(r, metric, filter, rng)
}
