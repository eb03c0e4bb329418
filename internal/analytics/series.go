package analytics

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/maheshrc27/contentflow/internal/calendar"
	"github.com/maheshrc27/contentflow/internal/models"
)

var (
	ErrInvalidRange  = errors.New("invalid date range")
	ErrUnknownMetric = errors.New("unknown metric")
	ErrNoRandSource  = errors.New("random source is required")
)

type Metric string

const (
	MetricImpressions Metric = "impressions"
	MetricEngagement  Metric = "engagement"
	MetricClicks      Metric = "clicks"
	MetricFollowers   Metric = "followers"
	MetricReach       Metric = "reach"
)

type profile struct {
	Baseline float64
	Variance float64
}

var profiles = map[Metric]profile{
	MetricImpressions: {Baseline: 5000, Variance: 1500},
	MetricEngagement:  {Baseline: 320, Variance: 120},
	MetricClicks:      {Baseline: 150, Variance: 60},
	MetricFollowers:   {Baseline: 40, Variance: 25},
	MetricReach:       {Baseline: 3500, Variance: 1000},
}

var platformMultipliers = map[models.Platform]float64{
	models.PlatformTwitter:   1.0,
	models.PlatformInstagram: 1.4,
	models.PlatformLinkedIn:  0.6,
	models.PlatformFacebook:  1.1,
	models.PlatformTikTok:    1.8,
	models.PlatformYouTube:   0.9,
}

const (
	weekendMultiplier = 0.7
	trendStart        = 1.0
	trendEnd          = 1.5
)

func ParseMetric(s string) (Metric, error) {
	m := Metric(s)
	if _, ok := profiles[m]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
	}
	return m, nil
}

// RangeDays lists the supported range lengths.
var RangeDays = []int{7, 30, 90, 365, 730}

// DateRange covers Days days ending on End, inclusive.
type DateRange struct {
	End  time.Time
	Days int
}

func NewDateRange(end time.Time, days int) (DateRange, error) {
	for _, d := range RangeDays {
		if d == days {
			return DateRange{End: end, Days: days}, nil
		}
	}
	return DateRange{}, fmt.Errorf("%w: %d days", ErrInvalidRange, days)
}

func ParseRange(s string, end time.Time) (DateRange, error) {
	days, err := strconv.Atoi(s)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return NewDateRange(end, days)
}

func (r DateRange) Start() time.Time {
	y, m, d := r.End.Date()
	return time.Date(y, m, d-(r.Days-1), 0, 0, 0, 0, r.End.Location())
}

type Point struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// PlatformMultiplier is 1 for FilterAll.
func PlatformMultiplier(filter calendar.Filter) float64 {
	p, ok := filter.Platform()
	if !ok {
		return 1
	}
	if m, ok := platformMultipliers[p]; ok {
		return m
	}
	return 1
}

// Trend grows linearly from 1.0 on the first point to 1.5 on the last.
func Trend(i, n int) float64 {
	if n <= 1 {
		return trendStart
	}
	return trendStart + (trendEnd-trendStart)*float64(i)/float64(n-1)
}

func WeekdayMultiplier(d time.Weekday) float64 {
	if d == time.Saturday || d == time.Sunday {
		return weekendMultiplier
	}
	return 1
}

// GenerateSeries returns one point per day of r. Values are filler for
// charts, not a forecast.
func GenerateSeries(r DateRange, metric Metric, filter calendar.Filter, rng *rand.Rand) ([]Point, error) {
	if rng == nil {
		return nil, ErrNoRandSource
	}
	if _, err := NewDateRange(r.End, r.Days); err != nil {
		return nil, err
	}
	prof, ok := profiles[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	platform := PlatformMultiplier(filter)

	start := r.Start()
	points := make([]Point, 0, r.Days)
	for i := 0; i < r.Days; i++ {
		day := start.AddDate(0, 0, i)
		base := prof.Baseline + (rng.Float64()*2-1)*prof.Variance
		value := math.Round(base * Trend(i, r.Days) * WeekdayMultiplier(day.Weekday()) * platform)
		if value < 0 {
			value = 0
		}
		points = append(points, Point{
			Date:  day.Format(time.DateOnly),
			Value: int64(value),
		})
	}
	return points, nil
}
