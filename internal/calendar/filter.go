package calendar

import (
	"strings"

	"github.com/maheshrc27/contentflow/internal/models"
)

// Filter selects content by target platform. FilterAll passes everything.
type Filter string

const FilterAll Filter = "all"

func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == string(FilterAll) {
		return FilterAll, nil
	}
	p, err := models.ParsePlatform(s)
	if err != nil {
		return "", err
	}
	return Filter(p), nil
}

func (f Filter) Platform() (models.Platform, bool) {
	if f == FilterAll || f == "" {
		return "", false
	}
	return models.Platform(f), true
}

func (f Filter) Matches(c *models.ScheduledContent) bool {
	p, ok := f.Platform()
	if !ok {
		return true
	}
	return c.HasPlatform(p)
}
