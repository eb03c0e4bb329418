package calendar

import (
	"sort"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
)

// Chip is the coloured label a calendar cell shows for one content item.
type Chip struct {
	ContentID int64                `json:"contentId"`
	Title     string               `json:"title"`
	Platform  models.Platform      `json:"platform"`
	Status    models.ContentStatus `json:"status"`
	Style     models.PlatformStyle `json:"style"`
}

// Cell is one day of the grid. Blank cells pad the first and last week and
// carry no date.
type Cell struct {
	Blank bool                      `json:"blank"`
	Date  time.Time                 `json:"date,omitempty"`
	Day   int                       `json:"day,omitempty"`
	Past  bool                      `json:"past,omitempty"`
	Items []models.ScheduledContent `json:"items,omitempty"`
	Chips []Chip                    `json:"chips,omitempty"`
}

// Week runs Sunday to Saturday.
type Week [7]Cell

// BuildMonthGrid lays out the month containing month as Sunday-first weeks.
// Content is bucketed by its schedule date in month's location, ignoring the
// time of day; content without a date is left out. A cell is Past when its
// date is before today's date.
func BuildMonthGrid(month time.Time, content []models.ScheduledContent, filter Filter, today time.Time) []Week {
	loc := month.Location()
	year, mon, _ := month.Date()
	first := time.Date(year, mon, 1, 0, 0, 0, 0, loc)
	days := daysIn(year, mon, loc)

	ty, tm, td := today.In(loc).Date()
	todayStart := time.Date(ty, tm, td, 0, 0, 0, 0, loc)

	buckets := bucketByDay(year, mon, loc, content, filter)

	lead := int(first.Weekday())
	total := lead + days
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}

	weeks := make([]Week, total/7)
	for i := 0; i < total; i++ {
		day := i - lead + 1
		cell := &weeks[i/7][i%7]
		if day < 1 || day > days {
			cell.Blank = true
			continue
		}

		date := time.Date(year, mon, day, 0, 0, 0, 0, loc)
		items := buckets[day]
		if items == nil {
			items = []models.ScheduledContent{}
		}

		cell.Date = date
		cell.Day = day
		cell.Past = date.Before(todayStart)
		cell.Items = items
		cell.Chips = chipsFor(items, filter)
	}
	return weeks
}

func daysIn(year int, mon time.Month, loc *time.Location) int {
	return time.Date(year, mon+1, 0, 0, 0, 0, 0, loc).Day()
}

func bucketByDay(year int, mon time.Month, loc *time.Location, content []models.ScheduledContent, filter Filter) map[int][]models.ScheduledContent {
	buckets := make(map[int][]models.ScheduledContent)
	for i := range content {
		c := &content[i]
		if c.ScheduleDate == nil || !filter.Matches(c) {
			continue
		}
		y, m, d := c.ScheduleDate.In(loc).Date()
		if y != year || m != mon {
			continue
		}
		buckets[d] = append(buckets[d], *c)
	}

	for _, items := range buckets {
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i].ScheduleDate, items[j].ScheduleDate
			if !a.Equal(*b) {
				return a.Before(*b)
			}
			return items[i].ID < items[j].ID
		})
	}
	return buckets
}

// chipsFor gives one chip per item, coloured by the filtered platform or by
// the item's first platform when showing everything.
func chipsFor(items []models.ScheduledContent, filter Filter) []Chip {
	chips := make([]Chip, 0, len(items))
	for _, c := range items {
		p, ok := filter.Platform()
		if !ok && len(c.Platforms) > 0 {
			p = c.Platforms[0]
		}
		chips = append(chips, Chip{
			ContentID: c.ID,
			Title:     c.Title,
			Platform:  p,
			Status:    c.Status,
			Style:     models.StyleOf(p),
		})
	}
	return chips
}
