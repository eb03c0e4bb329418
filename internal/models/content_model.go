package models

import (
	"fmt"
	"time"
)

type ContentStatus string

const (
	ContentStatusDraft       ContentStatus = "draft"
	ContentStatusScheduled   ContentStatus = "scheduled"
	ContentStatusReady       ContentStatus = "ready"
	ContentStatusNeedsReview ContentStatus = "needs-review"
	ContentStatusPublished   ContentStatus = "published"
)

var contentStatuses = map[ContentStatus]struct{}{
	ContentStatusDraft:       {},
	ContentStatusScheduled:   {},
	ContentStatusReady:       {},
	ContentStatusNeedsReview: {},
	ContentStatusPublished:   {},
}

func ParseContentStatus(s string) (ContentStatus, error) {
	status := ContentStatus(s)
	if _, ok := contentStatuses[status]; !ok {
		return "", fmt.Errorf("unknown content status %q", s)
	}
	return status, nil
}

// Terminal reports whether no further status change is allowed.
func (s ContentStatus) Terminal() bool {
	return s == ContentStatusPublished
}

type ScheduledContent struct {
	ID           int64         `db:"id" json:"id"`
	UserID       int64         `db:"user_id" json:"userId,omitempty"`
	Title        string        `db:"title" json:"title"`
	Body         string        `db:"body" json:"body"`
	Platforms    []Platform    `db:"platforms" json:"platform"`
	ScheduleDate *time.Time    `db:"schedule_date" json:"scheduleDate,omitempty"`
	Status       ContentStatus `db:"status" json:"status"`
	MediaURLs    []string      `db:"media_urls" json:"mediaUrls,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

// HasPlatform reports whether p is one of the content's target platforms.
func (c *ScheduledContent) HasPlatform(p Platform) bool {
	for _, target := range c.Platforms {
		if target == p {
			return true
		}
	}
	return false
}
