package service

import "github.com/maheshrc27/contentflow/internal/models"

// StatusTransitions lists, per current status, the statuses content may move
// to. A status may always be kept as is.
type StatusTransitions map[models.ContentStatus][]models.ContentStatus

// DefaultTransitions allows any change except leaving published.
var DefaultTransitions = StatusTransitions{
	models.ContentStatusDraft:       {models.ContentStatusScheduled, models.ContentStatusReady, models.ContentStatusNeedsReview, models.ContentStatusPublished},
	models.ContentStatusScheduled:   {models.ContentStatusDraft, models.ContentStatusReady, models.ContentStatusNeedsReview, models.ContentStatusPublished},
	models.ContentStatusReady:       {models.ContentStatusDraft, models.ContentStatusScheduled, models.ContentStatusNeedsReview, models.ContentStatusPublished},
	models.ContentStatusNeedsReview: {models.ContentStatusDraft, models.ContentStatusScheduled, models.ContentStatusReady, models.ContentStatusPublished},
	models.ContentStatusPublished:   {},
}

func (t StatusTransitions) Allows(from, to models.ContentStatus) bool {
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	for _, allowed := range t[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
