package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maheshrc27/contentflow/internal/models"
)

func TestDefaultTransitions(t *testing.T) {
	assert.True(t, DefaultTransitions.Allows(models.ContentStatusDraft, models.ContentStatusScheduled))
	assert.True(t, DefaultTransitions.Allows(models.ContentStatusReady, models.ContentStatusReady))
	assert.True(t, DefaultTransitions.Allows(models.ContentStatusNeedsReview, models.ContentStatusPublished))

	for _, to := range []models.ContentStatus{models.ContentStatusDraft, models.ContentStatusScheduled, models.ContentStatusReady, models.ContentStatusNeedsReview} {
		assert.False(t, DefaultTransitions.Allows(models.ContentStatusPublished, to), "published -> %s", to)
	}
	assert.True(t, DefaultTransitions.Allows(models.ContentStatusPublished, models.ContentStatusPublished))
}

func TestCustomTransitions(t *testing.T) {
	strict := StatusTransitions{
		models.ContentStatusDraft: {models.ContentStatusNeedsReview},
	}
	assert.True(t, strict.Allows(models.ContentStatusDraft, models.ContentStatusNeedsReview))
	assert.False(t, strict.Allows(models.ContentStatusDraft, models.ContentStatusPublished))
	assert.False(t, strict.Allows(models.ContentStatusScheduled, models.ContentStatusReady))
}
