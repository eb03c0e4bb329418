package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlatformRejectsUnknown(t *testing.T) {
	p, err := ParsePlatform("linkedin")
	require.NoError(t, err)
	assert.Equal(t, PlatformLinkedIn, p)

	_, err = ParsePlatform("myspace")
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestPlatformJSONBoundary(t *testing.T) {
	var c ScheduledContent
	err := json.Unmarshal([]byte(`{"title":"x","platform":["twitter","linkedin"]}`), &c)
	require.NoError(t, err)
	assert.Equal(t, []Platform{PlatformTwitter, PlatformLinkedIn}, c.Platforms)

	err = json.Unmarshal([]byte(`{"platform":["friendster"]}`), &c)
	assert.Error(t, err)
}

func TestStyleOfFallback(t *testing.T) {
	assert.Equal(t, "bg-pink-500", StyleOf(PlatformInstagram).Color)
	assert.Equal(t, UnknownPlatformStyle, StyleOf(Platform("myspace")))
}

func TestUsagePercentage(t *testing.T) {
	assert.Equal(t, 50.0, UsagePercentage(50, 100))
	assert.Equal(t, 33.3, UsagePercentage(1, 3))
	assert.Equal(t, 100.0, UsagePercentage(0, 0))
}

func TestSelectable(t *testing.T) {
	assert.True(t, AIProviderStatus{Status: ProviderActive, Usage: ProviderUsage{Percentage: 94.9}}.Selectable())
	assert.False(t, AIProviderStatus{Status: ProviderActive, Usage: ProviderUsage{Percentage: 95}}.Selectable())
	assert.False(t, AIProviderStatus{Status: ProviderRateLimited}.Selectable())
}

func TestContentStatus(t *testing.T) {
	s, err := ParseContentStatus("needs-review")
	require.NoError(t, err)
	assert.Equal(t, ContentStatusNeedsReview, s)
	assert.True(t, ContentStatusPublished.Terminal())

	_, err = ParseContentStatus("archived")
	assert.Error(t, err)
}

func TestModelsOfType(t *testing.T) {
	video := ModelsOfType(ModelCatalog, ModelTypeVideo)
	require.Len(t, video, 2)
	m, ok := LookupModel(ModelCatalog, "dall-e-3")
	require.True(t, ok)
	assert.Equal(t, "openai", m.Provider)
}
