package models

import (
	"fmt"
	"math"
)

type ModelType string

const (
	ModelTypeText   ModelType = "text"
	ModelTypeImage  ModelType = "image"
	ModelTypeSpeech ModelType = "speech"
	ModelTypeVideo  ModelType = "video"
)

func ParseModelType(s string) (ModelType, error) {
	switch t := ModelType(s); t {
	case ModelTypeText, ModelTypeImage, ModelTypeSpeech, ModelTypeVideo:
		return t, nil
	}
	return "", fmt.Errorf("unknown model type %q", s)
}

type ProviderStatus string

const (
	ProviderActive      ProviderStatus = "active"
	ProviderRateLimited ProviderStatus = "rate_limited"
	ProviderInactive    ProviderStatus = "inactive"
)

// UsageThreshold is the usage percentage at which a provider stops being
// offered for model selection.
const UsageThreshold = 95.0

type ProviderUsage struct {
	Hourly     int64   `json:"hourly"`
	Daily      int64   `json:"daily"`
	Percentage float64 `json:"percentage"`
}

type AIProviderStatus struct {
	Name   string         `json:"name"`
	Status ProviderStatus `json:"status"`
	Usage  ProviderUsage  `json:"usage"`
}

// Selectable reports whether models backed by this provider may be offered.
func (p AIProviderStatus) Selectable() bool {
	return p.Status == ProviderActive && p.Usage.Percentage < UsageThreshold
}

// UsagePercentage derives the hourly usage percentage, rounded to one decimal.
func UsagePercentage(hourly, hourlyLimit int64) float64 {
	if hourlyLimit <= 0 {
		return 100
	}
	return math.Round(float64(hourly)/float64(hourlyLimit)*1000) / 10
}

type AIModel struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     ModelType `json:"type"`
	Provider string    `json:"provider"`
}

// ModelCatalog maps every generation model to the provider that serves it.
var ModelCatalog = []AIModel{
	{ID: "gpt-4o", Name: "GPT-4o", Type: ModelTypeText, Provider: "openai"},
	{ID: "gpt-4o-mini", Name: "GPT-4o mini", Type: ModelTypeText, Provider: "openai"},
	{ID: "claude-3-5-sonnet", Name: "Claude 3.5 Sonnet", Type: ModelTypeText, Provider: "anthropic"},
	{ID: "dall-e-3", Name: "DALL·E 3", Type: ModelTypeImage, Provider: "openai"},
	{ID: "stable-diffusion-xl", Name: "Stable Diffusion XL", Type: ModelTypeImage, Provider: "stability"},
	{ID: "tts-1", Name: "OpenAI TTS", Type: ModelTypeSpeech, Provider: "openai"},
	{ID: "eleven-multilingual-v2", Name: "ElevenLabs Multilingual v2", Type: ModelTypeSpeech, Provider: "elevenlabs"},
	{ID: "gen-3-alpha", Name: "Runway Gen-3 Alpha", Type: ModelTypeVideo, Provider: "runway"},
	{ID: "stable-video-diffusion", Name: "Stable Video Diffusion", Type: ModelTypeVideo, Provider: "stability"},
}

func LookupModel(catalog []AIModel, id string) (AIModel, bool) {
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return AIModel{}, false
}

func ModelsOfType(catalog []AIModel, t ModelType) []AIModel {
	var out []AIModel
	for _, m := range catalog {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}
