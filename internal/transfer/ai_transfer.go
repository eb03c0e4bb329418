package transfer

type TextGenerationRequest struct {
	Prompt      string  `json:"prompt" validate:"required"`
	Model       string  `json:"model" validate:"required"`
	Temperature float64 `json:"temperature" validate:"gte=0,lte=2"`
}

type ImageGenerationRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Model  string `json:"model" validate:"required"`
	Size   string `json:"size,omitempty"`
	Width  int    `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height int    `json:"height,omitempty" validate:"omitempty,gt=0"`
	Style  string `json:"style,omitempty"`
}

type SpeechGenerationRequest struct {
	Text  string `json:"text" validate:"required"`
	Model string `json:"model" validate:"required"`
	Voice string `json:"voice,omitempty"`
}

type VideoGenerationRequest struct {
	Prompt   string `json:"prompt" validate:"required"`
	Model    string `json:"model" validate:"required"`
	Duration int    `json:"duration,omitempty" validate:"omitempty,gt=0,lte=60"`
	Style    string `json:"style,omitempty"`
}

// GenerationResult is returned by every /api/ai/generate endpoint. Media
// kinds set URL; text generation sets Result.
type GenerationResult struct {
	URL      string `json:"url,omitempty"`
	Result   string `json:"result,omitempty"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}
