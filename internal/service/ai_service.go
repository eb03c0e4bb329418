package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/internal/metrics"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrUnknownModel        = errors.New("unknown model")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrUpstream            = errors.New("provider request failed")
)

const maxUpstreamBody = 100 * 1024 * 1024

type AIService interface {
	Providers(ctx context.Context) ([]models.AIProviderStatus, error)
	GenerateText(ctx context.Context, req *transfer.TextGenerationRequest) (*transfer.GenerationResult, error)
	GenerateImage(ctx context.Context, req *transfer.ImageGenerationRequest) (*transfer.GenerationResult, error)
	GenerateSpeech(ctx context.Context, req *transfer.SpeechGenerationRequest) (*transfer.GenerationResult, error)
	GenerateVideo(ctx context.Context, req *transfer.VideoGenerationRequest) (*transfer.GenerationResult, error)
}

type aiService struct {
	providers []config.AIProvider
	catalog   []models.AIModel
	usage     UsageTracker
	media     MediaStore
	http      *http.Client
	metrics   *metrics.Metrics
}

func NewAIService(
	providers []config.AIProvider,
	catalog []models.AIModel,
	usage UsageTracker,
	media MediaStore,
	httpClient *http.Client,
	m *metrics.Metrics) AIService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &aiService{
		providers: providers,
		catalog:   catalog,
		usage:     usage,
		media:     media,
		http:      httpClient,
		metrics:   m,
	}
}

func (s *aiService) Providers(ctx context.Context) ([]models.AIProviderStatus, error) {
	statuses := make([]models.AIProviderStatus, 0, len(s.providers))
	for _, p := range s.providers {
		status, err := s.status(ctx, p)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (s *aiService) status(ctx context.Context, p config.AIProvider) (models.AIProviderStatus, error) {
	hourly, daily, err := s.usage.Counts(ctx, p.Name)
	if err != nil {
		slog.Info(err.Error())
		return models.AIProviderStatus{}, err
	}

	status := models.AIProviderStatus{
		Name:   p.Name,
		Status: models.ProviderActive,
		Usage: models.ProviderUsage{
			Hourly:     hourly,
			Daily:      daily,
			Percentage: models.UsagePercentage(hourly, p.HourlyLimit),
		},
	}

	switch {
	case p.APIKey == "" || p.BaseURL == "":
		status.Status = models.ProviderInactive
	case hourly >= p.HourlyLimit || daily >= p.DailyLimit:
		status.Status = models.ProviderRateLimited
	}
	return status, nil
}

func (s *aiService) GenerateText(ctx context.Context, req *transfer.TextGenerationRequest) (*transfer.GenerationResult, error) {
	return s.generate(ctx, models.ModelTypeText, req.Model, req)
}

func (s *aiService) GenerateImage(ctx context.Context, req *transfer.ImageGenerationRequest) (*transfer.GenerationResult, error) {
	return s.generate(ctx, models.ModelTypeImage, req.Model, req)
}

func (s *aiService) GenerateSpeech(ctx context.Context, req *transfer.SpeechGenerationRequest) (*transfer.GenerationResult, error) {
	return s.generate(ctx, models.ModelTypeSpeech, req.Model, req)
}

func (s *aiService) GenerateVideo(ctx context.Context, req *transfer.VideoGenerationRequest) (*transfer.GenerationResult, error) {
	return s.generate(ctx, models.ModelTypeVideo, req.Model, req)
}

// generate routes a request to the single provider that serves the model.
// There is no retry and no fallback to another provider.
func (s *aiService) generate(ctx context.Context, kind models.ModelType, modelID string, payload any) (*transfer.GenerationResult, error) {
	model, ok := models.LookupModel(s.catalog, modelID)
	if !ok || model.Type != kind {
		err := fmt.Errorf("%w: %q is not a %s model", ErrUnknownModel, modelID, kind)
		slog.Info(err.Error())
		return nil, err
	}

	provider, ok := s.provider(model.Provider)
	if !ok {
		err := fmt.Errorf("%w: %s is not configured", ErrProviderUnavailable, model.Provider)
		slog.Info(err.Error())
		return nil, err
	}

	status, err := s.status(ctx, provider)
	if err != nil {
		return nil, err
	}
	if status.Status != models.ProviderActive {
		err := fmt.Errorf("%w: %s is %s", ErrProviderUnavailable, provider.Name, status.Status)
		slog.Info(err.Error())
		s.metrics.ObserveGeneration(provider.Name, string(kind), "rejected")
		return nil, err
	}

	if err := s.usage.Increment(ctx, provider.Name); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	result, err := s.callProvider(ctx, provider, kind, payload)
	if err != nil {
		s.metrics.ObserveGeneration(provider.Name, string(kind), "error")
		return nil, err
	}

	result.Provider = provider.Name
	result.Model = model.ID
	s.metrics.ObserveGeneration(provider.Name, string(kind), "ok")
	return result, nil
}

func (s *aiService) provider(name string) (config.AIProvider, bool) {
	for _, p := range s.providers {
		if p.Name == name {
			return p, true
		}
	}
	return config.AIProvider{}, false
}

func (s *aiService) callProvider(ctx context.Context, p config.AIProvider, kind models.ModelType, payload any) (*transfer.GenerationResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/generate/%s", strings.TrimRight(p.BaseURL, "/"), kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := s.http.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, p.Name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBody))
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, p.Name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: %s: %s", ErrUpstream, p.Name, upstreamMessage(resp.Status, data))
		slog.Info(err.Error())
		return nil, err
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var result transfer.GenerationResult
		if err := json.Unmarshal(data, &result); err != nil {
			slog.Info(err.Error())
			return nil, fmt.Errorf("%w: %s: invalid response: %w", ErrUpstream, p.Name, err)
		}
		return &result, nil
	}

	url, err = s.storeMedia(ctx, data)
	if err != nil {
		return nil, err
	}
	return &transfer.GenerationResult{URL: url}, nil
}

func (s *aiService) storeMedia(ctx context.Context, data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown {
		err = fmt.Errorf("%w: unsupported media returned", ErrUpstream)
		slog.Info(err.Error())
		return "", err
	}

	if s.media == nil {
		err = fmt.Errorf("%w: no media storage configured", ErrUpstream)
		slog.Info(err.Error())
		return "", err
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return s.media.Upload(ctx, fmt.Sprintf("generated/%s.%s", id, kind.Extension), data, kind.MIME.Value)
}

func upstreamMessage(status string, data []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(data)); text != "" {
		return text
	}
	return status
}
