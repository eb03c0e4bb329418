// Package aiproviders keeps a client-side view of AI provider health and
// uses it to decide which models can be offered for selection.
package aiproviders

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/transfer"
	"github.com/maheshrc27/contentflow/pkg/client"
)

// API is the part of *client.Client the aggregator needs.
type API interface {
	ListProviders(ctx context.Context) ([]models.AIProviderStatus, error)
	Invalidate(prefix string)
	Generate(ctx context.Context, kind models.ModelType, req any) (*transfer.GenerationResult, error)
}

// Result is a generated artifact: a URL for media kinds, Text for text.
type Result struct {
	URL      string
	Text     string
	Provider string
	Model    string
}

type Aggregator struct {
	api     API
	catalog []models.AIModel
	logger  *slog.Logger

	mu       sync.RWMutex
	snapshot []models.AIProviderStatus
	loaded   bool
}

func NewAggregator(api API, catalog []models.AIModel) *Aggregator {
	if catalog == nil {
		catalog = models.ModelCatalog
	}
	return &Aggregator{
		api:     api,
		catalog: catalog,
		logger:  slog.Default(),
	}
}

func (a *Aggregator) WithLogger(logger *slog.Logger) *Aggregator {
	a.logger = logger
	return a
}

// ListProviders reads the provider list through the client cache and
// remembers it as the latest snapshot.
func (a *Aggregator) ListProviders(ctx context.Context) ([]models.AIProviderStatus, error) {
	providers, err := a.api.ListProviders(ctx)
	if err != nil {
		a.logger.Error("listing providers", "error", err)
		return nil, err
	}

	a.mu.Lock()
	a.snapshot = append([]models.AIProviderStatus(nil), providers...)
	a.loaded = true
	a.mu.Unlock()
	return providers, nil
}

// DefaultPollInterval is used by Poll when given a non-positive interval.
const DefaultPollInterval = 30 * time.Second

// Poll refreshes the snapshot every interval until ctx is done. A failed
// refresh keeps the previous snapshot.
func (a *Aggregator) Poll(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		a.api.Invalidate(client.ProvidersPath)
		_, _ = a.ListProviders(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *Aggregator) Snapshot() ([]models.AIProviderStatus, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]models.AIProviderStatus(nil), a.snapshot...), a.loaded
}

// AvailableModelsFor returns the models of modelType whose provider is
// active and under the usage threshold. With no provider data every model of
// the type is returned, so selection is never blocked while loading.
func (a *Aggregator) AvailableModelsFor(modelType models.ModelType, providers []models.AIProviderStatus) []models.AIModel {
	candidates := models.ModelsOfType(a.catalog, modelType)
	if len(providers) == 0 {
		return candidates
	}

	selectable := make(map[string]bool, len(providers))
	for _, p := range providers {
		selectable[p.Name] = p.Selectable()
	}

	available := make([]models.AIModel, 0, len(candidates))
	for _, m := range candidates {
		if selectable[m.Provider] {
			available = append(available, m)
		}
	}
	return available
}

func (a *Aggregator) GenerateText(ctx context.Context, req *transfer.TextGenerationRequest) (Result, error) {
	return a.generate(ctx, models.ModelTypeText, req)
}

func (a *Aggregator) GenerateImage(ctx context.Context, req *transfer.ImageGenerationRequest) (Result, error) {
	return a.generate(ctx, models.ModelTypeImage, req)
}

func (a *Aggregator) GenerateSpeech(ctx context.Context, req *transfer.SpeechGenerationRequest) (Result, error) {
	return a.generate(ctx, models.ModelTypeSpeech, req)
}

func (a *Aggregator) GenerateVideo(ctx context.Context, req *transfer.VideoGenerationRequest) (Result, error) {
	return a.generate(ctx, models.ModelTypeVideo, req)
}

// generate makes a single attempt; the server's message is returned as is.
func (a *Aggregator) generate(ctx context.Context, kind models.ModelType, req any) (Result, error) {
	res, err := a.api.Generate(ctx, kind, req)
	if err != nil {
		a.logger.Error("generation failed", "kind", kind, "error", err)
		return Result{}, err
	}
	return Result{URL: res.URL, Text: res.Result, Provider: res.Provider, Model: res.Model}, nil
}
