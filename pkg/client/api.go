package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/maheshrc27/contentflow/internal/analytics"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

const (
	ContentPath   = "/api/content"
	PlatformsPath = "/api/platforms"
	ProvidersPath = "/api/ai/providers"
	AnalyticsPath = "/api/analytics/series"
)

func (c *Client) ListContent(ctx context.Context) ([]models.ScheduledContent, error) {
	var content []models.ScheduledContent
	if _, err := c.CachedRead(ctx, ContentPath, Throw, &content); err != nil {
		return nil, err
	}
	return content, nil
}

func (c *Client) CreateContent(ctx context.Context, req *transfer.ContentRequest) (*models.ScheduledContent, error) {
	var created models.ScheduledContent
	if err := c.Mutate(ctx, http.MethodPost, ContentPath, req, &created, ContentPath); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateContent(ctx context.Context, id int64, req *transfer.ContentRequest) (*models.ScheduledContent, error) {
	var updated models.ScheduledContent
	if err := c.Mutate(ctx, http.MethodPut, contentPath(id), req, &updated, ContentPath); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteContent(ctx context.Context, id int64) error {
	return c.Mutate(ctx, http.MethodDelete, contentPath(id), nil, nil, ContentPath)
}

func (c *Client) ListPlatforms(ctx context.Context) ([]models.PlatformConnection, error) {
	var connections []models.PlatformConnection
	if _, err := c.CachedRead(ctx, PlatformsPath, Throw, &connections); err != nil {
		return nil, err
	}
	return connections, nil
}

// ListProviders returns nil without error when the session is not
// authorized.
func (c *Client) ListProviders(ctx context.Context) ([]models.AIProviderStatus, error) {
	var providers []models.AIProviderStatus
	if _, err := c.CachedRead(ctx, ProvidersPath, ReturnNull, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// Generate posts req to /api/ai/generate/{kind}. Provider usage changes, so
// the provider list is invalidated on success.
func (c *Client) Generate(ctx context.Context, kind models.ModelType, req any) (*transfer.GenerationResult, error) {
	var result transfer.GenerationResult
	path := fmt.Sprintf("/api/ai/generate/%s", kind)
	if err := c.Mutate(ctx, http.MethodPost, path, req, &result, ProvidersPath); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) AnalyticsSeries(ctx context.Context, days int, metric analytics.Metric, platform string) ([]analytics.Point, error) {
	q := url.Values{}
	q.Set("range", strconv.Itoa(days))
	q.Set("metric", string(metric))
	if platform == "" {
		platform = "all"
	}
	q.Set("platform", platform)

	var points []analytics.Point
	if _, err := c.CachedRead(ctx, AnalyticsPath+"?"+q.Encode(), Throw, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func contentPath(id int64) string {
	return ContentPath + "/" + strconv.FormatInt(id, 10)
}
