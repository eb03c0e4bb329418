package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/maheshrc27/contentflow/configs"
	"github.com/maheshrc27/contentflow/pkg/utils"
)

func newAuthApp(t *testing.T) (*fiber.App, config.Config) {
	t.Helper()
	cfg := config.Config{SecretKey: "s3cret", CookieName: "contentflow_session"}
	app := fiber.New()
	app.Use(NewAuthMiddleware(cfg).AuthMiddleware())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	return app, cfg
}

func TestAuthMiddleware(t *testing.T) {
	app, cfg := newAuthApp(t)
	token, err := utils.GenerateToken(cfg.SecretKey, "17", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "cookie",
			setup:      func(r *http.Request) { r.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: token}) },
			wantStatus: fiber.StatusOK,
			wantBody:   "17",
		},
		{
			name:       "bearer header",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			wantStatus: fiber.StatusOK,
			wantBody:   "17",
		},
		{
			name:       "missing credentials",
			setup:      func(r *http.Request) {},
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "basic scheme is ignored",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Basic "+token) },
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "tampered token",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token+"x") },
			wantStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.setup(req)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}
}

func TestAuthMiddlewareClearsBadCookie(t *testing.T) {
	app, cfg := newAuthApp(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: "stale"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Set-Cookie"), cfg.CookieName+"=")
}
