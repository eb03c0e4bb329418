package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// contentAPI is a minimal in-memory /api/content backend.
type contentAPI struct {
	mu       sync.Mutex
	items    []models.ScheduledContent
	nextID   int64
	gets     atomic.Int32
	failPOST bool
}

func (a *contentAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == ContentPath:
		a.gets.Add(1)
		_ = json.NewEncoder(w).Encode(a.items)
	case r.Method == http.MethodPost && r.URL.Path == ContentPath:
		if a.failPOST {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"title is required"}`))
			return
		}
		var req transfer.ContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		platforms, _ := models.ParsePlatforms(req.Platforms)
		item := models.ScheduledContent{ID: a.nextID, Title: req.Title, Body: req.Body, Platforms: platforms, ScheduleDate: req.ScheduleDate, Status: models.ContentStatusScheduled}
		a.nextID++
		a.items = append(a.items, item)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(item)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, ContentPath+"/"):
		a.items = a.items[:0]
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithLogger(quietLogger()))
	require.NoError(t, err)
	return c, srv
}

func TestCreateThenListSeesNewItem(t *testing.T) {
	api := &contentAPI{nextID: 42}
	c, _ := newTestClient(t, api)
	ctx := context.Background()

	list, err := c.ListContent(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	when := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)
	created, err := c.CreateContent(ctx, &transfer.ContentRequest{Title: "Launch", Body: "We are live", Platforms: []string{"twitter"}, ScheduleDate: &when})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)

	list, err = c.ListContent(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(42), list[0].ID)
	assert.Equal(t, int32(2), api.gets.Load())
}

func TestCachedReadServesFromCache(t *testing.T) {
	api := &contentAPI{nextID: 1}
	c, _ := newTestClient(t, api)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.ListContent(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), api.gets.Load())

	c.Invalidate("/api/")
	_, err := c.ListContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), api.gets.Load())
}

func TestFailedMutationKeepsCache(t *testing.T) {
	api := &contentAPI{nextID: 1, failPOST: true}
	c, _ := newTestClient(t, api)
	ctx := context.Background()

	_, err := c.ListContent(ctx)
	require.NoError(t, err)

	_, err = c.CreateContent(ctx, &transfer.ContentRequest{Body: "no title", Platforms: []string{"twitter"}})
	require.Error(t, err)

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusBadRequest, re.Status)
	assert.Equal(t, "title is required", re.Message)

	_, err = c.ListContent(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), api.gets.Load())
}

func TestDeleteInvalidatesList(t *testing.T) {
	api := &contentAPI{nextID: 7, items: []models.ScheduledContent{{ID: 6, Title: "old"}}}
	c, _ := newTestClient(t, api)
	ctx := context.Background()

	list, err := c.ListContent(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, c.DeleteContent(ctx, 6))

	list, err = c.ListContent(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNonJSONServerErrorSurfacesText(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Internal Server Error"))
	}))

	_, err := c.ListContent(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Internal Server Error")

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusInternalServerError, re.Status)
}

func TestErrorMessagePrecedence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message wins", `{"message":"m","error":"e"}`, "m"},
		{"error field", `{"error":"e"}`, "e"},
		{"plain text", "  broken  \n", "broken"},
		{"empty body", "", "502 Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage("502 Bad Gateway", []byte(tt.body)))
		})
	}
}

func TestHTMLSuccessIsRejectedWithSnippet(t *testing.T) {
	page := "<html>" + strings.Repeat("x", 500) + "</html>"
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))

	_, err := c.ListContent(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected JSON response")
	assert.Contains(t, err.Error(), page[:200])
	assert.NotContains(t, err.Error(), page[:201])
}

func TestUnauthorizedBehavior(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid or expired token"}`))
	}))
	ctx := context.Background()

	var out []models.AIProviderStatus
	ok, err := c.CachedRead(ctx, ProvidersPath, ReturnNull, &out)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, out)

	ok, err = c.CachedRead(ctx, ProvidersPath, Throw, &out)
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Invalid or expired token")

	// failures are never cached
	assert.Equal(t, int32(2), calls.Load())
}

func TestTransportErrorHasZeroStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL, WithLogger(quietLogger()))
	require.NoError(t, err)
	srv.Close()

	_, err = c.ListContent(context.Background())
	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Zero(t, re.Status)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestConcurrentReadsShareOneRequest(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"title":"a"}]`))
	}))

	var wg sync.WaitGroup
	results := make([][]models.ScheduledContent, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = c.ListContent(context.Background())
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		require.Len(t, r, 1)
		assert.Equal(t, int64(1), r[0].ID)
	}
}

func TestCancelledReaderDoesNotFailOthers(t *testing.T) {
	var calls atomic.Int32
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		entered <- struct{}{}
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"title":"a"}]`))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.ListContent(ctx)
		firstErr <- err
	}()
	<-entered

	type result struct {
		items []models.ScheduledContent
		err   error
	}
	second := make(chan result, 1)
	go func() {
		items, err := c.ListContent(context.Background())
		second <- result{items, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	res := <-second
	require.NoError(t, res.err)
	require.Len(t, res.items, 1)
	assert.Equal(t, int64(1), res.items[0].ID)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCookiesAndTokenAreSent(t *testing.T) {
	var sawCookie, sawAuth atomic.Bool
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("contentflow_session"); err == nil && ck.Value == "abc" {
			sawCookie.Store(true)
		}
		if r.Header.Get("Authorization") == "Bearer tok" {
			sawAuth.Store(true)
		}
		http.SetCookie(w, &http.Cookie{Name: "contentflow_session", Value: "abc", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))

	withToken, err := New(srv.URL, WithToken("tok"), WithLogger(quietLogger()))
	require.NoError(t, err)
	_, err = withToken.ListPlatforms(context.Background())
	require.NoError(t, err)
	assert.True(t, sawAuth.Load())

	_, err = c.ListPlatforms(context.Background())
	require.NoError(t, err)
	c.Invalidate(PlatformsPath)
	_, err = c.ListPlatforms(context.Background())
	require.NoError(t, err)
	assert.True(t, sawCookie.Load())
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)
}
