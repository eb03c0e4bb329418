package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maheshrc27/contentflow/internal/metrics"
	"github.com/maheshrc27/contentflow/internal/service"
)

type stubContentService struct {
	service.ContentService
	ready   bool
	err     error
	gotID   int64
	gotDate time.Time
	calls   int
}

func (s *stubContentService) MarkReady(_ context.Context, id int64, date time.Time) (bool, error) {
	s.calls++
	s.gotID = id
	s.gotDate = date
	return s.ready, s.err
}

func TestHandleContentDueTask(t *testing.T) {
	due := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		ready     bool
		err       error
		wantErr   bool
		wantCount float64
	}{
		{name: "marks ready", ready: true, wantCount: 1},
		{name: "stale task is a no-op", ready: false, wantCount: 0},
		{name: "repository failure retries", err: errors.New("db down"), wantErr: true, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := &stubContentService{ready: tt.ready, err: tt.err}
			m := metrics.New()
			q := NewQueue(cs, m)

			task, err := NewContentDueTask(ContentDuePayload{ContentID: 42, ScheduleDate: due})
			require.NoError(t, err)

			err = q.HandleContentDueTask(context.Background(), task)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 1, cs.calls)
			assert.Equal(t, int64(42), cs.gotID)
			assert.True(t, due.Equal(cs.gotDate))
			assert.Equal(t, tt.wantCount, testutil.ToFloat64(m.ContentReady.WithLabelValues("queue")))
		})
	}
}

func TestHandleContentDueTaskBadPayload(t *testing.T) {
	cs := &stubContentService{}
	q := NewQueue(cs, metrics.New())

	err := q.HandleContentDueTask(context.Background(), asynq.NewTask(TaskTypeContentDue, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	assert.Zero(t, cs.calls)
}

func TestNewContentDueTaskPayload(t *testing.T) {
	due := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	task, err := NewContentDueTask(ContentDuePayload{ContentID: 7, ScheduleDate: due})
	require.NoError(t, err)
	assert.Equal(t, TaskTypeContentDue, task.Type())

	var raw map[string]any
	require.NoError(t, json.Unmarshal(task.Payload(), &raw))
	assert.Equal(t, float64(7), raw["content_id"])
	assert.Equal(t, "2026-03-14T09:30:00Z", raw["schedule_date"])
}
