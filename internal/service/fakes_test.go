package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
)

type memContentRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.ScheduledContent
	err    error
}

func newMemContentRepo() *memContentRepo {
	return &memContentRepo{nextID: 41, items: map[int64]*models.ScheduledContent{}}
}

func (r *memContentRepo) Create(_ context.Context, c *models.ScheduledContent) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.nextID++
	cp := *c
	cp.ID = r.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.items[cp.ID] = &cp
	return cp.ID, nil
}

func (r *memContentRepo) GetByID(_ context.Context, id int64) (*models.ScheduledContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *memContentRepo) GetByUserID(_ context.Context, userID int64) ([]*models.ScheduledContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.ScheduledContent{}
	for _, c := range r.items {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memContentRepo) CheckByUserID(_ context.Context, contentID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[contentID]
	return ok && c.UserID == userID, nil
}

func (r *memContentRepo) Update(_ context.Context, c *models.ScheduledContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	cp := *c
	cp.UpdatedAt = time.Now()
	r.items[c.ID] = &cp
	return nil
}

func (r *memContentRepo) MarkReady(_ context.Context, id int64, scheduleDate time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok || c.Status != models.ContentStatusScheduled || c.ScheduleDate == nil || !c.ScheduleDate.Equal(scheduleDate) {
		return false, nil
	}
	c.Status = models.ContentStatusReady
	return true, nil
}

func (r *memContentRepo) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.items {
		if c.Status == models.ContentStatusScheduled && c.ScheduleDate != nil && !c.ScheduleDate.After(now) {
			c.Status = models.ContentStatusReady
			n++
		}
	}
	return n, nil
}

func (r *memContentRepo) Remove(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type dueCall struct {
	ContentID int64
	At        time.Time
	Delay     time.Duration
}

type recordingDue struct {
	calls []dueCall
	err   error
}

func (d *recordingDue) ScheduleDue(_ context.Context, contentID int64, at time.Time, delay time.Duration) error {
	d.calls = append(d.calls, dueCall{ContentID: contentID, At: at, Delay: delay})
	return d.err
}

type memPlatformRepo struct {
	items []*models.PlatformConnection
}

func (r *memPlatformRepo) GetByID(_ context.Context, id int64) (*models.PlatformConnection, error) {
	for _, c := range r.items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memPlatformRepo) ListByUserID(_ context.Context, userID int64) ([]*models.PlatformConnection, error) {
	var out []*models.PlatformConnection
	for _, c := range r.items {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memPlatformRepo) CheckByUserID(_ context.Context, id, userID int64) (bool, error) {
	c, _ := r.GetByID(context.Background(), id)
	return c != nil && c.UserID == userID, nil
}

func (r *memPlatformRepo) Remove(_ context.Context, id int64) error {
	for i, c := range r.items {
		if c.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

type memMediaStore struct {
	keys  []string
	types []string
}

func (m *memMediaStore) Upload(_ context.Context, key string, _ []byte, contentType string) (string, error) {
	m.keys = append(m.keys, key)
	m.types = append(m.types, contentType)
	return "https://media.example.com/" + key, nil
}
