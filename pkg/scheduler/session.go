// Package scheduler holds the single editing session for a content draft.
// Every change goes through one reducer guarded by a mutex, and observers
// are told about each new state.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

var ErrSubmitInFlight = errors.New("a submission is already in progress")

// ValidationError names the first missing field of a draft. No request is
// sent when Submit returns one.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ContentWriter is satisfied by *client.Client.
type ContentWriter interface {
	CreateContent(ctx context.Context, req *transfer.ContentRequest) (*models.ScheduledContent, error)
	UpdateContent(ctx context.Context, id int64, req *transfer.ContentRequest) (*models.ScheduledContent, error)
}

// Draft is the unsaved content being edited. Nil fields are unset; a
// non-nil field in an update replaces the current value.
type Draft struct {
	ID           *int64
	Title        *string
	Body         *string
	Platforms    []models.Platform
	ScheduleDate *time.Time
	MediaURL     *string
}

func Ptr[T any](v T) *T {
	return &v
}

type State struct {
	Draft      Draft
	EditorOpen bool
	Submitting bool
}

type actionKind int

const (
	actionOpen actionKind = iota
	actionCancel
	actionUpdate
	actionSubmitStarted
	actionSubmitSucceeded
	actionSubmitFailed
)

type action struct {
	kind      actionKind
	patch     Draft
	keepDraft bool
}

func reduce(s State, a action) State {
	switch a.kind {
	case actionOpen:
		s.EditorOpen = true
	case actionCancel:
		s.EditorOpen = false
	case actionUpdate:
		s.Draft = merge(s.Draft, a.patch)
	case actionSubmitStarted:
		s.Submitting = true
	case actionSubmitSucceeded:
		s.Submitting = false
		s.EditorOpen = false
		if a.keepDraft {
			s.Draft = merge(s.Draft, a.patch)
		} else {
			s.Draft = Draft{}
		}
	case actionSubmitFailed:
		s.Submitting = false
	}
	return s
}

func merge(d, patch Draft) Draft {
	if patch.ID != nil {
		d.ID = patch.ID
	}
	if patch.Title != nil {
		d.Title = patch.Title
	}
	if patch.Body != nil {
		d.Body = patch.Body
	}
	if patch.Platforms != nil {
		d.Platforms = append([]models.Platform{}, patch.Platforms...)
	}
	if patch.ScheduleDate != nil {
		d.ScheduleDate = patch.ScheduleDate
	}
	if patch.MediaURL != nil {
		d.MediaURL = patch.MediaURL
	}
	return d
}

type Session struct {
	writer ContentWriter
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
	edits   int
}

func NewSession(writer ContentWriter) *Session {
	return &Session{
		writer: writer,
		logger: slog.Default(),
		subs:   make(map[int]func(State)),
	}
}

func (s *Session) WithLogger(logger *slog.Logger) *Session {
	s.logger = logger
	return s
}

// OpenEditor shows the editor. Calling it while open changes nothing.
func (s *Session) OpenEditor() {
	s.dispatch(action{kind: actionOpen})
}

// Cancel closes the editor without submitting. The draft is kept.
func (s *Session) Cancel() {
	s.dispatch(action{kind: actionCancel})
}

// UpdateDraft merges the non-nil fields of patch into the draft. It neither
// validates nor opens the editor.
func (s *Session) UpdateDraft(patch Draft) {
	s.mu.Lock()
	s.edits++
	s.apply(action{kind: actionUpdate, patch: patch})
	s.mu.Unlock()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// Subscribe registers fn for every state change and returns a function that
// removes it.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Submit validates the draft and creates or updates it. The editor closes
// only after the write succeeds; on failure the draft stays as entered.
// On success the draft is cleared, unless UpdateDraft ran while the write
// was in flight: then the draft keeps those edits and takes the saved ID,
// so a later Submit updates the same item.
func (s *Session) Submit(ctx context.Context) (*models.ScheduledContent, error) {
	s.mu.Lock()
	if s.state.Submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	draft := s.state.Draft
	if err := validate(draft); err != nil {
		s.mu.Unlock()
		s.logger.Info("draft rejected", "field", err.Field, "error", err.Message)
		return nil, err
	}
	edits := s.edits
	s.apply(action{kind: actionSubmitStarted})
	s.mu.Unlock()

	req := draft.request()

	var (
		saved *models.ScheduledContent
		err   error
	)
	if draft.ID != nil {
		saved, err = s.writer.UpdateContent(ctx, *draft.ID, req)
	} else {
		saved, err = s.writer.CreateContent(ctx, req)
	}
	if err != nil {
		s.logger.Error("submitting draft", "error", err)
		s.dispatch(action{kind: actionSubmitFailed})
		return nil, err
	}

	s.mu.Lock()
	done := action{kind: actionSubmitSucceeded}
	if s.edits != edits && saved != nil {
		done.keepDraft = true
		done.patch = Draft{ID: Ptr(saved.ID)}
	}
	s.apply(done)
	s.mu.Unlock()
	return saved, nil
}

func (s *Session) dispatch(a action) {
	s.mu.Lock()
	s.apply(a)
	s.mu.Unlock()
}

// apply runs the reducer and notifies subscribers. The caller holds mu;
// subscribers must not call back into the session.
func (s *Session) apply(a action) {
	s.state = reduce(s.state, a)
	snapshot := cloneState(s.state)
	for _, fn := range s.subs {
		fn(snapshot)
	}
}

func cloneState(st State) State {
	if st.Draft.Platforms != nil {
		st.Draft.Platforms = append([]models.Platform{}, st.Draft.Platforms...)
	}
	return st
}

func validate(d Draft) *ValidationError {
	switch {
	case d.Title == nil || strings.TrimSpace(*d.Title) == "":
		return &ValidationError{Field: "title", Message: "Title is required"}
	case d.Body == nil || strings.TrimSpace(*d.Body) == "":
		return &ValidationError{Field: "body", Message: "Content body is required"}
	case d.ScheduleDate == nil || d.ScheduleDate.IsZero():
		return &ValidationError{Field: "scheduleDate", Message: "Please select a date"}
	}
	return nil
}

func (d Draft) request() *transfer.ContentRequest {
	platforms := make([]string, 0, len(d.Platforms))
	for _, p := range d.Platforms {
		platforms = append(platforms, string(p))
	}

	date := d.ScheduleDate.UTC().Truncate(time.Second)
	req := &transfer.ContentRequest{
		Title:        *d.Title,
		Body:         *d.Body,
		Platforms:    platforms,
		ScheduleDate: &date,
	}
	if d.MediaURL != nil {
		req.MediaURL = *d.MediaURL
	}
	return req
}
