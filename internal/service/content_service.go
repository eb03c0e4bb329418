package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/repository"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

var (
	ErrInvalidUser       = errors.New("user is not valid")
	ErrContentNotFound   = errors.New("content doesn't exist")
	ErrScheduleRequired  = errors.New("scheduled content requires a schedule date")
	ErrInvalidTransition = errors.New("status transition is not allowed")
	ErrInvalidContent    = errors.New("content is not valid")
)

// DueScheduler arranges for content to be marked ready at its schedule date.
type DueScheduler interface {
	ScheduleDue(ctx context.Context, contentID int64, at time.Time, delay time.Duration) error
}

type ContentService interface {
	Create(ctx context.Context, userID int64, req *transfer.ContentRequest) (*models.ScheduledContent, error)
	Update(ctx context.Context, userID, contentID int64, req *transfer.ContentRequest) (*models.ScheduledContent, error)
	Get(ctx context.Context, userID, contentID int64) (*models.ScheduledContent, error)
	List(ctx context.Context, userID int64) ([]*models.ScheduledContent, error)
	Remove(ctx context.Context, userID, contentID int64) error
	MarkReady(ctx context.Context, contentID int64, scheduleDate time.Time) (bool, error)
	SweepOverdue(ctx context.Context) (int64, error)
}

type contentService struct {
	cr          repository.ContentRepository
	due         DueScheduler
	transitions StatusTransitions
	now         func() time.Time
}

func NewContentService(cr repository.ContentRepository, due DueScheduler, transitions StatusTransitions) ContentService {
	if transitions == nil {
		transitions = DefaultTransitions
	}
	return &contentService{
		cr:          cr,
		due:         due,
		transitions: transitions,
		now:         time.Now,
	}
}

func (s *contentService) Create(ctx context.Context, userID int64, req *transfer.ContentRequest) (*models.ScheduledContent, error) {
	if userID == 0 {
		slog.Info(ErrInvalidUser.Error())
		return nil, ErrInvalidUser
	}

	content, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	content.UserID = userID

	if content.Status == "" {
		content.Status = models.ContentStatusDraft
		if content.ScheduleDate != nil {
			content.Status = models.ContentStatusScheduled
		}
	}
	if content.Status == models.ContentStatusScheduled && content.ScheduleDate == nil {
		slog.Info(ErrScheduleRequired.Error())
		return nil, ErrScheduleRequired
	}

	id, err := s.cr.Create(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("error creating content: %w", err)
	}

	created, err := s.cr.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading created content %d: %w", id, err)
	}
	if created == nil {
		return nil, fmt.Errorf("error loading created content %d: %w", id, ErrContentNotFound)
	}

	s.scheduleDue(ctx, created)
	return created, nil
}

func (s *contentService) Update(ctx context.Context, userID, contentID int64, req *transfer.ContentRequest) (*models.ScheduledContent, error) {
	existing, err := s.Get(ctx, userID, contentID)
	if err != nil {
		return nil, err
	}

	content, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	content.ID = existing.ID
	content.UserID = existing.UserID
	content.CreatedAt = existing.CreatedAt

	if content.Status == "" {
		content.Status = existing.Status
		if existing.Status == models.ContentStatusDraft && content.ScheduleDate != nil {
			content.Status = models.ContentStatusScheduled
		}
	}
	if !s.transitions.Allows(existing.Status, content.Status) {
		err = fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, content.Status)
		slog.Info(err.Error())
		return nil, err
	}
	if content.Status == models.ContentStatusScheduled && content.ScheduleDate == nil {
		slog.Info(ErrScheduleRequired.Error())
		return nil, ErrScheduleRequired
	}

	if err := s.cr.Update(ctx, content); err != nil {
		return nil, fmt.Errorf("error updating content %d: %w", contentID, err)
	}

	updated, err := s.cr.GetByID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("error loading updated content %d: %w", contentID, err)
	}
	if updated == nil {
		return nil, fmt.Errorf("error loading updated content %d: %w", contentID, ErrContentNotFound)
	}

	s.scheduleDue(ctx, updated)
	return updated, nil
}

func (s *contentService) Get(ctx context.Context, userID, contentID int64) (*models.ScheduledContent, error) {
	if userID == 0 {
		slog.Info(ErrInvalidUser.Error())
		return nil, ErrInvalidUser
	}

	if contentID == 0 {
		slog.Info(ErrContentNotFound.Error())
		return nil, ErrContentNotFound
	}

	isValid, err := s.cr.CheckByUserID(ctx, contentID, userID)
	if err != nil {
		return nil, err
	}

	if !isValid {
		slog.Info(ErrContentNotFound.Error(), "content_id", contentID)
		return nil, ErrContentNotFound
	}

	content, err := s.cr.GetByID(ctx, contentID)
	if err != nil {
		return nil, fmt.Errorf("error getting content info: %w", err)
	}
	if content == nil {
		return nil, ErrContentNotFound
	}

	return content, nil
}

func (s *contentService) List(ctx context.Context, userID int64) ([]*models.ScheduledContent, error) {
	if userID == 0 {
		slog.Info(ErrInvalidUser.Error())
		return nil, ErrInvalidUser
	}

	contents, err := s.cr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting content: %w", err)
	}
	return contents, nil
}

func (s *contentService) Remove(ctx context.Context, userID, contentID int64) error {
	if _, err := s.Get(ctx, userID, contentID); err != nil {
		return err
	}

	if err := s.cr.Remove(ctx, contentID); err != nil {
		return fmt.Errorf("error removing content: %w", err)
	}

	return nil
}

// MarkReady reports false when the content was edited, rescheduled or
// removed after the due task was queued.
func (s *contentService) MarkReady(ctx context.Context, contentID int64, scheduleDate time.Time) (bool, error) {
	ok, err := s.cr.MarkReady(ctx, contentID, scheduleDate)
	if err != nil {
		return false, fmt.Errorf("error marking content %d ready: %w", contentID, err)
	}
	if !ok {
		slog.Info("content no longer due, skipping", "content_id", contentID)
	}
	return ok, nil
}

func (s *contentService) SweepOverdue(ctx context.Context) (int64, error) {
	n, err := s.cr.MarkOverdue(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("error sweeping overdue content: %w", err)
	}
	return n, nil
}

func (s *contentService) fromRequest(req *transfer.ContentRequest) (*models.ScheduledContent, error) {
	if req == nil {
		err := fmt.Errorf("%w: content data is nil", ErrInvalidContent)
		slog.Error(err.Error())
		return nil, err
	}

	platforms, err := models.ParsePlatforms(req.Platforms)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("%w: %w", ErrInvalidContent, err)
	}

	content := &models.ScheduledContent{
		Title:     req.Title,
		Body:      req.Body,
		Platforms: platforms,
		MediaURLs: []string{},
	}
	if req.ScheduleDate != nil {
		when := req.ScheduleDate.UTC()
		content.ScheduleDate = &when
	}
	if req.MediaURL != "" {
		content.MediaURLs = append(content.MediaURLs, req.MediaURL)
	}
	if req.Status != "" {
		status, err := models.ParseContentStatus(req.Status)
		if err != nil {
			slog.Info(err.Error())
			return nil, fmt.Errorf("%w: %w", ErrInvalidContent, err)
		}
		content.Status = status
	}

	return content, nil
}

func (s *contentService) scheduleDue(ctx context.Context, content *models.ScheduledContent) {
	if s.due == nil || content.Status != models.ContentStatusScheduled || content.ScheduleDate == nil {
		return
	}

	delay := content.ScheduleDate.Sub(s.now())
	if delay < 0 {
		delay = 0
	}

	if err := s.due.ScheduleDue(ctx, content.ID, *content.ScheduleDate, delay); err != nil {
		// the overdue sweep still picks the item up
		slog.Error("error scheduling content", "content_id", content.ID, "error", err)
	}
}
