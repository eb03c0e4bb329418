package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/contentflow/internal/models"
)

type ContentRepository interface {
	Create(ctx context.Context, content *models.ScheduledContent) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledContent, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.ScheduledContent, error)
	CheckByUserID(ctx context.Context, contentID, userID int64) (bool, error)
	Update(ctx context.Context, content *models.ScheduledContent) error
	MarkReady(ctx context.Context, id int64, scheduleDate time.Time) (bool, error)
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	Remove(ctx context.Context, id int64) error
}

type contentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) ContentRepository {
	return &contentRepository{db: db}
}

const contentColumns = `id, user_id, title, body, platforms, schedule_date, status, media_urls, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanContent(row scanner) (*models.ScheduledContent, error) {
	var (
		c            models.ScheduledContent
		platforms    []string
		mediaURLs    []string
		scheduleDate sql.NullTime
		status       string
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Body, pq.Array(&platforms), &scheduleDate,
		&status, pq.Array(&mediaURLs), &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Platforms = make([]models.Platform, 0, len(platforms))
	for _, p := range platforms {
		c.Platforms = append(c.Platforms, models.Platform(p))
	}
	if scheduleDate.Valid {
		t := scheduleDate.Time
		c.ScheduleDate = &t
	}
	c.Status = models.ContentStatus(status)
	c.MediaURLs = mediaURLs
	return &c, nil
}

func platformStrings(platforms []models.Platform) []string {
	out := make([]string, 0, len(platforms))
	for _, p := range platforms {
		out = append(out, string(p))
	}
	return out
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (r *contentRepository) Create(ctx context.Context, content *models.ScheduledContent) (int64, error) {
	query := `
		INSERT INTO scheduled_content (user_id, title, body, platforms, schedule_date, status, media_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		content.UserID,
		content.Title,
		content.Body,
		pq.Array(platformStrings(content.Platforms)),
		nullableTime(content.ScheduleDate),
		string(content.Status),
		pq.Array(content.MediaURLs),
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *contentRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledContent, error) {
	query := `SELECT ` + contentColumns + ` FROM scheduled_content WHERE id = $1`

	content, err := scanContent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return content, nil
}

func (r *contentRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.ScheduledContent, error) {
	query := `SELECT ` + contentColumns + ` FROM scheduled_content WHERE user_id = $1 ORDER BY schedule_date NULLS LAST, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	contents := []*models.ScheduledContent{}
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		contents = append(contents, content)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return contents, nil
}

func (r *contentRepository) CheckByUserID(ctx context.Context, contentID, userID int64) (bool, error) {
	query := "SELECT 1 FROM scheduled_content WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, contentID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *contentRepository) Update(ctx context.Context, content *models.ScheduledContent) error {
	query := `
		UPDATE scheduled_content
		SET title = $1,
			body = $2,
			platforms = $3,
			schedule_date = $4,
			status = $5,
			media_urls = $6,
			updated_at = $7
		WHERE id = $8
	`
	_, err := r.db.ExecContext(ctx, query,
		content.Title,
		content.Body,
		pq.Array(platformStrings(content.Platforms)),
		nullableTime(content.ScheduleDate),
		string(content.Status),
		pq.Array(content.MediaURLs),
		time.Now(),
		content.ID,
	)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

// MarkReady moves a scheduled item to ready, but only while it still carries
// the schedule date the caller observed.
func (r *contentRepository) MarkReady(ctx context.Context, id int64, scheduleDate time.Time) (bool, error) {
	query := `
		UPDATE scheduled_content
		SET status = $1,
			updated_at = $2
		WHERE id = $3 AND status = $4 AND schedule_date = $5
	`
	result, err := r.db.ExecContext(ctx, query, string(models.ContentStatusReady), time.Now(), id,
		string(models.ContentStatusScheduled), scheduleDate)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

func (r *contentRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE scheduled_content
		SET status = $1,
			updated_at = $2
		WHERE status = $3 AND schedule_date <= $2
	`
	result, err := r.db.ExecContext(ctx, query, string(models.ContentStatusReady), now,
		string(models.ContentStatusScheduled))
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return result.RowsAffected()
}

func (r *contentRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM scheduled_content WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
