package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer schedules content:due tasks on asynq.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

func NewContentDueTask(payload ContentDuePayload) (*asynq.Task, error) {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeContentDue, taskPayload), nil
}

// ScheduleDue enqueues one task per (content, schedule date); rescheduling
// enqueues a new task and the stale one becomes a no-op.
func (e *Enqueuer) ScheduleDue(ctx context.Context, contentID int64, at time.Time, delay time.Duration) error {
	payload := ContentDuePayload{ContentID: contentID, ScheduleDate: at}
	task, err := NewContentDueTask(payload)
	if err != nil {
		return err
	}

	taskID := fmt.Sprintf("content:%d:%d", contentID, at.Unix())
	_, err = e.client.EnqueueContext(ctx, task,
		asynq.ProcessIn(delay),
		asynq.TaskID(taskID),
		asynq.MaxRetry(3),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("Task scheduled: %+v", payload)
	return nil
}
