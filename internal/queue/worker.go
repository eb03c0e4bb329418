package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandleContentDueTask(ctx context.Context, task *asynq.Task) error {
	var payload ContentDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid content:due payload: %v: %w", err, asynq.SkipRetry)
	}

	ok, err := q.cs.MarkReady(ctx, payload.ContentID, payload.ScheduleDate)
	if err != nil {
		return err
	}
	if ok {
		q.m.ObserveContentReady("queue", 1)
	}
	return nil
}
