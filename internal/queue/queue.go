package queue

import (
	"time"

	"github.com/maheshrc27/contentflow/internal/metrics"
	"github.com/maheshrc27/contentflow/internal/service"
)

type Queue struct {
	cs service.ContentService
	m  *metrics.Metrics
}

func NewQueue(cs service.ContentService, m *metrics.Metrics) *Queue {
	return &Queue{
		cs: cs,
		m:  m,
	}
}

const TaskTypeContentDue = "content:due"

type ContentDuePayload struct {
	ContentID    int64     `json:"content_id"`
	ScheduleDate time.Time `json:"schedule_date"`
}
