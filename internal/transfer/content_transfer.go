package transfer

import "time"

// ContentRequest is the body of POST /api/content and PUT /api/content/:id.
type ContentRequest struct {
	Title        string     `json:"title" validate:"required,max=280"`
	Body         string     `json:"body" validate:"required"`
	Platforms    []string   `json:"platform" validate:"required,min=1,dive,platform"`
	ScheduleDate *time.Time `json:"scheduleDate,omitempty"`
	MediaURL     string     `json:"mediaUrl,omitempty" validate:"omitempty,url"`
	Status       string     `json:"status,omitempty" validate:"omitempty,oneof=draft scheduled ready needs-review published"`
}
