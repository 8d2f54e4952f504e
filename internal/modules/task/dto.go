package task

import (
	"time"

	"customscrm/internal/domain"
)

type CreateTaskRequest struct {
	TargetUserID int64     `json:"target_user_id" binding:"required"`
	Title        string    `json:"title" binding:"required"`
	Note         string    `json:"note"`
	Priority     string    `json:"priority" binding:"required"`
	Deadline     time.Time `json:"deadline" binding:"required"`
}

type UpdateTaskRequest struct {
	Title    *string    `json:"title"`
	Note     *string    `json:"note"`
	Priority *string    `json:"priority"`
	Deadline *time.Time `json:"deadline"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListRequest struct {
	MyOnly          bool       `form:"my_only"`
	UserID          *int64     `form:"user_id"`
	Priority        *string    `form:"priority"`
	Status          *string    `form:"status"`
	TargetCompanyID *int64     `form:"target_company_id"`
	DateFrom        *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo          *time.Time `form:"date_to" time_format:"2006-01-02"`
	Skip            int        `form:"skip"`
	Limit           int        `form:"limit"`
}

type TaskDetails struct {
	domain.Task
	History []domain.TaskHistory `json:"history"`
}
