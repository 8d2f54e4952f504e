package domain

import "time"

type TaskStatus string

const (
	TaskNew        TaskStatus = "new"
	TaskInProgress TaskStatus = "in_progress"
	TaskWaiting    TaskStatus = "waiting"
	TaskReview     TaskStatus = "review"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
	TaskFrozen     TaskStatus = "frozen"
)

func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskCancelled
}

// taskExecutorTransitions is forward progress driven by the assigned
// executor (target_user_id).
var taskExecutorTransitions = map[TaskStatus][]TaskStatus{
	TaskNew:        {TaskInProgress},
	TaskInProgress: {TaskWaiting, TaskReview},
	TaskWaiting:    {TaskInProgress},
	TaskReview:     {TaskCompleted},
}

// taskCreatorTransitions is what the creator (or a director of the creating
// company) may do: cancel or freeze any non-terminal task, and thaw a frozen
// one.
var taskCreatorTransitions = map[TaskStatus][]TaskStatus{
	TaskNew:        {TaskCancelled, TaskFrozen},
	TaskInProgress: {TaskCancelled, TaskFrozen},
	TaskWaiting:    {TaskCancelled, TaskFrozen},
	TaskReview:     {TaskCancelled, TaskFrozen},
	TaskFrozen:     {TaskCancelled, TaskInProgress},
}

// TaskTransitionAllowed checks the transition table for one actor class.
func TaskTransitionAllowed(from, to TaskStatus, asCreator bool) bool {
	table := taskExecutorTransitions
	if asCreator {
		table = taskCreatorTransitions
	}
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

type TaskPriority string

const (
	PriorityUrgent TaskPriority = "urgent"
	PriorityHigh   TaskPriority = "high"
	PriorityNormal TaskPriority = "normal"
)

func (p TaskPriority) Valid() bool {
	return p == PriorityUrgent || p == PriorityHigh || p == PriorityNormal
}

// Task is a cross-company work item. The target company must be an active
// partner at creation time; a later partnership removal does not invalidate
// the task (grandfathering is deliberate, see the partnership module).
type Task struct {
	ID               int64        `json:"id" gorm:"primaryKey"`
	CreatorCompanyID int64        `json:"creator_company_id" gorm:"index;not null"`
	CreatorUserID    int64        `json:"creator_user_id" gorm:"index;not null"`
	TargetCompanyID  int64        `json:"target_company_id" gorm:"index;not null"`
	TargetUserID     int64        `json:"target_user_id" gorm:"index;not null"`
	Title            string       `json:"title" gorm:"not null"`
	Note             string       `json:"note,omitempty" gorm:"type:text"`
	Priority         TaskPriority `json:"priority" gorm:"not null"`
	Status           TaskStatus   `json:"status" gorm:"index;not null"`
	Deadline         time.Time    `json:"deadline"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }

func (t *Task) CrossCompany() bool {
	return t.CreatorCompanyID != t.TargetCompanyID
}

// TaskHistory is the append-only audit trail of a task; the sole source of
// "who did what when" for the entity.
type TaskHistory struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	TaskID      int64     `json:"task_id" gorm:"index;not null"`
	UserID      int64     `json:"user_id" gorm:"not null"`
	Field       string    `json:"field" gorm:"not null"`
	OldValue    string    `json:"old_value,omitempty"`
	NewValue    string    `json:"new_value,omitempty"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (TaskHistory) TableName() string { return "task_history" }
