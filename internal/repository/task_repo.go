package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"customscrm/internal/domain"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

type taskModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	CreatorCompanyID int64     `gorm:"column:creator_company_id"`
	CreatorUserID    int64     `gorm:"column:creator_user_id"`
	TargetCompanyID  int64     `gorm:"column:target_company_id"`
	TargetUserID     int64     `gorm:"column:target_user_id"`
	Title            string    `gorm:"column:title"`
	Note             *string   `gorm:"column:note"`
	Priority         string    `gorm:"column:priority"`
	Status           string    `gorm:"column:status"`
	Deadline         time.Time `gorm:"column:deadline"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (taskModel) TableName() string { return "tasks" }

func toDomainTask(m taskModel) *domain.Task {
	var note string
	if m.Note != nil {
		note = *m.Note
	}
	return &domain.Task{
		ID:               m.ID,
		CreatorCompanyID: m.CreatorCompanyID,
		CreatorUserID:    m.CreatorUserID,
		TargetCompanyID:  m.TargetCompanyID,
		TargetUserID:     m.TargetUserID,
		Title:            m.Title,
		Note:             note,
		Priority:         domain.TaskPriority(m.Priority),
		Status:           domain.TaskStatus(m.Status),
		Deadline:         m.Deadline,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toTaskModel(t *domain.Task) taskModel {
	var note *string
	if t.Note != "" {
		v := t.Note
		note = &v
	}
	return taskModel{
		ID:               t.ID,
		CreatorCompanyID: t.CreatorCompanyID,
		CreatorUserID:    t.CreatorUserID,
		TargetCompanyID:  t.TargetCompanyID,
		TargetUserID:     t.TargetUserID,
		Title:            t.Title,
		Note:             note,
		Priority:         string(t.Priority),
		Status:           string(t.Status),
		Deadline:         t.Deadline,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	m := toTaskModel(t)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*t = *toDomainTask(m)
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var m taskModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainTask(m), nil
}

type TaskFilter struct {
	ViewerCompanyID int64
	UserID          *int64
	Priority        *string
	Status          *string
	TargetCompanyID *int64
	DateFrom        *time.Time
	DateTo          *time.Time
	Skip            int
	Limit           int
}

func (r *TaskRepository) List(ctx context.Context, f TaskFilter) ([]domain.Task, error) {
	q := r.db.WithContext(ctx).Model(&taskModel{}).
		Where("creator_company_id = ? OR target_company_id = ?", f.ViewerCompanyID, f.ViewerCompanyID)

	if f.UserID != nil {
		q = q.Where("creator_user_id = ? OR target_user_id = ?", *f.UserID, *f.UserID)
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", *f.Priority)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.TargetCompanyID != nil {
		q = q.Where("target_company_id = ?", *f.TargetCompanyID)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at <= ?", *f.DateTo)
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var rows []taskModel
	if err := q.Order("created_at DESC").Offset(f.Skip).Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Task, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainTask(m))
	}
	return out, nil
}

// ApplyTransition is the optimistic status write: it lands only if the row
// still carries fromStatus.
func (r *TaskRepository) ApplyTransition(ctx context.Context, id int64, fromStatus, toStatus domain.TaskStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&taskModel{}).
		Where("id = ? AND status = ?", id, string(fromStatus)).
		Update("status", string(toStatus))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *TaskRepository) UpdateFields(ctx context.Context, id int64, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&taskModel{}).Where("id = ?", id).Updates(updates).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&domain.TaskHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&taskModel{}, id).Error
	})
}

func (r *TaskRepository) AppendHistory(ctx context.Context, h *domain.TaskHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *TaskRepository) ListHistory(ctx context.Context, taskID int64) ([]domain.TaskHistory, error) {
	var out []domain.TaskHistory
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
