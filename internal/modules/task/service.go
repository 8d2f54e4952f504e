package task

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"customscrm/internal/access"
	"customscrm/internal/domain"
	"customscrm/internal/repository"
)

type Service struct {
	tasks        TaskRepository
	users        UserRepository
	partnerships PartnershipChecker
	notifs       Notifier
	log          *slog.Logger
}

func NewService(tasks TaskRepository, users UserRepository, partnerships PartnershipChecker, notifs Notifier, log *slog.Logger) *Service {
	return &Service{tasks: tasks, users: users, partnerships: partnerships, notifs: notifs, log: log}
}

func (s *Service) Create(ctx context.Context, p access.Principal, req CreateTaskRequest) (*domain.Task, error) {
	priority := domain.TaskPriority(req.Priority)
	if !priority.Valid() {
		return nil, ErrValidation
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrValidation
	}

	target, err := s.users.GetByID(ctx, req.TargetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrValidation
		}
		return nil, err
	}
	if target.CompanyID == nil || target.IsBlocked {
		return nil, ErrValidation
	}

	// cross-company tasks need an active partnership at creation time; the
	// partnership is not re-checked afterwards, a later removal leaves
	// existing tasks alive
	if *target.CompanyID != p.CompanyID {
		active, err := s.partnerships.ActiveExists(ctx, p.CompanyID, *target.CompanyID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, ErrForbidden
		}
	}

	t := &domain.Task{
		CreatorCompanyID: p.CompanyID,
		CreatorUserID:    p.UserID,
		TargetCompanyID:  *target.CompanyID,
		TargetUserID:     target.ID,
		Title:            strings.TrimSpace(req.Title),
		Note:             req.Note,
		Priority:         priority,
		Status:           domain.TaskNew,
		Deadline:         req.Deadline,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}

	s.appendHistory(ctx, t.ID, p.UserID, "created", "", string(domain.TaskNew), "")
	s.notifs.Notify(ctx, t.TargetUserID, domain.NotifyTaskCreated,
		"New task", t.Title, map[string]any{"task_id": t.ID})

	return t, nil
}

func (s *Service) List(ctx context.Context, p access.Principal, req ListRequest) ([]domain.Task, error) {
	f := repository.TaskFilter{
		ViewerCompanyID: p.CompanyID,
		UserID:          req.UserID,
		Priority:        req.Priority,
		Status:          req.Status,
		TargetCompanyID: req.TargetCompanyID,
		DateFrom:        req.DateFrom,
		DateTo:          req.DateTo,
		Skip:            req.Skip,
		Limit:           req.Limit,
	}
	if req.MyOnly {
		uid := p.UserID
		f.UserID = &uid
	}
	return s.tasks.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, p access.Principal, id int64) (*TaskDetails, error) {
	t, err := s.visibleTask(ctx, p, id)
	if err != nil {
		return nil, err
	}
	history, err := s.tasks.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TaskDetails{Task: *t, History: history}, nil
}

func (s *Service) Update(ctx context.Context, p access.Principal, id int64, req UpdateTaskRequest) (*domain.Task, error) {
	t, err := s.visibleTask(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(p, access.ActionWrite, t); err != nil {
		return nil, ErrForbidden
	}
	if t.Status.Terminal() {
		return nil, ErrConflict
	}

	// validate the whole request before touching the row; history rows are
	// written only after the update has landed
	updates := map[string]any{}
	type change struct{ field, oldV, newV string }
	var changes []change

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrValidation
		}
		updates["title"] = title
		changes = append(changes, change{"title", t.Title, title})
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		if !priority.Valid() {
			return nil, ErrValidation
		}
		updates["priority"] = string(priority)
		changes = append(changes, change{"priority", string(t.Priority), string(priority)})
	}
	if req.Deadline != nil {
		updates["deadline"] = *req.Deadline
		changes = append(changes, change{"deadline",
			t.Deadline.Format(time.RFC3339), req.Deadline.Format(time.RFC3339)})
	}
	if len(updates) == 0 {
		return t, nil
	}

	if err := s.tasks.UpdateFields(ctx, id, updates); err != nil {
		return nil, err
	}

	for _, ch := range changes {
		s.appendHistory(ctx, id, p.UserID, ch.field, ch.oldV, ch.newV, "")
	}
	return s.tasks.GetByID(ctx, id)
}

func (s *Service) UpdateStatus(ctx context.Context, p access.Principal, id int64, req UpdateStatusRequest) (*domain.Task, error) {
	t, err := s.visibleTask(ctx, p, id)
	if err != nil {
		return nil, err
	}

	target := domain.TaskStatus(req.Status)
	switch target {
	case domain.TaskNew, domain.TaskInProgress, domain.TaskWaiting, domain.TaskReview,
		domain.TaskCompleted, domain.TaskCancelled, domain.TaskFrozen:
	default:
		return nil, ErrValidation
	}

	// creator-side moves (cancel, freeze, thaw) and executor-side forward
	// progress come through the same endpoint; the actor class decides which
	// transition table applies
	isExecutor := access.Authorize(p, access.ActionExecute, t) == nil
	isCreator := access.Authorize(p, access.ActionWrite, t) == nil
	if !isExecutor && !isCreator {
		return nil, ErrForbidden
	}

	allowed := (isExecutor && domain.TaskTransitionAllowed(t.Status, target, false)) ||
		(isCreator && domain.TaskTransitionAllowed(t.Status, target, true))
	if !allowed {
		return nil, ErrConflict
	}

	applied, err := s.tasks.ApplyTransition(ctx, id, t.Status, target)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrConflict
	}

	s.appendHistory(ctx, id, p.UserID, "status", string(t.Status), string(target), "")

	// status changes notify the other side
	recipient := t.CreatorUserID
	if p.UserID == t.CreatorUserID {
		recipient = t.TargetUserID
	}
	s.notifs.Notify(ctx, recipient, domain.NotifyTaskStatus,
		"Task status changed", string(target), map[string]any{"task_id": id})

	return s.tasks.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, p access.Principal, id int64) error {
	t, err := s.visibleTask(ctx, p, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(p, access.ActionDelete, t); err != nil {
		return ErrForbidden
	}
	return s.tasks.Delete(ctx, id)
}

func (s *Service) visibleTask(ctx context.Context, p access.Principal, id int64) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := access.Authorize(p, access.ActionRead, t); err != nil {
		return nil, ErrNotFound
	}
	return t, nil
}

// appendHistory writes one audit row; a failed write is logged and swallowed.
func (s *Service) appendHistory(ctx context.Context, taskID, userID int64, field, oldV, newV, desc string) {
	err := s.tasks.AppendHistory(ctx, &domain.TaskHistory{
		TaskID:      taskID,
		UserID:      userID,
		Field:       field,
		OldValue:    oldV,
		NewValue:    newV,
		Description: desc,
	})
	if err != nil {
		s.log.Error("task history write failed", "task_id", taskID, "field", field, "error", err)
	}
}
