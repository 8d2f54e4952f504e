package task

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"customscrm/internal/access"
	"customscrm/internal/domain"
	"customscrm/internal/repository"
)

// Mock repositories
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t *domain.Task) error {
	args := m.Called(ctx, t)
	if t != nil {
		t.ID = 333 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, f repository.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskRepository) ApplyTransition(ctx context.Context, id int64, fromStatus, toStatus domain.TaskStatus) (bool, error) {
	args := m.Called(ctx, id, fromStatus, toStatus)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskRepository) UpdateFields(ctx context.Context, id int64, updates map[string]any) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) AppendHistory(ctx context.Context, h *domain.TaskHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockTaskRepository) ListHistory(ctx context.Context, taskID int64) ([]domain.TaskHistory, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaskHistory), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockPartnershipChecker struct {
	mock.Mock
}

func (m *MockPartnershipChecker) ActiveExists(ctx context.Context, companyA, companyB int64) (bool, error) {
	args := m.Called(ctx, companyA, companyB)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID int64, typ, title, message string, data map[string]any) {
	m.Called(ctx, userID, typ, title, message, data)
}

func newTestService() (*Service, *MockTaskRepository, *MockUserRepository, *MockPartnershipChecker, *MockNotifier) {
	tasks := new(MockTaskRepository)
	users := new(MockUserRepository)
	partners := new(MockPartnershipChecker)
	notifs := new(MockNotifier)
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(tasks, users, partners, notifs, log), tasks, users, partners, notifs
}

func creatorPrincipal() access.Principal {
	return access.Principal{UserID: 10, CompanyID: 1, Role: domain.RoleEmployee, ActivityType: domain.ActivityDeclarant}
}

func executorPrincipal() access.Principal {
	return access.Principal{UserID: 20, CompanyID: 2, Role: domain.RoleEmployee, ActivityType: domain.ActivityCertifier}
}

func crossCompanyTask(status domain.TaskStatus) *domain.Task {
	return &domain.Task{
		ID:               333,
		CreatorCompanyID: 1,
		CreatorUserID:    10,
		TargetCompanyID:  2,
		TargetUserID:     20,
		Title:            "Prepare documents",
		Priority:         domain.PriorityNormal,
		Status:           status,
	}
}

func TestService_Create_CrossCompanyNeedsPartnership(t *testing.T) {
	svc, _, users, partners, _ := newTestService()
	companyB := int64(2)
	users.On("GetByID", mock.Anything, int64(20)).
		Return(&domain.User{ID: 20, CompanyID: &companyB}, nil)
	partners.On("ActiveExists", mock.Anything, int64(1), int64(2)).Return(false, nil)

	_, err := svc.Create(context.Background(), creatorPrincipal(), CreateTaskRequest{
		TargetUserID: 20,
		Title:        "Prepare documents",
		Priority:     string(domain.PriorityNormal),
		Deadline:     time.Now().Add(24 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Create_Success(t *testing.T) {
	svc, tasks, users, partners, notifs := newTestService()
	companyB := int64(2)
	users.On("GetByID", mock.Anything, int64(20)).
		Return(&domain.User{ID: 20, CompanyID: &companyB}, nil)
	partners.On("ActiveExists", mock.Anything, int64(1), int64(2)).Return(true, nil)
	tasks.On("Create", mock.Anything, mock.Anything).Return(nil)
	tasks.On("AppendHistory", mock.Anything, mock.Anything).Return(nil)
	notifs.On("Notify", mock.Anything, int64(20), domain.NotifyTaskCreated,
		mock.Anything, mock.Anything, mock.Anything).Return()

	created, err := svc.Create(context.Background(), creatorPrincipal(), CreateTaskRequest{
		TargetUserID: 20,
		Title:        "Prepare documents",
		Priority:     string(domain.PriorityHigh),
		Deadline:     time.Now().Add(24 * time.Hour),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.TaskNew, created.Status)
	assert.Equal(t, int64(2), created.TargetCompanyID)
	notifs.AssertExpectations(t)
}

func TestService_Create_SameCompanySkipsPartnershipCheck(t *testing.T) {
	svc, tasks, users, partners, notifs := newTestService()
	companyA := int64(1)
	users.On("GetByID", mock.Anything, int64(11)).
		Return(&domain.User{ID: 11, CompanyID: &companyA}, nil)
	tasks.On("Create", mock.Anything, mock.Anything).Return(nil)
	tasks.On("AppendHistory", mock.Anything, mock.Anything).Return(nil)
	notifs.On("Notify", mock.Anything, int64(11), domain.NotifyTaskCreated,
		mock.Anything, mock.Anything, mock.Anything).Return()

	_, err := svc.Create(context.Background(), creatorPrincipal(), CreateTaskRequest{
		TargetUserID: 11,
		Title:        "Internal check",
		Priority:     string(domain.PriorityNormal),
		Deadline:     time.Now(),
	})

	assert.NoError(t, err)
	partners.AssertNotCalled(t, "ActiveExists", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Create_InvalidPriority(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.Create(context.Background(), creatorPrincipal(), CreateTaskRequest{
		TargetUserID: 20,
		Title:        "x",
		Priority:     "asap",
		Deadline:     time.Now(),
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_UpdateStatus_ExecutorForwardProgress(t *testing.T) {
	svc, tasks, _, _, notifs := newTestService()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskNew), nil).Once()
	tasks.On("ApplyTransition", mock.Anything, int64(333), domain.TaskNew, domain.TaskInProgress).Return(true, nil)
	tasks.On("AppendHistory", mock.Anything, mock.Anything).Return(nil)
	notifs.On("Notify", mock.Anything, int64(10), domain.NotifyTaskStatus,
		mock.Anything, mock.Anything, mock.Anything).Return()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskInProgress), nil)

	updated, err := svc.UpdateStatus(context.Background(), executorPrincipal(), 333, UpdateStatusRequest{
		Status: string(domain.TaskInProgress),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, updated.Status)
}

func TestService_UpdateStatus_ExecutorCannotCancel(t *testing.T) {
	svc, tasks, _, _, _ := newTestService()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskInProgress), nil)

	_, err := svc.UpdateStatus(context.Background(), executorPrincipal(), 333, UpdateStatusRequest{
		Status: string(domain.TaskCancelled),
	})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_UpdateStatus_CreatorCancels(t *testing.T) {
	svc, tasks, _, _, notifs := newTestService()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskInProgress), nil).Once()
	tasks.On("ApplyTransition", mock.Anything, int64(333), domain.TaskInProgress, domain.TaskCancelled).Return(true, nil)
	tasks.On("AppendHistory", mock.Anything, mock.Anything).Return(nil)
	notifs.On("Notify", mock.Anything, int64(20), domain.NotifyTaskStatus,
		mock.Anything, mock.Anything, mock.Anything).Return()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskCancelled), nil)

	_, err := svc.UpdateStatus(context.Background(), creatorPrincipal(), 333, UpdateStatusRequest{
		Status: string(domain.TaskCancelled),
	})

	assert.NoError(t, err)
}

func TestService_UpdateStatus_CreatorCannotCompleteDirectly(t *testing.T) {
	svc, tasks, _, _, _ := newTestService()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskReview), nil)

	_, err := svc.UpdateStatus(context.Background(), creatorPrincipal(), 333, UpdateStatusRequest{
		Status: string(domain.TaskCompleted),
	})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_UpdateStatus_BystanderIsForbidden(t *testing.T) {
	svc, tasks, _, _, _ := newTestService()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskNew), nil)

	// same target company but not the assigned executor
	bystander := access.Principal{UserID: 21, CompanyID: 2, Role: domain.RoleEmployee, ActivityType: domain.ActivityCertifier}
	_, err := svc.UpdateStatus(context.Background(), bystander, 333, UpdateStatusRequest{
		Status: string(domain.TaskInProgress),
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_UpdateStatus_TerminalIsImmutable(t *testing.T) {
	svc, tasks, _, _, _ := newTestService()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskCancelled), nil)

	_, err := svc.UpdateStatus(context.Background(), creatorPrincipal(), 333, UpdateStatusRequest{
		Status: string(domain.TaskInProgress),
	})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_UpdateStatus_RaceLoserGetsConflict(t *testing.T) {
	svc, tasks, _, _, _ := newTestService()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskNew), nil)
	tasks.On("ApplyTransition", mock.Anything, int64(333), domain.TaskNew, domain.TaskInProgress).Return(false, nil)

	_, err := svc.UpdateStatus(context.Background(), executorPrincipal(), 333, UpdateStatusRequest{
		Status: string(domain.TaskInProgress),
	})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_Update_TerminalIsImmutable(t *testing.T) {
	svc, tasks, _, _, _ := newTestService()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskCompleted), nil)

	title := "renamed"
	_, err := svc.Update(context.Background(), creatorPrincipal(), 333, UpdateTaskRequest{Title: &title})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_Update_RejectedRequestWritesNoHistory(t *testing.T) {
	svc, tasks, _, _, _ := newTestService()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskInProgress), nil)

	// the title is fine but the priority is not; nothing may be persisted
	title := "renamed"
	bad := "asap"
	_, err := svc.Update(context.Background(), creatorPrincipal(), 333, UpdateTaskRequest{
		Title:    &title,
		Priority: &bad,
	})

	assert.ErrorIs(t, err, ErrValidation)
	tasks.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	tasks.AssertNotCalled(t, "AppendHistory", mock.Anything, mock.Anything)
}

func TestService_Update_HistoryFollowsSuccessfulWrite(t *testing.T) {
	svc, tasks, _, _, _ := newTestService()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskInProgress), nil)
	tasks.On("UpdateFields", mock.Anything, int64(333), mock.Anything).Return(nil)
	tasks.On("AppendHistory", mock.Anything, mock.MatchedBy(func(h *domain.TaskHistory) bool {
		return h.Field == "title" && h.OldValue == "Prepare documents" && h.NewValue == "renamed"
	})).Return(nil)

	title := "renamed"
	_, err := svc.Update(context.Background(), creatorPrincipal(), 333, UpdateTaskRequest{Title: &title})

	assert.NoError(t, err)
	tasks.AssertExpectations(t)
}

func TestService_Update_ExecutorCannotEdit(t *testing.T) {
	svc, tasks, _, _, _ := newTestService()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskInProgress), nil)

	title := "renamed"
	_, err := svc.Update(context.Background(), executorPrincipal(), 333, UpdateTaskRequest{Title: &title})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Get_OutsiderMaskedAsNotFound(t *testing.T) {
	svc, tasks, _, _, _ := newTestService()
	tasks.On("GetByID", mock.Anything, int64(333)).Return(crossCompanyTask(domain.TaskNew), nil)

	outsider := access.Principal{UserID: 99, CompanyID: 9, Role: domain.RoleDirector, ActivityType: domain.ActivityDeclarant}
	_, err := svc.Get(context.Background(), outsider, 333)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Get_MissingRow(t *testing.T) {
	svc, tasks, _, _, _ := newTestService()
	tasks.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), creatorPrincipal(), 404)

	assert.ErrorIs(t, err, ErrNotFound)
}
