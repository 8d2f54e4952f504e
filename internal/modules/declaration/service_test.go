package declaration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"customscrm/internal/access"
	"customscrm/internal/domain"
	"customscrm/internal/repository"
)

type MockDeclarationRepository struct {
	mock.Mock
}

func (m *MockDeclarationRepository) Create(ctx context.Context, d *domain.Declaration) error {
	args := m.Called(ctx, d)
	if d != nil {
		d.ID = 500 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockDeclarationRepository) GetByID(ctx context.Context, id int64) (*domain.Declaration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Declaration), args.Error(1)
}

func (m *MockDeclarationRepository) List(ctx context.Context, f repository.DeclarationFilter) ([]domain.Declaration, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Declaration), args.Error(1)
}

func (m *MockDeclarationRepository) Update(ctx context.Context, d *domain.Declaration) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeclarationRepository) UpdateFields(ctx context.Context, id int64, updates map[string]any) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockDeclarationRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDeclarationRepository) CountCertificateLinks(ctx context.Context, declarationID int64) (int64, error) {
	args := m.Called(ctx, declarationID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDeclarationRepository) CreateGroup(ctx context.Context, g *domain.DeclarationGroup) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockDeclarationRepository) GetGroup(ctx context.Context, id int64) (*domain.DeclarationGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeclarationGroup), args.Error(1)
}

func (m *MockDeclarationRepository) ListGroups(ctx context.Context, companyID int64) ([]domain.DeclarationGroup, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DeclarationGroup), args.Error(1)
}

func (m *MockDeclarationRepository) DeleteGroup(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
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

func newTestService() (*Service, *MockDeclarationRepository, *MockClientRepository, *MockUserRepository) {
	declarations := new(MockDeclarationRepository)
	clients := new(MockClientRepository)
	users := new(MockUserRepository)
	return NewService(declarations, clients, users), declarations, clients, users
}

func declarant() access.Principal {
	return access.Principal{UserID: 10, CompanyID: 1, Role: domain.RoleEmployee, ActivityType: domain.ActivityDeclarant}
}

func TestService_Create_Success(t *testing.T) {
	svc, declarations, clients, _ := newTestService()
	clients.On("GetByID", mock.Anything, int64(3)).
		Return(&domain.Client{ID: 3, CompanyID: 1, CreatedByID: 10, AccessType: domain.ClientPublic}, nil)
	declarations.On("Create", mock.Anything, mock.Anything).Return(nil)

	d, err := svc.Create(context.Background(), declarant(), CreateDeclarationRequest{
		ClientID:          3,
		PostNumber:        "55301",
		DeclarationNumber: "0012345",
		SendDate:          time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.Equal(t, "55301/0012345/2026", d.DisplayNumber)
}

func TestService_Create_CertifierForbidden(t *testing.T) {
	svc, _, _, _ := newTestService()
	certifier := access.Principal{UserID: 20, CompanyID: 2, Role: domain.RoleEmployee, ActivityType: domain.ActivityCertifier}

	_, err := svc.Create(context.Background(), certifier, CreateDeclarationRequest{
		ClientID:          3,
		PostNumber:        "55301",
		DeclarationNumber: "0012345",
		SendDate:          time.Now(),
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Create_ForeignGroupMasked(t *testing.T) {
	svc, declarations, clients, _ := newTestService()
	clients.On("GetByID", mock.Anything, int64(3)).
		Return(&domain.Client{ID: 3, CompanyID: 1, CreatedByID: 10, AccessType: domain.ClientPublic}, nil)
	declarations.On("GetGroup", mock.Anything, int64(7)).
		Return(&domain.DeclarationGroup{ID: 7, CompanyID: 9}, nil)

	groupID := int64(7)
	_, err := svc.Create(context.Background(), declarant(), CreateDeclarationRequest{
		ClientID:          3,
		PostNumber:        "55301",
		DeclarationNumber: "0012345",
		SendDate:          time.Now(),
		GroupID:           &groupID,
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Redirect_TargetMustBeSameCompany(t *testing.T) {
	svc, declarations, _, users := newTestService()
	declarations.On("GetByID", mock.Anything, int64(500)).
		Return(&domain.Declaration{ID: 500, CompanyID: 1, UserID: 10}, nil)
	otherCompany := int64(2)
	users.On("GetByID", mock.Anything, int64(30)).
		Return(&domain.User{ID: 30, CompanyID: &otherCompany}, nil)

	_, err := svc.Redirect(context.Background(), declarant(), 500, 30)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Redirect_Success(t *testing.T) {
	svc, declarations, _, users := newTestService()
	declarations.On("GetByID", mock.Anything, int64(500)).
		Return(&domain.Declaration{ID: 500, CompanyID: 1, UserID: 10}, nil)
	sameCompany := int64(1)
	users.On("GetByID", mock.Anything, int64(11)).
		Return(&domain.User{ID: 11, CompanyID: &sameCompany}, nil)
	declarations.On("UpdateFields", mock.Anything, int64(500), map[string]any{"user_id": int64(11)}).Return(nil)

	d, err := svc.Redirect(context.Background(), declarant(), 500, 11)

	assert.NoError(t, err)
	assert.Equal(t, int64(11), d.UserID)
}

func TestService_Delete_LinkedToCertificateIsConflict(t *testing.T) {
	svc, declarations, _, _ := newTestService()
	declarations.On("GetByID", mock.Anything, int64(500)).
		Return(&domain.Declaration{ID: 500, CompanyID: 1, UserID: 10}, nil)
	declarations.On("CountCertificateLinks", mock.Anything, int64(500)).Return(int64(1), nil)

	err := svc.Delete(context.Background(), declarant(), 500)

	assert.ErrorIs(t, err, ErrConflict)
	declarations.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_Update_NonOwnerForbidden(t *testing.T) {
	svc, declarations, _, _ := newTestService()
	declarations.On("GetByID", mock.Anything, int64(500)).
		Return(&domain.Declaration{ID: 500, CompanyID: 1, UserID: 11}, nil)

	regime := "export"
	_, err := svc.Update(context.Background(), declarant(), 500, UpdateDeclarationRequest{Regime: &regime})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Get_CrossTenantMaskedAsNotFound(t *testing.T) {
	svc, declarations, _, _ := newTestService()
	declarations.On("GetByID", mock.Anything, int64(500)).
		Return(&domain.Declaration{ID: 500, CompanyID: 9, UserID: 90}, nil)

	_, err := svc.Get(context.Background(), declarant(), 500)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Get_MissingRow(t *testing.T) {
	svc, declarations, _, _ := newTestService()
	declarations.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), declarant(), 404)

	assert.ErrorIs(t, err, ErrNotFound)
}
