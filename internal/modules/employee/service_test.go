package employee

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"customscrm/internal/access"
	"customscrm/internal/domain"
)

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

func (m *MockUserRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.User, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) TransferData(ctx context.Context, companyID, fromUserID, toUserID int64) error {
	args := m.Called(ctx, companyID, fromUserID, toUserID)
	return args.Error(0)
}

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

type MockPartnershipLister struct {
	mock.Mock
}

func (m *MockPartnershipLister) ListActive(ctx context.Context, companyID int64) ([]domain.Partnership, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Partnership), args.Error(1)
}

func newTestService() (*Service, *MockUserRepository, *MockCompanyRepository, *MockPartnershipLister) {
	users := new(MockUserRepository)
	companies := new(MockCompanyRepository)
	partnerships := new(MockPartnershipLister)
	return NewService(users, companies, partnerships), users, companies, partnerships
}

func companyPtr(id int64) *int64 { return &id }

func director() access.Principal {
	return access.Principal{UserID: 1, CompanyID: 1, Role: domain.RoleDirector, ActivityType: domain.ActivityDeclarant}
}

func TestService_List_GroupsOwnAndPartners(t *testing.T) {
	svc, users, companies, partnerships := newTestService()
	companies.On("GetByID", mock.Anything, int64(1)).Return(&domain.Company{ID: 1, Name: "Own"}, nil)
	companies.On("GetByID", mock.Anything, int64(2)).Return(&domain.Company{ID: 2, Name: "Partner"}, nil)
	users.On("ListByCompany", mock.Anything, int64(1)).Return([]domain.User{
		{ID: 1, CompanyID: companyPtr(1)},
		{ID: 2, CompanyID: companyPtr(1), IsBlocked: true},
	}, nil)
	users.On("ListByCompany", mock.Anything, int64(2)).Return([]domain.User{
		{ID: 20, CompanyID: companyPtr(2)},
		{ID: 21, CompanyID: companyPtr(2), IsBlocked: true},
	}, nil)
	partnerships.On("ListActive", mock.Anything, int64(1)).Return([]domain.Partnership{
		{ID: 5, CompanyAID: 1, CompanyBID: 2, Status: domain.PartnershipActive},
	}, nil)

	groups, err := svc.List(context.Background(), director())

	assert.NoError(t, err)
	assert.Len(t, groups, 2)
	assert.True(t, groups[0].IsOwn)
	// own list includes the blocked colleague, partner list hides theirs
	assert.Len(t, groups[0].Employees, 2)
	assert.Len(t, groups[1].Employees, 1)
	assert.Equal(t, int64(20), groups[1].Employees[0].ID)
}

func TestService_UpdateRole_EmployeeForbidden(t *testing.T) {
	svc, users, _, _ := newTestService()
	users.On("GetByID", mock.Anything, int64(2)).
		Return(&domain.User{ID: 2, CompanyID: companyPtr(1), Role: domain.RoleEmployee}, nil)

	employee := access.Principal{UserID: 3, CompanyID: 1, Role: domain.RoleEmployee, ActivityType: domain.ActivityDeclarant}
	_, err := svc.UpdateRole(context.Background(), employee, 2, domain.RoleSenior)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_UpdateRole_SelfDemotionRejected(t *testing.T) {
	svc, users, _, _ := newTestService()
	users.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.User{ID: 1, CompanyID: companyPtr(1), Role: domain.RoleDirector}, nil)

	_, err := svc.UpdateRole(context.Background(), director(), 1, domain.RoleEmployee)

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_SetBlocked_Success(t *testing.T) {
	svc, users, _, _ := newTestService()
	users.On("GetByID", mock.Anything, int64(2)).
		Return(&domain.User{ID: 2, CompanyID: companyPtr(1), Role: domain.RoleEmployee}, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID == 2 && u.IsBlocked
	})).Return(nil)

	u, err := svc.SetBlocked(context.Background(), director(), 2, true)

	assert.NoError(t, err)
	assert.True(t, u.IsBlocked)
}

func TestService_Remove_TransfersData(t *testing.T) {
	svc, users, _, _ := newTestService()
	users.On("GetByID", mock.Anything, int64(2)).
		Return(&domain.User{ID: 2, CompanyID: companyPtr(1), Role: domain.RoleEmployee}, nil)
	users.On("GetByID", mock.Anything, int64(3)).
		Return(&domain.User{ID: 3, CompanyID: companyPtr(1), Role: domain.RoleSenior}, nil)
	users.On("TransferData", mock.Anything, int64(1), int64(2), int64(3)).Return(nil)

	err := svc.Remove(context.Background(), director(), 2, 3)

	assert.NoError(t, err)
	users.AssertCalled(t, "TransferData", mock.Anything, int64(1), int64(2), int64(3))
}

func TestService_Remove_TransferTargetOutsideCompany(t *testing.T) {
	svc, users, _, _ := newTestService()
	users.On("GetByID", mock.Anything, int64(2)).
		Return(&domain.User{ID: 2, CompanyID: companyPtr(1), Role: domain.RoleEmployee}, nil)
	users.On("GetByID", mock.Anything, int64(9)).
		Return(&domain.User{ID: 9, CompanyID: companyPtr(7)}, nil)

	err := svc.Remove(context.Background(), director(), 2, 9)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Remove_SelfRejected(t *testing.T) {
	svc, users, _, _ := newTestService()
	users.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.User{ID: 1, CompanyID: companyPtr(1), Role: domain.RoleDirector}, nil)

	err := svc.Remove(context.Background(), director(), 1, 2)

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_ManageCrossCompanyMaskedAsNotFound(t *testing.T) {
	svc, users, _, _ := newTestService()
	users.On("GetByID", mock.Anything, int64(50)).
		Return(&domain.User{ID: 50, CompanyID: companyPtr(9)}, nil)

	_, err := svc.SetBlocked(context.Background(), director(), 50, true)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Manage_MissingUser(t *testing.T) {
	svc, users, _, _ := newTestService()
	users.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.SetBlocked(context.Background(), director(), 404, true)

	assert.ErrorIs(t, err, ErrNotFound)
}
