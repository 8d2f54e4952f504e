package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"customscrm/internal/access"
	"customscrm/internal/domain"
)

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, c *domain.Client) error {
	args := m.Called(ctx, c)
	if c != nil {
		c.ID = 42 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) ListByCompany(ctx context.Context, companyID int64, skip, limit int) ([]domain.Client, error) {
	args := m.Called(ctx, companyID, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, c *domain.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) CountReferences(ctx context.Context, clientID int64) (int64, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).(int64), args.Error(1)
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

func newTestService() (*Service, *MockClientRepository, *MockUserRepository) {
	clients := new(MockClientRepository)
	users := new(MockUserRepository)
	return NewService(clients, users), clients, users
}

func employee(userID int64) access.Principal {
	return access.Principal{UserID: userID, CompanyID: 1, Role: domain.RoleEmployee, ActivityType: domain.ActivityDeclarant}
}

func TestService_List_PrivateClientsFiltered(t *testing.T) {
	svc, clients, _ := newTestService()
	clients.On("ListByCompany", mock.Anything, int64(1), 0, 0).Return([]domain.Client{
		{ID: 1, CompanyID: 1, CreatedByID: 10, AccessType: domain.ClientPublic},
		{ID: 2, CompanyID: 1, CreatedByID: 10, AccessType: domain.ClientPrivate},
		{ID: 3, CompanyID: 1, CreatedByID: 11, AccessType: domain.ClientPrivate},
		{ID: 4, CompanyID: 1, CreatedByID: 11, AccessType: domain.ClientPrivate, GrantedUserIDs: []int64{10}},
	}, nil)

	out, err := svc.List(context.Background(), employee(10), ListRequest{})

	assert.NoError(t, err)
	ids := make([]int64, 0, len(out))
	for _, c := range out {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{1, 2, 4}, ids)
}

func TestService_List_NoDirectorExceptionOnPrivate(t *testing.T) {
	svc, clients, _ := newTestService()
	clients.On("ListByCompany", mock.Anything, int64(1), 0, 0).Return([]domain.Client{
		{ID: 1, CompanyID: 1, CreatedByID: 11, AccessType: domain.ClientPrivate},
		{ID: 2, CompanyID: 1, CreatedByID: 11, AccessType: domain.ClientPublic},
		{ID: 3, CompanyID: 1, CreatedByID: 11, AccessType: domain.ClientPrivate, GrantedUserIDs: []int64{99}},
	}, nil)

	// the director sees public clients and their own grants, nothing more
	dir := access.Principal{UserID: 99, CompanyID: 1, Role: domain.RoleDirector, ActivityType: domain.ActivityDeclarant}
	out, err := svc.List(context.Background(), dir, ListRequest{})

	assert.NoError(t, err)
	ids := make([]int64, 0, len(out))
	for _, c := range out {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{2, 3}, ids)
}

func TestService_Get_DirectorMaskedOnPrivate(t *testing.T) {
	svc, clients, _ := newTestService()
	clients.On("GetByID", mock.Anything, int64(5)).
		Return(&domain.Client{ID: 5, CompanyID: 1, CreatedByID: 11, AccessType: domain.ClientPrivate}, nil)

	dir := access.Principal{UserID: 99, CompanyID: 1, Role: domain.RoleDirector, ActivityType: domain.ActivityDeclarant}
	_, err := svc.Get(context.Background(), dir, 5)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Get_PrivateMaskedAsNotFound(t *testing.T) {
	svc, clients, _ := newTestService()
	clients.On("GetByID", mock.Anything, int64(2)).
		Return(&domain.Client{ID: 2, CompanyID: 1, CreatedByID: 11, AccessType: domain.ClientPrivate}, nil)

	_, err := svc.Get(context.Background(), employee(10), 2)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Create_PublicWithGrantsRejected(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), employee(10), CreateClientRequest{
		CompanyName:    "TOO Vostok",
		AccessType:     "public",
		GrantedUserIDs: []int64{11},
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Create_GranteeMustBeSameCompany(t *testing.T) {
	svc, _, users := newTestService()
	otherCompany := int64(2)
	users.On("GetByID", mock.Anything, int64(50)).
		Return(&domain.User{ID: 50, CompanyID: &otherCompany}, nil)

	_, err := svc.Create(context.Background(), employee(10), CreateClientRequest{
		CompanyName:    "TOO Vostok",
		AccessType:     "private",
		GrantedUserIDs: []int64{50},
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Delete_ReferencedClientIsConflict(t *testing.T) {
	svc, clients, _ := newTestService()
	clients.On("GetByID", mock.Anything, int64(2)).
		Return(&domain.Client{ID: 2, CompanyID: 1, CreatedByID: 10, AccessType: domain.ClientPublic}, nil)
	clients.On("CountReferences", mock.Anything, int64(2)).Return(int64(3), nil)

	err := svc.Delete(context.Background(), employee(10), 2)

	assert.ErrorIs(t, err, ErrConflict)
	clients.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestService_Delete_NonCreatorForbidden(t *testing.T) {
	svc, clients, _ := newTestService()
	clients.On("GetByID", mock.Anything, int64(2)).
		Return(&domain.Client{ID: 2, CompanyID: 1, CreatedByID: 11, AccessType: domain.ClientPublic}, nil)

	err := svc.Delete(context.Background(), employee(10), 2)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Update_PublicResetClearsGrants(t *testing.T) {
	svc, clients, _ := newTestService()
	clients.On("GetByID", mock.Anything, int64(2)).
		Return(&domain.Client{ID: 2, CompanyID: 1, CreatedByID: 10, AccessType: domain.ClientPrivate, GrantedUserIDs: []int64{11}}, nil)
	clients.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Client) bool {
		return c.AccessType == domain.ClientPublic && len(c.GrantedUserIDs) == 0
	})).Return(nil)

	accessType := "public"
	updated, err := svc.Update(context.Background(), employee(10), 2, UpdateClientRequest{AccessType: &accessType})

	assert.NoError(t, err)
	assert.Empty(t, updated.GrantedUserIDs)
}

func TestService_Get_MissingRow(t *testing.T) {
	svc, clients, _ := newTestService()
	clients.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), employee(10), 404)

	assert.ErrorIs(t, err, ErrNotFound)
}
