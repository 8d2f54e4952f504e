package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"customscrm/internal/domain"
)

type Service struct {
	users       UserRepository
	companies   CompanyRepository
	memberships MembershipRequestRepository
	tokens      TokenIssuer
	notifs      Notifier
}

func NewService(
	users UserRepository,
	companies CompanyRepository,
	memberships MembershipRequestRepository,
	tokens TokenIssuer,
	notifs Notifier,
) *Service {
	return &Service{
		users:       users,
		companies:   companies,
		memberships: memberships,
		tokens:      tokens,
		notifs:      notifs,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	activityType := domain.ActivityType(req.ActivityType)
	if !activityType.Valid() {
		return nil, ErrValidation
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		ActivityType: activityType,
		SoundEnabled: true,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if u.IsBlocked || !u.IsActive {
		return nil, ErrBlocked
	}
	if u.InCompany() {
		company, err := s.companies.GetByID(ctx, *u.CompanyID)
		if err == nil && (company.IsBlocked || !company.IsActive) {
			return nil, ErrBlocked
		}
	}

	return s.issue(u)
}

func (s *Service) Me(ctx context.Context, userID int64) (*MeResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := &MeResponse{User: *u}
	if u.InCompany() {
		company, err := s.companies.GetByID(ctx, *u.CompanyID)
		if err == nil {
			resp.Company = company
		}
	}
	return resp, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, ErrValidation
		}
		u.FullName = name
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.SoundEnabled != nil {
		u.SoundEnabled = *req.SoundEnabled
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateCompany founds a new company; the founding user becomes its director.
// A user already inside a company cannot found another one.
func (s *Service) CreateCompany(ctx context.Context, userID int64, req CreateCompanyRequest) (*domain.Company, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.InCompany() {
		return nil, ErrConflict
	}

	inn := strings.TrimSpace(req.INN)
	if _, err := s.companies.GetByINN(ctx, inn); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	company := &domain.Company{
		Name:         strings.TrimSpace(req.Name),
		INN:          inn,
		ActivityType: u.ActivityType,
		IsActive:     true,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}

	u.CompanyID = &company.ID
	u.Role = domain.RoleDirector
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return company, nil
}

// JoinCompany files a membership request against the company with this INN.
// The user stays outside the company until a director approves.
func (s *Service) JoinCompany(ctx context.Context, userID int64, inn string) (*domain.MembershipRequest, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.InCompany() {
		return nil, ErrConflict
	}

	company, err := s.companies.GetByINN(ctx, strings.TrimSpace(inn))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if company.IsBlocked || !company.IsActive {
		return nil, ErrNotFound
	}
	if company.ActivityType != u.ActivityType {
		return nil, ErrValidation
	}

	exists, err := s.memberships.ExistsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	m := &domain.MembershipRequest{CompanyID: company.ID, UserID: userID}
	if err := s.memberships.Create(ctx, m); err != nil {
		return nil, err
	}

	if staff, err := s.users.ListByCompany(ctx, company.ID); err == nil {
		for _, d := range staff {
			if d.Role == domain.RoleDirector && !d.IsBlocked {
				s.notifs.Notify(ctx, d.ID, domain.NotifyMembershipRequested,
					"New membership request", u.FullName, map[string]any{"request_id": m.ID})
			}
		}
	}
	return m, nil
}

func (s *Service) ListMembershipRequests(ctx context.Context, companyID int64) ([]domain.MembershipRequest, error) {
	return s.memberships.ListByCompany(ctx, companyID)
}

// HandleMembership approves or rejects a join request. Approval puts the user
// into the company with the employee role; rejection just drops the request.
func (s *Service) HandleMembership(ctx context.Context, companyID, requestID int64, approve bool) error {
	m, err := s.memberships.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if m.CompanyID != companyID {
		return ErrNotFound
	}

	if approve {
		u, err := s.users.GetByID(ctx, m.UserID)
		if err != nil {
			return err
		}
		if u.InCompany() {
			// joined elsewhere while the request sat in the queue
			_ = s.memberships.Delete(ctx, m.ID)
			return ErrConflict
		}
		u.CompanyID = &m.CompanyID
		u.Role = domain.RoleEmployee
		if err := s.users.Update(ctx, u); err != nil {
			return err
		}
		s.notifs.Notify(ctx, u.ID, domain.NotifyMembershipApproved,
			"Membership approved", "", map[string]any{"company_id": m.CompanyID})
	}

	return s.memberships.Delete(ctx, m.ID)
}

func (s *Service) issue(u *domain.User) (*AuthResponse, error) {
	var companyID int64
	if u.CompanyID != nil {
		companyID = *u.CompanyID
	}
	token, err := s.tokens.GenerateToken(u.ID, companyID, string(u.Role), string(u.ActivityType))
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: *u}, nil
}
