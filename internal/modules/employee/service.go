package employee

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"customscrm/internal/access"
	"customscrm/internal/domain"
)

type Service struct {
	users        UserRepository
	companies    CompanyRepository
	partnerships PartnershipLister
}

func NewService(users UserRepository, companies CompanyRepository, partnerships PartnershipLister) *Service {
	return &Service{users: users, companies: companies, partnerships: partnerships}
}

// List groups employees by company: the caller's own staff first, then the
// staff of every active partner. Partner staff is shown so tasks and
// certificates can be addressed to a concrete person.
func (s *Service) List(ctx context.Context, p access.Principal) ([]CompanyEmployees, error) {
	own, err := s.companyGroup(ctx, p.CompanyID, true)
	if err != nil {
		return nil, err
	}
	out := []CompanyEmployees{*own}

	partners, err := s.partnerships.ListActive(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	for _, pt := range partners {
		group, err := s.companyGroup(ctx, pt.Counterpart(p.CompanyID), false)
		if err != nil {
			continue
		}
		out = append(out, *group)
	}
	return out, nil
}

func (s *Service) companyGroup(ctx context.Context, companyID int64, own bool) (*CompanyEmployees, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	staff, err := s.users.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !own {
		// partners see only unblocked colleagues
		filtered := staff[:0]
		for _, u := range staff {
			if !u.IsBlocked {
				filtered = append(filtered, u)
			}
		}
		staff = filtered
	}
	return &CompanyEmployees{
		CompanyID:   company.ID,
		CompanyName: company.Name,
		IsOwn:       own,
		Employees:   staff,
	}, nil
}

func (s *Service) UpdateRole(ctx context.Context, p access.Principal, userID int64, role domain.UserRole) (*domain.User, error) {
	u, err := s.manageableUser(ctx, p, userID)
	if err != nil {
		return nil, err
	}
	if u.ID == p.UserID {
		// directors cannot demote themselves, someone must stay in charge
		return nil, ErrConflict
	}

	u.Role = role
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) SetBlocked(ctx context.Context, p access.Principal, userID int64, blocked bool) (*domain.User, error) {
	u, err := s.manageableUser(ctx, p, userID)
	if err != nil {
		return nil, err
	}
	if u.ID == p.UserID {
		return nil, ErrConflict
	}

	u.IsBlocked = blocked
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Remove detaches the employee from the company after handing all their data
// to the transfer target.
func (s *Service) Remove(ctx context.Context, p access.Principal, userID, transferToUserID int64) error {
	u, err := s.manageableUser(ctx, p, userID)
	if err != nil {
		return err
	}
	if u.ID == p.UserID {
		return ErrConflict
	}
	if userID == transferToUserID {
		return ErrValidation
	}

	target, err := s.users.GetByID(ctx, transferToUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrValidation
		}
		return err
	}
	if target.CompanyID == nil || *target.CompanyID != p.CompanyID || target.IsBlocked {
		return ErrValidation
	}

	return s.users.TransferData(ctx, p.CompanyID, userID, transferToUserID)
}

// manageableUser loads the target and applies the director-only admin gate.
func (s *Service) manageableUser(ctx context.Context, p access.Principal, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if u.CompanyID == nil || *u.CompanyID != p.CompanyID {
		return nil, ErrNotFound
	}
	if err := access.Authorize(p, access.ActionAdmin, u); err != nil {
		return nil, ErrForbidden
	}
	return u, nil
}
