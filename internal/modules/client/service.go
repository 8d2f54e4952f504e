package client

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"customscrm/internal/access"
	"customscrm/internal/domain"
)

type Service struct {
	clients ClientRepository
	users   UserRepository
}

func NewService(clients ClientRepository, users UserRepository) *Service {
	return &Service{clients: clients, users: users}
}

func (s *Service) Create(ctx context.Context, p access.Principal, req CreateClientRequest) (*domain.Client, error) {
	accessType := domain.ClientAccessType(req.AccessType)
	if accessType != domain.ClientPublic && accessType != domain.ClientPrivate {
		return nil, ErrValidation
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, ErrValidation
	}
	if accessType == domain.ClientPublic && len(req.GrantedUserIDs) > 0 {
		return nil, ErrValidation
	}
	if err := s.checkGrantees(ctx, p, req.GrantedUserIDs); err != nil {
		return nil, err
	}

	c := &domain.Client{
		CompanyID:      p.CompanyID,
		CreatedByID:    p.UserID,
		CompanyName:    strings.TrimSpace(req.CompanyName),
		INN:            req.INN,
		DirectorName:   req.DirectorName,
		AccessType:     accessType,
		Note:           req.Note,
		GrantedUserIDs: req.GrantedUserIDs,
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the company's clients the caller may see. Private clients of
// other users are filtered out here, not in SQL; the grant list is a JSON
// column.
func (s *Service) List(ctx context.Context, p access.Principal, req ListRequest) ([]domain.Client, error) {
	rows, err := s.clients.ListByCompany(ctx, p.CompanyID, req.Skip, req.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Client, 0, len(rows))
	for _, c := range rows {
		if c.VisibleTo(p.UserID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, p access.Principal, id int64) (*domain.Client, error) {
	return s.visibleClient(ctx, p, id)
}

func (s *Service) Update(ctx context.Context, p access.Principal, id int64, req UpdateClientRequest) (*domain.Client, error) {
	c, err := s.visibleClient(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(p, access.ActionWrite, c); err != nil {
		return nil, ErrForbidden
	}

	if req.CompanyName != nil {
		name := strings.TrimSpace(*req.CompanyName)
		if name == "" {
			return nil, ErrValidation
		}
		c.CompanyName = name
	}
	if req.INN != nil {
		c.INN = *req.INN
	}
	if req.DirectorName != nil {
		c.DirectorName = *req.DirectorName
	}
	if req.AccessType != nil {
		accessType := domain.ClientAccessType(*req.AccessType)
		if accessType != domain.ClientPublic && accessType != domain.ClientPrivate {
			return nil, ErrValidation
		}
		c.AccessType = accessType
		if accessType == domain.ClientPublic {
			c.GrantedUserIDs = nil
		}
	}
	if req.Note != nil {
		c.Note = *req.Note
	}
	if req.GrantedUserIDs != nil {
		if c.AccessType != domain.ClientPrivate {
			return nil, ErrValidation
		}
		if err := s.checkGrantees(ctx, p, *req.GrantedUserIDs); err != nil {
			return nil, err
		}
		c.GrantedUserIDs = *req.GrantedUserIDs
	}

	if err := s.clients.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete refuses while declarations or certificates still reference the
// client.
func (s *Service) Delete(ctx context.Context, p access.Principal, id int64) error {
	c, err := s.visibleClient(ctx, p, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(p, access.ActionDelete, c); err != nil {
		return ErrForbidden
	}

	refs, err := s.clients.CountReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	return s.clients.Delete(ctx, id)
}

func (s *Service) visibleClient(ctx context.Context, p access.Principal, id int64) (*domain.Client, error) {
	c, err := s.clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := access.Authorize(p, access.ActionRead, c); err != nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// checkGrantees verifies every granted user belongs to the caller's company.
func (s *Service) checkGrantees(ctx context.Context, p access.Principal, ids []int64) error {
	for _, id := range ids {
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrValidation
			}
			return err
		}
		if u.CompanyID == nil || *u.CompanyID != p.CompanyID {
			return ErrValidation
		}
	}
	return nil
}
