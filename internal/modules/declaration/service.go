package declaration

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"customscrm/internal/access"
	"customscrm/internal/domain"
	"customscrm/internal/repository"
)

type Service struct {
	declarations DeclarationRepository
	clients      ClientRepository
	users        UserRepository
}

func NewService(declarations DeclarationRepository, clients ClientRepository, users UserRepository) *Service {
	return &Service{declarations: declarations, clients: clients, users: users}
}

func (s *Service) Create(ctx context.Context, p access.Principal, req CreateDeclarationRequest) (*DeclarationView, error) {
	if !access.CanCreateDeclarations(p) {
		return nil, ErrForbidden
	}

	client, err := s.clients.GetByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrValidation
		}
		return nil, err
	}
	if err := access.Authorize(p, access.ActionRead, client); err != nil {
		return nil, ErrForbidden
	}

	if req.GroupID != nil {
		if err := s.checkGroup(ctx, p, *req.GroupID); err != nil {
			return nil, err
		}
	}

	d := &domain.Declaration{
		CompanyID:         p.CompanyID,
		UserID:            p.UserID,
		ClientID:          req.ClientID,
		GroupID:           req.GroupID,
		PostNumber:        strings.TrimSpace(req.PostNumber),
		DeclarationNumber: strings.TrimSpace(req.DeclarationNumber),
		SendDate:          req.SendDate,
		Regime:            req.Regime,
		Note:              req.Note,
		Vehicles:          req.Vehicles,
	}
	if d.PostNumber == "" || d.DeclarationNumber == "" {
		return nil, ErrValidation
	}

	if err := s.declarations.Create(ctx, d); err != nil {
		return nil, err
	}
	view := toView(*d)
	return &view, nil
}

func (s *Service) List(ctx context.Context, p access.Principal, req ListRequest) ([]DeclarationView, error) {
	f := repository.DeclarationFilter{
		CompanyID: p.CompanyID,
		UserID:    req.UserID,
		ClientID:  req.ClientID,
		GroupID:   req.GroupID,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
		Skip:      req.Skip,
		Limit:     req.Limit,
	}
	if req.MyOnly {
		uid := p.UserID
		f.UserID = &uid
	}

	rows, err := s.declarations.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]DeclarationView, 0, len(rows))
	for _, d := range rows {
		out = append(out, toView(d))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, p access.Principal, id int64) (*DeclarationView, error) {
	d, err := s.visibleDeclaration(ctx, p, id)
	if err != nil {
		return nil, err
	}
	view := toView(*d)
	return &view, nil
}

func (s *Service) Update(ctx context.Context, p access.Principal, id int64, req UpdateDeclarationRequest) (*DeclarationView, error) {
	d, err := s.visibleDeclaration(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(p, access.ActionWrite, d); err != nil {
		return nil, ErrForbidden
	}

	if req.PostNumber != nil {
		v := strings.TrimSpace(*req.PostNumber)
		if v == "" {
			return nil, ErrValidation
		}
		d.PostNumber = v
	}
	if req.DeclarationNumber != nil {
		v := strings.TrimSpace(*req.DeclarationNumber)
		if v == "" {
			return nil, ErrValidation
		}
		d.DeclarationNumber = v
	}
	if req.SendDate != nil {
		d.SendDate = *req.SendDate
	}
	if req.Regime != nil {
		d.Regime = *req.Regime
	}
	if req.Note != nil {
		d.Note = *req.Note
	}
	if req.Vehicles != nil {
		d.Vehicles = *req.Vehicles
	}
	if req.GroupID != nil {
		if err := s.checkGroup(ctx, p, *req.GroupID); err != nil {
			return nil, err
		}
		d.GroupID = req.GroupID
	}

	if err := s.declarations.Update(ctx, d); err != nil {
		return nil, err
	}
	view := toView(*d)
	return &view, nil
}

// Redirect hands the declaration to another user of the same company.
func (s *Service) Redirect(ctx context.Context, p access.Principal, id, targetUserID int64) (*DeclarationView, error) {
	d, err := s.visibleDeclaration(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(p, access.ActionWrite, d); err != nil {
		return nil, ErrForbidden
	}

	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrValidation
		}
		return nil, err
	}
	if target.CompanyID == nil || *target.CompanyID != p.CompanyID || target.IsBlocked {
		return nil, ErrValidation
	}

	if err := s.declarations.UpdateFields(ctx, id, map[string]any{"user_id": targetUserID}); err != nil {
		return nil, err
	}
	d.UserID = targetUserID
	view := toView(*d)
	return &view, nil
}

// Delete refuses while certificates still reference the declaration.
func (s *Service) Delete(ctx context.Context, p access.Principal, id int64) error {
	d, err := s.visibleDeclaration(ctx, p, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(p, access.ActionDelete, d); err != nil {
		return ErrForbidden
	}

	links, err := s.declarations.CountCertificateLinks(ctx, id)
	if err != nil {
		return err
	}
	if links > 0 {
		return ErrConflict
	}
	return s.declarations.Delete(ctx, id)
}

// Groups

func (s *Service) CreateGroup(ctx context.Context, p access.Principal, req CreateGroupRequest) (*domain.DeclarationGroup, error) {
	if !access.CanCreateDeclarations(p) {
		return nil, ErrForbidden
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrValidation
	}

	g := &domain.DeclarationGroup{CompanyID: p.CompanyID, Name: name}
	if err := s.declarations.CreateGroup(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) ListGroups(ctx context.Context, p access.Principal) ([]domain.DeclarationGroup, error) {
	return s.declarations.ListGroups(ctx, p.CompanyID)
}

func (s *Service) DeleteGroup(ctx context.Context, p access.Principal, id int64) error {
	if err := s.checkGroup(ctx, p, id); err != nil {
		return err
	}
	return s.declarations.DeleteGroup(ctx, id)
}

func (s *Service) visibleDeclaration(ctx context.Context, p access.Principal, id int64) (*domain.Declaration, error) {
	d, err := s.declarations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := access.Authorize(p, access.ActionRead, d); err != nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *Service) checkGroup(ctx context.Context, p access.Principal, groupID int64) error {
	g, err := s.declarations.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if g.CompanyID != p.CompanyID {
		return ErrNotFound
	}
	return nil
}
