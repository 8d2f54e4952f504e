package partnership

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"customscrm/internal/access"
	"customscrm/internal/domain"
)

type Service struct {
	partnerships PartnershipRepository
	companies    CompanyRepository
	users        UserRepository
	notifs       Notifier
}

func NewService(partnerships PartnershipRepository, companies CompanyRepository, users UserRepository, notifs Notifier) *Service {
	return &Service{partnerships: partnerships, companies: companies, users: users, notifs: notifs}
}

// Lookup finds a company by INN for the "add partner" form. Blocked and
// inactive companies are not discoverable.
func (s *Service) Lookup(ctx context.Context, p access.Principal, inn string) (*CompanyLookupResponse, error) {
	if !validINN(inn) {
		return nil, ErrValidation
	}
	c, err := s.companies.GetByINN(ctx, inn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if c.IsBlocked || !c.IsActive || c.ID == p.CompanyID {
		return nil, ErrNotFound
	}
	return &CompanyLookupResponse{
		ID:           c.ID,
		Name:         c.Name,
		INN:          c.INN,
		ActivityType: c.ActivityType,
	}, nil
}

// SendRequest targets the partner by INN; the internal company id never
// crosses the API boundary here.
func (s *Service) SendRequest(ctx context.Context, p access.Principal, req SendRequestRequest) (*domain.Partnership, error) {
	if !p.IsDirector() {
		return nil, ErrForbidden
	}
	if !validINN(req.TargetINN) {
		return nil, ErrValidation
	}

	target, err := s.companies.GetByINN(ctx, req.TargetINN)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if target.IsBlocked || !target.IsActive {
		return nil, ErrNotFound
	}
	if target.ID == p.CompanyID {
		return nil, ErrValidation
	}

	a, b := domain.NormalizePair(p.CompanyID, target.ID)
	pt := &domain.Partnership{
		CompanyAID:  a,
		CompanyBID:  b,
		RequestedBy: p.CompanyID,
		Status:      domain.PartnershipPending,
		Note:        req.Note,
	}
	if err := s.partnerships.Create(ctx, pt); err != nil {
		if isDuplicatePair(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.notifyDirectors(ctx, target.ID, domain.NotifyPartnershipRequested,
		"New partnership request", pt.ID)

	return pt, nil
}

func (s *Service) ListActive(ctx context.Context, p access.Principal) ([]PartnershipView, error) {
	rows, err := s.partnerships.ListActive(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, p.CompanyID, rows)
}

func (s *Service) ListPending(ctx context.Context, p access.Principal) ([]PartnershipView, error) {
	rows, err := s.partnerships.ListPendingIncoming(ctx, p.CompanyID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, p.CompanyID, rows)
}

// HandleRequest approves or rejects an incoming request. Only a director of
// the receiving company may decide; rejection removes the row so the pair can
// be requested again later.
func (s *Service) HandleRequest(ctx context.Context, p access.Principal, id int64, approve bool) (*domain.Partnership, error) {
	pt, err := s.visiblePartnership(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !p.IsDirector() {
		return nil, ErrForbidden
	}
	if pt.Status != domain.PartnershipPending {
		return nil, ErrConflict
	}
	if pt.RequestedBy == p.CompanyID {
		// the sender cannot approve its own request
		return nil, ErrForbidden
	}

	if !approve {
		if err := s.partnerships.Delete(ctx, pt.ID); err != nil {
			return nil, err
		}
		return pt, nil
	}

	if err := s.partnerships.UpdateStatus(ctx, pt.ID, domain.PartnershipActive); err != nil {
		return nil, err
	}
	pt.Status = domain.PartnershipActive

	s.notifyDirectors(ctx, pt.RequestedBy, domain.NotifyPartnershipApproved,
		"Partnership approved", pt.ID)

	return pt, nil
}

// Remove dissolves a partnership. Either side's director may do it; existing
// certificates and tasks between the companies stay untouched.
func (s *Service) Remove(ctx context.Context, p access.Principal, id int64) error {
	pt, err := s.visiblePartnership(ctx, p, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(p, access.ActionDelete, pt); err != nil {
		return ErrForbidden
	}
	return s.partnerships.Delete(ctx, pt.ID)
}

func (s *Service) visiblePartnership(ctx context.Context, p access.Principal, id int64) (*domain.Partnership, error) {
	pt, err := s.partnerships.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !pt.Involves(p.CompanyID) {
		return nil, ErrNotFound
	}
	return pt, nil
}

func (s *Service) decorate(ctx context.Context, viewerCompanyID int64, rows []domain.Partnership) ([]PartnershipView, error) {
	out := make([]PartnershipView, 0, len(rows))
	for _, pt := range rows {
		view := PartnershipView{Partnership: pt}
		partner, err := s.companies.GetByID(ctx, pt.Counterpart(viewerCompanyID))
		if err == nil {
			view.Partner = CompanyLookupResponse{
				ID:           partner.ID,
				Name:         partner.Name,
				INN:          partner.INN,
				ActivityType: partner.ActivityType,
			}
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *Service) notifyDirectors(ctx context.Context, companyID int64, typ, title string, partnershipID int64) {
	users, err := s.users.ListByCompany(ctx, companyID)
	if err != nil {
		return
	}
	for _, u := range users {
		if u.Role == domain.RoleDirector && !u.IsBlocked {
			s.notifs.Notify(ctx, u.ID, typ, title, "",
				map[string]any{"partnership_id": partnershipID})
		}
	}
}

// validINN checks the 9-digit tax id format.
func validINN(inn string) bool {
	if len(inn) != 9 {
		return false
	}
	for _, r := range inn {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isDuplicatePair detects the unique index violation on the normalized pair.
// Postgres reports it as a PgError; the sqlite driver only gives us text.
func isDuplicatePair(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
