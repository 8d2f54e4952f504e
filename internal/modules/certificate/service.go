package certificate

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"customscrm/internal/access"
	"customscrm/internal/domain"
	"customscrm/internal/repository"
)

type Service struct {
	certs        CertificateRepository
	clients      ClientRepository
	declarations DeclarationRepository
	companies    CompanyRepository
	users        UserRepository
	partnerships PartnershipChecker
	notifs       Notifier
	log          *slog.Logger
}

func NewService(
	certs CertificateRepository,
	clients ClientRepository,
	declarations DeclarationRepository,
	companies CompanyRepository,
	users UserRepository,
	partnerships PartnershipChecker,
	notifs Notifier,
	log *slog.Logger,
) *Service {
	return &Service{
		certs:        certs,
		clients:      clients,
		declarations: declarations,
		companies:    companies,
		users:        users,
		partnerships: partnerships,
		notifs:       notifs,
		log:          log,
	}
}

func (s *Service) Create(ctx context.Context, p access.Principal, req CreateCertificateRequest) (*domain.Certificate, error) {
	if !access.CanCreateDeclarations(p) {
		return nil, ErrForbidden
	}

	// exactly one of "number already known" / "certifier fills it later"
	hasNumber := req.CertificateNumber != nil && strings.TrimSpace(*req.CertificateNumber) != ""
	if hasNumber == req.IsNumberByCertifier {
		return nil, ErrValidation
	}

	// certifier side: either self-certification or an active certifier partner
	if req.IsSelf {
		if req.CertifierCompanyID != nil {
			return nil, ErrValidation
		}
	} else {
		if req.CertifierCompanyID == nil {
			return nil, ErrValidation
		}
		certifier, err := s.companies.GetByID(ctx, *req.CertifierCompanyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrValidation
			}
			return nil, err
		}
		if certifier.ActivityType != domain.ActivityCertifier {
			return nil, ErrValidation
		}
		active, err := s.partnerships.ActiveExists(ctx, p.CompanyID, certifier.ID)
		if err != nil {
			return nil, err
		}
		if !active {
			return nil, ErrForbidden
		}
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

	for _, id := range req.DeclarationIDs {
		d, err := s.declarations.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrValidation
			}
			return nil, err
		}
		if d.CompanyID != p.CompanyID {
			return nil, ErrForbidden
		}
	}

	var number *string
	if hasNumber {
		v := strings.TrimSpace(*req.CertificateNumber)
		number = &v
	}

	cert := &domain.Certificate{
		DeclarantCompanyID:  p.CompanyID,
		DeclarantUserID:     p.UserID,
		CertifierCompanyID:  req.CertifierCompanyID,
		IsSelf:              req.IsSelf,
		ClientID:            req.ClientID,
		CertificateType:     req.CertificateType,
		CertificateNumber:   number,
		IsNumberByCertifier: req.IsNumberByCertifier,
		Status:              domain.CertificateNew,
		SendDate:            time.Now(),
		Deadline:            req.Deadline,
	}

	if err := s.certs.Create(ctx, cert, req.DeclarationIDs); err != nil {
		return nil, err
	}

	s.appendAction(ctx, cert.ID, p.UserID, "created", "", string(domain.CertificateNew), req.Note)

	if !cert.IsSelf {
		s.notifyDirectors(ctx, *cert.CertifierCompanyID, domain.NotifyCertificateCreated,
			"New certificate request", cert)
	}

	return cert, nil
}

func (s *Service) List(ctx context.Context, p access.Principal, req ListRequest) ([]domain.Certificate, error) {
	f := repository.CertificateFilter{
		ViewerCompanyID:    p.CompanyID,
		UserID:             req.UserID,
		CertifierCompanyID: req.CertifierCompanyID,
		DeclarantCompanyID: req.DeclarantCompanyID,
		CertificateNumber:  req.CertificateNumber,
		ClientID:           req.ClientID,
		Status:             req.Status,
		DateFrom:           req.DateFrom,
		DateTo:             req.DateTo,
		Skip:               req.Skip,
		Limit:              req.Limit,
	}
	if req.MyOnly {
		uid := p.UserID
		f.UserID = &uid
	}
	return s.certs.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, p access.Principal, id int64) (*CertificateDetails, error) {
	cert, err := s.visibleCertificate(ctx, p, id)
	if err != nil {
		return nil, err
	}

	actions, err := s.certs.ListActions(ctx, id)
	if err != nil {
		return nil, err
	}
	declIDs, err := s.certs.ListDeclarationIDs(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CertificateDetails{
		Certificate:    *cert,
		Actions:        actions,
		DeclarationIDs: declIDs,
	}, nil
}

func (s *Service) Update(ctx context.Context, p access.Principal, id int64, req UpdateCertificateRequest) (*domain.Certificate, error) {
	cert, err := s.visibleCertificate(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(p, access.ActionWrite, cert); err != nil {
		return nil, ErrForbidden
	}
	if cert.Status != domain.CertificateNew {
		return nil, ErrConflict
	}

	updates := map[string]any{}
	if req.CertificateType != nil {
		updates["certificate_type"] = *req.CertificateType
	}
	if req.Deadline != nil {
		updates["deadline"] = *req.Deadline
	}
	if len(updates) == 0 {
		return cert, nil
	}

	applied, err := s.certs.ApplyTransition(ctx, id, domain.CertificateNew, updates)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrConflict
	}
	return s.certs.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, p access.Principal, id int64) error {
	cert, err := s.visibleCertificate(ctx, p, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(p, access.ActionDelete, cert); err != nil {
		return ErrForbidden
	}
	return s.certs.Delete(ctx, id)
}

// statusEvents maps a requested target status to the workflow event it
// stands for. All of these are certifier-side actions.
var statusEvents = map[domain.CertificateStatus]domain.CertificateEvent{
	domain.CertificateInProgress:     domain.CertEventTakeInProgress,
	domain.CertificateWaitingPayment: domain.CertEventRequestPayment,
	domain.CertificateOnReview:       domain.CertEventSendForReview,
	domain.CertificateRejected:       domain.CertEventReject,
}

func (s *Service) UpdateStatus(ctx context.Context, p access.Principal, id int64, req UpdateStatusRequest) (*domain.Certificate, error) {
	cert, err := s.visibleCertificate(ctx, p, id)
	if err != nil {
		return nil, err
	}

	target := domain.CertificateStatus(req.Status)
	event, ok := statusEvents[target]
	if !ok {
		return nil, ErrValidation
	}

	if err := access.Authorize(p, access.ActionTransitionCertifier, cert); err != nil {
		return nil, ErrForbidden
	}

	next, ok := domain.CertNextStatus(cert.Status, event)
	if !ok || next != target {
		return nil, ErrConflict
	}

	updates := map[string]any{"status": string(target)}
	note := strings.TrimSpace(req.RejectionNote)
	switch event {
	case domain.CertEventReject:
		if note == "" {
			return nil, ErrValidation
		}
		updates["rejection_note"] = note
	case domain.CertEventRequestPayment:
		updates["payment_requested_by_user_id"] = p.UserID
	}

	applied, err := s.certs.ApplyTransition(ctx, id, cert.Status, updates)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrConflict
	}

	s.appendAction(ctx, id, p.UserID, "status", string(cert.Status), string(target), note)

	title := "Certificate status changed"
	typ := domain.NotifyCertificateStatus
	if event == domain.CertEventRequestPayment {
		typ = domain.NotifyPaymentRequested
		title = "Payment requested"
	}
	s.notifs.Notify(ctx, cert.DeclarantUserID, typ, title, string(target),
		map[string]any{"certificate_id": id})

	return s.certs.GetByID(ctx, id)
}

func (s *Service) FillNumber(ctx context.Context, p access.Principal, id int64, number string) (*domain.Certificate, error) {
	cert, err := s.visibleCertificate(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(p, access.ActionTransitionCertifier, cert); err != nil {
		return nil, ErrForbidden
	}

	number = strings.TrimSpace(number)
	if number == "" {
		return nil, ErrValidation
	}
	if !cert.IsNumberByCertifier || cert.CertificateNumber != nil {
		// the number was the declarant's responsibility, or is already set
		return nil, ErrConflict
	}

	applied, err := s.certs.FillNumber(ctx, id, number)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrConflict
	}

	s.appendAction(ctx, id, p.UserID, "certificate_number", "", number, "")
	s.notifs.Notify(ctx, cert.DeclarantUserID, domain.NotifyCertificateNumber,
		"Certificate number filled", number, map[string]any{"certificate_id": id})

	return s.certs.GetByID(ctx, id)
}

func (s *Service) Assign(ctx context.Context, p access.Principal, id, targetUserID int64) (*domain.Certificate, error) {
	return s.assign(ctx, p, id, targetUserID, false)
}

// Redirect reassigns an already-assigned certificate to another executor.
func (s *Service) Redirect(ctx context.Context, p access.Principal, id, targetUserID int64) (*domain.Certificate, error) {
	return s.assign(ctx, p, id, targetUserID, true)
}

func (s *Service) assign(ctx context.Context, p access.Principal, id, targetUserID int64, redirect bool) (*domain.Certificate, error) {
	cert, err := s.visibleCertificate(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(p, access.ActionTransitionCertifier, cert); err != nil {
		return nil, ErrForbidden
	}
	if cert.Status.Terminal() {
		return nil, ErrConflict
	}
	if redirect && cert.AssignedUserID == nil {
		return nil, ErrConflict
	}

	target, err := s.users.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrValidation
		}
		return nil, err
	}
	executorCompany := cert.DeclarantCompanyID
	if !cert.IsSelf {
		executorCompany = *cert.CertifierCompanyID
	}
	if target.CompanyID == nil || *target.CompanyID != executorCompany || target.IsBlocked {
		return nil, ErrValidation
	}

	if err := s.certs.UpdateAssignee(ctx, id, targetUserID); err != nil {
		return nil, err
	}

	oldAssignee := ""
	if cert.AssignedUserID != nil {
		oldAssignee = formatID(*cert.AssignedUserID)
	}
	s.appendAction(ctx, id, p.UserID, "assigned_user_id", oldAssignee, formatID(targetUserID), "")
	s.notifs.Notify(ctx, targetUserID, domain.NotifyCertificateAssigned,
		"Certificate assigned to you", cert.CertificateType, map[string]any{"certificate_id": id})

	return s.certs.GetByID(ctx, id)
}

func (s *Service) ConfirmPayment(ctx context.Context, p access.Principal, id int64) (*domain.Certificate, error) {
	cert, err := s.visibleCertificate(ctx, p, id)
	if err != nil {
		return nil, err
	}

	// payment is requested by the certifier side; the counterpart confirms.
	// Self-certified flows have no counterpart, the declarant does both.
	if !cert.IsSelf {
		if err := access.Authorize(p, access.ActionTransitionDeclarant, cert); err != nil {
			return nil, ErrForbidden
		}
	}

	if cert.PaymentConfirmed {
		return nil, ErrConflict
	}
	if _, ok := domain.CertNextStatus(cert.Status, domain.CertEventConfirmPayment); !ok {
		return nil, ErrConflict
	}

	applied, err := s.certs.ApplyTransition(ctx, id, cert.Status, map[string]any{
		"status":            string(domain.CertificateInProgress),
		"payment_confirmed": true,
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrConflict
	}

	s.appendAction(ctx, id, p.UserID, "payment_confirmed", "false", "true", "")

	if cert.PaymentRequestedByID != nil {
		s.notifs.Notify(ctx, *cert.PaymentRequestedByID, domain.NotifyPaymentConfirmed,
			"Payment confirmed", "", map[string]any{"certificate_id": id})
	}

	return s.certs.GetByID(ctx, id)
}

func (s *Service) ConfirmReview(ctx context.Context, p access.Principal, id int64) (*domain.Certificate, error) {
	cert, err := s.visibleCertificate(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if _, ok := domain.CertNextStatus(cert.Status, domain.CertEventConfirmReview); !ok {
		return nil, ErrConflict
	}

	var byCertifier bool
	switch {
	case cert.IsSelf || cert.DeclarantSide(p.CompanyID):
		if err := access.Authorize(p, access.ActionTransitionDeclarant, cert); err != nil {
			return nil, ErrForbidden
		}
		if cert.ReviewConfirmedByDeclarant {
			return nil, ErrConflict
		}
	case cert.CertifierSide(p.CompanyID):
		if err := access.Authorize(p, access.ActionTransitionCertifier, cert); err != nil {
			return nil, ErrForbidden
		}
		if cert.ReviewConfirmedByCertifier {
			return nil, ErrConflict
		}
		byCertifier = true
	default:
		return nil, ErrForbidden
	}

	// the repository sets the flag and resolves completion atomically; the
	// snapshot read above is only used for the side and conflict checks
	updated, applied, err := s.certs.ConfirmReview(ctx, id, byCertifier)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrConflict
	}

	s.appendAction(ctx, id, p.UserID, "review_confirmed", string(domain.CertificateOnReview), string(updated.Status), "")

	if updated.Status == domain.CertificateCompleted {
		s.notifs.Notify(ctx, updated.DeclarantUserID, domain.NotifyCertificateStatus,
			"Certificate completed", "", map[string]any{"certificate_id": id})
		if updated.AssignedUserID != nil {
			s.notifs.Notify(ctx, *updated.AssignedUserID, domain.NotifyCertificateStatus,
				"Certificate completed", "", map[string]any{"certificate_id": id})
		}
	}

	return updated, nil
}

// visibleCertificate loads the certificate and applies the read gate,
// masking cross-tenant rows as not found.
func (s *Service) visibleCertificate(ctx context.Context, p access.Principal, id int64) (*domain.Certificate, error) {
	cert, err := s.certs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := access.Authorize(p, access.ActionRead, cert); err != nil {
		return nil, ErrNotFound
	}
	return cert, nil
}

// appendAction writes one audit row; a failed write is logged and swallowed.
func (s *Service) appendAction(ctx context.Context, certID, userID int64, action, oldV, newV, desc string) {
	err := s.certs.AppendAction(ctx, &domain.CertificateAction{
		CertificateID: certID,
		UserID:        userID,
		Action:        action,
		OldValue:      oldV,
		NewValue:      newV,
		Description:   desc,
	})
	if err != nil {
		s.log.Error("certificate action write failed", "certificate_id", certID, "action", action, "error", err)
	}
}

func (s *Service) notifyDirectors(ctx context.Context, companyID int64, typ, title string, cert *domain.Certificate) {
	users, err := s.users.ListByCompany(ctx, companyID)
	if err != nil {
		return
	}
	for _, u := range users {
		if u.Role == domain.RoleDirector && !u.IsBlocked {
			s.notifs.Notify(ctx, u.ID, typ, title, cert.CertificateType,
				map[string]any{"certificate_id": cert.ID})
		}
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
