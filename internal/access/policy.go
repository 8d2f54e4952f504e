package access

import (
	"errors"

	"customscrm/internal/domain"
)

// ErrForbidden is the only failure the policy produces. Callers that must
// not leak existence map it to their own not-found error.
var ErrForbidden = errors.New("forbidden")

// Principal is the resolved identity a request acts under. It is passed
// explicitly to every core call; there is no ambient session state.
type Principal struct {
	UserID       int64
	CompanyID    int64
	Role         domain.UserRole
	ActivityType domain.ActivityType
}

func (p Principal) IsDirector() bool { return p.Role == domain.RoleDirector }

type Action string

const (
	// ActionRead is plain visibility.
	ActionRead Action = "read"
	// ActionWrite covers record edits and deletion of non-workflow fields.
	ActionWrite Action = "write"
	// ActionDelete removes the entity.
	ActionDelete Action = "delete"
	// ActionTransitionDeclarant is a declarant-side workflow event
	// (confirm_payment, confirm_review from the declarant).
	ActionTransitionDeclarant Action = "transition_declarant"
	// ActionTransitionCertifier is a certifier-side workflow event
	// (take_in_progress, request_payment, send_for_review, reject,
	// fill_number, assign, redirect).
	ActionTransitionCertifier Action = "transition_certifier"
	// ActionExecute is executor-side forward progress on a task.
	ActionExecute Action = "execute"
	// ActionAdmin is a director-only administrative action.
	ActionAdmin Action = "admin"
)

// Authorize decides whether the principal may perform the action on the
// entity. Pure: no lookups, no side effects. Rules evaluate in order:
// tenant isolation, role gate, activity-type gate, private-client gate.
func Authorize(p Principal, action Action, entity any) error {
	switch e := entity.(type) {
	case *domain.Client:
		return authorizeClient(p, action, e)
	case *domain.Declaration:
		return authorizeDeclaration(p, action, e)
	case *domain.Certificate:
		return authorizeCertificate(p, action, e)
	case *domain.Task:
		return authorizeTask(p, action, e)
	case *domain.User:
		return authorizeUser(p, action, e)
	case *domain.Partnership:
		return authorizePartnership(p, action, e)
	}
	return ErrForbidden
}

func authorizeClient(p Principal, action Action, c *domain.Client) error {
	if c.CompanyID != p.CompanyID {
		return ErrForbidden
	}
	// a private client is visible to its creator and grant list only; there
	// is no role exception
	if !c.VisibleTo(p.UserID) {
		return ErrForbidden
	}
	switch action {
	case ActionRead:
		return nil
	case ActionWrite, ActionDelete:
		if c.CreatedByID == p.UserID || p.IsDirector() {
			return nil
		}
		return ErrForbidden
	}
	return ErrForbidden
}

func authorizeDeclaration(p Principal, action Action, d *domain.Declaration) error {
	if d.CompanyID != p.CompanyID {
		return ErrForbidden
	}
	switch action {
	case ActionRead:
		return nil
	case ActionWrite, ActionDelete:
		if d.UserID == p.UserID || p.IsDirector() {
			return nil
		}
		return ErrForbidden
	}
	return ErrForbidden
}

func authorizeCertificate(p Principal, action Action, c *domain.Certificate) error {
	declarantSide := c.DeclarantSide(p.CompanyID)
	certifierSide := c.CertifierSide(p.CompanyID)

	if !declarantSide && !certifierSide {
		return ErrForbidden
	}

	switch action {
	case ActionRead:
		return nil
	case ActionWrite:
		if declarantSide && (c.DeclarantUserID == p.UserID || p.IsDirector()) {
			return nil
		}
		return ErrForbidden
	case ActionDelete:
		// only while new, or by a declarant-side director
		if !declarantSide {
			return ErrForbidden
		}
		if c.Status == domain.CertificateNew || p.IsDirector() {
			return nil
		}
		return ErrForbidden
	case ActionTransitionDeclarant:
		if declarantSide {
			return nil
		}
		return ErrForbidden
	case ActionTransitionCertifier:
		if !certifierSide {
			return ErrForbidden
		}
		if !c.IsSelf && p.ActivityType != domain.ActivityCertifier {
			return ErrForbidden
		}
		return nil
	}
	return ErrForbidden
}

func authorizeTask(p Principal, action Action, t *domain.Task) error {
	creatorSide := t.CreatorCompanyID == p.CompanyID
	targetSide := t.TargetCompanyID == p.CompanyID

	if !creatorSide && !targetSide {
		return ErrForbidden
	}

	switch action {
	case ActionRead:
		return nil
	case ActionWrite, ActionDelete:
		// title, priority, deadline, cancel, freeze: creator or a director
		// of the creating company
		if creatorSide && (t.CreatorUserID == p.UserID || p.IsDirector()) {
			return nil
		}
		return ErrForbidden
	case ActionExecute:
		if t.TargetUserID == p.UserID {
			return nil
		}
		return ErrForbidden
	}
	return ErrForbidden
}

func authorizeUser(p Principal, action Action, u *domain.User) error {
	if u.CompanyID == nil || *u.CompanyID != p.CompanyID {
		return ErrForbidden
	}
	switch action {
	case ActionRead:
		return nil
	case ActionAdmin:
		if p.IsDirector() {
			return nil
		}
		return ErrForbidden
	}
	return ErrForbidden
}

func authorizePartnership(p Principal, action Action, pt *domain.Partnership) error {
	if !pt.Involves(p.CompanyID) {
		return ErrForbidden
	}
	switch action {
	case ActionRead:
		return nil
	case ActionAdmin, ActionDelete:
		if p.IsDirector() {
			return nil
		}
		return ErrForbidden
	}
	return ErrForbidden
}

// CanCreateDeclarations reports whether the principal's company may create
// declarations and certificates at all (activity-type gate).
func CanCreateDeclarations(p Principal) bool {
	return p.ActivityType == domain.ActivityDeclarant
}
