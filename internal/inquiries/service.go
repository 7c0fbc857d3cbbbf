package inquiries

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mussa52/madalali-tz/internal/access"
	"github.com/mussa52/madalali-tz/pkg/db/models"
	"github.com/mussa52/madalali-tz/pkg/enums"
	pkgerrors "github.com/mussa52/madalali-tz/pkg/errors"
)

// Service defines the inquiry lifecycle behavior needed by the controller.
type Service interface {
	Create(ctx context.Context, p *access.Principal, req CreateRequest) (*InquiryDTO, error)
	Get(ctx context.Context, p *access.Principal, id uuid.UUID) (*InquiryDTO, error)
	List(ctx context.Context, p *access.Principal, filter ListFilter) ([]InquiryDTO, error)
	UpdateStatus(ctx context.Context, p *access.Principal, id uuid.UUID, status string) (*InquiryDTO, error)
	Delete(ctx context.Context, p *access.Principal, id uuid.UUID) error
	Statistics(ctx context.Context, p *access.Principal) (*Statistics, error)
}

type inquiryRepository interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error)
	List(ctx context.Context, scope Scope, filter ListFilter) ([]models.Inquiry, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InquiryStatus) (*models.Inquiry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, scope Scope) ([]StatusCount, error)
}

type propertyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
}

type service struct {
	repo       inquiryRepository
	properties propertyFinder
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo       inquiryRepository
	Properties propertyFinder
}

// NewService constructs an inquiry lifecycle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("inquiry repository is required")
	}
	if params.Properties == nil {
		return nil, fmt.Errorf("property finder is required")
	}
	return &service{repo: params.Repo, properties: params.Properties}, nil
}

func (s *service) Create(ctx context.Context, p *access.Principal, req CreateRequest) (*InquiryDTO, error) {
	if err := access.Authorize(p, enums.UserRoleClient); err != nil {
		return nil, err
	}

	property, err := s.properties.FindByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup property")
	}
	if property.Status != enums.PropertyStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeDomainRule, "can only inquire about approved properties")
	}

	// agent_id is a point-in-time snapshot: later reassignment of the
	// property does not move existing conversations.
	inquiry := &models.Inquiry{
		PropertyID: property.ID,
		ClientID:   p.ID,
		AgentID:    property.AgentID,
		Subject:    req.Subject,
		Message:    req.Message,
		Status:     enums.InquiryStatusNew,
	}
	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create inquiry")
	}

	created, err := s.repo.FindByID(ctx, inquiry.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload inquiry")
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, p *access.Principal, id uuid.UUID) (*InquiryDTO, error) {
	if err := access.Authorize(p, enums.UserRoleAdmin, enums.UserRoleAgent, enums.UserRoleClient); err != nil {
		return nil, err
	}

	inquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup inquiry")
	}

	switch {
	case p.IsAdmin():
	case p.IsAgent():
		if inquiry.AgentID != p.ID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this inquiry")
		}
	default:
		if inquiry.ClientID != p.ID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this inquiry")
		}
	}

	// First view by the owning agent marks the inquiry read.
	if p.IsAgent() && inquiry.Status == enums.InquiryStatusNew {
		inquiry, err = s.repo.UpdateStatus(ctx, id, enums.InquiryStatusRead)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark inquiry read")
		}
	}
	return FromModel(inquiry), nil
}

func (s *service) List(ctx context.Context, p *access.Principal, filter ListFilter) ([]InquiryDTO, error) {
	if err := access.Authorize(p, enums.UserRoleAdmin, enums.UserRoleAgent, enums.UserRoleClient); err != nil {
		return nil, err
	}

	scope := Scope{}
	switch {
	case p.IsAgent():
		scope.AgentID = &p.ID
	case p.IsClient():
		scope.ClientID = &p.ID
	}

	list, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list inquiries")
	}
	return FromModels(list), nil
}

func (s *service) UpdateStatus(ctx context.Context, p *access.Principal, id uuid.UUID, status string) (*InquiryDTO, error) {
	// Clients never drive the workflow, not even on their own inquiries.
	if err := access.Authorize(p, enums.UserRoleAdmin, enums.UserRoleAgent); err != nil {
		return nil, err
	}
	parsed, err := enums.ParseInquiryStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	inquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup inquiry")
	}
	if p.IsAgent() && inquiry.AgentID != p.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this inquiry")
	}

	updated, err := s.repo.UpdateStatus(ctx, id, parsed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update inquiry status")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, p *access.Principal, id uuid.UUID) error {
	// Agents cannot delete conversations, regardless of ownership.
	if err := access.Authorize(p, enums.UserRoleAdmin, enums.UserRoleClient); err != nil {
		return err
	}

	inquiry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inquiry not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup inquiry")
	}
	if p.IsClient() && inquiry.ClientID != p.ID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this inquiry")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete inquiry")
	}
	return nil
}

func (s *service) Statistics(ctx context.Context, p *access.Principal) (*Statistics, error) {
	if err := access.Authorize(p, enums.UserRoleAdmin, enums.UserRoleAgent); err != nil {
		return nil, err
	}

	scope := Scope{}
	if p.IsAgent() {
		scope.AgentID = &p.ID
	}
	rows, err := s.repo.CountByStatus(ctx, scope)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count inquiries")
	}
	stats := &Statistics{ByStatus: rows}
	for _, row := range rows {
		stats.Total += row.Count
	}
	return stats, nil
}
