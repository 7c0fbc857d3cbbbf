package properties

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

// Service defines the property lifecycle behavior needed by the controller.
type Service interface {
	Create(ctx context.Context, p *access.Principal, req CreateRequest, photoURL string) (*PropertyDTO, error)
	List(ctx context.Context, p *access.Principal, filter ListFilter) ([]PropertyDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*PropertyDTO, error)
	MyProperties(ctx context.Context, p *access.Principal, filter ListFilter) ([]PropertyDTO, error)
	Update(ctx context.Context, p *access.Principal, id uuid.UUID, req UpdateRequest) (*PropertyDTO, error)
	UpdateStatus(ctx context.Context, p *access.Principal, id uuid.UUID, status string) (*PropertyDTO, error)
	Delete(ctx context.Context, p *access.Principal, id uuid.UUID) error
	Statistics(ctx context.Context, p *access.Principal) (*Statistics, error)
}

type propertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	AddImage(ctx context.Context, image *models.PropertyImage) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, scope Scope, filter ListFilter) ([]models.Property, error)
	Update(ctx context.Context, id uuid.UUID, values map[string]any) (*models.Property, error)
	Delete(ctx context.Context, id uuid.UUID) error
	StatsByStatus(ctx context.Context) ([]StatusStat, error)
}

type service struct {
	repo propertyRepository
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo propertyRepository
}

// NewService constructs a property lifecycle service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("property repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, p *access.Principal, req CreateRequest, photoURL string) (*PropertyDTO, error) {
	if err := access.Authorize(p, enums.UserRoleAgent); err != nil {
		return nil, err
	}

	propertyType, err := enums.ParsePropertyType(req.PropertyType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid property type")
	}
	listingType, err := enums.ParseListingType(req.ListingType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing type")
	}
	if req.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if req.AreaSqm != nil && req.AreaSqm.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "area_sqm must not be negative")
	}

	// Any caller-supplied status is discarded: new listings are always
	// pending until an admin reviews them.
	property := &models.Property{
		Title:         req.Title,
		Description:   req.Description,
		PropertyType:  propertyType,
		ListingType:   listingType,
		Price:         req.Price,
		Location:      req.Location,
		City:          req.City,
		Address:       req.Address,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		AreaSqm:       req.AreaSqm,
		ParkingSpaces: req.ParkingSpaces,
		Features:      featuresArray(req.Features),
		AgentID:       p.ID,
		Status:        enums.PropertyStatusPending,
	}

	if err := s.repo.Create(ctx, property); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create property")
	}

	// The image attach is a second write with no compensation: a failure
	// here leaves the listing without its photo.
	if photoURL != "" {
		image := &models.PropertyImage{
			PropertyID: property.ID,
			ImageURL:   photoURL,
			IsPrimary:  true,
		}
		if err := s.repo.AddImage(ctx, image); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach property image")
		}
	}

	created, err := s.repo.FindByID(ctx, property.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload property")
	}
	return FromModel(created), nil
}

func (s *service) List(ctx context.Context, p *access.Principal, filter ListFilter) ([]PropertyDTO, error) {
	scope, err := listScope(p, filter.Status)
	if err != nil {
		return nil, err
	}
	filter.Status = ""
	list, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list properties")
	}
	return FromModels(list), nil
}

// listScope derives the mandatory visibility restriction from the caller's
// role before any orthogonal filters apply.
func listScope(p *access.Principal, requestedStatus string) (Scope, error) {
	switch {
	case p == nil, p.IsClient():
		// Anonymous and client callers only ever see approved listings;
		// a caller-supplied status is ignored for enforcement purposes.
		return Scope{Status: enums.PropertyStatusApproved}, nil
	case p.IsAgent():
		scope := Scope{AgentID: &p.ID}
		if requestedStatus != "" {
			status, err := enums.ParsePropertyStatus(requestedStatus)
			if err != nil {
				return Scope{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
			}
			scope.Status = status
		}
		return scope, nil
	default: // admin
		scope := Scope{}
		if requestedStatus != "" {
			status, err := enums.ParsePropertyStatus(requestedStatus)
			if err != nil {
				return Scope{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
			}
			scope.Status = status
		}
		return scope, nil
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PropertyDTO, error) {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup property")
	}

	// Always-count policy: every successful fetch bumps the counter, even
	// for the owning agent or an admin.
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment views")
	}
	property.ViewsCount++
	return FromModel(property), nil
}

func (s *service) MyProperties(ctx context.Context, p *access.Principal, filter ListFilter) ([]PropertyDTO, error) {
	if err := access.Authorize(p, enums.UserRoleAgent); err != nil {
		return nil, err
	}
	scope := Scope{AgentID: &p.ID}
	if filter.Status != "" {
		status, err := enums.ParsePropertyStatus(filter.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		scope.Status = status
		filter.Status = ""
	}
	list, err := s.repo.List(ctx, scope, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list own properties")
	}
	return FromModels(list), nil
}

func (s *service) Update(ctx context.Context, p *access.Principal, id uuid.UUID, req UpdateRequest) (*PropertyDTO, error) {
	if err := access.Authorize(p, enums.UserRoleAgent, enums.UserRoleAdmin); err != nil {
		return nil, err
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup property")
	}
	if !p.IsAdmin() {
		if err := access.CheckOwnership(p, property.AgentID); err != nil {
			return nil, err
		}
	}

	values, err := updateValues(p, req)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, values)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update property")
	}
	return FromModel(updated), nil
}

func updateValues(p *access.Principal, req UpdateRequest) (map[string]any, error) {
	values := map[string]any{}
	if req.Title != nil {
		values["title"] = *req.Title
	}
	if req.Description != nil {
		values["description"] = *req.Description
	}
	if req.PropertyType != nil {
		propertyType, err := enums.ParsePropertyType(*req.PropertyType)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid property type")
		}
		values["property_type"] = propertyType
	}
	if req.ListingType != nil {
		listingType, err := enums.ParseListingType(*req.ListingType)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid listing type")
		}
		values["listing_type"] = listingType
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		values["price"] = *req.Price
	}
	if req.Location != nil {
		values["location"] = *req.Location
	}
	if req.City != nil {
		values["city"] = *req.City
	}
	if req.Address != nil {
		values["address"] = *req.Address
	}
	if req.Bedrooms != nil {
		values["bedrooms"] = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		values["bathrooms"] = *req.Bathrooms
	}
	if req.AreaSqm != nil {
		if req.AreaSqm.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "area_sqm must not be negative")
		}
		values["area_sqm"] = *req.AreaSqm
	}
	if req.ParkingSpaces != nil {
		values["parking_spaces"] = *req.ParkingSpaces
	}
	if req.Features != nil {
		values["features"] = featuresArray(*req.Features)
	}
	// Agents cannot touch the review status through a regular update.
	if req.Status != nil && p.IsAdmin() {
		status, err := enums.ParsePropertyStatus(*req.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		values["status"] = status
	}
	return values, nil
}

func (s *service) UpdateStatus(ctx context.Context, p *access.Principal, id uuid.UUID, status string) (*PropertyDTO, error) {
	if err := access.Authorize(p, enums.UserRoleAdmin); err != nil {
		return nil, err
	}
	parsed, err := enums.ParsePropertyStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup property")
	}

	updated, err := s.repo.Update(ctx, id, map[string]any{"status": parsed})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update property status")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, p *access.Principal, id uuid.UUID) error {
	if err := access.Authorize(p, enums.UserRoleAgent, enums.UserRoleAdmin); err != nil {
		return err
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup property")
	}
	if !p.IsAdmin() {
		if err := access.CheckOwnership(p, property.AgentID); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete property")
	}
	return nil
}

func (s *service) Statistics(ctx context.Context, p *access.Principal) (*Statistics, error) {
	if err := access.Authorize(p, enums.UserRoleAdmin); err != nil {
		return nil, err
	}
	rows, err := s.repo.StatsByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count properties")
	}
	stats := &Statistics{ByStatus: rows}
	for _, row := range rows {
		stats.Total += row.Count
	}
	return stats, nil
}
