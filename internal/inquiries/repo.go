package inquiries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mussa52/madalali-tz/pkg/db/models"
	"github.com/mussa52/madalali-tz/pkg/enums"
)

// Scope is the role-derived restriction applied to every inquiry query. It
// is mandatory for agents and clients and cannot be widened by filters.
type Scope struct {
	AgentID  *uuid.UUID
	ClientID *uuid.UUID
}

// Repository exposes inquiry persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an inquiries repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new inquiry row.
func (r *Repository) Create(ctx context.Context, inquiry *models.Inquiry) error {
	if inquiry.ID == uuid.Nil {
		inquiry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Property", "Client", "Agent").Create(inquiry).Error
}

// FindByID loads an inquiry with its property summary.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	var inquiry models.Inquiry
	err := r.db.WithContext(ctx).
		Preload("Property").
		First(&inquiry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

// List returns inquiries inside the scope matching the filters, newest first.
func (r *Repository) List(ctx context.Context, scope Scope, filter ListFilter) ([]models.Inquiry, error) {
	query := r.db.WithContext(ctx).Model(&models.Inquiry{})
	if scope.AgentID != nil {
		query = query.Where("agent_id = ?", *scope.AgentID)
	}
	if scope.ClientID != nil {
		query = query.Where("client_id = ?", *scope.ClientID)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var list []models.Inquiry
	err := query.
		Preload("Property").
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateStatus persists a new workflow status and reloads the row.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InquiryStatus) (*models.Inquiry, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Inquiry{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes the inquiry row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Inquiry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus aggregates inquiry counts per status inside the scope.
func (r *Repository) CountByStatus(ctx context.Context, scope Scope) ([]StatusCount, error) {
	query := r.db.WithContext(ctx).Model(&models.Inquiry{})
	if scope.AgentID != nil {
		query = query.Where("agent_id = ?", *scope.AgentID)
	}
	if scope.ClientID != nil {
		query = query.Where("client_id = ?", *scope.ClientID)
	}

	var rows []StatusCount
	err := query.
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
