package properties

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mussa52/madalali-tz/pkg/db/models"
	"github.com/mussa52/madalali-tz/pkg/enums"
)

const imageOrder = "is_primary DESC, display_order ASC"

// Scope is the role-derived visibility restriction applied before any caller
// filters.
type Scope struct {
	AgentID *uuid.UUID
	Status  enums.PropertyStatus
}

// Repository exposes property persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a properties repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new property row.
func (r *Repository) Create(ctx context.Context, property *models.Property) error {
	if property.ID == uuid.Nil {
		property.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit("Images", "Agent").Create(property).Error
}

// AddImage attaches a photo row to a property.
func (r *Repository) AddImage(ctx context.Context, image *models.PropertyImage) error {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(image).Error
}

// FindByID loads a property with its agent and ordered images.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Preload("Agent").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order(imageOrder)
		}).
		First(&property, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// IncrementViews bumps views_count by one. The counter only ever grows.
func (r *Repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Property{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1)).Error
}

// List returns properties inside the given scope matching the filters,
// newest first, each with its ordered images.
func (r *Repository) List(ctx context.Context, scope Scope, filter ListFilter) ([]models.Property, error) {
	query := r.db.WithContext(ctx).Model(&models.Property{})

	if scope.AgentID != nil {
		query = query.Where("agent_id = ?", *scope.AgentID)
	}
	if scope.Status != "" {
		query = query.Where("status = ?", scope.Status)
	}

	if filter.PropertyType != "" {
		query = query.Where("property_type = ?", filter.PropertyType)
	}
	if filter.ListingType != "" {
		query = query.Where("listing_type = ?", filter.ListingType)
	}
	if filter.City != "" {
		query = query.Where("city LIKE ?", "%"+filter.City+"%")
	}
	if filter.Location != "" {
		query = query.Where("location LIKE ?", "%"+filter.Location+"%")
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.MinBedrooms != nil {
		query = query.Where("bedrooms >= ?", *filter.MinBedrooms)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"title LIKE ? OR description LIKE ? OR location LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var list []models.Property
	err := query.
		Preload("Agent").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order(imageOrder)
		}).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Update persists the supplied column values and reloads the row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, values map[string]any) (*models.Property, error) {
	if len(values) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Property{}).Where("id = ?", id).Updates(values)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the property row; image rows cascade at the store level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Property{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// StatsByStatus aggregates listing counts and average price per status.
func (r *Repository) StatsByStatus(ctx context.Context) ([]StatusStat, error) {
	var rows []StatusStat
	err := r.db.WithContext(ctx).
		Model(&models.Property{}).
		Select("status, COUNT(*) AS count, AVG(price) AS avg_price").
		Group("status").
		Order("status ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
