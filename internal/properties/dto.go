package properties

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mussa52/madalali-tz/pkg/db/models"
	"github.com/mussa52/madalali-tz/pkg/enums"
)

// ImageDTO is the transport shape of one listing photo.
type ImageDTO struct {
	ID           uuid.UUID `json:"id"`
	ImageURL     string    `json:"image_url"`
	IsPrimary    bool      `json:"is_primary"`
	DisplayOrder int       `json:"display_order"`
}

// AgentSummary carries the public contact fields of the owning agent.
type AgentSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone *string   `json:"phone,omitempty"`
}

// PropertyDTO is the transport shape of a listing.
type PropertyDTO struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	PropertyType  enums.PropertyType   `json:"property_type"`
	ListingType   enums.ListingType    `json:"listing_type"`
	Price         decimal.Decimal      `json:"price"`
	Location      string               `json:"location"`
	City          string               `json:"city"`
	Address       string               `json:"address,omitempty"`
	Bedrooms      *int                 `json:"bedrooms,omitempty"`
	Bathrooms     *int                 `json:"bathrooms,omitempty"`
	AreaSqm       *decimal.Decimal     `json:"area_sqm,omitempty"`
	ParkingSpaces *int                 `json:"parking_spaces,omitempty"`
	Features      []string             `json:"features"`
	AgentID       uuid.UUID            `json:"agent_id"`
	Agent         *AgentSummary        `json:"agent,omitempty"`
	Status        enums.PropertyStatus `json:"status"`
	ViewsCount    int                  `json:"views_count"`
	PrimaryImage  *ImageDTO            `json:"primary_image,omitempty"`
	Images        []ImageDTO           `json:"images"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// CreateRequest is the agent payload for a new listing. Any supplied status
// is ignored: listings always start pending.
type CreateRequest struct {
	Title         string           `json:"title" validate:"required"`
	Description   string           `json:"description" validate:"required"`
	PropertyType  string           `json:"property_type" validate:"required"`
	ListingType   string           `json:"listing_type" validate:"required"`
	Price         decimal.Decimal  `json:"price"`
	Location      string           `json:"location" validate:"required"`
	City          string           `json:"city" validate:"required"`
	Address       string           `json:"address,omitempty"`
	Bedrooms      *int             `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms     *int             `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	AreaSqm       *decimal.Decimal `json:"area_sqm,omitempty"`
	ParkingSpaces *int             `json:"parking_spaces,omitempty" validate:"omitempty,gte=0"`
	Features      []string         `json:"features,omitempty"`
	Status        string           `json:"status,omitempty"`
}

// UpdateRequest carries a partial listing update. Status is only honored for
// admins; for agents it is silently dropped.
type UpdateRequest struct {
	Title         *string          `json:"title,omitempty"`
	Description   *string          `json:"description,omitempty"`
	PropertyType  *string          `json:"property_type,omitempty"`
	ListingType   *string          `json:"listing_type,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	Location      *string          `json:"location,omitempty"`
	City          *string          `json:"city,omitempty"`
	Address       *string          `json:"address,omitempty"`
	Bedrooms      *int             `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms     *int             `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
	AreaSqm       *decimal.Decimal `json:"area_sqm,omitempty"`
	ParkingSpaces *int             `json:"parking_spaces,omitempty" validate:"omitempty,gte=0"`
	Features      *[]string        `json:"features,omitempty"`
	Status        *string          `json:"status,omitempty"`
}

// ListFilter holds the orthogonal listing filters ANDed on top of the
// role-derived scope.
type ListFilter struct {
	Status       string
	PropertyType string
	ListingType  string
	City         string
	Location     string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	MinBedrooms  *int
	Search       string
	Limit        int
}

// StatusStat is one row of the per-status statistics.
type StatusStat struct {
	Status   enums.PropertyStatus `json:"status"`
	Count    int64                `json:"count"`
	AvgPrice decimal.Decimal      `json:"avg_price"`
}

// Statistics summarizes listings by status.
type Statistics struct {
	Total    int64        `json:"total"`
	ByStatus []StatusStat `json:"by_status"`
}

func imageFromModel(img *models.PropertyImage) *ImageDTO {
	if img == nil {
		return nil
	}
	return &ImageDTO{
		ID:           img.ID,
		ImageURL:     img.ImageURL,
		IsPrimary:    img.IsPrimary,
		DisplayOrder: img.DisplayOrder,
	}
}

func FromModel(p *models.Property) *PropertyDTO {
	if p == nil {
		return nil
	}

	dto := &PropertyDTO{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		PropertyType:  p.PropertyType,
		ListingType:   p.ListingType,
		Price:         p.Price,
		Location:      p.Location,
		City:          p.City,
		Address:       p.Address,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		AreaSqm:       p.AreaSqm,
		ParkingSpaces: p.ParkingSpaces,
		Features:      append([]string(nil), []string(p.Features)...),
		AgentID:       p.AgentID,
		Status:        p.Status,
		ViewsCount:    p.ViewsCount,
		Images:        make([]ImageDTO, 0, len(p.Images)),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if dto.Features == nil {
		dto.Features = []string{}
	}
	if p.Agent != nil {
		dto.Agent = &AgentSummary{
			ID:    p.Agent.ID,
			Name:  p.Agent.Name,
			Email: p.Agent.Email,
			Phone: p.Agent.Phone,
		}
	}
	for i := range p.Images {
		dto.Images = append(dto.Images, *imageFromModel(&p.Images[i]))
	}
	// Images arrive ordered (is_primary desc, display_order asc), so the
	// best candidate is always the first row.
	if len(dto.Images) > 0 {
		dto.PrimaryImage = &dto.Images[0]
	}
	return dto
}

func FromModels(list []models.Property) []PropertyDTO {
	out := make([]PropertyDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func featuresArray(features []string) pq.StringArray {
	if features == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(features)
}
