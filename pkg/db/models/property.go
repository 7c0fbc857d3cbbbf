package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mussa52/madalali-tz/pkg/enums"
)

// Property represents an agent's listing. New rows always start at status
// pending; only admins move them to approved or rejected.
type Property struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title         string               `gorm:"column:title;not null"`
	Description   string               `gorm:"column:description;not null"`
	PropertyType  enums.PropertyType   `gorm:"column:property_type;type:text;not null"`
	ListingType   enums.ListingType    `gorm:"column:listing_type;type:text;not null"`
	Price         decimal.Decimal      `gorm:"column:price;type:numeric(14,2);not null"`
	Location      string               `gorm:"column:location;not null"`
	City          string               `gorm:"column:city;not null"`
	Address       string               `gorm:"column:address"`
	Bedrooms      *int                 `gorm:"column:bedrooms"`
	Bathrooms     *int                 `gorm:"column:bathrooms"`
	AreaSqm       *decimal.Decimal     `gorm:"column:area_sqm;type:numeric(12,2)"`
	ParkingSpaces *int                 `gorm:"column:parking_spaces"`
	Features      pq.StringArray       `gorm:"column:features;type:text[]"`
	AgentID       uuid.UUID            `gorm:"column:agent_id;type:uuid;not null;index"`
	Agent         *User                `gorm:"foreignKey:AgentID"`
	Status        enums.PropertyStatus `gorm:"column:status;type:text;not null;default:pending;index"`
	ViewsCount    int                  `gorm:"column:views_count;not null;default:0"`
	Images        []PropertyImage      `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
