package models

import (
	"time"

	"github.com/google/uuid"
)

// PropertyImage is one stored photo for a listing. ImageURL is the public
// path served by the uploads handler, not the filesystem location.
type PropertyImage struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PropertyID   uuid.UUID `gorm:"column:property_id;type:uuid;not null;index"`
	ImageURL     string    `gorm:"column:image_url;not null"`
	IsPrimary    bool      `gorm:"column:is_primary;not null;default:false"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
