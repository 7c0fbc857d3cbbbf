package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mussa52/madalali-tz/pkg/enums"
)

// Inquiry is a client's message about an approved listing. AgentID is
// snapshotted from the property at creation time so the conversation stays
// with the original agent even if the listing is later reassigned.
type Inquiry struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PropertyID uuid.UUID           `gorm:"column:property_id;type:uuid;not null;index"`
	Property   *Property           `gorm:"foreignKey:PropertyID"`
	ClientID   uuid.UUID           `gorm:"column:client_id;type:uuid;not null;index"`
	Client     *User               `gorm:"foreignKey:ClientID"`
	AgentID    uuid.UUID           `gorm:"column:agent_id;type:uuid;not null;index"`
	Agent      *User               `gorm:"foreignKey:AgentID"`
	Subject    string              `gorm:"column:subject;not null"`
	Message    string              `gorm:"column:message;not null"`
	Status     enums.InquiryStatus `gorm:"column:status;type:text;not null;default:new"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
