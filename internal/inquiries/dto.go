package inquiries

import (
	"time"

	"github.com/google/uuid"

	"github.com/mussa52/madalali-tz/pkg/db/models"
	"github.com/mussa52/madalali-tz/pkg/enums"
)

// PropertySummary is the slimmed listing shape embedded in inquiry responses.
type PropertySummary struct {
	ID       uuid.UUID            `json:"id"`
	Title    string               `json:"title"`
	City     string               `json:"city"`
	Location string               `json:"location"`
	Status   enums.PropertyStatus `json:"status"`
}

// InquiryDTO is the transport shape of one inquiry.
type InquiryDTO struct {
	ID         uuid.UUID           `json:"id"`
	PropertyID uuid.UUID           `json:"property_id"`
	Property   *PropertySummary    `json:"property,omitempty"`
	ClientID   uuid.UUID           `json:"client_id"`
	AgentID    uuid.UUID           `json:"agent_id"`
	Subject    string              `json:"subject"`
	Message    string              `json:"message"`
	Status     enums.InquiryStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// CreateRequest is the client payload for opening an inquiry.
type CreateRequest struct {
	PropertyID uuid.UUID `json:"property_id" validate:"required"`
	Subject    string    `json:"subject" validate:"required"`
	Message    string    `json:"message" validate:"required"`
}

// UpdateStatusRequest moves an inquiry through its workflow.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListFilter narrows inquiry listings inside the role-derived scope.
type ListFilter struct {
	PropertyID *uuid.UUID
	Status     enums.InquiryStatus
}

// StatusCount is one row of the per-status statistics.
type StatusCount struct {
	Status enums.InquiryStatus `json:"status"`
	Count  int64               `json:"count"`
}

// Statistics summarizes inquiries by status.
type Statistics struct {
	Total    int64         `json:"total"`
	ByStatus []StatusCount `json:"by_status"`
}

func FromModel(i *models.Inquiry) *InquiryDTO {
	if i == nil {
		return nil
	}

	dto := &InquiryDTO{
		ID:         i.ID,
		PropertyID: i.PropertyID,
		ClientID:   i.ClientID,
		AgentID:    i.AgentID,
		Subject:    i.Subject,
		Message:    i.Message,
		Status:     i.Status,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
	if i.Property != nil {
		dto.Property = &PropertySummary{
			ID:       i.Property.ID,
			Title:    i.Property.Title,
			City:     i.Property.City,
			Location: i.Property.Location,
			Status:   i.Property.Status,
		}
	}
	return dto
}

func FromModels(list []models.Inquiry) []InquiryDTO {
	out := make([]InquiryDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}
