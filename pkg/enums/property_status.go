package enums

import "fmt"

// PropertyStatus tracks the moderation workflow for a listing.
// Every property starts at pending; only admins move it from there.
type PropertyStatus string

const (
	PropertyStatusPending  PropertyStatus = "pending"
	PropertyStatusApproved PropertyStatus = "approved"
	PropertyStatusRejected PropertyStatus = "rejected"
)

var validPropertyStatuses = []PropertyStatus{
	PropertyStatusPending,
	PropertyStatusApproved,
	PropertyStatusRejected,
}

// String implements fmt.Stringer.
func (p PropertyStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PropertyStatus.
func (p PropertyStatus) IsValid() bool {
	for _, candidate := range validPropertyStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePropertyStatus converts raw input into a PropertyStatus.
func ParsePropertyStatus(value string) (PropertyStatus, error) {
	for _, candidate := range validPropertyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid property status %q", value)
}
