package enums

import "fmt"

// InquiryStatus tracks the handling workflow for a client inquiry.
type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusRead      InquiryStatus = "read"
	InquiryStatusResponded InquiryStatus = "responded"
	InquiryStatusClosed    InquiryStatus = "closed"
)

var validInquiryStatuses = []InquiryStatus{
	InquiryStatusNew,
	InquiryStatusRead,
	InquiryStatusResponded,
	InquiryStatusClosed,
}

// String implements fmt.Stringer.
func (i InquiryStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InquiryStatus.
func (i InquiryStatus) IsValid() bool {
	for _, candidate := range validInquiryStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInquiryStatus converts raw input into an InquiryStatus.
func ParseInquiryStatus(value string) (InquiryStatus, error) {
	for _, candidate := range validInquiryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inquiry status %q", value)
}
