package enums

import "fmt"

// EnquiryStatus tracks where a buyer enquiry is in the vendor's inbox.
type EnquiryStatus string

const (
	EnquiryStatusNew       EnquiryStatus = "new"
	EnquiryStatusResponded EnquiryStatus = "responded"
	EnquiryStatusClosed    EnquiryStatus = "closed"
)

var validEnquiryStatuses = []EnquiryStatus{
	EnquiryStatusNew,
	EnquiryStatusResponded,
	EnquiryStatusClosed,
}

// String implements fmt.Stringer.
func (v EnquiryStatus) String() string {
	return string(v)
}

// IsValid reports whether the value is a known EnquiryStatus.
func (v EnquiryStatus) IsValid() bool {
	for _, candidate := range validEnquiryStatuses {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseEnquiryStatus converts raw input into a EnquiryStatus.
func ParseEnquiryStatus(value string) (EnquiryStatus, error) {
	for _, candidate := range validEnquiryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid enquiry status %q", value)
}
