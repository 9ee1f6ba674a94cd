package enums

import "fmt"

// VendorType is chosen in the first onboarding step.
type VendorType string

const (
	VendorTypeManufacturer VendorType = "manufacturer"
	VendorTypeDealer       VendorType = "dealer"
	VendorTypeBroker       VendorType = "broker"
)

var validVendorTypes = []VendorType{
	VendorTypeManufacturer,
	VendorTypeDealer,
	VendorTypeBroker,
}

// String implements fmt.Stringer.
func (v VendorType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known VendorType.
func (v VendorType) IsValid() bool {
	for _, candidate := range validVendorTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVendorType converts raw input into a VendorType.
func ParseVendorType(value string) (VendorType, error) {
	for _, candidate := range validVendorTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid vendor type %q", value)
}

// VerificationDocuments are the document kinds a vendor may upload during onboarding.
var VerificationDocuments = []string{
	"Business Registration Certificate",
	"Tax Identification Number",
	"Trade License",
	"GST Registration",
	"Bank Statement",
}

// IsVerificationDocument reports whether name is one of VerificationDocuments.
func IsVerificationDocument(name string) bool {
	for _, doc := range VerificationDocuments {
		if doc == name {
			return true
		}
	}
	return false
}
