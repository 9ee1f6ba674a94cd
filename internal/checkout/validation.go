package checkout

import (
	"github.com/angelmondragon/marketplace-backend/internal/validation"
)

func ValidateShipping(info ShippingInfo) validation.Result {
	return validation.Struct(info)
}

func ValidatePayment(info PaymentInfo) validation.Result {
	return validation.Struct(info)
}
