package products

import (
	"github.com/angelmondragon/marketplace-backend/internal/validation"
)

// ValidateProduct checks a product form before anything is persisted.
func ValidateProduct(in ProductInput) validation.Result {
	res := validation.Struct(in)
	if !in.Price.IsPositive() {
		res.Add("price", "must be greater than 0")
	}
	return res
}
