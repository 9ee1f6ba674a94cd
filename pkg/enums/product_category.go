package enums

import "fmt"

// ProductCategory represents the canonical product categories supported by the catalog.
type ProductCategory string

const (
	ProductCategoryElectronics ProductCategory = "Electronics"
	ProductCategoryFashion     ProductCategory = "Fashion"
	ProductCategoryHomeGarden  ProductCategory = "Home & Garden"
	ProductCategorySports      ProductCategory = "Sports"
	ProductCategoryBeauty      ProductCategory = "Beauty"
	ProductCategoryBooks       ProductCategory = "Books"
	ProductCategoryToys        ProductCategory = "Toys"
	ProductCategoryFood        ProductCategory = "Food & Beverage"
	ProductCategoryAutomotive  ProductCategory = "Automotive"
	ProductCategoryIndustrial  ProductCategory = "Industrial"
)

var validProductCategories = []ProductCategory{
	ProductCategoryElectronics,
	ProductCategoryFashion,
	ProductCategoryHomeGarden,
	ProductCategorySports,
	ProductCategoryBeauty,
	ProductCategoryBooks,
	ProductCategoryToys,
	ProductCategoryFood,
	ProductCategoryAutomotive,
	ProductCategoryIndustrial,
}

// String implements fmt.Stringer.
func (v ProductCategory) String() string {
	return string(v)
}

// IsValid reports whether the value is a known ProductCategory.
func (v ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductCategories lists the categories in display order.
func ProductCategories() []ProductCategory {
	out := make([]ProductCategory, len(validProductCategories))
	copy(out, validProductCategories)
	return out
}
