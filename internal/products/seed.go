package products

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// SeedVendorID owns the seeded listings.
const SeedVendorID = "1"

// SeedProducts is the catalog written on first access to the products key.
func SeedProducts() []Product {
	return []Product{
		{
			ID:          "1",
			VendorID:    SeedVendorID,
			Name:        "Wireless Bluetooth Headphones",
			Subheading:  "Premium noise-cancelling over-ear headphones",
			Description: "Immersive sound with active noise cancellation, 30-hour battery life and fast charging.",
			Price:       decimal.RequireFromString("199.99"),
			Categories:  []string{string(enums.ProductCategoryElectronics)},
			StockStatus: enums.StockStatusInStock,
			Image:       "/placeholder.svg",
			UploadDate:  "2024-01-15",
		},
		{
			ID:          "2",
			VendorID:    SeedVendorID,
			Name:        "Organic Cotton T-Shirt",
			Subheading:  "Soft, breathable everyday tee",
			Description: "Made from 100% certified organic cotton with a relaxed fit.",
			Price:       decimal.RequireFromString("29.99"),
			Categories:  []string{string(enums.ProductCategoryFashion)},
			StockStatus: enums.StockStatusLowStock,
			Image:       "/placeholder.svg",
			UploadDate:  "2024-01-20",
		},
		{
			ID:          "3",
			VendorID:    SeedVendorID,
			Name:        "Smart Garden Kit",
			Subheading:  "Indoor herb garden with automatic lighting",
			Description: "Grow fresh herbs year-round with self-watering pods and an LED grow light.",
			Price:       decimal.RequireFromString("149.50"),
			Categories:  []string{string(enums.ProductCategoryHomeGarden), string(enums.ProductCategoryElectronics)},
			StockStatus: enums.StockStatusOutOfStock,
			Image:       "/placeholder.svg",
			UploadDate:  "2024-02-02",
		},
		{
			ID:          "4",
			VendorID:    SeedVendorID,
			Name:        "Yoga Mat Pro",
			Subheading:  "Non-slip 6mm exercise mat",
			Description: "Extra thick cushioning with a textured grip surface and carrying strap.",
			Price:       decimal.RequireFromString("49.00"),
			Categories:  []string{string(enums.ProductCategorySports)},
			StockStatus: enums.StockStatusInStock,
			Image:       "/placeholder.svg",
			UploadDate:  "2024-02-10",
		},
		{
			ID:          "5",
			VendorID:    SeedVendorID,
			Name:        "Industrial Safety Gloves",
			Subheading:  "Cut-resistant work gloves, pack of 12",
			Description: "Level 5 cut protection with a nitrile-coated palm for wet and dry handling.",
			Price:       decimal.RequireFromString("64.75"),
			Categories:  []string{string(enums.ProductCategoryIndustrial)},
			StockStatus: enums.StockStatusInStock,
			Image:       "/placeholder.svg",
			UploadDate:  "2024-02-18",
		},
	}
}
