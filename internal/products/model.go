package products

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// UploadDateLayout is the calendar-day format stored in Product.UploadDate.
const UploadDateLayout = "2006-01-02"

// Product is a vendor listing as stored under the products key.
type Product struct {
	ID          string            `json:"id"`
	VendorID    string            `json:"vendor_id"`
	Name        string            `json:"name"`
	Subheading  string            `json:"subheading"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Categories  []string          `json:"categories"`
	StockStatus enums.StockStatus `json:"stock_status"`
	Image       string            `json:"image"`
	UploadDate  string            `json:"upload_date"`
}

// HasCategory reports whether category is one of the product's tags.
func (p Product) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Purchasable reports whether the product can be added to a cart.
func (p Product) Purchasable() bool {
	return p.StockStatus != enums.StockStatusOutOfStock
}

// ProductInput is the editable part of a product, submitted by the vendor product form.
type ProductInput struct {
	Name        string            `json:"name" validate:"notblank"`
	Subheading  string            `json:"subheading" validate:"notblank"`
	Description string            `json:"description" validate:"notblank"`
	Price       decimal.Decimal   `json:"price"`
	Categories  []string          `json:"categories" validate:"min=1,unique,dive,product_category"`
	StockStatus enums.StockStatus `json:"stock_status" validate:"omitempty,oneof=in-stock low-stock out-of-stock"`
	Image       string            `json:"image"`
}

func (in ProductInput) apply(p *Product) {
	p.Name = in.Name
	p.Subheading = in.Subheading
	p.Description = in.Description
	p.Price = in.Price
	p.Categories = append([]string(nil), in.Categories...)
	p.StockStatus = in.StockStatus
	if p.StockStatus == "" {
		p.StockStatus = enums.StockStatusInStock
	}
	p.Image = in.Image
}
