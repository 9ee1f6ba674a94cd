// Package dashboard computes the vendor home screen KPIs.
package dashboard

import (
	"context"
	"fmt"

	"github.com/angelmondragon/marketplace-backend/internal/enquiries"
	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// RecentEnquiryLimit caps Summary.RecentEnquiries.
const RecentEnquiryLimit = 5

// Summary is the vendor dashboard payload.
type Summary struct {
	TotalProducts      int                 `json:"total_products"`
	InStockProducts    int                 `json:"in_stock_products"`
	LowStockProducts   int                 `json:"low_stock_products"`
	OutOfStockProducts int                 `json:"out_of_stock_products"`
	NewEnquiries       int                 `json:"new_enquiries"`
	RecentEnquiries    []enquiries.Enquiry `json:"recent_enquiries"`
}

type productLister interface {
	List(ctx context.Context) ([]products.Product, error)
}

type enquiryReader interface {
	CountNew(ctx context.Context) (int, error)
	Recent(ctx context.Context, limit int) ([]enquiries.Enquiry, error)
}

type Service struct {
	products  productLister
	enquiries enquiryReader
}

func NewService(products productLister, enquiries enquiryReader) (*Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product service required")
	}
	if enquiries == nil {
		return nil, fmt.Errorf("enquiry service required")
	}
	return &Service{products: products, enquiries: enquiries}, nil
}

// Summary counts products by stock status and collects enquiry highlights.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	items, err := s.products.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	out := Summary{TotalProducts: len(items)}
	for _, p := range items {
		switch p.StockStatus {
		case enums.StockStatusInStock:
			out.InStockProducts++
		case enums.StockStatusLowStock:
			out.LowStockProducts++
		case enums.StockStatusOutOfStock:
			out.OutOfStockProducts++
		}
	}

	if out.NewEnquiries, err = s.enquiries.CountNew(ctx); err != nil {
		return Summary{}, err
	}
	if out.RecentEnquiries, err = s.enquiries.Recent(ctx, RecentEnquiryLimit); err != nil {
		return Summary{}, err
	}
	return out, nil
}
