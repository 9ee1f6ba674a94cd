// Package enquiries exposes the read-only buyer enquiries shown to vendors.
package enquiries

import (
	"context"
	"fmt"
	"sort"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/kvstore"
)

// StoreKey holds the shared enquiry list.
const StoreKey = "enquiries"

// Enquiry is a buyer message about a product.
type Enquiry struct {
	ID          string              `json:"id"`
	ProductID   string              `json:"product_id"`
	ProductName string              `json:"product_name"`
	BuyerName   string              `json:"buyer_name"`
	BuyerEmail  string              `json:"buyer_email"`
	Message     string              `json:"message"`
	Status      enums.EnquiryStatus `json:"status"`
	Date        string              `json:"date"`
}

// SeedEnquiries is written on first access to the enquiries key.
func SeedEnquiries() []Enquiry {
	return []Enquiry{
		{ID: "1", ProductID: "1", ProductName: "Wireless Bluetooth Headphones", BuyerName: "Alice Johnson", BuyerEmail: "alice@example.com", Message: "Do these headphones support multipoint pairing?", Status: enums.EnquiryStatusNew, Date: "2024-02-20"},
		{ID: "2", ProductID: "2", ProductName: "Organic Cotton T-Shirt", BuyerName: "Bob Smith", BuyerEmail: "bob@example.com", Message: "Is a bulk discount available for 50 units?", Status: enums.EnquiryStatusResponded, Date: "2024-02-18"},
		{ID: "3", ProductID: "3", ProductName: "Smart Garden Kit", BuyerName: "Carol White", BuyerEmail: "carol@example.com", Message: "When will this be back in stock?", Status: enums.EnquiryStatusNew, Date: "2024-02-22"},
		{ID: "4", ProductID: "4", ProductName: "Yoga Mat Pro", BuyerName: "David Lee", BuyerEmail: "david@example.com", Message: "Which colors are available?", Status: enums.EnquiryStatusClosed, Date: "2024-02-12"},
		{ID: "5", ProductID: "5", ProductName: "Industrial Safety Gloves", BuyerName: "Eva Green", BuyerEmail: "eva@example.com", Message: "Can you share the EN 388 certificate?", Status: enums.EnquiryStatusNew, Date: "2024-02-25"},
		{ID: "6", ProductID: "1", ProductName: "Wireless Bluetooth Headphones", BuyerName: "Frank Moore", BuyerEmail: "frank@example.com", Message: "What is the warranty period?", Status: enums.EnquiryStatusResponded, Date: "2024-02-05"},
	}
}

// Repository reads the enquiry list.
type Repository struct {
	store *kvstore.Store
}

func NewRepository(store *kvstore.Store) *Repository {
	return &Repository{store: store}
}

// List returns every enquiry, seeding the defaults on first access.
func (r *Repository) List(ctx context.Context) ([]Enquiry, error) {
	items, err := kvstore.Get(ctx, r.store, StoreKey, SeedEnquiries())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Enquiry{}
	}
	return items, nil
}

// Service answers the vendor-facing enquiry queries.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("enquiry repository required")
	}
	return &Service{repo: repo}, nil
}

// List returns enquiries newest first. An empty status returns all of them.
func (s *Service) List(ctx context.Context, status enums.EnquiryStatus) ([]Enquiry, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Enquiry, 0, len(items))
	for _, e := range items {
		if status != "" && e.Status != status {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// CountNew returns how many enquiries are still unanswered.
func (s *Service) CountNew(ctx context.Context) (int, error) {
	items, err := s.List(ctx, enums.EnquiryStatusNew)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Recent returns at most limit enquiries, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Enquiry, error) {
	items, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
