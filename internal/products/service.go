package products

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// Service exposes vendor product management over the shared product list.
type Service struct {
	repo  *Repository
	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the clock used for upload dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides product id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService constructs a product service.
func NewService(repo *Repository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	s := &Service{
		repo:  repo,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// List returns every product in stored order.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	product := items[idx]
	return &product, nil
}

// Create validates and appends a new product owned by vendorID.
func (s *Service) Create(ctx context.Context, vendorID string, in ProductInput) (*Product, error) {
	if err := ValidateProduct(in).Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	product := Product{
		ID:         s.newID(),
		VendorID:   vendorID,
		UploadDate: s.now().UTC().Format(UploadDateLayout),
	}
	in.apply(&product)
	items = append(items, product)
	if err := s.repo.Save(ctx, items); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update replaces the editable fields of an existing product. The id, owner and upload date are kept.
func (s *Service) Update(ctx context.Context, id string, in ProductInput) (*Product, error) {
	if err := ValidateProduct(in).Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	in.apply(&items[idx])
	if err := s.repo.Save(ctx, items); err != nil {
		return nil, err
	}
	product := items[idx]
	return &product, nil
}

// Delete removes a product.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	items = append(items[:idx], items[idx+1:]...)
	return s.repo.Save(ctx, items)
}

// UpdateStockStatus changes only the stock status of a product.
func (s *Service) UpdateStockStatus(ctx context.Context, id string, status enums.StockStatus) (*Product, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid stock status").
			WithDetails(map[string]string{"stock_status": "must be one of in-stock, low-stock, out-of-stock"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	items[idx].StockStatus = status
	if err := s.repo.Save(ctx, items); err != nil {
		return nil, err
	}
	product := items[idx]
	return &product, nil
}

func indexOf(items []Product, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
