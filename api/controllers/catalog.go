package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/catalog"
	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/types"
)

const maxSearchLen = 128

// ProductReader is the read side of the product service.
type ProductReader interface {
	List(ctx context.Context) ([]products.Product, error)
	Get(ctx context.Context, id string) (*products.Product, error)
}

// CatalogProducts filters and sorts the buyer catalog from q, category and sort.
func CatalogProducts(svc ProductReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category := validators.QueryString(r, "category", maxSearchLen)
		if category == "" {
			category = catalog.CategoryAll
		}
		result := catalog.Query(
			items,
			validators.QueryString(r, "q", maxSearchLen),
			category,
			validators.QueryString(r, "sort", maxSearchLen),
		)
		responses.WriteSuccess(w, types.NewListPayload(result))
	}
}

func CatalogProduct(svc ProductReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.Get(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func CatalogCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, types.NewListPayload(enums.ProductCategories()))
	}
}
