package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/catalog"
	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/types"
)

// ProductManager is the vendor side of the product service.
type ProductManager interface {
	ProductReader
	Create(ctx context.Context, vendorID string, in products.ProductInput) (*products.Product, error)
	Update(ctx context.Context, id string, in products.ProductInput) (*products.Product, error)
	Delete(ctx context.Context, id string) error
	UpdateStockStatus(ctx context.Context, id string, status enums.StockStatus) (*products.Product, error)
}

type stockStatusRequest struct {
	StockStatus enums.StockStatus `json:"stock_status" validate:"required,oneof=in-stock low-stock out-of-stock"`
}

// VendorListProducts is the inventory table: search on name and subheading, category filter and
// newest/oldest ordering.
func VendorListProducts(svc ProductManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result := catalog.QueryInventory(
			items,
			validators.QueryString(r, "q", maxSearchLen),
			validators.QueryString(r, "category", maxSearchLen),
			validators.QueryString(r, "sort", maxSearchLen),
		)
		responses.WriteSuccess(w, types.NewListPayload(result))
	}
}

func VendorCreateProduct(svc ProductManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		if userID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		var body products.ProductInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func VendorGetProduct(svc ProductManager, logg *logger.Logger) http.HandlerFunc {
	return CatalogProduct(svc, logg)
}

func VendorUpdateProduct(svc ProductManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body products.ProductInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), chi.URLParam(r, "productId"), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// VendorDeleteProduct requires ?confirm=true so a stray DELETE cannot remove a listing.
func VendorDeleteProduct(svc ProductManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmed, err := validators.QueryFlag(r, "confirm")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !confirmed {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "deletion must be confirmed").
				WithDetails(map[string]string{"confirm": "must be true"}))
			return
		}

		productID := chi.URLParam(r, "productId")
		if err := svc.Delete(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": productID, "status": "deleted"})
	}
}

func VendorUpdateStockStatus(svc ProductManager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body stockStatusRequest
		if err := validators.DecodeAndValidate(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateStockStatus(r.Context(), chi.URLParam(r, "productId"), body.StockStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
