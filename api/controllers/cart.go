package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/workspace"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
)

// CartView is the cart as rendered to clients.
type CartView struct {
	Lines  []cart.Line `json:"lines"`
	Totals cart.Totals `json:"totals"`
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"notblank"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

func CartFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, cartView(ws))
	}
}

// CartAddItem looks the product up in the catalog and adds one unit of it.
func CartAddItem(svc ProductReader, m *metrics.Marketplace, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeAndValidate(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := ws.Cart.Add(*product); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.CartOperation("add")
		responses.WriteSuccessStatus(w, http.StatusCreated, cartView(ws))
	}
}

// CartUpdateItem sets a line's quantity; zero removes the line.
func CartUpdateItem(m *metrics.Marketplace, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}

		var body updateCartItemRequest
		if err := validators.DecodeAndValidate(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := ws.Cart.UpdateQuantity(chi.URLParam(r, "productId"), *body.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.CartOperation("update")
		responses.WriteSuccess(w, cartView(ws))
	}
}

func CartRemoveItem(m *metrics.Marketplace, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := currentWorkspace(w, r, logg)
		if !ok {
			return
		}
		ws.Cart.Remove(chi.URLParam(r, "productId"))
		m.CartOperation("remove")
		responses.WriteSuccess(w, cartView(ws))
	}
}

func cartView(ws *workspace.Workspace) CartView {
	lines := ws.Cart.Lines()
	if lines == nil {
		lines = []cart.Line{}
	}
	return CartView{Lines: lines, Totals: ws.Cart.Totals()}
}
