package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/api/controllers"
	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/internal/checkout"
	"github.com/angelmondragon/marketplace-backend/internal/dashboard"
	"github.com/angelmondragon/marketplace-backend/internal/enquiries"
	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/internal/session"
	"github.com/angelmondragon/marketplace-backend/internal/settings"
	"github.com/angelmondragon/marketplace-backend/internal/workspace"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/kvstore"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
)

type testAPI struct {
	handler http.Handler
	store   *kvstore.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "marketplace-test", ExpirationMinutes: 60},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})

	store, err := kvstore.New(kvstore.NewMemoryBackend(), logg)
	require.NoError(t, err)

	productSvc, err := products.NewService(products.NewRepository(store))
	require.NoError(t, err)
	enquirySvc, err := enquiries.NewService(enquiries.NewRepository(store))
	require.NoError(t, err)
	dashboardSvc, err := dashboard.NewService(productSvc, enquirySvc)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	marketplaceMetrics := metrics.NewMarketplace(reg)

	manager, err := workspace.NewManager(workspace.Deps{
		Store:            store,
		Authenticator:    session.NewDemoAuthenticator(),
		PaymentProcessor: checkout.SimulatedProcessor{},
		Logger:           logg,
		Metrics:          marketplaceMetrics,
	})
	require.NoError(t, err)

	handler := NewRouter(Params{
		Config:     cfg,
		Logger:     logg,
		Workspaces: manager,
		Products:   productSvc,
		Enquiries:  enquirySvc,
		Dashboard:  dashboardSvc,
		Settings:   settings.NewService(0, nil),
		Metrics:    marketplaceMetrics,
		Gatherer:   reg,
		Readiness:  map[string]controllers.Pinger{"store": store},
	})
	return &testAPI{handler: handler, store: store}
}

type client struct {
	t       *testing.T
	api     *testAPI
	session string
	token   string
}

func (a *testAPI) client(t *testing.T, session string) *client {
	return &client{t: t, api: a, session: session}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.session != "" {
		req.Header.Set(middleware.SessionHeader, c.session)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.api.handler.ServeHTTP(rec, req)
	return rec
}

func (c *client) login(email string) {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": "anything"})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	var env struct {
		Data controllers.AuthResponse `json:"data"`
	}
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotEmpty(c.t, env.Data.AccessToken)
	require.Equal(c.t, c.session, env.Data.SessionID)
	c.token = env.Data.AccessToken
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Data
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Error.Code
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t, "")

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health/live", nil).Code)

	ready := c.do(http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, ready.Code)
	assert.Equal(t, "ready", decodeData(t, ready)["status"])

	rec := c.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "marketplace_active_workspaces"))
}

func TestSessionIDIsIssuedAndEchoed(t *testing.T) {
	api := newTestAPI(t)
	rec := api.client(t, "").do(http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	issued := rec.Header().Get(middleware.SessionHeader)
	require.NotEmpty(t, issued)
	data := decodeData(t, rec)
	assert.Equal(t, issued, data["session_id"])
	assert.Equal(t, "anonymous", data["state"])
	assert.Nil(t, data["user"])
}

func TestCatalogQuery(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t, "browse-0001")

	rec := c.do(http.MethodGet, "/api/v1/catalog/products?q=headphones&category=all&sort=price-low", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	items := data["items"].([]any)
	require.NotEmpty(t, items)
	assert.Equal(t, "1", items[0].(map[string]any)["id"])

	rec = c.do(http.MethodGet, "/api/v1/catalog/products/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, "/api/v1/catalog/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 10, decodeData(t, rec)["total"])
}

func TestBuyerCheckoutFlow(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t, "buyer-tab-1")

	rec := c.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	c.login("jane@example.com")

	for i := 0; i < 2; i++ {
		rec = c.do(http.MethodPost, "/api/v1/cart/items", map[string]string{"product_id": "1"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	totals := decodeData(t, rec)["totals"].(map[string]any)
	assert.Equal(t, "399.98", totals["subtotal"])
	assert.Equal(t, "32.00", totals["tax"])
	assert.Equal(t, "431.98", totals["total"])
	assert.EqualValues(t, 2, totals["items"])

	rec = c.do(http.MethodPost, "/api/v1/cart/items", map[string]string{"product_id": "3"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = c.do(http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "shipping", decodeData(t, rec)["step_name"])

	payment := checkout.PaymentInfo{
		CardNumber: "4242 4242 4242 4242", ExpiryDate: "12/30", CVV: "123", NameOnCard: "Jane Buyer",
	}
	rec = c.do(http.MethodPost, "/api/v1/checkout/payment", payment)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "STATE_CONFLICT", errorCode(t, rec))

	rec = c.do(http.MethodPost, "/api/v1/checkout/shipping", checkout.ShippingInfo{
		FirstName: "Jane", LastName: "Buyer", Email: "jane@example.com", Phone: "555-0100",
		Address: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "US",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "payment", decodeData(t, rec)["step_name"])

	rec = c.do(http.MethodPost, "/api/v1/checkout/payment", payment)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	order := decodeData(t, rec)["order"].(map[string]any)
	assert.True(t, strings.HasPrefix(order["order_id"].(string), "ORD-"))
	assert.Equal(t, "**** **** **** 4242", order["payment"].(map[string]any)["card_number"])

	rec = c.do(http.MethodPost, "/api/v1/checkout/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeData(t, rec)["lines"])
}

func TestCartQuantityUpdates(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t, "buyer-tab-2")
	c.login("jane@example.com")

	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/cart/items", map[string]string{"product_id": "2"}).Code)

	rec := c.do(http.MethodPut, "/api/v1/cart/items/2", map[string]int{"quantity": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPut, "/api/v1/cart/items/2", map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeData(t, rec)["lines"])

	rec = c.do(http.MethodPut, "/api/v1/cart/items/2", map[string]int{"quantity": 3})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWishlistToggle(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t, "buyer-tab-3")
	c.login("jane@example.com")

	rec := c.do(http.MethodPost, "/api/v1/wishlist/4/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeData(t, rec)["wishlisted"])

	rec = c.do(http.MethodGet, "/api/v1/wishlist", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"4"}, decodeData(t, rec)["items"])

	rec = c.do(http.MethodPost, "/api/v1/wishlist/4/toggle", nil)
	assert.Equal(t, false, decodeData(t, rec)["wishlisted"])

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/api/v1/wishlist/missing/toggle", nil).Code)
}

func TestRoleSeparation(t *testing.T) {
	api := newTestAPI(t)

	vendor := api.client(t, "vendor-tab-1")
	vendor.login("vendor@example.com")
	rec := vendor.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))

	buyer := api.client(t, "buyer-tab-4")
	buyer.login("jane@example.com")
	assert.Equal(t, http.StatusForbidden, buyer.do(http.MethodGet, "/api/v1/vendor/dashboard", nil).Code)
}

func TestTokenIsBoundToSession(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t, "buyer-tab-5")
	c.login("jane@example.com")

	other := api.client(t, "buyer-tab-6")
	other.token = c.token
	assert.Equal(t, http.StatusUnauthorized, other.do(http.MethodGet, "/api/v1/cart", nil).Code)

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/v1/auth/logout", nil).Code)
	rec := c.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
}

func TestVendorProductLifecycle(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t, "vendor-tab-2")
	c.login("vendor@example.com")

	input := map[string]any{
		"name":        "Desk Lamp",
		"subheading":  "Warm LED lamp",
		"description": "Adjustable arm and dimmer.",
		"price":       "0",
		"categories":  []string{"Home & Garden"},
	}
	rec := c.do(http.MethodPost, "/api/v1/vendor/products", input)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodGet, "/api/v1/vendor/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	before := decodeData(t, rec)["total"]

	input["price"] = "34.50"
	rec = c.do(http.MethodPost, "/api/v1/vendor/products", input)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeData(t, rec)
	id := created["id"].(string)
	assert.Equal(t, "in-stock", created["stock_status"])

	rec = c.do(http.MethodGet, "/api/v1/vendor/products?sort=newest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, before.(float64)+1, data["total"])

	rec = c.do(http.MethodPatch, "/api/v1/vendor/products/"+id+"/stock-status", map[string]string{"stock_status": "low-stock"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "low-stock", decodeData(t, rec)["stock_status"])

	rec = c.do(http.MethodPatch, "/api/v1/vendor/products/"+id+"/stock-status", map[string]string{"stock_status": "gone"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodDelete, "/api/v1/vendor/products/"+id, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodDelete, "/api/v1/vendor/products/"+id+"?confirm=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/v1/vendor/products/"+id, nil).Code)
}

func TestVendorDashboardAndEnquiries(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t, "vendor-tab-3")
	c.login("vendor@example.com")

	rec := c.do(http.MethodGet, "/api/v1/vendor/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeData(t, rec)
	assert.EqualValues(t, 5, summary["total_products"])
	assert.EqualValues(t, 3, summary["new_enquiries"])
	assert.Len(t, summary["recent_enquiries"], 5)

	rec = c.do(http.MethodGet, "/api/v1/vendor/enquiries?status=new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, decodeData(t, rec)["total"])

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/v1/vendor/enquiries?status=spam", nil).Code)
}

func TestVendorOnboarding(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t, "vendor-tab-4")
	c.login("vendor@example.com")

	rec := c.do(http.MethodPost, "/api/v1/vendor/onboarding/type", map[string]string{"vendor_type": "dealer"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/v1/vendor/onboarding/business", map[string]string{
		"business_name": "Acme", "business_address": "2 Side St", "business_phone": "555-0101",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/v1/vendor/onboarding/documents", map[string][]string{"documents": {"Trade License"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/v1/vendor/onboarding/documents", map[string][]string{
		"documents": {"Trade License", "Bank Statement"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(http.MethodPost, "/api/v1/vendor/onboarding/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decodeData(t, rec)["onboarded"])
}

func TestSettingsProfileUpdateKeepsTokenValid(t *testing.T) {
	api := newTestAPI(t)
	c := api.client(t, "buyer-tab-7")
	c.login("jane@example.com")

	rec := c.do(http.MethodPut, "/api/v1/settings/profile", map[string]string{
		"full_name": "Jane Q. Buyer", "email": "jane@example.com", "contact_number": "555-0199", "address": "9 Elm St",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Jane Q. Buyer", decodeData(t, rec)["full_name"])

	rec = c.do(http.MethodGet, "/api/v1/auth/me", nil)
	user := decodeData(t, rec)["user"].(map[string]any)
	assert.Equal(t, "Jane Q. Buyer", user["full_name"])
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/cart", nil).Code)

	rec = c.do(http.MethodPost, "/api/v1/settings/password", map[string]string{
		"current_password": "old-password", "new_password": "new-password", "confirm_password": "different",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
