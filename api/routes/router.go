package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/marketplace-backend/api/controllers"
	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
)

// Params are the collaborators the HTTP surface needs. Attempts and Idempotency are optional
// and switch their middleware off when nil; Gatherer enables /metrics.
type Params struct {
	Config     *config.Config
	Logger     *logger.Logger
	Workspaces middleware.WorkspaceProvider
	Products   controllers.ProductManager
	Enquiries  controllers.EnquiryLister
	Dashboard  controllers.DashboardService
	Settings   controllers.SettingsService
	Metrics    *metrics.Marketplace
	Gatherer   prometheus.Gatherer
	Readiness  map[string]controllers.Pinger

	Attempts    middleware.AttemptCounter
	Idempotency middleware.IdempotencyStore
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		chimw.RealIP,
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	limits := cfg.AuthRateLimit
	loginThrottle := middleware.AuthThrottle(middleware.ThrottlePolicy{
		Name:     "login",
		Window:   limits.LoginWindow,
		PerIP:    limits.LoginIPLimit,
		PerEmail: limits.LoginEmailLimit,
	}, p.Attempts, logg)
	signupThrottle := middleware.AuthThrottle(middleware.ThrottlePolicy{
		Name:     "signup",
		Window:   limits.SignupWindow,
		PerIP:    limits.SignupIPLimit,
		PerEmail: limits.SignupEmailLimit,
	}, p.Attempts, logg)

	listingWrite := middleware.Idempotency(p.Idempotency, middleware.ListingReplayTTL, logg)
	orderWrite := middleware.Idempotency(p.Idempotency, middleware.OrderReplayTTL, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.Readiness))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Workspace(p.Workspaces, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(loginThrottle).Post("/login", controllers.AuthLogin(cfg.JWT, p.Metrics, logg))
			r.With(signupThrottle).Post("/signup", controllers.AuthSignup(cfg.JWT, p.Metrics, logg))
			r.Post("/logout", controllers.AuthLogout(logg))
			r.Get("/me", controllers.AuthMe(logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogProducts(p.Products, logg))
			r.Get("/products/{productId}", controllers.CatalogProduct(p.Products, logg))
			r.Get("/categories", controllers.CatalogCategories())
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleBuyer, logg))

				r.Route("/cart", func(r chi.Router) {
					r.Get("/", controllers.CartFetch(logg))
					r.Post("/items", controllers.CartAddItem(p.Products, p.Metrics, logg))
					r.Put("/items/{productId}", controllers.CartUpdateItem(p.Metrics, logg))
					r.Delete("/items/{productId}", controllers.CartRemoveItem(p.Metrics, logg))
				})

				r.Route("/wishlist", func(r chi.Router) {
					r.Get("/", controllers.WishlistList(logg))
					r.Post("/{productId}/toggle", controllers.WishlistToggle(p.Products, logg))
				})

				r.Route("/checkout", func(r chi.Router) {
					r.Get("/", controllers.CheckoutState(logg))
					r.Post("/", controllers.CheckoutOpen(logg))
					r.Delete("/", controllers.CheckoutClose(logg))
					r.Post("/shipping", controllers.CheckoutShipping(logg))
					r.Post("/back", controllers.CheckoutBack(logg))
					r.With(orderWrite).Post("/payment", controllers.CheckoutPayment(p.Metrics, logg))
					r.With(orderWrite).Post("/complete", controllers.CheckoutComplete(logg))
				})
			})

			r.Route("/vendor", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleVendor, logg))

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.VendorListProducts(p.Products, logg))
					r.With(listingWrite).Post("/", controllers.VendorCreateProduct(p.Products, logg))
					r.Get("/{productId}", controllers.VendorGetProduct(p.Products, logg))
					r.With(listingWrite).Put("/{productId}", controllers.VendorUpdateProduct(p.Products, logg))
					r.Delete("/{productId}", controllers.VendorDeleteProduct(p.Products, logg))
					r.With(listingWrite).Patch("/{productId}/stock-status", controllers.VendorUpdateStockStatus(p.Products, logg))
				})

				r.Get("/dashboard", controllers.VendorDashboard(p.Dashboard, logg))
				r.Get("/enquiries", controllers.VendorEnquiries(p.Enquiries, logg))

				r.Route("/onboarding", func(r chi.Router) {
					r.Get("/", controllers.OnboardingState(logg))
					r.Post("/type", controllers.OnboardingVendorType(logg))
					r.Post("/business", controllers.OnboardingBusiness(logg))
					r.Post("/documents", controllers.OnboardingDocuments(logg))
					r.Post("/back", controllers.OnboardingBack(logg))
					r.With(listingWrite).Post("/complete", controllers.OnboardingComplete(logg))
				})
			})

			r.Route("/settings", func(r chi.Router) {
				r.Put("/profile", controllers.SettingsUpdateProfile(p.Settings, logg))
				r.Post("/password", controllers.SettingsChangePassword(p.Settings, logg))
			})
		})
	})

	return r
}
