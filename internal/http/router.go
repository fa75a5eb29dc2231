package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/rahul4902/blood-sub001/internal/auth"
	"github.com/rahul4902/blood-sub001/internal/cart"
	"github.com/rahul4902/blood-sub001/internal/catalog"
	"github.com/rahul4902/blood-sub001/internal/clients"
	"github.com/rahul4902/blood-sub001/internal/middleware"
	"github.com/rahul4902/blood-sub001/internal/navigation"
	"github.com/rahul4902/blood-sub001/internal/orders"
	"github.com/rahul4902/blood-sub001/internal/search"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context) orders.Result
}

// CatalogAdmin is the admin /tests API.
type CatalogAdmin interface {
	ListTests(ctx context.Context, f catalog.Filter) (catalog.Page, error)
	GetTestBySlug(ctx context.Context, slug string) (catalog.Test, error)
	CreateTest(ctx context.Context, in catalog.TestInput) (catalog.Test, error)
	UpdateTest(ctx context.Context, id string, in catalog.TestInput) (catalog.Test, error)
	DeleteTest(ctx context.Context, id string) error
	SetTestStatus(ctx context.Context, slug string, status catalog.Status) (catalog.Test, error)
}

type Deps struct {
	Logger           *zap.Logger
	CORSAllowOrigins []string

	Cart       *cart.Store
	Orders     OrderPlacer
	Auth       *auth.Manager
	Search     *search.Suggester
	Catalog    CatalogAdmin
	Navigation *navigation.Recorder

	HealthProbes []clients.HealthProbe
}

type Handler struct {
	log     *zap.Logger
	cart    *cart.Store
	orders  OrderPlacer
	auth    *auth.Manager
	search  *search.Suggester
	catalog CatalogAdmin
	nav     *navigation.Recorder
	probes  []clients.HealthProbe
}

func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	h := &Handler{
		log:     d.Logger.Named("http"),
		cart:    d.Cart,
		orders:  d.Orders,
		auth:    d.Auth,
		search:  d.Search,
		catalog: d.Catalog,
		nav:     d.Navigation,
		probes:  d.HealthProbes,
	}

	r := chi.NewRouter()
	r.Use(middleware.CorrelationID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(h.log))
	r.Use(middleware.Recover(h.log))
	r.Use(middleware.CORS(d.CORSAllowOrigins))

	r.Get("/health", h.Health)
	r.Get("/health/upstreams", h.Upstreams)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.loadingGate)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddItem)
			r.Get("/items/{id}", h.ItemStatus)
			r.Put("/items/{type}/{id}", h.UpdateQuantity)
			r.Delete("/items/{type}/{id}", h.RemoveItem)
			r.Post("/coupon", h.ApplyCoupon)
			r.Delete("/coupon", h.RemoveCoupon)
			r.Put("/quick-checkout", h.SetQuickCheckout)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Delete("/", h.ClearCheckout)
			r.Put("/address", h.SetAddress)
			r.Delete("/address", h.ClearAddress)
			r.Put("/patient", h.SetPatient)
			r.Delete("/patient", h.ClearPatient)
			r.Put("/time-slot", h.SetTimeSlot)
			r.Delete("/time-slot", h.ClearTimeSlot)
			r.Put("/payment-mode", h.SetPaymentMode)
			r.Delete("/payment-mode", h.ClearPaymentMode)
			r.Put("/step", h.SetStep)
		})

		r.Post("/orders", h.PlaceOrder)

		r.Route("/auth", func(r chi.Router) {
			r.Get("/session", h.Session)
			r.Get("/profile", h.Profile)
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
			r.Post("/refresh", h.Refresh)
			r.Post("/logout", h.Logout)
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/", h.SearchView)
			r.Put("/query", h.SearchType)
			r.Delete("/query", h.SearchClear)
			r.Post("/select", h.SearchSelect)
		})

		r.Get("/navigation", h.TakeNavigation)

		r.Route("/admin/tests", func(r chi.Router) {
			r.Get("/", h.ListTests)
			r.Post("/", h.CreateTest)
			r.Get("/slug/{slug}", h.GetTest)
			r.Patch("/slug/{slug}/status", h.SetTestStatus)
			r.Put("/{id}", h.UpdateTest)
			r.Delete("/{id}", h.DeleteTest)
		})
	})

	return r
}

// loadingGate answers 503 until the cart snapshot has been read, so the UI
// never renders a cart that is empty only because it has not loaded yet.
func (h *Handler) loadingGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.cart.Loaded() {
			w.Header().Set("Retry-After", "1")
			writeError(w, r, http.StatusServiceUnavailable, "cart is loading")
			return
		}
		next.ServeHTTP(w, r)
	})
}
