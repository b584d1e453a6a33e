package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trampala/trampala-backend/api/controllers"
	"github.com/trampala/trampala-backend/api/middleware"
	"github.com/trampala/trampala-backend/internal/auth"
	"github.com/trampala/trampala-backend/internal/categories"
	"github.com/trampala/trampala-backend/internal/listings"
	"github.com/trampala/trampala-backend/internal/locations"
	"github.com/trampala/trampala-backend/pkg/config"
	"github.com/trampala/trampala-backend/pkg/db"
	"github.com/trampala/trampala-backend/pkg/logger"
	"github.com/trampala/trampala-backend/pkg/metrics"
	"github.com/trampala/trampala-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	authService auth.Service,
	categoryService categories.Service,
	locationService locations.Service,
	listingService listings.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	mediaPrefix := strings.TrimSuffix(cfg.Storage.BaseURL, "/")
	if mediaPrefix != "" && strings.HasPrefix(mediaPrefix, "/") {
		r.Handle(mediaPrefix+"/*", http.StripPrefix(mediaPrefix+"/", http.FileServer(http.Dir(cfg.Storage.Root))))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog and browse surface.
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(categoryService, logg))
			r.Get("/roots", controllers.RootCategories(categoryService, logg))
			r.Get("/{categoryId}/children", controllers.ChildCategories(categoryService, logg))
			r.Get("/slug/{slug}", controllers.CategoryBySlug(categoryService, logg))
		})
		r.Route("/locations", func(r chi.Router) {
			r.Get("/countries", controllers.ListCountries(locationService, logg))
			r.Get("/countries/{countryId}/cities", controllers.ListCities(locationService, logg))
			r.Get("/cities/{cityId}/districts", controllers.ListDistricts(locationService, logg))
		})
		r.Get("/listings", controllers.ApprovedListings(listingService, logg))
		r.With(middleware.OptionalAuth(cfg.JWT, logg)).
			Get("/listings/{listingId}", controllers.ListingDetails(listingService, logg))

		// Anything past here needs a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/listings/my", controllers.MyListings(listingService, logg))
			r.Post("/listings", controllers.CreateListing(listingService, cfg.Media, logg))
			r.Put("/listings/{listingId}", controllers.UpdateListing(listingService, cfg.Media, logg))
			r.Delete("/listings/{listingId}", controllers.DeleteListing(listingService, logg))
		})

		// Moderation and administration.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole("admin", logg))

			r.Get("/listings/pending", controllers.PendingListings(listingService, logg))
			r.Post("/listings/{listingId}/approve", controllers.ApproveListing(listingService, logg))
			r.Post("/listings/{listingId}/reject", controllers.RejectListing(listingService, logg))
			r.Post("/listings/{listingId}/restore", controllers.RestoreListing(listingService, logg))
			r.Delete("/listings/{listingId}/force-delete", controllers.ForceDeleteListing(listingService, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Route("/listings", func(r chi.Router) {
					r.Get("/", controllers.AllListings(listingService, logg))
					r.Get("/rejected", controllers.RejectedListings(listingService, logg))
					r.Get("/stats", controllers.ListingStats(listingService, logg))
				})
				r.Route("/categories", func(r chi.Router) {
					r.Post("/", controllers.CreateCategory(categoryService, logg))
					r.Put("/{categoryId}", controllers.UpdateCategory(categoryService, logg))
					r.Delete("/{categoryId}", controllers.DeleteCategory(categoryService, logg))
				})
			})
		})
	})

	return r
}
