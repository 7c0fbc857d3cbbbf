package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mussa52/madalali-tz/api/controllers"
	"github.com/mussa52/madalali-tz/api/middleware"
	"github.com/mussa52/madalali-tz/api/responses"
	"github.com/mussa52/madalali-tz/internal/auth"
	"github.com/mussa52/madalali-tz/internal/inquiries"
	"github.com/mussa52/madalali-tz/internal/properties"
	"github.com/mussa52/madalali-tz/internal/users"
	"github.com/mussa52/madalali-tz/pkg/config"
	"github.com/mussa52/madalali-tz/pkg/db"
	"github.com/mussa52/madalali-tz/pkg/enums"
	"github.com/mussa52/madalali-tz/pkg/logger"
	"github.com/mussa52/madalali-tz/pkg/metrics"
	"github.com/mussa52/madalali-tz/pkg/redis"
	"github.com/mussa52/madalali-tz/pkg/storage"
)

// RouterParams collects the dependencies the HTTP surface is wired with.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Metrics     *metrics.HTTPMetrics
	Registry    prometheus.Gatherer
	Store       *storage.Store
	AuthService auth.Service
	Users       users.Service
	Properties  properties.Service
	Inquiries   inquiries.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger
	wr := responses.NewWriter(logg, cfg.App.IsProd())

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(wr, logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
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
		r.Get("/live", controllers.HealthLive(cfg, wr))
		r.Get("/ready", controllers.HealthReady(cfg, wr, p.DB, p.Redis))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	if p.Store != nil {
		fileServer := http.StripPrefix(p.Store.PublicPath(), http.FileServer(http.Dir(p.Store.Dir())))
		r.Get(p.Store.PublicPath()+"/*", fileServer.ServeHTTP)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, wr, logg)).
			Post("/register", controllers.AuthRegister(p.AuthService, wr))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, wr, logg)).
			Post("/login", controllers.AuthLogin(p.AuthService, wr))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, wr, logg))
			r.Get("/profile", controllers.AuthProfile(p.AuthService, wr))
			r.Put("/profile", controllers.AuthUpdateProfile(p.AuthService, wr))
			r.Put("/change-password", controllers.AuthChangePassword(p.AuthService, wr))
		})
	})

	r.Route("/api/properties", func(r chi.Router) {
		// Browse endpoints accept anonymous traffic; a valid token widens
		// visibility according to the caller's role.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Get("/", controllers.PropertiesList(p.Properties, wr))
			r.Get("/{propertyID}", controllers.PropertiesGet(p.Properties, wr))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, wr, logg))
			r.Get("/statistics", controllers.PropertiesStatistics(p.Properties, wr))
			r.Get("/my-properties", controllers.PropertiesMine(p.Properties, wr))
			r.Post("/", controllers.PropertiesCreate(p.Properties, p.Store, wr))
			r.Put("/{propertyID}", controllers.PropertiesUpdate(p.Properties, wr))
			r.Put("/{propertyID}/status", controllers.PropertiesUpdateStatus(p.Properties, wr))
			r.Delete("/{propertyID}", controllers.PropertiesDelete(p.Properties, wr))
		})
	})

	r.Route("/api/inquiries", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, wr, logg))
		r.Post("/", controllers.InquiriesCreate(p.Inquiries, wr))
		r.Get("/", controllers.InquiriesList(p.Inquiries, wr))
		r.Get("/statistics", controllers.InquiriesStatistics(p.Inquiries, wr))
		r.Get("/{inquiryID}", controllers.InquiriesGet(p.Inquiries, wr))
		r.Put("/{inquiryID}/status", controllers.InquiriesUpdateStatus(p.Inquiries, wr))
		r.Delete("/{inquiryID}", controllers.InquiriesDelete(p.Inquiries, wr))
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, wr, logg))
		r.Use(middleware.RequireRole(wr, enums.UserRoleAdmin))
		r.Post("/", controllers.UsersCreate(p.Users, wr))
		r.Get("/", controllers.UsersList(p.Users, wr))
		r.Get("/statistics", controllers.UsersStatistics(p.Users, wr))
		r.Get("/{userID}", controllers.UsersGet(p.Users, wr))
		r.Put("/{userID}", controllers.UsersUpdate(p.Users, wr))
		r.Delete("/{userID}", controllers.UsersDelete(p.Users, wr))
	})

	return r
}
