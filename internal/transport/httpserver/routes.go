package httpserver

import (
	"net/http"
	"time"

	"bringlist/internal/config"
	"bringlist/internal/transport/httpserver/handler"
	"bringlist/internal/transport/httpserver/middleware"
	"bringlist/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const loginBurst = 5

func NewRouter(cfg config.Config, handlers *handler.Handlers, sessions *middleware.SessionAuth, metrics http.Handler, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.TrustedRealIP(cfg.TrustedProxies))
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.NewCORS(cfg.CORSAllowedOrigins))

	loginLimiter := middleware.NewRateLimiter(cfg.Auth.RatePerMinute, loginBurst, log)

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimiter.Middleware).Post("/", handlers.Common.Login)
			r.Get("/", handlers.Common.SessionStatus)
			r.Delete("/", handlers.Common.Logout)
		})

		r.Route("/items", func(r chi.Router) {
			r.Use(sessions.RequireForWrites)

			r.Get("/", handlers.Items.ListItems)
			r.Post("/", handlers.Items.CreateItem)
			r.Get("/{id}", handlers.Items.GetItem)
			r.Put("/{id}", handlers.Items.RenameItem)
			r.Delete("/{id}", handlers.Items.DeleteItem)
		})

		r.Route("/lists", func(r chi.Router) {
			r.Use(sessions.RequireForWrites)

			r.Get("/", handlers.Lists.ListLists)
			r.Post("/", handlers.Lists.CreateList)
			r.Get("/{id}", handlers.Lists.GetList)
			r.Put("/{id}", handlers.Lists.UpdateList)
			r.Delete("/{id}", handlers.Lists.DeleteList)
			r.Get("/{id}/qr", handlers.Pages.ListQRCode)
		})
	})

	r.Get("/login", handlers.Pages.LoginPage)
	r.With(loginLimiter.Middleware).Post("/login", handlers.Pages.LoginSubmit)
	r.Get("/list/{id}", handlers.Pages.ListPage)
	r.Route("/admin", func(r chi.Router) {
		r.Use(sessions.RequirePage)
		r.Get("/", handlers.Pages.AdminPage)
		r.Get("/items", handlers.Pages.AdminItemsPage)
		r.Get("/lists/new", handlers.Pages.NewListPage)
		r.Get("/lists/{id}", handlers.Pages.EditListPage)
	})

	return r
}
