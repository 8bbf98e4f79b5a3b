package http

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meusugar/server/internal/auth"
	"github.com/meusugar/server/internal/http/handlers"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Tokens  *handlers.TokenHandler
	Models  *handlers.ModelHandler
	Content *handlers.ContentHandler
	Media   *handlers.MediaHandler
	Upload  *handlers.UploadHandler
	Video   *handlers.VideoHandler
	Chat    *handlers.ChatHandler
	I18n    *handlers.I18nHandler
}

// NewRouter creates a new HTTP router with all routes configured. With trustProxy
// the client address comes from X-Forwarded-For or X-Real-IP, otherwise from the
// connection.
func NewRouter(h Handlers, jwtService *auth.JWTService, log logging.Logger, trustProxy bool) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if trustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Authenticate(jwtService))

	// per-IP budgets: 20 auth calls and 10 admin logins per 10 minutes
	authLimiter := middleware.NewRateLimiter(10*time.Minute, 20)
	adminLimiter := middleware.NewRateLimiter(10*time.Minute, 10)

	r.Get("/health", h.Health.ServeHTTP)
	r.Get("/i18n/{locale}", h.I18n.HandleDictionary)

	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(authLimiter, middleware.GetIPKey))
		r.Post("/register", h.Auth.HandleRegister)
		r.Post("/login", h.Auth.HandleLogin)
		r.Post("/verify-2fa", h.Auth.HandleVerifyTwoFactor)
		r.Post("/forgot-password", h.Auth.HandleForgotPassword)
		r.Post("/reset-password", h.Auth.HandleResetPassword)
	})
	r.With(middleware.RateLimitMiddleware(adminLimiter, middleware.GetIPKey)).
		Post("/admin/login", h.Auth.HandleAdminLogin)

	// Public reads; these fall back to built-in data when the store is unavailable
	r.Get("/models", h.Models.HandleList)
	r.Get("/models/slug/{slug}", h.Models.HandleGetBySlug)
	r.Get("/models/{id}", h.Models.HandleGet)
	r.Get("/legal", h.Content.HandleGetLegal)
	r.Get("/links", h.Content.HandleGetLinks)
	r.Get("/packages", h.Tokens.HandleListPackages)
	r.Get("/carousel", h.Media.HandleListSlides)
	r.Get("/media-gallery", h.Media.HandleListMedia)

	// Account sessions
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/me", h.Auth.HandleMe)
		r.Put("/me/two-factor", h.Auth.HandleSetTwoFactor)
		r.Get("/tokens", h.Tokens.HandleBalance)
		r.Post("/tokens/purchase", h.Tokens.HandlePurchase)
		r.Post("/generate-video", h.Video.HandleGenerate)
		r.Route("/chat/{slug}", func(r chi.Router) {
			r.Get("/messages", h.Chat.HandleHistory)
			r.Post("/messages", h.Chat.HandleSend)
			r.Delete("/messages", h.Chat.HandleClear)
			r.Post("/video", h.Chat.HandleConvertVideo)
		})
	})

	// Back office (is_admin claim)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/models", h.Models.HandleCreate)
		r.Put("/models/{id}", h.Models.HandleUpdate)
		r.Delete("/models/{id}", h.Models.HandleDelete)
		r.Put("/legal", h.Content.HandlePutLegal)
		r.Put("/links", h.Content.HandlePutLinks)
		r.Get("/metrics", h.Content.HandleGetMetrics)
		r.Put("/metrics", h.Content.HandlePutMetrics)
		r.Put("/packages/{id}", h.Tokens.HandlePutPackage)
		r.Put("/admin/users/{id}/tokens", h.Tokens.HandleSetUserTokens)
		r.Post("/carousel", h.Media.HandleCreateSlide)
		r.Put("/carousel/{id}", h.Media.HandleUpdateSlide)
		r.Delete("/carousel/{id}", h.Media.HandleDeleteSlide)
		r.Post("/media-gallery", h.Media.HandleAddMedia)
		r.Delete("/media-gallery/{id}", h.Media.HandleRemoveMedia)
		r.Post("/upload", h.Upload.HandleUpload)
	})

	return r
}
