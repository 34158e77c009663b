package http

import (
	"net/http"

	"github.com/go-account-api/internal/application/session"
	"github.com/go-account-api/internal/application/user"
	"github.com/go-account-api/internal/application/verification"
	"github.com/go-account-api/internal/config"
	"github.com/go-account-api/internal/domain"
	"github.com/go-account-api/internal/pkg/password"
	"github.com/go-account-api/internal/transport/http/handler"
	appmiddleware "github.com/go-account-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	handler.SetVerboseErrors(cfg.Dev())

	hasher := password.NewHasher(cfg.BcryptCost)

	userSvc := user.NewService(deps.UserRepo, hasher)
	sessionSvc := session.NewService(deps.UserRepo, deps.JWTProvider, hasher)
	verificationSvc := verification.NewService(verification.ServiceDeps{
		UserRepo:    deps.UserRepo,
		Mailer:      deps.Mailer,
		SMSSender:   deps.SMSSender,
		Hasher:      hasher,
		OTPTTL:      cfg.OTPTTL,
		SendTimeout: cfg.SendTimeout,
	})

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(userSvc)
	sessionH := handler.NewSessionHandler(sessionSvc, !cfg.Dev())
	verificationH := handler.NewVerificationHandler(verificationSvc)

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second with a burst of 10, applied to credential and OTP endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	r.Get("/health", healthH.Ping)

	// ── Public routes ────────────────────────────────────────────────────
	r.With(sensitiveRL.Limit).Post("/register", userH.Register)
	r.With(sensitiveRL.Limit).Post("/login", sessionH.Login)
	r.Post("/logout", sessionH.Logout)
	r.Get("/refresh", sessionH.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(sensitiveRL.Limit)

		r.Post("/send-otp-email", verificationH.SendOTPEmail)
		r.Post("/send-otp-phone", verificationH.SendOTPPhone)
		r.Post("/verify-otp", verificationH.VerifyOTP)
		r.Post("/forgot-password", verificationH.ForgotPassword)
		r.Post("/reset-password", verificationH.ResetPassword)
	})

	// ── Authenticated routes ─────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Get("/users/{id}", userH.Get)
		r.Put("/users/{id}", userH.Update)
		r.Delete("/users/{id}", userH.Delete)

		// Admin-only
		r.With(appmiddleware.RequireRole(domain.RoleAdmin)).Get("/users", userH.List)
	})

	return r
}
