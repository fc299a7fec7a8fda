package http

import (
	"log/slog"
	"net/http"

	"github.com/bomberman-api/internal/application/account"
	"github.com/bomberman-api/internal/application/friend"
	"github.com/bomberman-api/internal/application/registration"
	"github.com/bomberman-api/internal/config"
	"github.com/bomberman-api/internal/pkg/logx"
	"github.com/bomberman-api/internal/transport/http/handler"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// maxBodyBytes caps request bodies; every payload here is a small JSON object.
const maxBodyBytes = 1 << 20

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(logx.HTTPMiddleware(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestSize(maxBodyBytes))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", logx.RequestIDHeader},
		ExposedHeaders:   []string{logx.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	registrationSvc := registration.NewService(registration.ServiceDeps{
		UserRepo: deps.Users,
		OTPRepo:  deps.OTPs,
		Mailer:   deps.Mailer,
		OTPTTL:   cfg.OTPTTL,
	})
	accountSvc := account.NewService(account.ServiceDeps{UserRepo: deps.Users})
	friendSvc := friend.NewService(friend.ServiceDeps{UserRepo: deps.Users})

	healthH := handler.NewHealthHandler(deps.Store)
	otpH := handler.NewOTPHandler(registrationSvc)
	accountH := handler.NewAccountHandler(accountSvc)
	friendH := handler.NewFriendHandler(friendSvc)

	r.Get("/healthz", healthH.Live)
	r.Get("/readyz", healthH.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Post("/send-otp", otpH.SendOTP)
		r.Post("/verify-otp", otpH.VerifyOTP)
		r.Post("/login", accountH.Login)

		r.Put("/user/{email}", accountH.UpdateUser)
		r.Get("/user/by-code/{friendCode}", accountH.ByFriendCode)
		r.Post("/users/by-codes", accountH.ByFriendCodes)

		r.Post("/friends/request", friendH.Request)
		r.Post("/friends/accept", friendH.Accept)
		r.Post("/friends/reject", friendH.Reject)
	})

	return r
}
