package http

import (
	"context"
	"log/slog"

	"github.com/bomberman-api/internal/infrastructure/smtp"
	"github.com/bomberman-api/internal/infrastructure/store"
)

// Pinger is the readiness check the router requires from the store gateway.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Users  store.Users
	OTPs   store.OTPs
	Store  Pinger
	Mailer smtp.Mailer
	Logger *slog.Logger
}
