package handlers

import (
	"VaultKeeper/internal/config"
	"VaultKeeper/internal/middleware"
	"VaultKeeper/internal/router"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	msgRouter *router.Router,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	messageHandler := NewMessageHandler(msgRouter, logger)

	r.Get("/api/health", messageHandler.Health)
	r.Post("/api/message", messageHandler.Message)

	return &Handler{Router: r}
}
