package handlers

import (
	"VaultKeeper/internal/middleware"
	"VaultKeeper/internal/router"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// MaxMessageSize ограничивает тело одного сообщения.
const MaxMessageSize = 4 << 20

// MessageHandler принимает сообщения протокола по HTTP.
type MessageHandler struct {
	Router *router.Router
	Logger *zap.SugaredLogger
}

// NewMessageHandler создаёт хендлер сообщений
func NewMessageHandler(r *router.Router, logger *zap.SugaredLogger) *MessageHandler {
	return &MessageHandler{Router: r, Logger: logger}
}

// statusFor — HTTP-статус для типа ошибки протокола. Тело ответа всегда содержит сам тип.
func statusFor(resp router.Response) int {
	if resp.OK {
		return http.StatusOK
	}
	switch resp.Kind {
	case router.KindVaultLocked:
		return http.StatusLocked
	case router.KindInvalidPassword:
		return http.StatusForbidden
	case router.KindBadRequest, router.KindUnknownCommand:
		return http.StatusBadRequest
	case router.KindStorageFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message обрабатывает одно сообщение {"type": ..., ...}
func (h *MessageHandler) Message(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetClientIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxMessageSize+1))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(body) > MaxMessageSize {
		http.Error(w, "message too large", http.StatusRequestEntityTooLarge)
		return
	}

	resp := h.Router.HandleJSON(r.Context(), body)
	if !resp.OK {
		h.Logger.Debugw("message failed", "client", clientID, "kind", resp.Kind)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(resp))
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Errorw("failed to write response", "error", err)
	}
}

// Health — проверка доступности демона, без аутентификации и без состояния хранилища.
func (h *MessageHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}
