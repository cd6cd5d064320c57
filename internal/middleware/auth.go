package middleware

import (
	"VaultKeeper/internal/auth"
	"context"
	"net/http"
	"strings"
)

// AuthCookieName — имя cookie с токеном клиента.
const AuthCookieName = "auth_token"

type ctxKey int

const clientIDKey ctxKey = iota

// WithAuth извлекает JWT из заголовка Authorization: Bearer или из cookie и кладёт
// идентификатор клиента в контекст. Запрос без валидного токена проходит дальше анонимным;
// решение об отказе принимает хендлер.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if c, err := r.Cookie(AuthCookieName); err == nil {
					token = c.Value
				}
			}
			if token != "" {
				if id, err := auth.ParseToken(token, secret); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), clientIDKey, id))
				} else {
					sugar.Debugw("rejected client token", "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// GetClientIDFromContext возвращает идентификатор аутентифицированного клиента.
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientIDKey).(string)
	return id, ok && id != ""
}
