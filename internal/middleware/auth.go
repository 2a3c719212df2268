package middleware

import (
	"errors"
	"net/http"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/ctxutil"
	"github.com/s/onlineLearning/internal/handlers"
	"github.com/s/onlineLearning/internal/models"
)

// Authenticated пропускает запрос, только если сессия или токен указывают на
// существующего пользователя. Его id и роль кладутся в контекст.
func Authenticated(h *handlers.Handler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Проверка аутентификации
			userID, ok := h.Auth.UserID(r)
			if !ok {
				h.WriteError(w, r, apperr.Unauthenticated("Требуется авторизация"))
				return
			}

			// 2. Пользователь мог быть удалён, а роль — измениться после выдачи токена
			user, err := h.Svc.GetUser(r.Context(), userID)
			if err != nil {
				if errors.Is(err, apperr.ErrNotFound) {
					err = apperr.Unauthenticated("Пользователь не найден")
				}
				h.WriteError(w, r, err)
				return
			}

			ctx := ctxutil.WithUser(r.Context(), user.ID, user.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequiredRole пропускает только пользователей с одной из ролей.
// Ставится после Authenticated.
func RequiredRole(h *handlers.Handler, roles ...models.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := ctxutil.Role(r.Context())
			if !ok {
				h.WriteError(w, r, apperr.Unauthenticated("Требуется авторизация"))
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			h.WriteError(w, r, apperr.Forbidden("Недостаточно прав"))
		})
	}
}
