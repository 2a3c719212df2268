package ctxutil

import (
	"context"
	"time"

	"github.com/s/onlineLearning/internal/models"
)

// приватные ключи, чтобы исключить коллизии
type key int

const (
	keyUserID key = iota
	keyRole
)

// WithUser кладёт в контекст проверенного пользователя (из сессии или токена)
func WithUser(ctx context.Context, userID uint, role models.Role) context.Context {
	ctx = context.WithValue(ctx, keyUserID, userID)
	return context.WithValue(ctx, keyRole, role)
}

func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(keyUserID).(uint)
	return id, ok && id != 0
}

func Role(ctx context.Context) (models.Role, bool) {
	r, ok := ctx.Value(keyRole).(models.Role)
	return r, ok
}

var DefaultDBTimeout = 5 * time.Second

// WithDBTimeout — стандартный таймаут для БД; если у родителя дедлайн ближе, берём его.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		if remain := time.Until(dl); remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
