package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/dropx-tech/marketplace-backend/pkg/e"
	"github.com/dropx-tech/marketplace-backend/pkg/logger"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// SessionResolver переводит сессионный токен в id пользователя.
type SessionResolver interface {
	ResolveUserID(ctx context.Context, token string) (int64, error)
}

// AuthMiddleware достаёт Bearer-токен, резолвит его в id пользователя
// и кладёт id в контекст запроса. Без валидной сессии — 401.
func AuthMiddleware(sessions SessionResolver, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				WriteError(w, e.ErrUnauthorized)
				return
			}

			userID, err := sessions.ResolveUserID(r.Context(), token)
			if err != nil {
				log.Debugf("session resolve failed: %v", err)
				WriteError(w, e.ErrUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// UserIDFromCtx возвращает id пользователя, положенный AuthMiddleware.
func UserIDFromCtx(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDKey).(int64)
	if !ok {
		return 0, e.ErrUnauthorized
	}
	return userID, nil
}
