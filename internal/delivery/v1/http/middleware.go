package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/e"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

type ctxKey string

const userCtxKey ctxKey = "auth.user"

// AuthMiddleware проверяет bearer-токен и кладёт пользователя в контекст запроса.
type AuthMiddleware struct {
	userUC usecase.UserUC
	logger logger.Logger
}

func NewAuthMiddleware(userUC usecase.UserUC, logger logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{userUC: userUC, logger: logger}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			WriteError(w, e.ErrUnauthorized)
			return
		}

		user, err := m.userUC.Authenticate(r.Context(), token)
		if err != nil {
			m.logger.Debugf("authentication failed: %v", err)
			WriteError(w, e.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// userFromCtx возвращает аутентифицированного пользователя из контекста запроса.
func userFromCtx(ctx context.Context) (*domain.User, error) {
	user, ok := ctx.Value(userCtxKey).(*domain.User)
	if !ok || user == nil {
		return nil, e.ErrUnauthorized
	}

	return user, nil
}
