package auth

import (
	"context"
	"errors"
	"net/http"

	"fmk-dating/internal/apperrors"
)

var errNoUser = errors.New("no user data in payload")

type contextKey struct{}

// Middleware rejects requests without a valid signed payload and injects the
// extracted caller identity into the request context.
func Middleware(botToken string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			initData := r.Header.Get(Header)
			if initData == "" {
				apperrors.Write(w, apperrors.Unauthorized("Unauthorized: No init data"))
				return
			}
			if !Validate(initData, botToken) {
				apperrors.Write(w, apperrors.Unauthorized("Unauthorized: Invalid data"))
				return
			}
			user, err := ParseUser(initData)
			if err != nil {
				apperrors.Write(w, apperrors.Unauthorized("Unauthorized: No user data"))
				return
			}
			ctx := context.WithValue(r.Context(), contextKey{}, user)
			next(w, r.WithContext(ctx))
		}
	}
}

// UserFrom returns the caller identity stored by Middleware, or nil.
func UserFrom(ctx context.Context) *TelegramUser {
	user, _ := ctx.Value(contextKey{}).(*TelegramUser)
	return user
}
