package authsvc

import (
	"net/http"

	"fmk-dating/internal/app"
	"fmk-dating/internal/apperrors"
	"fmk-dating/internal/auth"
	"fmk-dating/internal/db"
	"fmk-dating/internal/repository"
	"fmk-dating/internal/server"
)

// Service implements the login endpoint: it upserts the verified caller as a
// user row and returns the full profile.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
}

// NewService creates the auth service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
	}
}

// Login handles POST /api/auth/login.
func (s *Service) Login(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())

	user, err := s.users.UpsertLogin(r.Context(), &db.User{
		TelegramUserID: caller.ID,
		FirstName:      caller.FirstName,
		Username:       caller.Username,
		Language:       languageFor(caller.LanguageCode),
	})
	if err != nil {
		s.appCtx.Logger.Error("login upsert failed", "user", caller.ID, "err", err)
		apperrors.Write(w, err)
		return
	}

	s.appCtx.Logger.Debug("login", "user", user.TelegramUserID)
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
}

// languageFor maps a Telegram language code onto the supported enum,
// defaulting to ru.
func languageFor(code string) string {
	switch code {
	case "ar":
		return "ar"
	case "en":
		return "en"
	default:
		return "ru"
	}
}
