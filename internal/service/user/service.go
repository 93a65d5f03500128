package user

import (
	"encoding/json"
	"net/http"

	"fmk-dating/internal/app"
	"fmk-dating/internal/apperrors"
	"fmk-dating/internal/auth"
	"fmk-dating/internal/db"
	"fmk-dating/internal/repository"
	"fmk-dating/internal/server"
)

const maxDescriptionLen = 300

// Service implements the profile and candidate-selection endpoints.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
}

// NewService creates the user service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
	}
}

// Profile handles GET /api/user/profile.
func (s *Service) Profile(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())

	user, err := s.users.Get(r.Context(), caller.ID)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	if user == nil {
		apperrors.Write(w, apperrors.NotFound("User not found"))
		return
	}
	server.WriteJSON(w, http.StatusOK, user)
}

// updateProfileRequest models the partial update: absent fields stay
// untouched, each present field has exactly one validation rule.
type updateProfileRequest struct {
	Photos      *[]string `json:"photos"`
	Description *string   `json:"description"`
	Language    *string   `json:"language"`
	Theme       *string   `json:"theme"`
	FilmGrain   *bool     `json:"film_grain"`
}

// UpdateProfile handles PUT /api/user/profile.
func (s *Service) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Write(w, apperrors.Validation("Invalid request body"))
		return
	}

	updates := map[string]interface{}{}
	if req.Photos != nil {
		photos := *req.Photos
		if len(photos) > repository.MaxPhotos {
			photos = photos[:repository.MaxPhotos]
		}
		updates["photos"] = db.StringList(photos)
	}
	if req.Description != nil {
		updates["description"] = truncate(*req.Description, maxDescriptionLen)
	}
	if req.Language != nil {
		if !db.ValidLanguage(*req.Language) {
			apperrors.Write(w, apperrors.Validation("Invalid language"))
			return
		}
		updates["language"] = *req.Language
	}
	if req.Theme != nil {
		if !db.ValidTheme(*req.Theme) {
			apperrors.Write(w, apperrors.Validation("Invalid theme"))
			return
		}
		updates["theme"] = *req.Theme
	}
	if req.FilmGrain != nil {
		updates["film_grain"] = *req.FilmGrain
	}

	user, err := s.users.UpdateProfile(r.Context(), caller.ID, updates)
	if err != nil {
		s.appCtx.Logger.Error("profile update failed", "user", caller.ID, "err", err)
		apperrors.Write(w, err)
		return
	}
	if user == nil {
		apperrors.Write(w, apperrors.NotFound("User not found"))
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
}

// AddPhoto handles POST /api/user/add-photo.
func (s *Service) AddPhoto(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())

	var req struct {
		PhotoURL string `json:"photo_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PhotoURL == "" {
		apperrors.Write(w, apperrors.Validation("Photo URL required"))
		return
	}

	photos, err := s.users.AddPhoto(r.Context(), caller.ID, req.PhotoURL)
	if err == repository.ErrPhotoLimit {
		apperrors.Write(w, apperrors.Validation("Maximum 5 photos allowed"))
		return
	}
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "photos": photos})
}

// Next handles GET /api/user/next.
func (s *Service) Next(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())

	candidate, err := s.users.NextCandidate(r.Context(), caller.ID)
	if err != nil {
		s.appCtx.Logger.Error("next candidate lookup failed", "user", caller.ID, "err", err)
		apperrors.Write(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": candidate})
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
