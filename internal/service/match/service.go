package match

import (
	"encoding/json"
	"net/http"
	"time"

	"fmk-dating/internal/app"
	"fmk-dating/internal/apperrors"
	"fmk-dating/internal/auth"
	"fmk-dating/internal/db"
	"fmk-dating/internal/repository"
	"fmk-dating/internal/server"
)

// Service implements match listing and the conditional-match confirmation
// state machine.
type Service struct {
	appCtx  *app.AppContext
	matches *repository.MatchRepository
}

// NewService creates the match service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:  appCtx,
		matches: repository.NewMatchRepository(appCtx.DB),
	}
}

// matchView is a match rendered relative to the requesting member.
type matchView struct {
	ID            int64         `json:"id"`
	PartnerID     int64         `json:"partnerId"`
	PartnerName   string        `json:"partnerName"`
	PartnerPhotos db.StringList `json:"partnerPhotos"`
	Type          string        `json:"type,omitempty"`
	MyConfirmed   *bool         `json:"myConfirmed,omitempty"`
	PartnerConf   *bool         `json:"partnerConfirmed,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

func viewFor(m *db.Match, userID int64, withFlags bool) matchView {
	partner := m.User2
	mine, theirs := m.Confirm1, m.Confirm2
	if m.User2ID == userID {
		partner = m.User1
		mine, theirs = m.Confirm2, m.Confirm1
	}
	view := matchView{
		ID:            m.ID,
		PartnerID:     partner.TelegramUserID,
		PartnerName:   partner.FirstName,
		PartnerPhotos: partner.Photos,
		CreatedAt:     m.CreatedAt,
	}
	if withFlags {
		view.MyConfirmed = &mine
		view.PartnerConf = &theirs
	} else {
		view.Type = m.Type
	}
	return view
}

// List handles GET /api/match/list: active chats only.
func (s *Service) List(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())

	matches, err := s.matches.ListActive(r.Context(), caller.ID)
	if err != nil {
		s.appCtx.Logger.Error("match list failed", "user", caller.ID, "err", err)
		apperrors.Write(w, err)
		return
	}

	views := make([]matchView, 0, len(matches))
	for i := range matches {
		views = append(views, viewFor(&matches[i], caller.ID, false))
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"matches": views})
}

// Pending handles GET /api/match/pending: conditional matches awaiting
// confirmation, plus a cache-first badge count.
func (s *Service) Pending(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())

	matches, err := s.matches.ListPending(r.Context(), caller.ID)
	if err != nil {
		s.appCtx.Logger.Error("pending list failed", "user", caller.ID, "err", err)
		apperrors.Write(w, err)
		return
	}

	views := make([]matchView, 0, len(matches))
	for i := range matches {
		views = append(views, viewFor(&matches[i], caller.ID, true))
	}

	count, err := s.pendingCount(r, caller.ID)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"pending": views,
		"count":   count,
	})
}

// pendingCount tries the badge cache first and falls back to the database,
// repopulating the cache on a miss.
func (s *Service) pendingCount(r *http.Request, userID int64) (int64, error) {
	if cached, ok, _ := s.appCtx.RedisCache.GetPendingCount(r.Context(), userID); ok {
		return cached, nil
	}
	count, err := s.matches.CountPending(r.Context(), userID)
	if err != nil {
		return 0, err
	}
	_ = s.appCtx.RedisCache.UpdatePendingCount(r.Context(), userID, count)
	return count, nil
}

type matchIDRequest struct {
	MatchID int64 `json:"matchId"`
}

// load fetches the match and enforces membership.
func (s *Service) load(r *http.Request, matchID, userID int64) (*db.Match, error) {
	match, err := s.matches.GetByID(r.Context(), matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, apperrors.NotFound("Match not found")
	}
	if !match.HasMember(userID) {
		return nil, apperrors.Forbidden("Access denied")
	}
	return match, nil
}

// Confirm handles POST /api/match/confirm: sets the caller's own flag; the
// match opens as a chat once both flags are true. Re-confirming is a no-op.
func (s *Service) Confirm(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())

	var req matchIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Write(w, apperrors.Validation("Invalid request body"))
		return
	}

	match, err := s.load(r, req.MatchID, caller.ID)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	updated, err := s.matches.Confirm(r.Context(), match, caller.ID)
	if err != nil {
		s.appCtx.Logger.Error("match confirm failed", "match", match.ID, "user", caller.ID, "err", err)
		apperrors.Write(w, err)
		return
	}

	s.appCtx.RedisCache.InvalidatePendingCounts(r.Context(), updated.User1ID, updated.User2ID)

	bothConfirmed := updated.Confirm1 && updated.Confirm2
	message := "Ожидаем подтверждения партнера"
	if bothConfirmed {
		message = "Чат открыт!"
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"bothConfirmed": bothConfirmed,
		"message":       message,
	})
}

// Decline handles POST /api/match/decline: deletes the match row outright.
// Any match the caller belongs to can be declined, active or pending.
func (s *Service) Decline(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())

	var req matchIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Write(w, apperrors.Validation("Invalid request body"))
		return
	}

	match, err := s.load(r, req.MatchID, caller.ID)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	if err := s.matches.Delete(r.Context(), match.ID); err != nil {
		s.appCtx.Logger.Error("match decline failed", "match", match.ID, "user", caller.ID, "err", err)
		apperrors.Write(w, err)
		return
	}

	s.appCtx.RedisCache.InvalidatePendingCounts(r.Context(), match.User1ID, match.User2ID)

	server.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Match declined",
	})
}
