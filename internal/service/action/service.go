package action

import (
	"encoding/json"
	"net/http"

	"fmk-dating/internal/app"
	"fmk-dating/internal/apperrors"
	"fmk-dating/internal/auth"
	"fmk-dating/internal/db"
	"fmk-dating/internal/matcher"
	"fmk-dating/internal/repository"
	"fmk-dating/internal/server"
)

// Service implements the action submission endpoint: it records the directed
// action and reports the resolver's match outcome.
type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	actions  *repository.ActionRepository
	resolver *matcher.Resolver
}

// NewService creates the action service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	actions := repository.NewActionRepository(appCtx.DB)
	matches := repository.NewMatchRepository(appCtx.DB)
	return &Service{
		appCtx:   appCtx,
		users:    repository.NewUserRepository(appCtx.DB),
		actions:  actions,
		resolver: matcher.NewResolver(actions, matches),
	}
}

type submitRequest struct {
	ToUserID int64  `json:"toUserId"`
	Action   string `json:"action"`
}

// Submit handles POST /api/action/submit.
func (s *Service) Submit(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Write(w, apperrors.Validation("Invalid request body"))
		return
	}
	if !db.ValidAction(req.Action) {
		apperrors.Write(w, apperrors.Validation("Invalid action"))
		return
	}
	if caller.ID == req.ToUserID {
		apperrors.Write(w, apperrors.Validation("Cannot action yourself"))
		return
	}

	target, err := s.users.Get(r.Context(), req.ToUserID)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	if target == nil {
		apperrors.Write(w, apperrors.NotFound("User not found"))
		return
	}

	if err := s.actions.Upsert(r.Context(), caller.ID, req.ToUserID, req.Action); err != nil {
		s.appCtx.Logger.Error("action upsert failed", "from", caller.ID, "to", req.ToUserID, "err", err)
		apperrors.Write(w, err)
		return
	}

	outcome, err := s.resolver.Resolve(r.Context(), caller.ID, req.ToUserID, req.Action)
	if err != nil {
		s.appCtx.Logger.Error("match resolution failed", "from", caller.ID, "to", req.ToUserID, "err", err)
		apperrors.Write(w, err)
		return
	}

	s.appCtx.Logger.Debug("action submitted",
		"from", caller.ID, "to", req.ToUserID, "action", req.Action, "outcome", outcome.Type)

	resp := map[string]interface{}{
		"success":   true,
		"matchType": outcome.Type,
	}
	switch outcome.Type {
	case matcher.OutcomeInstant:
		resp["action"] = outcome.Action
		resp["icon"] = outcome.Icon
	case matcher.OutcomeConditional:
		resp["icon"] = outcome.Icon
	}

	// A new conditional match changes both members' pending badges.
	if outcome.Match != nil {
		s.appCtx.RedisCache.InvalidatePendingCounts(r.Context(), outcome.Match.User1ID, outcome.Match.User2ID)
	}

	server.WriteJSON(w, http.StatusOK, resp)
}
