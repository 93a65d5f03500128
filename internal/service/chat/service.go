package chat

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fmk-dating/internal/app"
	"fmk-dating/internal/apperrors"
	"fmk-dating/internal/auth"
	"fmk-dating/internal/db"
	"fmk-dating/internal/repository"
	"fmk-dating/internal/server"
)

// Service implements the per-match message thread endpoints.
type Service struct {
	appCtx   *app.AppContext
	matches  *repository.MatchRepository
	messages *repository.MessageRepository
}

// NewService creates the chat service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		matches:  repository.NewMatchRepository(appCtx.DB),
		messages: repository.NewMessageRepository(appCtx.DB),
	}
}

// loadMatch fetches the referenced match and enforces membership.
func (s *Service) loadMatch(r *http.Request, userID int64) (*db.Match, error) {
	matchID, err := strconv.ParseInt(r.PathValue("matchId"), 10, 64)
	if err != nil {
		return nil, apperrors.Validation("Invalid match id")
	}
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

// Messages handles GET /api/chat/{matchId}/messages.
func (s *Service) Messages(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())

	match, err := s.loadMatch(r, caller.ID)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	messages, err := s.messages.ListByMatch(r.Context(), match.ID)
	if err != nil {
		s.appCtx.Logger.Error("message list failed", "match", match.ID, "err", err)
		apperrors.Write(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

type sendMessageRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Blurred bool   `json:"blurred"`
}

// SendMessage handles POST /api/chat/{matchId}/message.
func (s *Service) SendMessage(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.Write(w, apperrors.Validation("Invalid request body"))
		return
	}
	if !db.ValidMessageType(req.Type) {
		apperrors.Write(w, apperrors.Validation("Invalid message type"))
		return
	}

	match, err := s.loadMatch(r, caller.ID)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	message := &db.Message{
		MatchID:  match.ID,
		SenderID: caller.ID,
		Type:     req.Type,
		Content:  req.Content,
		Blurred:  req.Blurred,
	}
	if err := s.messages.Create(r.Context(), message); err != nil {
		s.appCtx.Logger.Error("message create failed", "match", match.ID, "sender", caller.ID, "err", err)
		apperrors.Write(w, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": message})
}

// ToggleBlur handles POST /api/chat/{matchId}/toggle-blur/{messageId}.
// Either member may flip the reveal flag, not only the sender.
func (s *Service) ToggleBlur(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFrom(r.Context())

	match, err := s.loadMatch(r, caller.ID)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	messageID, err := strconv.ParseInt(r.PathValue("messageId"), 10, 64)
	if err != nil {
		apperrors.Write(w, apperrors.Validation("Invalid message id"))
		return
	}

	message, err := s.messages.Get(r.Context(), match.ID, messageID)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	if message == nil {
		apperrors.Write(w, apperrors.NotFound("Message not found"))
		return
	}

	blurred := !message.Blurred
	if err := s.messages.SetBlur(r.Context(), message.ID, blurred); err != nil {
		s.appCtx.Logger.Error("toggle blur failed", "message", message.ID, "err", err)
		apperrors.Write(w, err)
		return
	}

	server.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "blurred": blurred})
}
