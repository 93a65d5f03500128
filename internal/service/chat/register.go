package chat

import (
	"net/http"

	"fmk-dating/internal/app"
	"fmk-dating/internal/auth"
)

// Registrar ties the chat service into the HTTP mux
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the chat service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the chat routes to the mux
func (r *Registrar) Register(mux *http.ServeMux) {
	service := NewService(r.appCtx)
	guard := auth.Middleware(r.appCtx.Config.Bot.Token)

	mux.HandleFunc("GET /api/chat/{matchId}/messages", guard(service.Messages))
	mux.HandleFunc("POST /api/chat/{matchId}/message", guard(service.SendMessage))
	mux.HandleFunc("POST /api/chat/{matchId}/toggle-blur/{messageId}", guard(service.ToggleBlur))
}
