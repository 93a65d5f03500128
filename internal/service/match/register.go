package match

import (
	"net/http"

	"fmk-dating/internal/app"
	"fmk-dating/internal/auth"
)

// Registrar ties the match service into the HTTP mux
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the match service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the match routes to the mux
func (r *Registrar) Register(mux *http.ServeMux) {
	service := NewService(r.appCtx)
	guard := auth.Middleware(r.appCtx.Config.Bot.Token)

	mux.HandleFunc("GET /api/match/list", guard(service.List))
	mux.HandleFunc("GET /api/match/pending", guard(service.Pending))
	mux.HandleFunc("POST /api/match/confirm", guard(service.Confirm))
	mux.HandleFunc("POST /api/match/decline", guard(service.Decline))
}
