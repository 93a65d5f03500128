package action

import (
	"net/http"

	"fmk-dating/internal/app"
	"fmk-dating/internal/auth"
)

// Registrar ties the action service into the HTTP mux
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the action service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the action routes to the mux
func (r *Registrar) Register(mux *http.ServeMux) {
	service := NewService(r.appCtx)
	guard := auth.Middleware(r.appCtx.Config.Bot.Token)

	mux.HandleFunc("POST /api/action/submit", guard(service.Submit))
}
