package authsvc

import (
	"net/http"

	"fmk-dating/internal/app"
	"fmk-dating/internal/auth"
)

// Registrar ties the auth service into the HTTP mux
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the auth service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the auth routes to the mux
func (r *Registrar) Register(mux *http.ServeMux) {
	service := NewService(r.appCtx)
	guard := auth.Middleware(r.appCtx.Config.Bot.Token)

	mux.HandleFunc("POST /api/auth/login", guard(service.Login))
}
