package user

import (
	"net/http"

	"fmk-dating/internal/app"
	"fmk-dating/internal/auth"
)

// Registrar ties the user service into the HTTP mux
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the user service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the profile and candidate routes to the mux
func (r *Registrar) Register(mux *http.ServeMux) {
	service := NewService(r.appCtx)
	guard := auth.Middleware(r.appCtx.Config.Bot.Token)

	mux.HandleFunc("GET /api/user/profile", guard(service.Profile))
	mux.HandleFunc("PUT /api/user/profile", guard(service.UpdateProfile))
	mux.HandleFunc("POST /api/user/add-photo", guard(service.AddPhoto))
	mux.HandleFunc("GET /api/user/next", guard(service.Next))
}
