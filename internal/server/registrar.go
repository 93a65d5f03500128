package server

import "net/http"

// Registrar is a common interface for all HTTP service registrars
type Registrar interface {
	Register(mux *http.ServeMux)
}
