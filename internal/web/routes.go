package web

import "net/http"

// SetRoutes registers the dashboard page, its JSON API and the refresh action.
func SetRoutes(router *http.ServeMux, h *Handler) {
	router.HandleFunc("GET /{$}", h.Page)
	router.HandleFunc("POST /refresh", h.Refresh)

	router.HandleFunc("GET /api/charts", h.Charts)
	router.HandleFunc("GET /api/table", h.Table)

	router.HandleFunc("GET /healthz", h.Health)
}

// NewRouter returns a ServeMux with every dashboard route registered.
func NewRouter(h *Handler) *http.ServeMux {
	router := http.NewServeMux()
	SetRoutes(router, h)
	return router
}
