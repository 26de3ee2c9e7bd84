package web

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"BeesDashboard/internal/chart"
	"BeesDashboard/internal/dashboard"
	"BeesDashboard/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"list": func(xs ...int) []int { return xs },
	"cell": func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', 2, 64)
	},
}

var (
	pageTmpl  = template.Must(template.New("page.html").Funcs(funcs).ParseFS(templateFS, "templates/page.html"))
	errorTmpl = template.Must(template.New("error.html").ParseFS(templateFS, "templates/error.html"))
)

// Handler serves the dashboard over HTTP.
type Handler struct {
	dash *dashboard.Dashboard
}

// NewHandler creates a new Handler
func NewHandler(d *dashboard.Dashboard) *Handler {
	return &Handler{dash: d}
}

// chartJSON is the wire form of one chart result.
type chartJSON struct {
	Label  string           `json:"label"`
	Ticker string           `json:"ticker"`
	Column int              `json:"column"`
	Spec   *model.ChartSpec `json:"spec,omitempty"`
	Error  string           `json:"error,omitempty"`
}

type chartsResponse struct {
	Years    int         `json:"years"`
	Theme    string      `json:"theme"`
	Charts   []chartJSON `json:"charts"`
	Warnings []string    `json:"warnings,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// years reads the years query parameter; absent or malformed selects the default.
func (h *Handler) years(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("years"))
	if err != nil {
		return h.dash.Years.Default
	}
	return h.dash.Years.Clamp(n)
}

// theme honours an explicit ?theme=dark|light, else the configured context.
func (h *Handler) theme(r *http.Request) chart.Theme {
	ctx := h.dash.Theme
	if v := r.URL.Query().Get("theme"); v != "" {
		ctx.Base = v
	}
	return ctx.Resolve()
}

// Page handles GET /.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	years, theme := h.years(r), h.theme(r)
	page, err := h.dash.Render(r.Context(), years, theme)
	if err != nil {
		log.Printf("[ERROR] render dashboard: %v", err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		if err := errorTmpl.Execute(w, map[string]any{"Error": err.Error(), "Years": years}); err != nil {
			log.Printf("[ERROR] execute error template: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, page); err != nil {
		log.Printf("[ERROR] execute page template: %v", err)
	}
}

// Refresh handles POST /refresh: the cache is cleared and the page re-rendered.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.dash.Refresh()
	years := h.years(r)
	if err := r.ParseForm(); err == nil {
		if n, err := strconv.Atoi(r.PostForm.Get("years")); err == nil {
			years = h.dash.Years.Clamp(n)
		}
	}
	http.Redirect(w, r, fmt.Sprintf("/?years=%d", years), http.StatusSeeOther)
}

// Charts handles GET /api/charts.
func (h *Handler) Charts(w http.ResponseWriter, r *http.Request) {
	page, err := h.dash.Render(r.Context(), h.years(r), h.theme(r))
	if err != nil {
		log.Printf("[ERROR] render charts: %v", err)
		h.sendErrorResponse(w, err.Error(), http.StatusBadGateway)
		return
	}
	resp := chartsResponse{Years: page.Years, Theme: page.Theme.String(), Warnings: page.Warnings()}
	for _, c := range page.Charts {
		cj := chartJSON{Label: c.Label, Ticker: c.Ticker, Column: c.Column, Spec: c.Spec}
		if c.Err != nil {
			cj.Error = c.Err.Error()
		}
		resp.Charts = append(resp.Charts, cj)
	}
	h.sendJSONResponse(w, resp)
}

// Table handles GET /api/table.
func (h *Handler) Table(w http.ResponseWriter, r *http.Request) {
	page, err := h.dash.Render(r.Context(), h.years(r), h.theme(r))
	if err != nil {
		log.Printf("[ERROR] render table: %v", err)
		h.sendErrorResponse(w, err.Error(), http.StatusBadGateway)
		return
	}
	h.sendJSONResponse(w, page.Table)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.sendJSONResponse(w, map[string]string{"status": "ok"})
}

// sendJSONResponse sends a JSON response to the client
func (h *Handler) sendJSONResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] encode JSON response: %v", err)
	}
}

// sendErrorResponse sends an error response to the client
func (h *Handler) sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(errorResponse{Error: message}); err != nil {
		log.Printf("[ERROR] encode error response: %v", err)
	}
}
