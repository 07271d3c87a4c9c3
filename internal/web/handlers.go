package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/cjeanneret/FovGo/internal/debug"
	"github.com/cjeanneret/FovGo/internal/logic/geometry"
	"github.com/cjeanneret/FovGo/internal/logic/units"
	"github.com/cjeanneret/FovGo/internal/store"
)

// aspectRounding is the tolerance used to name a measured aspect ratio.
const aspectRounding = 0.01

// CalcRequest is the JSON body of POST /calculate. Monitor dimensions
// are given either directly (width+height) or indirectly
// (diagonal+aspect); zero means "not provided".
type CalcRequest struct {
	WidthMm    float64 `json:"width_mm,omitempty"`
	HeightMm   float64 `json:"height_mm,omitempty"`
	DiagonalMm float64 `json:"diagonal_mm,omitempty"`
	Aspect     float64 `json:"aspect,omitempty"`
	DistanceMm float64 `json:"distance_mm"`

	Mode        string  `json:"mode,omitempty"`         // "portal" (default) or "focused"
	ReferenceMm float64 `json:"reference_mm,omitempty"` // focused mode only
	RelativeTo  string  `json:"relative_to,omitempty"`  // "monitor" (default) or "eye"
}

// CalcResponse is the JSON result of a calculation.
type CalcResponse struct {
	Mode          string  `json:"mode"`
	HorizontalDeg float64 `json:"horizontal_deg"`
	VerticalDeg   float64 `json:"vertical_deg"`
	Aspect        float64 `json:"aspect"`
	AspectName    string  `json:"aspect_name,omitempty"`
	ScaleFactor   float64 `json:"scale_factor,omitempty"`
	MoveBackMm    float64 `json:"move_back_mm,omitempty"`
	MoveBackApp   float64 `json:"move_back_app,omitempty"`
}

// FormConfig holds default values for the calculator form (from config).
type FormConfig struct {
	WidthMm          float64 `json:"width_mm"`
	HeightMm         float64 `json:"height_mm"`
	DiagonalMm       float64 `json:"diagonal_mm"`
	Aspect           float64 `json:"aspect"`
	DistanceMm       float64 `json:"distance_mm"`
	ReferenceMm      float64 `json:"reference_mm"`
	RelativeTo       string  `json:"relative_to"`
	Mode             string  `json:"mode"`
	DisplayUnit      string  `json:"display_unit"`
	AppUnitsPerMeter float64 `json:"app_units_per_meter"`
}

// Compute runs one calculation. Scale converts the move-back distance
// into application units for portal mode.
func Compute(req CalcRequest, scale units.Scale) (CalcResponse, error) {
	dims, err := geometry.ResolveDimensions(req.WidthMm, req.HeightMm, req.DiagonalMm, req.Aspect)
	if err != nil {
		return CalcResponse{}, err
	}
	calc, err := geometry.NewCalculator(geometry.Setup{Dimensions: dims, DistanceMm: req.DistanceMm})
	if err != nil {
		return CalcResponse{}, err
	}

	mode := req.Mode
	if mode == "" {
		mode = "portal"
	}
	resp := CalcResponse{Mode: mode}

	switch mode {
	case "portal":
		res := calc.PortalFOV()
		resp.HorizontalDeg = res.HorizontalDeg
		resp.VerticalDeg = res.VerticalDeg
		resp.Aspect = res.Aspect
		resp.MoveBackMm = req.DistanceMm
		resp.MoveBackApp = scale.AppUnits(req.DistanceMm)
	case "focused":
		relativeToMonitor, err := parseRelativeTo(req.RelativeTo)
		if err != nil {
			return CalcResponse{}, err
		}
		res, err := calc.FocusedFOV(req.ReferenceMm, relativeToMonitor)
		if err != nil {
			return CalcResponse{}, err
		}
		resp.HorizontalDeg = res.HorizontalDeg
		resp.VerticalDeg = res.VerticalDeg
		resp.Aspect = res.Aspect
		resp.ScaleFactor = res.ScaleFactor
	default:
		return CalcResponse{}, fmt.Errorf("%w: mode must be \"portal\" or \"focused\", got %q", geometry.ErrInvalidInput, mode)
	}

	if a, ok := geometry.FindCommonAspectRatio(resp.Aspect, aspectRounding); ok {
		resp.AspectName = a.String()
	}
	return resp, nil
}

func parseRelativeTo(s string) (bool, error) {
	switch s {
	case "", "monitor":
		return true, nil
	case "eye":
		return false, nil
	default:
		return false, fmt.Errorf("%w: relative_to must be \"monitor\" or \"eye\", got %q", geometry.ErrInvalidInput, s)
	}
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster  *ResultBroadcaster
	History      *store.DB // nil disables history
	FormDefaults FormConfig
	Scale        units.Scale
	staticFS     fs.FS
}

// NewHandlers creates handlers with the given dependencies.
// history may be nil, which disables GET /history and recording.
func NewHandlers(broadcaster *ResultBroadcaster, history *store.DB, formDefaults FormConfig, scale units.Scale, staticFS fs.FS) *Handlers {
	return &Handlers{
		Broadcaster:  broadcaster,
		History:      history,
		FormDefaults: formDefaults,
		Scale:        scale,
		staticFS:     staticFS,
	}
}

// HandleConfig returns the form default values (from config) as JSON.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.FormDefaults)
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleCalculate handles POST /calculate.
func (h *Handlers) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	resp, err := Compute(req, h.Scale)
	if err != nil {
		if errors.Is(err, geometry.ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	debug.Calculation(resp.Mode, resp.HorizontalDeg, resp.VerticalDeg)

	if h.History != nil {
		refMm := 0.0
		if resp.Mode == "focused" {
			refMm = req.ReferenceMm
		}
		rec := store.Calculation{
			Mode:          resp.Mode,
			DistanceMm:    req.DistanceMm,
			ReferenceMm:   refMm,
			HorizontalDeg: resp.HorizontalDeg,
			VerticalDeg:   resp.VerticalDeg,
		}
		dims, _ := geometry.ResolveDimensions(req.WidthMm, req.HeightMm, req.DiagonalMm, req.Aspect)
		rec.WidthMm = dims.WidthMm
		rec.HeightMm = dims.HeightMm
		if _, err := h.History.Save(rec); err != nil {
			// history is best-effort, the calculation already succeeded
			log.Printf("save history failed: %v", err)
		}
	}

	if h.Broadcaster != nil {
		h.Broadcaster.BroadcastResult(resp)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleHistory handles GET /history?limit=N.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if h.History == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = v
	}
	if limit > 100 {
		limit = 100
	}
	recs, err := h.History.Recent(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recs)
}

// HandleEventStream handles GET /events/stream for SSE.
func (h *Handlers) HandleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
