// Package api implements the HTTP read/write edge of spec.md §4.9: a
// snapshot/long-poll map endpoint, a single-cell paint endpoint, and a lock
// telemetry diagnostics endpoint, following
// _examples/GoCodeAlone-EvoSim/web_interface.go's handler-registration and
// JSON-response style, routed with github.com/gorilla/mux.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sitegui/nature-pixel/internal/apierr"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
	"github.com/sitegui/nature-pixel/internal/locktrack"
	"github.com/sitegui/nature-pixel/internal/world"
)

// WorldView is the narrow surface the API depends on, so handlers can be
// tested against a fake without booting a real world.
type WorldView interface {
	Size() int
	ReadSnapshot(caller string) world.Snapshot
	WaitForChange(caller, lastVersionID string, timeout time.Duration) world.Snapshot
	Paint(x, y int, colorIndex gridmodel.ColorIndex, nowNanos int64) (string, error)
	LockStats() locktrack.Snapshot
}

// Handler wires WorldView into a mux.Router.
type Handler struct {
	world             WorldView
	longPollingWindow time.Duration
	assetsDir         string
}

// NewHandler builds an API handler set. assetsDir is the directory static
// assets are served from; an empty assetsDir registers no static route.
func NewHandler(w WorldView, longPollingWindow time.Duration, assetsDir string) *Handler {
	return &Handler{world: w, longPollingWindow: longPollingWindow, assetsDir: assetsDir}
}

// Register attaches every route to router, following the teacher's
// `/api/...` prefix convention; static assets are served last, as a
// catch-all, the way web_interface.go:67-68 registers `/static/` after its
// API routes.
func (h *Handler) Register(router *mux.Router) {
	router.HandleFunc("/api/map", h.handleMap).Methods(http.MethodGet)
	router.HandleFunc("/api/cell", h.handlePaint).Methods(http.MethodPost)
	router.HandleFunc("/api/stats", h.handleStats).Methods(http.MethodGet)

	if h.assetsDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(h.assetsDir))).Methods(http.MethodGet, http.MethodHead)
	}
}

type mapResponse struct {
	VersionID             string                 `json:"version_id"`
	Size                  int                    `json:"size"`
	Colors                []gridmodel.RGB        `json:"colors"`
	AvailableColorIndexes []gridmodel.ColorIndex `json:"available_color_indexes"`
	CellColorIndexes      []gridmodel.ColorIndex `json:"cell_color_indexes"`
}

func (h *Handler) handleMap(w http.ResponseWriter, r *http.Request) {
	lastVersionID := r.URL.Query().Get("last_version_id")

	var snap world.Snapshot
	if lastVersionID != "" {
		snap = h.world.WaitForChange("api", lastVersionID, h.longPollingWindow)
	} else {
		snap = h.world.ReadSnapshot("api")
	}

	indexes := make([]gridmodel.ColorIndex, len(snap.Cells))
	for i, c := range snap.Cells {
		indexes[i] = c.Color()
	}

	writeJSON(w, http.StatusOK, mapResponse{
		VersionID:             snap.VersionID,
		Size:                  snap.Size,
		Colors:                gridmodel.Palette[:],
		AvailableColorIndexes: gridmodel.AvailableColors,
		CellColorIndexes:      indexes,
	})
}

type paintResponse struct {
	VersionID string `json:"version_id"`
}

func (h *Handler) handlePaint(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.URL.Query().Get("x_index"))
	y, errY := strconv.Atoi(r.URL.Query().Get("y_index"))
	colorIndex, errC := strconv.Atoi(r.URL.Query().Get("color_index"))
	if errX != nil || errY != nil || errC != nil {
		writeError(w, &apierr.BadRequest{Cause: errors.Join(errX, errY, errC)})
		return
	}

	versionID, err := h.world.Paint(x, y, gridmodel.ColorIndex(colorIndex), time.Now().UnixNano())
	if err != nil {
		writeError(w, &apierr.BadRequest{Cause: err})
		return
	}

	writeJSON(w, http.StatusOK, paintResponse{VersionID: versionID})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.world.LockStats())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusCoder is implemented by the apierr request-facing error kinds.
type statusCoder interface {
	StatusCode() int
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if sc, ok := err.(statusCoder); ok {
		status = sc.StatusCode()
	}
	http.Error(w, err.Error(), status)
}
