package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/foxdex/internal/apperr"
	"github.com/starford/foxdex/internal/catalog"
)

// Handler holds API route handlers.
type Handler struct {
	svc *Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ListItems handles GET /api/items. The generation checksum doubles as an
// ETag, so unchanged catalogs answer 304.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, sum, builtAt := h.svc.Items()

	etag := `"` + sum + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && strings.Trim(match, `"`) == sum {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":    items,
		"total":    len(items),
		"checksum": sum,
		"built_at": builtAt,
	})
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results := h.svc.Search(q, limit)
	if results == nil {
		results = []catalog.Item{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// ListProfiles handles GET /api/profiles.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles := h.svc.Profiles()
	if profiles == nil {
		profiles = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profiles": profiles,
		"current":  h.svc.Settings().ProfilePath,
	})
}

// GetSettings handles GET /api/settings.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Settings())
}

// UpdateSettings handles PUT /api/settings. Absent fields keep their
// current values; a change triggers a background rebuild.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req struct {
		ProfilePath  *string `json:"current_profile_path"`
		IndexHistory *bool   `json:"index_history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	next, err := h.svc.UpdateSettings(req.ProfilePath, req.IndexHistory)
	if err != nil {
		if errors.Is(err, ErrUnknownProfile) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("update settings failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, next)
}

// TriggerRebuild handles POST /api/rebuild.
func (h *Handler) TriggerRebuild(w http.ResponseWriter, r *http.Request) {
	h.svc.TriggerRebuild()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

// RunAction handles POST /api/items/{id}/actions/{action}.
func (h *Handler) RunAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	kind := catalog.ActionKind(chi.URLParam(r, "action"))

	if err := h.svc.RunAction(id, kind); err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, ErrUnknownAction):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		default:
			slog.Error("action failed",
				slog.String("id", id),
				slog.String("action", string(kind)),
				slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
