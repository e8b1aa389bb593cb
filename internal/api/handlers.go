package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/apperr"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/directory"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	svc *directory.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *directory.Service) *Handler {
	return &Handler{svc: svc}
}

// urlType parses and validates the {type} URL segment.
func urlType(r *http.Request) (content.Type, bool) {
	t, err := content.Parse(chi.URLParam(r, "type"))
	return t, err == nil
}

// List handles GET /api/{type} with limit/offset pagination and an optional
// q substring filter over display name and body.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	t, ok := urlType(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown content type"))
		return
	}
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	items, total, err := h.svc.List(r.Context(), t, limit, offset, query.Get("q"))
	if err != nil {
		slog.Error("list failed", slog.String("type", string(t)), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []store.Entity{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Items: items, Total: total})
}

// Search handles GET /api/search?q=: a cross-type free-text search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q parameter is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	hits, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("q", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if hits == nil {
		hits = []store.SearchHit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"hits": hits})
}

// Detail handles GET /api/{type}/{slug}: the full entity plus rendered body,
// the resolved-reference map, and grouped backlinks.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	t, ok := urlType(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown content type"))
		return
	}
	detail, err := h.svc.GetDetail(r.Context(), t, chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("detail failed", slog.String("type", string(t)), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// References handles GET /api/{type}/{slug}/references: the flat incoming
// reference list used by plain "Referenced By" link lists.
func (h *Handler) References(w http.ResponseWriter, r *http.Request) {
	t, ok := urlType(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown content type"))
		return
	}
	refs, err := h.svc.References(r.Context(), t, chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("references failed", slog.String("type", string(t)), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"references": refs})
}

// Create handles POST /api/{type}.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	t, ok := urlType(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown content type"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req EntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	e, err := h.svc.Create(r.Context(), req.toEntity(t))
	if err != nil {
		slog.Error("create failed", slog.String("type", string(t)), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// Update handles PUT /api/{type}/{slug}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	t, ok := urlType(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown content type"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req EntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	existing, err := h.svc.GetBySlug(r.Context(), t, chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}

	e := req.toEntity(t)
	e.ID = existing.ID
	e.Slug = existing.Slug
	updated, err := h.svc.Update(r.Context(), e)
	if err != nil {
		slog.Error("update failed", slog.String("type", string(t)), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/{type}/{slug}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	t, ok := urlType(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown content type"))
		return
	}
	existing, err := h.svc.GetBySlug(r.Context(), t, chi.URLParam(r, "slug"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	if err := h.svc.Delete(r.Context(), t, existing.ID); err != nil {
		slog.Error("delete failed", slog.String("type", string(t)), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
