package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/directory"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/feeds"
)

// FeedHandler serves RSS feeds for the syndicated content types.
type FeedHandler struct {
	svc       *directory.Service
	siteTitle string
	baseURL   string
}

// NewFeedHandler creates a feed handler.
func NewFeedHandler(svc *directory.Service, siteTitle, baseURL string) *FeedHandler {
	return &FeedHandler{svc: svc, siteTitle: siteTitle, baseURL: baseURL}
}

// Serve handles GET /feeds/{type}.xml for events and news.
func (h *FeedHandler) Serve(w http.ResponseWriter, r *http.Request) {
	t, err := content.Parse(chi.URLParam(r, "type"))
	if err != nil || !feeds.Syndicated(t) {
		http.NotFound(w, r)
		return
	}

	items, _, err := h.svc.List(r.Context(), t, 50, 0, "")
	if err != nil {
		slog.Error("feed list failed", slog.String("type", string(t)), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	rss, err := feeds.BuildRSS(h.siteTitle, h.baseURL, t, items)
	if err != nil {
		slog.Error("feed render failed", slog.String("type", string(t)), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(rss))
}
