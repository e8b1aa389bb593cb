// Package directory is the content service layer: entity CRUD over the store
// with edge reindexing on every save, plus detail-page assembly (rendered
// body, forward-resolved references, backlink groups).
package directory

import (
	"context"
	"log/slog"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/links"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/render"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/store"
)

// Notifier receives entity change notifications. kind is one of "created",
// "updated", "deleted".
type Notifier interface {
	PublishEntityEvent(kind string, ref content.Ref, slug string)
}

// Service coordinates store and reference-engine operations.
type Service struct {
	db       *store.DB
	links    *links.Service
	notifier Notifier
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier makes the service publish entity change events, e.g. to an
// SSE broker.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// NewService creates a new directory service.
func NewService(db *store.DB, engine *links.Service, opts ...Option) *Service {
	s := &Service{db: db, links: engine}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) notify(kind string, ref content.Ref, slug string) {
	if s.notifier != nil {
		s.notifier.PublishEntityEvent(kind, ref, slug)
	}
}

// Detail is the full representation of an entity page.
type Detail struct {
	Entity     store.Entity                 `json:"entity"`
	URL        string                       `json:"url"`
	BodyHTML   string                       `json:"body_html"`
	References map[string]links.ResolvedRef `json:"references"`
	Backlinks  []links.BacklinkGroup        `json:"backlinks"`
}

// Create inserts a new entity and derives its edge set from the body.
// A storage failure during reindexing surfaces as a save failure.
func (s *Service) Create(_ context.Context, e *store.Entity) (*store.Entity, error) {
	if err := s.db.CreateEntity(e); err != nil {
		return nil, err
	}
	if err := s.links.Reindex(e.Ref(), e.Body); err != nil {
		return nil, err
	}
	s.notify("created", e.Ref(), e.Slug)
	return e, nil
}

// Update rewrites an existing entity and re-derives its edge set.
func (s *Service) Update(_ context.Context, e *store.Entity) (*store.Entity, error) {
	if err := s.db.UpdateEntity(e); err != nil {
		return nil, err
	}
	if err := s.links.Reindex(e.Ref(), e.Body); err != nil {
		return nil, err
	}
	s.notify("updated", e.Ref(), e.Slug)
	return e, nil
}

// Delete removes an entity; the store drops its outgoing edges in the same
// transaction as the row.
func (s *Service) Delete(_ context.Context, t content.Type, id int64) error {
	e, err := s.db.GetEntity(t, id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteEntity(t, id); err != nil {
		return err
	}
	s.notify("deleted", e.Ref(), e.Slug)
	return nil
}

// Get fetches one entity by type and id, without page assembly.
func (s *Service) Get(_ context.Context, t content.Type, id int64) (*store.Entity, error) {
	return s.db.GetEntity(t, id)
}

// GetBySlug fetches one entity by type and slug, without page assembly.
func (s *Service) GetBySlug(_ context.Context, t content.Type, slug string) (*store.Entity, error) {
	return s.db.GetBySlug(t, slug)
}

// GetDetail assembles an entity's detail page: rendered body with reference
// tokens rewritten, the client reference map, and grouped backlinks. A bad
// token or a failed backlink lookup never fails the page; the affected part
// degrades and the cause is logged.
func (s *Service) GetDetail(_ context.Context, t content.Type, slug string) (*Detail, error) {
	e, err := s.db.GetBySlug(t, slug)
	if err != nil {
		return nil, err
	}

	refs, err := s.links.ResolveForClient(e.Body)
	if err != nil {
		slog.Warn("forward resolution failed", slog.String("entity", e.Ref().String()), slog.String("error", err.Error()))
		refs = map[string]links.ResolvedRef{}
	}

	html, err := render.Body(e.Body, refs)
	if err != nil {
		slog.Warn("body render failed", slog.String("entity", e.Ref().String()), slog.String("error", err.Error()))
		html = ""
	}

	backlinks, err := s.links.DetailedBacklinks(e.Ref())
	if err != nil {
		slog.Warn("backlink query failed", slog.String("entity", e.Ref().String()), slog.String("error", err.Error()))
		backlinks = nil
	}

	return &Detail{
		Entity:     *e,
		URL:        e.URL(),
		BodyHTML:   html,
		References: refs,
		Backlinks:  backlinks,
	}, nil
}

// References returns the light incoming-reference list for a slug.
func (s *Service) References(_ context.Context, t content.Type, slug string) ([]links.IncomingRef, error) {
	e, err := s.db.GetBySlug(t, slug)
	if err != nil {
		return nil, err
	}
	return s.links.IncomingReferences(e.Ref())
}

// List returns a page of one type's entities with an optional substring filter.
func (s *Service) List(_ context.Context, t content.Type, limit, offset int, q string) ([]store.Entity, int, error) {
	return s.db.ListEntities(t, limit, offset, q)
}

// Search matches entities of every content type against a free-text query.
func (s *Service) Search(_ context.Context, query string, limit int) ([]store.SearchHit, error) {
	return s.db.Search(query, limit)
}
