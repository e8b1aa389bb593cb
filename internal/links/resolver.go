// Package links implements the cross-entity reference engine: resolving
// [[...]] tokens against the directory's name index, maintaining the persisted
// edge graph on content saves, and serving the two backlink projections.
package links

import (
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/store"
)

// Outcome classifies a name resolution.
type Outcome int

const (
	// Unresolved means no entity carries the name.
	Unresolved Outcome = iota
	// Resolved means exactly one entity carries the name.
	Resolved
	// Ambiguous means several entities share the name. Both the write and
	// read paths treat this the same as Unresolved: silently picking one of
	// several same-named entities would be misleading.
	Ambiguous
)

// Resolution is the outcome of resolving one target name. Ref, Name, and Slug
// are only meaningful when Outcome is Resolved; Candidates only when Ambiguous.
type Resolution struct {
	Outcome    Outcome
	Ref        content.Ref
	Name       string
	Slug       string
	Candidates []content.Ref
}

// Store is the storage surface the engine needs. *store.DB satisfies it.
type Store interface {
	LookupName(name string) ([]store.NameHit, error)
	ReplaceEdges(source content.Ref, edges []store.Edge) error
	DropEdgesForSource(source content.Ref) error
	SourceRefs(target content.Ref) ([]store.SourceRow, error)
	SourceCards(target content.Ref) ([]store.SourceCard, error)
}

var _ Store = (*store.DB)(nil)

// Service resolves references and maintains the edge graph.
type Service struct {
	db Store
}

// NewService creates a reference engine over the given store.
func NewService(db Store) *Service {
	return &Service{db: db}
}

// Resolve maps a target name to zero, one, or many entities via the name
// index. Matching is exact after case folding and whitespace trimming; partial
// matches never resolve.
func (s *Service) Resolve(targetName string) (Resolution, error) {
	hits, err := s.db.LookupName(targetName)
	if err != nil {
		return Resolution{}, err
	}
	switch len(hits) {
	case 0:
		return Resolution{Outcome: Unresolved}, nil
	case 1:
		return Resolution{Outcome: Resolved, Ref: hits[0].Ref, Name: hits[0].Name, Slug: hits[0].Slug}, nil
	default:
		refs := make([]content.Ref, len(hits))
		for i, h := range hits {
			refs[i] = h.Ref
		}
		return Resolution{Outcome: Ambiguous, Candidates: refs}, nil
	}
}
