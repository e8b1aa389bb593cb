package links

import (
	"sort"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/store"
)

// BacklinkGroup is one content type's worth of rich backlink cards.
type BacklinkGroup struct {
	Type  content.Type       `json:"type"`
	Label string             `json:"label"`
	Cards []store.SourceCard `json:"cards"`
}

// IncomingRef is the light projection of one incoming reference.
type IncomingRef struct {
	Type     content.Type `json:"type"`
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Slug     string       `json:"slug"`
	URL      string       `json:"url"`
	Relation string       `json:"relation,omitempty"`
}

// DetailedBacklinks returns every live entity referencing target, grouped by
// source type in the fixed priority order with empty groups omitted. Within a
// group, cards appear in creation order.
func (s *Service) DetailedBacklinks(target content.Ref) ([]BacklinkGroup, error) {
	cards, err := s.db.SourceCards(target)
	if err != nil {
		return nil, err
	}

	byType := make(map[content.Type][]store.SourceCard)
	for _, c := range cards {
		byType[c.Ref.Type] = append(byType[c.Ref.Type], c)
	}

	var out []BacklinkGroup
	for _, info := range content.All() {
		group := byType[info.Type]
		if len(group) == 0 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].Ref.ID < group[j].Ref.ID })
		out = append(out, BacklinkGroup{Type: info.Type, Label: info.Label, Cards: group})
	}
	return out, nil
}

// IncomingReferences returns the flat light projection of every live entity
// referencing target, ordered by type priority then creation order.
func (s *Service) IncomingReferences(target content.Ref) ([]IncomingRef, error) {
	rows, err := s.db.SourceRefs(target)
	if err != nil {
		return nil, err
	}

	sort.Slice(rows, func(i, j int) bool {
		pi := content.MustInfo(rows[i].Ref.Type).Priority
		pj := content.MustInfo(rows[j].Ref.Type).Priority
		if pi != pj {
			return pi < pj
		}
		return rows[i].Ref.ID < rows[j].Ref.ID
	})

	out := make([]IncomingRef, len(rows))
	for i, r := range rows {
		out[i] = IncomingRef{
			Type:     r.Ref.Type,
			ID:       r.Ref.ID,
			Name:     r.Name,
			Slug:     r.Slug,
			URL:      content.URLFor(r.Ref.Type, r.Slug),
			Relation: r.Relation,
		}
	}
	return out, nil
}
