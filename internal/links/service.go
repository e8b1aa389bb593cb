package links

import (
	"fmt"
	"strings"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/scanner"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/store"
)

// ResolvedRef is the client-facing shape for one resolved token, consumed by
// the markdown renderer to turn tokens into hyperlinks.
type ResolvedRef struct {
	Text     string       `json:"text"`
	Type     content.Type `json:"type"`
	Slug     string       `json:"slug"`
	Name     string       `json:"name"`
	Relation string       `json:"relation,omitempty"`
	URL      string       `json:"url"`
}

// Reindex derives source's edge set from its current text bodies and replaces
// the persisted set in one transaction. Idempotent: the same bodies always
// produce the same edges. Unresolved and ambiguous names are routine outcomes
// and never an error; only storage failures propagate, in which case the
// prior edge set stays intact.
func (s *Service) Reindex(source content.Ref, bodies ...string) error {
	tokens := s.distinctTokens(bodies)

	var edges []store.Edge
	for _, tok := range tokens {
		res, err := s.Resolve(tok.TargetName)
		if err != nil {
			return fmt.Errorf("links: reindex %s: %w", source, err)
		}
		if res.Outcome != Resolved {
			continue
		}
		if res.Ref == source {
			continue
		}
		edges = append(edges, store.Edge{Source: source, Target: res.Ref, Relation: tok.Relation})
	}

	if err := s.db.ReplaceEdges(source, edges); err != nil {
		return fmt.Errorf("links: reindex %s: %w", source, err)
	}
	return nil
}

// DropForSource removes source's outgoing edges. The entity delete path calls
// this when it does not go through the store's combined delete.
func (s *Service) DropForSource(source content.Ref) error {
	return s.db.DropEdgesForSource(source)
}

// ResolveForClient scans a body and resolves each distinct target name,
// returning a map keyed by target name. The key is the exact spelling from
// the body, not a folded form: the renderer looks entries up by the token
// text, so case-variant spellings of one name each need their own entry.
// Unresolved and ambiguous targets are omitted; the renderer treats missing
// entries as plain emphasized text. Pure read: never touches the edge set.
func (s *Service) ResolveForClient(body string) (map[string]ResolvedRef, error) {
	out := make(map[string]ResolvedRef)
	seen := make(map[string]struct{})
	for _, tok := range scanner.Scan(body) {
		if _, dup := seen[tok.TargetName]; dup {
			continue
		}
		seen[tok.TargetName] = struct{}{}
		res, err := s.Resolve(tok.TargetName)
		if err != nil {
			return nil, fmt.Errorf("links: resolve %q: %w", tok.TargetName, err)
		}
		if res.Outcome != Resolved {
			continue
		}
		out[tok.TargetName] = ResolvedRef{
			Text:     tok.TargetName,
			Type:     res.Ref.Type,
			Slug:     res.Slug,
			Name:     res.Name,
			Relation: tok.Relation,
			URL:      content.URLFor(res.Ref.Type, res.Slug),
		}
	}
	return out, nil
}

// distinctTokens scans all bodies and de-duplicates tokens by case-folded
// target name, first occurrence's relation winning. Edge derivation wants
// one edge per target, so folding is right here; client resolution keys by
// exact spelling instead.
func (s *Service) distinctTokens(bodies []string) []scanner.Token {
	seen := make(map[string]struct{})
	var out []scanner.Token
	for _, body := range bodies {
		for _, tok := range scanner.Scan(body) {
			key := strings.ToLower(strings.TrimSpace(tok.TargetName))
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}
