// Package render turns entity markdown bodies into HTML, rewriting [[...]]
// reference tokens into links using the forward resolver's map.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/links"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/scanner"
)

var md = goldmark.New()

// Body renders a markdown body to HTML. Tokens present in refs become
// hyperlinks to the target's detail page; tokens absent from the map
// (unresolved or ambiguous) render as emphasized plain text. Relational
// tokens read "{relation} at {linked name}" with the name linked.
func Body(body string, refs map[string]links.ResolvedRef) (string, error) {
	rewritten := RewriteTokens(body, refs)
	var buf bytes.Buffer
	if err := md.Convert([]byte(rewritten), &buf); err != nil {
		return "", fmt.Errorf("render: %w", err)
	}
	return buf.String(), nil
}

// RewriteTokens replaces every [[...]] token in body with markdown link or
// emphasis syntax, leaving the rest of the body untouched.
func RewriteTokens(body string, refs map[string]links.ResolvedRef) string {
	tokens := scanner.Scan(body)
	if len(tokens) == 0 {
		return body
	}

	seen := make(map[string]struct{}, len(tokens))
	pairs := make([]string, 0, 2*len(tokens))
	for _, tok := range tokens {
		if _, dup := seen[tok.Raw]; dup {
			continue
		}
		seen[tok.Raw] = struct{}{}
		pairs = append(pairs, tok.Raw, replacement(tok, refs))
	}
	return strings.NewReplacer(pairs...).Replace(body)
}

func replacement(tok scanner.Token, refs map[string]links.ResolvedRef) string {
	ref, ok := refs[tok.TargetName]
	if !ok {
		if tok.Relation != "" {
			return fmt.Sprintf("*%s at %s*", tok.Relation, tok.TargetName)
		}
		return fmt.Sprintf("*%s*", tok.TargetName)
	}
	link := fmt.Sprintf("[%s](%s)", ref.Name, ref.URL)
	if tok.Relation != "" {
		return fmt.Sprintf("%s at %s", tok.Relation, link)
	}
	return link
}
