// Package scanner extracts [[...]] reference tokens from free-text content bodies.
package scanner

import (
	"regexp"
	"strings"
)

var (
	tokenRe    = regexp.MustCompile(`\[\[(.*?)\]\]`)
	relationRe = regexp.MustCompile(`(?i)^\{([^}]+)\}\s+at\s+\{([^}]+)\}$`)
)

// Token is one raw reference found in a body. Relation is empty for simple
// [[Name]] tokens and set for [[{Relation} at {Name}]] tokens.
type Token struct {
	Raw        string
	TargetName string
	Relation   string
}

// Scan returns all reference tokens in body, in order of appearance,
// duplicates preserved. Malformed relational syntax (a missing brace) is not
// an error: the whole inner text becomes the target name.
func Scan(body string) []Token {
	matches := tokenRe.FindAllStringSubmatch(body, -1)
	var out []Token
	for _, m := range matches {
		inner := strings.TrimSpace(m[1])
		if inner == "" {
			continue
		}
		tok := Token{Raw: m[0], TargetName: inner}
		if rel := relationRe.FindStringSubmatch(inner); rel != nil {
			tok.Relation = strings.TrimSpace(rel[1])
			tok.TargetName = strings.TrimSpace(rel[2])
		}
		out = append(out, tok)
	}
	return out
}
