//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
)

func initSearch(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS entity_search USING fts5(
			type UNINDEXED,
			entity_id UNINDEXED,
			slug UNINDEXED,
			name,
			body,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func searchUpsert(conn *sql.DB, e *Entity) error {
	_, _ = conn.Exec(`DELETE FROM entity_search WHERE type = ? AND entity_id = ?`, e.Type, e.ID)
	_, err := conn.Exec(`INSERT INTO entity_search (type, entity_id, slug, name, body) VALUES (?, ?, ?, ?, ?)`,
		e.Type, e.ID, e.Slug, e.Name, e.Body)
	if err != nil {
		return fmt.Errorf("store: search upsert %s/%d: %w", e.Type, e.ID, err)
	}
	return nil
}

func searchDelete(conn *sql.DB, t content.Type, id int64) {
	_, _ = conn.Exec(`DELETE FROM entity_search WHERE type = ? AND entity_id = ?`, t, id)
}

// fts5Match rewrites free user text into a query the fts5 MATCH parser will
// always accept: every whitespace-separated term becomes a quoted prefix
// string, so operator characters like ", ( or - are matched literally
// instead of being parsed as syntax.
func fts5Match(query string) string {
	terms := strings.Fields(query)
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `" *`
	}
	return strings.Join(terms, " ")
}

func (db *DB) search(query string, limit int) ([]SearchHit, error) {
	match := fts5Match(query)
	if match == "" {
		return nil, nil
	}
	rows, err := db.conn.Query(`
		SELECT type,
		       entity_id,
		       slug,
		       name,
		       snippet(entity_search, 4, '<b>', '</b>', '...', 32)
		FROM entity_search
		WHERE entity_search MATCH ?
		ORDER BY rank
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	var out []SearchHit
	for rows.Next() {
		var h SearchHit
		var t string
		if err := rows.Scan(&t, &h.Ref.ID, &h.Slug, &h.Name, &h.Snippet); err != nil {
			return nil, err
		}
		h.Ref.Type = content.Type(t)
		h.URL = content.URLFor(h.Ref.Type, h.Slug)
		out = append(out, h)
	}
	return out, rows.Err()
}
