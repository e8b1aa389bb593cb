//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
)

func initSearch(_ *sql.DB) error {
	// FTS5 not compiled in; search uses a LIKE scan over the content tables.
	return nil
}

func searchUpsert(_ *sql.DB, _ *Entity) error {
	// Name and body already live in the content tables.
	return nil
}

func searchDelete(_ *sql.DB, _ content.Type, _ int64) {}

func (db *DB) search(query string, limit int) ([]SearchHit, error) {
	like := "%" + query + "%"

	var arms []string
	var args []any
	for _, info := range content.All() {
		arms = append(arms, fmt.Sprintf(
			"SELECT '%s' AS type, id, slug, %s AS name, substr(body, 1, 200) AS snippet FROM %s WHERE %s LIKE ? OR body LIKE ?",
			info.Type, info.DisplayColumn, info.Table, info.DisplayColumn))
		args = append(args, like, like)
	}
	args = append(args, limit)

	rows, err := db.conn.Query(strings.Join(arms, " UNION ALL ")+" ORDER BY name LIMIT ?", args...)
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
