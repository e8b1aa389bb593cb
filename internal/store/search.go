package store

import (
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
)

// SearchHit is one cross-type search result.
type SearchHit struct {
	Ref     content.Ref `json:"ref"`
	Name    string      `json:"name"`
	Slug    string      `json:"slug"`
	URL     string      `json:"url"`
	Snippet string      `json:"snippet"`
}

const defaultSearchLimit = 20

// Search scans every content type for entities matching query. With the
// sqlite_fts5 build tag it runs an FTS5 match against the search index;
// otherwise it falls back to a LIKE scan over the per-type tables. Hit order
// differs between the two builds (rank vs. name).
func (db *DB) Search(query string, limit int) ([]SearchHit, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultSearchLimit
	}
	return db.search(query, limit)
}
