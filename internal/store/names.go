package store

import (
	"fmt"
	"strings"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
)

// NameHit is one entity whose display name matched a lookup.
type NameHit struct {
	Ref  content.Ref
	Name string
	Slug string
}

// LookupName finds every entity whose display name equals name, compared
// case-insensitively after trimming whitespace. The query fans out across all
// content tables as a UNION ALL generated from the type mapping table; each
// arm is served by that table's expression index.
func (db *DB) LookupName(name string) ([]NameHit, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}

	var arms []string
	var args []any
	for _, info := range content.All() {
		arms = append(arms, fmt.Sprintf(
			"SELECT '%s' AS type, id, %s, slug FROM %s WHERE lower(trim(%s)) = ?",
			info.Type, info.DisplayColumn, info.Table, info.DisplayColumn))
		args = append(args, needle)
	}

	rows, err := db.conn.Query(strings.Join(arms, "\nUNION ALL\n"), args...)
	if err != nil {
		return nil, fmt.Errorf("store: lookup name %q: %w", name, err)
	}
	defer rows.Close()

	var out []NameHit
	for rows.Next() {
		var h NameHit
		var t string
		if err := rows.Scan(&t, &h.Ref.ID, &h.Name, &h.Slug); err != nil {
			return nil, err
		}
		h.Ref.Type = content.Type(t)
		out = append(out, h)
	}
	return out, rows.Err()
}
