package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
)

// Edge is one persisted directed reference from a source entity's body to a
// target entity. Relation is empty for plain [[Name]] references.
type Edge struct {
	Source   content.Ref
	Target   content.Ref
	Relation string
}

// SourceRow is the light projection of an incoming edge: just enough to
// render a link to the referencing entity.
type SourceRow struct {
	Ref      content.Ref
	Name     string
	Slug     string
	Relation string
}

// SourceCard is the rich projection of an incoming edge, carrying the display
// attributes a card component needs. StartsAt is only set for event sources.
type SourceCard struct {
	Ref      content.Ref
	Name     string
	Slug     string
	Relation string
	Image    string
	Location string
	Subtitle string
	StartsAt *time.Time
}

// ReplaceEdges atomically replaces every edge owned by source with the given
// set. The delete and inserts share one transaction, so concurrent readers
// observe either the old set or the new set, never a mix.
func (db *DB) ReplaceEdges(source content.Ref, edges []Edge) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM edges WHERE source_type = ? AND source_id = ?`,
		source.Type, source.ID); err != nil {
		return fmt.Errorf("store: clear edges for %s: %w", source, err)
	}

	if len(edges) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO edges
			(source_type, source_id, target_type, target_id, relation)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("store: prepare edge insert: %w", err)
		}
		defer stmt.Close()
		for _, e := range edges {
			if e.Source != source {
				return fmt.Errorf("store: edge source %s does not match %s", e.Source, source)
			}
			if e.Source == e.Target {
				return fmt.Errorf("store: self-edge rejected for %s", source)
			}
			if _, err := stmt.Exec(e.Source.Type, e.Source.ID, e.Target.Type, e.Target.ID, e.Relation); err != nil {
				return fmt.Errorf("store: insert edge %s -> %s: %w", e.Source, e.Target, err)
			}
		}
	}

	return tx.Commit()
}

// DropEdgesForSource removes every edge owned by source. Called from the
// entity delete path; safe to call for a source with no edges.
func (db *DB) DropEdgesForSource(source content.Ref) error {
	if _, err := db.conn.Exec(`DELETE FROM edges WHERE source_type = ? AND source_id = ?`,
		source.Type, source.ID); err != nil {
		return fmt.Errorf("store: drop edges for %s: %w", source, err)
	}
	return nil
}

// EdgesTo returns the raw edges pointing at target, including any whose
// source row has gone missing. Display paths use SourceRefs/SourceCards,
// which join away dangling sources.
func (db *DB) EdgesTo(target content.Ref) ([]Edge, error) {
	rows, err := db.conn.Query(`
		SELECT source_type, source_id, relation
		FROM edges
		WHERE target_type = ? AND target_id = ?`, target.Type, target.ID)
	if err != nil {
		return nil, fmt.Errorf("store: edges to %s: %w", target, err)
	}
	defer rows.Close()

	var out []Edge
	for rows.Next() {
		e := Edge{Target: target}
		var st string
		if err := rows.Scan(&st, &e.Source.ID, &e.Relation); err != nil {
			return nil, err
		}
		e.Source.Type = content.Type(st)
		out = append(out, e)
	}
	return out, rows.Err()
}

// SourceRefs returns the light projection of every live entity referencing
// target. The join against each source type's table drops edges whose source
// row no longer exists.
func (db *DB) SourceRefs(target content.Ref) ([]SourceRow, error) {
	var arms []string
	var args []any
	for _, info := range content.All() {
		arms = append(arms, fmt.Sprintf(
			`SELECT '%s' AS type, t.id, t.%s, t.slug, e.relation
			FROM edges e JOIN %s t ON t.id = e.source_id
			WHERE e.source_type = '%s' AND e.target_type = ? AND e.target_id = ?`,
			info.Type, info.DisplayColumn, info.Table, info.Type))
		args = append(args, target.Type, target.ID)
	}

	rows, err := db.conn.Query(strings.Join(arms, "\nUNION ALL\n"), args...)
	if err != nil {
		return nil, fmt.Errorf("store: source refs for %s: %w", target, err)
	}
	defer rows.Close()

	var out []SourceRow
	for rows.Next() {
		var r SourceRow
		var t string
		if err := rows.Scan(&t, &r.Ref.ID, &r.Name, &r.Slug, &r.Relation); err != nil {
			return nil, err
		}
		r.Ref.Type = content.Type(t)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SourceCards returns the rich projection of every live entity referencing
// target, for "Referenced By" card rendering.
func (db *DB) SourceCards(target content.Ref) ([]SourceCard, error) {
	var arms []string
	var args []any
	for _, info := range content.All() {
		schedule := "NULL"
		if info.HasSchedule {
			schedule = "t.starts_at"
		}
		arms = append(arms, fmt.Sprintf(
			`SELECT '%s' AS type, t.id, t.%s, t.slug, e.relation, t.image, t.location, t.subtitle, %s
			FROM edges e JOIN %s t ON t.id = e.source_id
			WHERE e.source_type = '%s' AND e.target_type = ? AND e.target_id = ?`,
			info.Type, info.DisplayColumn, schedule, info.Table, info.Type))
		args = append(args, target.Type, target.ID)
	}

	rows, err := db.conn.Query(strings.Join(arms, "\nUNION ALL\n"), args...)
	if err != nil {
		return nil, fmt.Errorf("store: source cards for %s: %w", target, err)
	}
	defer rows.Close()

	var out []SourceCard
	for rows.Next() {
		var c SourceCard
		var t string
		var starts sql.NullTime
		if err := rows.Scan(&t, &c.Ref.ID, &c.Name, &c.Slug, &c.Relation,
			&c.Image, &c.Location, &c.Subtitle, &starts); err != nil {
			return nil, err
		}
		c.Ref.Type = content.Type(t)
		if starts.Valid {
			c.StartsAt = &starts.Time
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
