package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	goslug "github.com/gosimple/slug"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/apperr"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
)

// Entity is one directory entry of any content type. Name maps to the type's
// display column (title or name). StartsAt/EndsAt are only set for events.
type Entity struct {
	ID        int64        `json:"id"`
	Type      content.Type `json:"type"`
	Name      string       `json:"name"`
	Slug      string       `json:"slug"`
	Body      string       `json:"body"`
	Image     string       `json:"image,omitempty"`
	Location  string       `json:"location,omitempty"`
	Website   string       `json:"website,omitempty"`
	Subtitle  string       `json:"subtitle,omitempty"`
	StartsAt  *time.Time   `json:"starts_at,omitempty"`
	EndsAt    *time.Time   `json:"ends_at,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Ref returns the entity's type+id pair.
func (e *Entity) Ref() content.Ref {
	return content.Ref{Type: e.Type, ID: e.ID}
}

// URL returns the entity's canonical detail-page path.
func (e *Entity) URL() string {
	return content.URLFor(e.Type, e.Slug)
}

// selectColumns is the uniform projection used by every entity query. Tables
// without schedule columns select NULLs so row scanning stays identical.
func selectColumns(info content.Info) string {
	schedule := "NULL, NULL"
	if info.HasSchedule {
		schedule = "starts_at, ends_at"
	}
	return fmt.Sprintf("id, %s, slug, body, image, location, website, subtitle, %s, created_at, updated_at",
		info.DisplayColumn, schedule)
}

func scanEntity(row interface{ Scan(...any) error }, t content.Type) (*Entity, error) {
	var e Entity
	var starts, ends sql.NullTime
	err := row.Scan(&e.ID, &e.Name, &e.Slug, &e.Body, &e.Image, &e.Location, &e.Website,
		&e.Subtitle, &starts, &ends, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Type = t
	if starts.Valid {
		e.StartsAt = &starts.Time
	}
	if ends.Valid {
		e.EndsAt = &ends.Time
	}
	return &e, nil
}

// CreateEntity inserts a new entity, assigning its ID and a unique slug
// derived from the display name.
func (db *DB) CreateEntity(e *Entity) error {
	info, ok := content.TypeInfo(e.Type)
	if !ok {
		return fmt.Errorf("store: create: unknown type %q", e.Type)
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("store: create %s: display name is required", e.Type)
	}

	slug, err := db.uniqueSlug(info, e.Name)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	cols := fmt.Sprintf("%s, slug, body, image, location, website, subtitle, created_at, updated_at", info.DisplayColumn)
	args := []any{e.Name, slug, e.Body, e.Image, e.Location, e.Website, e.Subtitle, now, now}
	placeholders := "?, ?, ?, ?, ?, ?, ?, ?, ?"
	if info.HasSchedule {
		cols += ", starts_at, ends_at"
		placeholders += ", ?, ?"
		args = append(args, nullableTime(e.StartsAt), nullableTime(e.EndsAt))
	}

	res, err := db.conn.Exec(
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", info.Table, cols, placeholders), args...)
	if err != nil {
		return fmt.Errorf("store: create %s: %w", e.Type, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: create %s: last insert id: %w", e.Type, err)
	}
	e.ID = id
	e.Slug = slug
	e.CreatedAt = now
	e.UpdatedAt = now
	return searchUpsert(db.conn, e)
}

// UpdateEntity rewrites all mutable columns of an existing entity. The slug
// is not regenerated on rename so existing URLs stay stable.
func (db *DB) UpdateEntity(e *Entity) error {
	info, ok := content.TypeInfo(e.Type)
	if !ok {
		return fmt.Errorf("store: update: unknown type %q", e.Type)
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("store: update %s: display name is required", e.Type)
	}

	now := time.Now().UTC()
	set := fmt.Sprintf("%s = ?, body = ?, image = ?, location = ?, website = ?, subtitle = ?, updated_at = ?", info.DisplayColumn)
	args := []any{e.Name, e.Body, e.Image, e.Location, e.Website, e.Subtitle, now}
	if info.HasSchedule {
		set += ", starts_at = ?, ends_at = ?"
		args = append(args, nullableTime(e.StartsAt), nullableTime(e.EndsAt))
	}
	args = append(args, e.ID)

	res, err := db.conn.Exec(fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", info.Table, set), args...)
	if err != nil {
		return fmt.Errorf("store: update %s/%d: %w", e.Type, e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	e.UpdatedAt = now
	return searchUpsert(db.conn, e)
}

// GetEntity fetches one entity by type and id.
func (db *DB) GetEntity(t content.Type, id int64) (*Entity, error) {
	info, ok := content.TypeInfo(t)
	if !ok {
		return nil, fmt.Errorf("store: get: unknown type %q", t)
	}
	row := db.conn.QueryRow(
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", selectColumns(info), info.Table), id)
	e, err := scanEntity(row, t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s/%d: %w", t, id, err)
	}
	return e, nil
}

// GetBySlug fetches one entity by type and slug.
func (db *DB) GetBySlug(t content.Type, slug string) (*Entity, error) {
	info, ok := content.TypeInfo(t)
	if !ok {
		return nil, fmt.Errorf("store: get: unknown type %q", t)
	}
	row := db.conn.QueryRow(
		fmt.Sprintf("SELECT %s FROM %s WHERE slug = ?", selectColumns(info), info.Table), slug)
	e, err := scanEntity(row, t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get %s by slug %q: %w", t, slug, err)
	}
	return e, nil
}

// DeleteEntity removes the row and, in the same transaction, every edge the
// entity's body contributed to the reference graph.
func (db *DB) DeleteEntity(t content.Type, id int64) error {
	info, ok := content.TypeInfo(t)
	if !ok {
		return fmt.Errorf("store: delete: unknown type %q", t)
	}
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM edges WHERE source_type = ? AND source_id = ?`, t, id); err != nil {
		return fmt.Errorf("store: delete edges for %s/%d: %w", t, id, err)
	}
	res, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", info.Table), id)
	if err != nil {
		return fmt.Errorf("store: delete %s/%d: %w", t, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: delete %s/%d: commit: %w", t, id, err)
	}
	searchDelete(db.conn, t, id)
	return nil
}

// ListEntities returns a page of entities of one type, newest first, with an
// optional substring filter against display name and body.
func (db *DB) ListEntities(t content.Type, limit, offset int, q string) ([]Entity, int, error) {
	info, ok := content.TypeInfo(t)
	if !ok {
		return nil, 0, fmt.Errorf("store: list: unknown type %q", t)
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := ""
	var args []any
	if q != "" {
		like := "%" + q + "%"
		where = fmt.Sprintf(" WHERE %s LIKE ? OR body LIKE ?", info.DisplayColumn)
		args = append(args, like, like)
	}

	var total int
	if err := db.conn.QueryRow(
		fmt.Sprintf("SELECT count(*) FROM %s%s", info.Table, where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count %s: %w", t, err)
	}

	args = append(args, limit, offset)
	rows, err := db.conn.Query(
		fmt.Sprintf("SELECT %s FROM %s%s ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
			selectColumns(info), info.Table, where), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list %s: %w", t, err)
	}
	defer rows.Close()

	var out []Entity
	for rows.Next() {
		e, err := scanEntity(rows, t)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *e)
	}
	return out, total, rows.Err()
}

// uniqueSlug derives a slug from the display name, suffixing -2, -3, ... on
// collision within the type's table.
func (db *DB) uniqueSlug(info content.Info, name string) (string, error) {
	base := goslug.Make(name)
	if base == "" {
		base = string(info.Type)
	}
	candidate := base
	for i := 2; ; i++ {
		var exists int
		err := db.conn.QueryRow(
			fmt.Sprintf("SELECT count(*) FROM %s WHERE slug = ?", info.Table), candidate).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("store: slug check: %w", err)
		}
		if exists == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
