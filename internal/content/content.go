// Package content defines the closed set of directory content types and the
// per-type mapping table (storage table, display column, URL base path, group
// priority) that the rest of the application is driven by. Adding a content
// type is one entry here plus its DDL block in the store schema.
package content

import (
	"fmt"
	"sort"
)

// Type identifies one kind of directory entity.
type Type string

// The closed set of content types.
const (
	TypeEvent     Type = "event"
	TypeNews      Type = "news"
	TypeJob       Type = "job"
	TypeCompany   Type = "company"
	TypeProject   Type = "project"
	TypeGroup     Type = "group"
	TypePerson    Type = "person"
	TypeEducation Type = "education"
	TypeProduct   Type = "product"
)

// Ref identifies any entity in the system by type and primary key.
type Ref struct {
	Type Type  `json:"type"`
	ID   int64 `json:"id"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%d", r.Type, r.ID)
}

// Info describes how one content type is stored and presented.
type Info struct {
	Type          Type
	Table         string
	DisplayColumn string // "title" or "name"
	BasePath      string // URL prefix for detail pages, e.g. "/events"
	Label         string // human heading for backlink groups
	Priority      int    // backlink group ordering, lower first
	HasSchedule   bool   // table carries starts_at/ends_at columns
}

var registry = map[Type]Info{
	TypeEvent:     {Type: TypeEvent, Table: "events", DisplayColumn: "title", BasePath: "/events", Label: "Events", Priority: 1, HasSchedule: true},
	TypeNews:      {Type: TypeNews, Table: "news_items", DisplayColumn: "title", BasePath: "/news", Label: "News", Priority: 2},
	TypeJob:       {Type: TypeJob, Table: "jobs", DisplayColumn: "title", BasePath: "/jobs", Label: "Jobs", Priority: 3},
	TypeCompany:   {Type: TypeCompany, Table: "companies", DisplayColumn: "name", BasePath: "/companies", Label: "Companies", Priority: 4},
	TypeProject:   {Type: TypeProject, Table: "projects", DisplayColumn: "name", BasePath: "/projects", Label: "Projects", Priority: 5},
	TypeGroup:     {Type: TypeGroup, Table: "community_groups", DisplayColumn: "name", BasePath: "/groups", Label: "Groups", Priority: 6},
	TypePerson:    {Type: TypePerson, Table: "people", DisplayColumn: "name", BasePath: "/people", Label: "People", Priority: 7},
	TypeEducation: {Type: TypeEducation, Table: "education", DisplayColumn: "name", BasePath: "/education", Label: "Education", Priority: 8},
	TypeProduct:   {Type: TypeProduct, Table: "products", DisplayColumn: "name", BasePath: "/products", Label: "Products", Priority: 9},
}

// TypeInfo returns the mapping entry for t.
func TypeInfo(t Type) (Info, bool) {
	info, ok := registry[t]
	return info, ok
}

// MustInfo returns the mapping entry for t and panics for unknown types.
// Callers use it only after t came through Parse or the Type constants.
func MustInfo(t Type) Info {
	info, ok := registry[t]
	if !ok {
		panic(fmt.Sprintf("content: unknown type %q", t))
	}
	return info
}

// Parse validates a type string from a URL segment or import file.
func Parse(s string) (Type, error) {
	t := Type(s)
	if _, ok := registry[t]; !ok {
		return "", fmt.Errorf("content: unknown type %q", s)
	}
	return t, nil
}

// All returns every type's Info in priority order.
func All() []Info {
	out := make([]Info, 0, len(registry))
	for _, info := range registry {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// URLFor builds the canonical detail-page path for an entity.
func URLFor(t Type, slug string) string {
	return MustInfo(t).BasePath + "/" + slug
}
