package store

import (
	"testing"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
)

func TestSearchAcrossTypes(t *testing.T) {
	db := testDB(t)

	mustCreate(t, db, content.TypeCompany, "Harbour Robotics", "We build marine robots.")
	mustCreate(t, db, content.TypeProject, "Dock Scheduler", "Robotics scheduling for the harbour.")
	mustCreate(t, db, content.TypePerson, "Jo Fisher", "Skipper.")

	hits, err := db.Search("robot", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2: %+v", len(hits), hits)
	}
	seen := map[content.Type]bool{}
	for _, h := range hits {
		seen[h.Ref.Type] = true
		if h.URL == "" || h.Slug == "" {
			t.Errorf("hit missing url or slug: %+v", h)
		}
	}
	if !seen[content.TypeCompany] || !seen[content.TypeProject] {
		t.Errorf("expected company and project hits, got %+v", hits)
	}
}

func TestSearchReflectsUpdatesAndDeletes(t *testing.T) {
	db := testDB(t)

	e := mustCreate(t, db, content.TypeCompany, "Acme", "widgets")

	e.Body = "gadgets"
	if err := db.UpdateEntity(e); err != nil {
		t.Fatal(err)
	}
	hits, err := db.Search("widgets", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("stale body still searchable: %+v", hits)
	}

	if err := db.DeleteEntity(e.Type, e.ID); err != nil {
		t.Fatal(err)
	}
	hits, err = db.Search("gadgets", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("deleted entity still searchable: %+v", hits)
	}
}

func TestSearchToleratesQuerySyntax(t *testing.T) {
	db := testDB(t)
	mustCreate(t, db, content.TypeCompany, "Harbour Robotics", "We build marine robots.")

	// Raw user text must never surface as a query syntax error, whichever
	// build serves the search.
	for _, q := range []string{`"robots`, `robots)`, `-robots`, `(`, `robot AND`, "   "} {
		if _, err := db.Search(q, 0); err != nil {
			t.Errorf("Search(%q): %v", q, err)
		}
	}
}

func TestSearchLimit(t *testing.T) {
	db := testDB(t)
	for _, name := range []string{"Harbour One", "Harbour Two", "Harbour Three"} {
		mustCreate(t, db, content.TypeCompany, name, "")
	}
	hits, err := db.Search("Harbour", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Errorf("hits = %d, want limit of 2", len(hits))
	}
}
