package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/content"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSeed(t *testing.T, dir, name, data string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSyncCreatesEntities(t *testing.T) {
	svc, _ := testutil.TestService(t)
	dir := t.TempDir()

	writeSeed(t, dir, "company.yaml", `
- name: Acme
  body: We build things.
  website: https://acme.example
- name: Beta Corp
`)
	writeSeed(t, dir, "event.yaml", `
- title: Demo Day
  body: Hosted by [[Acme]].
  starts_at: 2026-10-01T18:00:00Z
`)
	// Not a content type, must be ignored.
	writeSeed(t, dir, "README.yaml", "- name: nope\n")

	if err := Sync(context.Background(), svc, dir, discardLogger()); err != nil {
		t.Fatal(err)
	}

	acme, err := svc.GetBySlug(context.Background(), content.TypeCompany, "acme")
	if err != nil {
		t.Fatal(err)
	}
	if acme.Website != "https://acme.example" {
		t.Errorf("website = %q", acme.Website)
	}

	ev, err := svc.GetBySlug(context.Background(), content.TypeEvent, "demo-day")
	if err != nil {
		t.Fatal(err)
	}
	if ev.StartsAt == nil {
		t.Error("starts_at not imported")
	}

	// Seeded references resolve like any other save.
	refs, err := svc.References(context.Background(), content.TypeCompany, "acme")
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 || refs[0].Slug != "demo-day" {
		t.Errorf("references = %+v, want the event", refs)
	}
}

func TestSyncIsIdempotentUpsert(t *testing.T) {
	svc, _ := testutil.TestService(t)
	dir := t.TempDir()

	writeSeed(t, dir, "company.yaml", "- name: Acme\n  body: first\n")
	if err := Sync(context.Background(), svc, dir, discardLogger()); err != nil {
		t.Fatal(err)
	}

	writeSeed(t, dir, "company.yaml", "- name: Acme\n  body: second\n")
	if err := Sync(context.Background(), svc, dir, discardLogger()); err != nil {
		t.Fatal(err)
	}

	items, total, err := svc.List(context.Background(), content.TypeCompany, 10, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("total = %d, want a single upserted company", total)
	}
	if items[0].Body != "second" {
		t.Errorf("body = %q, want updated body", items[0].Body)
	}
}

func TestSyncSkipsSlugCollision(t *testing.T) {
	svc, _ := testutil.TestService(t)
	dir := t.TempDir()

	// Both names slugify to "acme"; the second entry must not overwrite the
	// first.
	writeSeed(t, dir, "company.yaml", "- name: Acme\n  body: first\n- name: ACME\n  body: second\n")
	if err := Sync(context.Background(), svc, dir, discardLogger()); err != nil {
		t.Fatal(err)
	}

	_, total, err := svc.List(context.Background(), content.TypeCompany, 10, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	acme, err := svc.GetBySlug(context.Background(), content.TypeCompany, "acme")
	if err != nil {
		t.Fatal(err)
	}
	if acme.Name != "Acme" || acme.Body != "first" {
		t.Errorf("first entry overwritten: name=%q body=%q", acme.Name, acme.Body)
	}

	// Re-running leaves the collision skipped, not duplicated.
	if err := Sync(context.Background(), svc, dir, discardLogger()); err != nil {
		t.Fatal(err)
	}
	if _, total, _ = svc.List(context.Background(), content.TypeCompany, 10, 0, ""); total != 1 {
		t.Errorf("total after re-sync = %d, want 1", total)
	}
}

func TestSyncSkipsBadEntriesAndFiles(t *testing.T) {
	svc, _ := testutil.TestService(t)
	dir := t.TempDir()

	writeSeed(t, dir, "company.yaml", "- body: entry without a name\n- name: Acme\n")
	writeSeed(t, dir, "person.yaml", "not: [valid, list")

	if err := Sync(context.Background(), svc, dir, discardLogger()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetBySlug(context.Background(), content.TypeCompany, "acme"); err != nil {
		t.Errorf("good entry should survive bad siblings: %v", err)
	}
}

func TestSeedFileType(t *testing.T) {
	cases := []struct {
		file string
		want content.Type
		ok   bool
	}{
		{"event.yaml", content.TypeEvent, true},
		{"company.yml", content.TypeCompany, true},
		{"news.yaml", content.TypeNews, true},
		{"notes.txt", "", false},
		{"widget.yaml", "", false},
	}
	for _, tc := range cases {
		got, ok := seedFileType(tc.file)
		if ok != tc.ok || got != tc.want {
			t.Errorf("seedFileType(%q) = %q, %v; want %q, %v", tc.file, got, ok, tc.want, tc.ok)
		}
	}
}
