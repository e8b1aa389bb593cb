package content

import "testing"

func TestParse(t *testing.T) {
	for _, s := range []string{"event", "news", "job", "company", "project", "group", "person", "education", "product"} {
		typ, err := Parse(s)
		if err != nil {
			t.Errorf("Parse(%q): %v", s, err)
		}
		if string(typ) != s {
			t.Errorf("Parse(%q) = %q", s, typ)
		}
	}
	if _, err := Parse("widget"); err == nil {
		t.Error("Parse should reject unknown types")
	}
}

func TestAllPriorityOrder(t *testing.T) {
	infos := All()
	if len(infos) != 9 {
		t.Fatalf("expected 9 types, got %d", len(infos))
	}
	want := []Type{TypeEvent, TypeNews, TypeJob, TypeCompany, TypeProject, TypeGroup, TypePerson, TypeEducation, TypeProduct}
	for i, info := range infos {
		if info.Type != want[i] {
			t.Errorf("position %d = %s, want %s", i, info.Type, want[i])
		}
	}
}

func TestURLFor(t *testing.T) {
	if got := URLFor(TypeCompany, "acme"); got != "/companies/acme" {
		t.Errorf("URLFor = %q", got)
	}
	if got := URLFor(TypeEvent, "demo-day"); got != "/events/demo-day" {
		t.Errorf("URLFor = %q", got)
	}
}

func TestDisplayColumns(t *testing.T) {
	titled := map[Type]bool{TypeEvent: true, TypeNews: true, TypeJob: true}
	for _, info := range All() {
		want := "name"
		if titled[info.Type] {
			want = "title"
		}
		if info.DisplayColumn != want {
			t.Errorf("%s display column = %q, want %q", info.Type, info.DisplayColumn, want)
		}
	}
}
