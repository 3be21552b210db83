package catalog

import "testing"

func TestFindByNameMatchesEveryCatalogEntry(t *testing.T) {
	for _, f := range List() {
		got, ok := FindByName(f.DisplayName)
		if !ok {
			t.Fatalf("FindByName(%q) not found", f.DisplayName)
		}
		if got != f {
			t.Fatalf("FindByName(%q) = %+v, want %+v", f.DisplayName, got, f)
		}
	}
}

func TestFindByNameMisses(t *testing.T) {
	for _, name := range []string{"Comic Sans", "", "roboto", "Roboto ", "Open  Sans"} {
		if got, ok := FindByName(name); ok {
			t.Fatalf("FindByName(%q) = %+v, want not found", name, got)
		}
	}
}

func TestDisplayNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range List() {
		if seen[f.DisplayName] {
			t.Fatalf("duplicate display name %q", f.DisplayName)
		}
		seen[f.DisplayName] = true
	}
	if len(seen) != 15 {
		t.Fatalf("catalog size = %d, want 15", len(seen))
	}
}

func TestCategoriesPartitionCatalogByPosition(t *testing.T) {
	all := List()
	cats := Categories()
	if len(cats) != 3 {
		t.Fatalf("got %d categories, want 3", len(cats))
	}
	wantNames := []CategoryName{CategoryStandard, CategoryPlayful, CategoryImpactful}
	i := 0
	for ci, c := range cats {
		if c.Name != wantNames[ci] {
			t.Fatalf("category %d = %q, want %q", ci, c.Name, wantNames[ci])
		}
		for _, f := range c.Fonts {
			if f != all[i] {
				t.Fatalf("category %q member %+v out of order (want %+v)", c.Name, f, all[i])
			}
			i++
		}
	}
	if i != len(all) {
		t.Fatalf("categories cover %d fonts, catalog has %d", i, len(all))
	}
}

func TestCategoryOf(t *testing.T) {
	anton, _ := FindByName("Anton")
	if got, ok := CategoryOf(anton); !ok || got != CategoryImpactful {
		t.Fatalf("CategoryOf(Anton) = %q,%v", got, ok)
	}
	if _, ok := CategoryOf(FontChoice{DisplayName: "Comic Sans"}); ok {
		t.Fatalf("CategoryOf(unknown) should miss")
	}
}

func TestListReturnsCopy(t *testing.T) {
	l := List()
	l[0].DisplayName = "mutated"
	if Default().DisplayName != "Roboto" {
		t.Fatalf("catalog mutated through List()")
	}
}
