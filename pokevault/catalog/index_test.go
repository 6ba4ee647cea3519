package catalog

import (
	"testing"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

func TestNewIndex_DuplicateKeysKeepFirst(t *testing.T) {
	first := &models.Variant{VariantID: "eevee", SpeciesID: 133, Name: "Eevee"}
	second := &models.Variant{VariantID: "eevee", SpeciesID: 133, Name: "Eevee (dup)"}
	ix := NewIndex([]*models.Variant{first, second, nil})

	got, ok := ix.ByVariantID("eevee")
	if !ok {
		t.Fatal("ByVariantID() miss")
	}
	if got != first {
		t.Errorf("ByVariantID() = %q, want first occurrence", got.Name)
	}
	if ix.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (nil dropped)", ix.Len())
	}
}

func TestIndex_BySpeciesKeepsCatalogOrder(t *testing.T) {
	variants := testCatalog()
	ix := NewIndex(variants)

	got := ix.BySpecies(25)
	if len(got) != 3 {
		t.Fatalf("BySpecies(25) returned %d variants, want 3", len(got))
	}
	want := []string{"pikachu", "pikachu_shiny", "pikachu_costume_party"}
	for i, v := range got {
		if v.VariantID != want[i] {
			t.Errorf("BySpecies(25)[%d] = %s, want %s", i, v.VariantID, want[i])
		}
	}

	if got := ix.BySpecies(404); got != nil {
		t.Errorf("BySpecies(404) = %v, want nil", got)
	}
}

func TestIndex_Search(t *testing.T) {
	ix := NewIndex(testCatalog())

	tests := []struct {
		name  string
		query string
		limit int
		want  string
	}{
		{name: "exact name", query: "Mewtwo", limit: 5, want: "mewtwo"},
		{name: "partial lowercase", query: "pika", limit: 1, want: "pikachu"},
		{name: "fuzzy typo", query: "mwtwo", limit: 5, want: "mewtwo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ix.Search(tt.query, tt.limit)
			if len(got) == 0 {
				t.Fatalf("Search(%q) returned nothing", tt.query)
			}
			if got[0].VariantID != tt.want {
				t.Errorf("Search(%q)[0] = %s, want %s", tt.query, got[0].VariantID, tt.want)
			}
			if len(got) > tt.limit {
				t.Errorf("Search(%q) returned %d results, limit %d", tt.query, len(got), tt.limit)
			}
		})
	}

	if got := ix.Search("", 5); got != nil {
		t.Errorf("Search(\"\") = %v, want nil", got)
	}
}
