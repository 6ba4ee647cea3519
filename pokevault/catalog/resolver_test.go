package catalog

import (
	"errors"
	"testing"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

func testCatalog() []*models.Variant {
	return []*models.Variant{
		{VariantID: "pikachu", SpeciesID: 25, Name: "Pikachu"},
		{VariantID: "pikachu_shiny", SpeciesID: 25, Name: "Pikachu", Shiny: true},
		{VariantID: "pikachu_costume_party", SpeciesID: 25, Name: "Pikachu",
			Costumes: []models.Costume{{ID: "party_hat"}}},
		{VariantID: "mewtwo", SpeciesID: 150, Name: "Mewtwo"},
	}
}

func TestResolver_DirectLookup(t *testing.T) {
	r := NewResolver(NewIndex(testCatalog()))

	inst := &models.Instance{InstanceID: "a1", VariantID: "pikachu_shiny", SpeciesID: 25}
	got, err := r.Resolve(inst)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.VariantID != "pikachu_shiny" {
		t.Errorf("Resolve() = %s, want pikachu_shiny", got.VariantID)
	}
}

func TestResolver_SingleCandidateIgnoresFlags(t *testing.T) {
	r := NewResolver(NewIndex(testCatalog()))

	// mewtwo has exactly one catalog entry; every flag combination must
	// resolve to it
	tests := []struct {
		name string
		inst *models.Instance
	}{
		{name: "plain", inst: &models.Instance{InstanceID: "b1", SpeciesID: 150}},
		{name: "shiny", inst: &models.Instance{InstanceID: "b2", SpeciesID: 150, Shiny: true}},
		{name: "shadow shiny costume", inst: &models.Instance{InstanceID: "b3", SpeciesID: 150, Shiny: true, Shadow: true, CostumeID: "hat"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.inst)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.VariantID != "mewtwo" {
				t.Errorf("Resolve() = %s, want mewtwo", got.VariantID)
			}
		})
	}
}

func TestResolver_ScoredFallback(t *testing.T) {
	r := NewResolver(NewIndex(testCatalog()))

	tests := []struct {
		name string
		inst *models.Instance
		want string
	}{
		{
			name: "shiny flag picks shiny variant",
			inst: &models.Instance{InstanceID: "c1", VariantID: "gone", SpeciesID: 25, Shiny: true},
			want: "pikachu_shiny",
		},
		{
			name: "costume id picks costume variant",
			inst: &models.Instance{InstanceID: "c2", VariantID: "gone", SpeciesID: 25, CostumeID: "party_hat"},
			want: "pikachu_costume_party",
		},
		{
			name: "no decorations picks plain default",
			inst: &models.Instance{InstanceID: "c3", VariantID: "gone", SpeciesID: 25},
			want: "pikachu",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.inst)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.VariantID != tt.want {
				t.Errorf("Resolve() = %s, want %s", got.VariantID, tt.want)
			}
		})
	}
}

func TestResolver_TieKeepsCatalogOrder(t *testing.T) {
	// two identical-scoring candidates: the first in catalog order wins
	variants := []*models.Variant{
		{VariantID: "ditto_a", SpeciesID: 132, Name: "Ditto"},
		{VariantID: "ditto_b", SpeciesID: 132, Name: "Ditto"},
	}
	r := NewResolver(NewIndex(variants))

	got, err := r.Resolve(&models.Instance{InstanceID: "d1", SpeciesID: 132})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.VariantID != "ditto_a" {
		t.Errorf("Resolve() = %s, want ditto_a (catalog order)", got.VariantID)
	}
}

func TestResolver_UnresolvableSpecies(t *testing.T) {
	r := NewResolver(NewIndex(testCatalog()))

	_, err := r.Resolve(&models.Instance{InstanceID: "e1", SpeciesID: 9999})
	if !errors.Is(err, ErrUnresolvable) {
		t.Errorf("Resolve() error = %v, want ErrUnresolvable", err)
	}
}

func TestResolver_CacheInvalidation(t *testing.T) {
	r := NewResolver(NewIndex(testCatalog()))

	inst := &models.Instance{InstanceID: "f1", VariantID: "pikachu", SpeciesID: 25}
	if _, err := r.Resolve(inst); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// same id, changed variant: the fingerprint check must recompute even
	// without an explicit invalidation
	inst.VariantID = "pikachu_shiny"
	got, err := r.Resolve(inst)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.VariantID != "pikachu_shiny" {
		t.Errorf("Resolve() after edit = %s, want pikachu_shiny", got.VariantID)
	}

	r.Invalidate(inst.InstanceID)
	if got, err = r.Resolve(inst); err != nil || got.VariantID != "pikachu_shiny" {
		t.Errorf("Resolve() after Invalidate = %v, %v", got, err)
	}
}
