package collection

import (
	"testing"

	"github.com/trainerlab/pokevault/pokevault/config"
	"github.com/trainerlab/pokevault/pokevault/database/models"
)

func TestPassesTradeFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters map[string]bool
		entry   *models.Instance
		variant *models.Variant
		want    bool
	}{
		{
			name:    "nil filters pass everything",
			entry:   &models.Instance{Shiny: true},
			variant: &models.Variant{Legendary: true, Mythical: true},
			want:    true,
		},
		{
			name:    "absent key counts as enabled",
			filters: map[string]bool{config.FilterShadow: false},
			entry:   &models.Instance{Shiny: true},
			variant: &models.Variant{},
			want:    true,
		},
		{
			name:    "explicit false hides legendary",
			filters: map[string]bool{config.FilterLegendary: false},
			entry:   &models.Instance{},
			variant: &models.Variant{Legendary: true},
			want:    false,
		},
		{
			name:    "explicit true keeps legendary",
			filters: map[string]bool{config.FilterLegendary: true},
			entry:   &models.Instance{},
			variant: &models.Variant{Legendary: true},
			want:    true,
		},
		{
			name:    "shiny hidden by instance flag",
			filters: map[string]bool{config.FilterShiny: false},
			entry:   &models.Instance{Shiny: true},
			variant: &models.Variant{},
			want:    false,
		},
		{
			name:    "shiny hidden by variant flag",
			filters: map[string]bool{config.FilterShiny: false},
			entry:   &models.Instance{},
			variant: &models.Variant{Shiny: true},
			want:    false,
		},
		{
			name:    "costume hidden by costume id",
			filters: map[string]bool{config.FilterCostume: false},
			entry:   &models.Instance{CostumeID: "party"},
			variant: &models.Variant{},
			want:    false,
		},
		{
			name:    "regional hidden by form name",
			filters: map[string]bool{config.FilterRegional: false},
			entry:   &models.Instance{},
			variant: &models.Variant{FormName: "Alolan"},
			want:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PassesTradeFilters(tt.filters, tt.entry, tt.variant); got != tt.want {
				t.Errorf("PassesTradeFilters() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestBaseVariantKeyStripping(t *testing.T) {
	tests := []struct {
		variantID string
		want      string
	}{
		{"pikachu", "pikachu"},
		{"pikachu_shiny", "pikachu"},
		{"mewtwo_shadow_shiny", "mewtwo"},
		{"charizard_mega_x", "charizard"},
		{"pikachu_costume_party", "pikachu"},
		{"pikachu_shiny_costume_party", "pikachu"},
		{"mr_mime", "mr_mime"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := models.BaseVariantKey(tt.variantID); got != tt.want {
			t.Errorf("BaseVariantKey(%q) = %q, want %q", tt.variantID, got, tt.want)
		}
	}
}
