package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

// Index is the preloaded, read-only variant catalog addressable by variant key
// and by species id. Catalog iteration order is preserved: it is the tie-break
// for scored resolution and the stable baseline for every sort mode.
type Index struct {
	ordered   []*models.Variant
	byVariant map[string]*models.Variant
	bySpecies map[int][]*models.Variant
}

// Load reads a JSON catalog file and builds the index.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var variants []*models.Variant
	if err := json.Unmarshal(data, &variants); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return NewIndex(variants), nil
}

// NewIndex builds an index over the given variants. Duplicate variant keys keep
// the first occurrence.
func NewIndex(variants []*models.Variant) *Index {
	ix := &Index{
		ordered:   make([]*models.Variant, 0, len(variants)),
		byVariant: make(map[string]*models.Variant, len(variants)),
		bySpecies: make(map[int][]*models.Variant),
	}
	for _, v := range variants {
		if v == nil {
			continue
		}
		ix.ordered = append(ix.ordered, v)
		if v.VariantID != "" {
			if _, exists := ix.byVariant[v.VariantID]; !exists {
				ix.byVariant[v.VariantID] = v
			}
		}
		ix.bySpecies[v.SpeciesID] = append(ix.bySpecies[v.SpeciesID], v)
	}
	return ix
}

// ByVariantID looks a variant up by its key.
func (ix *Index) ByVariantID(id string) (*models.Variant, bool) {
	v, ok := ix.byVariant[id]
	return v, ok
}

// BySpecies returns every variant of a species in catalog order. The returned
// slice is shared; callers must not mutate it.
func (ix *Index) BySpecies(speciesID int) []*models.Variant {
	return ix.bySpecies[speciesID]
}

// All returns every variant in catalog order. Shared slice, read-only.
func (ix *Index) All() []*models.Variant {
	return ix.ordered
}

func (ix *Index) Len() int {
	return len(ix.ordered)
}
