package catalog

import (
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru"

	"github.com/trainerlab/pokevault/pokevault/config"
	"github.com/trainerlab/pokevault/pokevault/database/models"
)

// ErrUnresolvable means no catalog variant shares the instance's species id.
// Callers must skip or placeholder the record, never fail the whole view.
var ErrUnresolvable = errors.New("no catalog variant matches instance")

// Fallback scoring weights. The relative ranking (costume > max forms >
// shiny/shadow > mega/fused > plain default) is load-bearing for existing
// stored data; the absolute values carry no further meaning.
const (
	weightCostumeMatch    = 5
	weightDynamaxMatch    = 4
	weightGigantamaxMatch = 4
	weightShinyMatch      = 3
	weightShadowMatch     = 3
	weightMegaMatch       = 2
	weightFusedMatch      = 2
	weightPlainDefault    = 1
)

// Resolver maps a stored instance to the catalog variant it displays as:
// direct key lookup first, then a scored walk over the species' variants.
type Resolver struct {
	index *Index
	cache *lru.Cache
}

type cachedResolution struct {
	fingerprint string
	variant     *models.Variant
}

func NewResolver(index *Index) *Resolver {
	cache, _ := lru.New(config.ResolverCacheSize)
	return &Resolver{
		index: index,
		cache: cache,
	}
}

// Resolve returns the catalog variant the instance renders as.
func (r *Resolver) Resolve(inst *models.Instance) (*models.Variant, error) {
	fp := resolutionFingerprint(inst)
	if inst.InstanceID != "" {
		if entry, ok := r.cache.Get(inst.InstanceID); ok {
			if cached := entry.(cachedResolution); cached.fingerprint == fp {
				return cached.variant, nil
			}
		}
	}

	variant, err := r.resolve(inst)
	if err != nil {
		return nil, err
	}

	if inst.InstanceID != "" {
		r.cache.Add(inst.InstanceID, cachedResolution{fingerprint: fp, variant: variant})
	}
	return variant, nil
}

// Invalidate drops the cached resolution for an instance. The ledger calls
// this on every write so stale display forms never outlive an edit.
func (r *Resolver) Invalidate(instanceID string) {
	r.cache.Remove(instanceID)
}

func (r *Resolver) resolve(inst *models.Instance) (*models.Variant, error) {
	if inst.VariantID != "" {
		if v, ok := r.index.ByVariantID(inst.VariantID); ok {
			return v, nil
		}
	}

	candidates := r.index.BySpecies(inst.SpeciesID)
	if len(candidates) == 0 {
		slog.Warn("Instance resolution miss",
			slog.String("type", "ledger"),
			slog.String("instance_id", inst.InstanceID),
			slog.String("variant_id", inst.VariantID),
			slog.Int("species_id", inst.SpeciesID))
		return nil, fmt.Errorf("species %d: %w", inst.SpeciesID, ErrUnresolvable)
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	// Ties keep catalog order: only a strictly higher score displaces the
	// current best.
	best := candidates[0]
	bestScore := scoreCandidate(inst, candidates[0])
	for _, candidate := range candidates[1:] {
		if score := scoreCandidate(inst, candidate); score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, nil
}

func scoreCandidate(inst *models.Instance, v *models.Variant) int {
	score := 0
	if v.Shiny == inst.Shiny {
		score += weightShinyMatch
	}
	if v.Shadow == inst.Shadow {
		score += weightShadowMatch
	}
	if v.Dynamax == inst.Dynamax {
		score += weightDynamaxMatch
	}
	if v.Gigantamax == inst.Gigantamax {
		score += weightGigantamaxMatch
	}
	if v.Mega == inst.Mega {
		score += weightMegaMatch
	}
	if v.Fused == inst.Fused {
		score += weightFusedMatch
	}
	if inst.CostumeID != "" {
		if v.HasCostume(inst.CostumeID) {
			score += weightCostumeMatch
		}
	} else if v.IsPlain() {
		score += weightPlainDefault
	}
	return score
}

func resolutionFingerprint(inst *models.Instance) string {
	return fmt.Sprintf("%s|%d|%t%t%t%t%t%t|%s",
		inst.VariantID, inst.SpeciesID,
		inst.Shiny, inst.Shadow, inst.Mega, inst.Fused, inst.Dynamax, inst.Gigantamax,
		inst.CostumeID)
}
