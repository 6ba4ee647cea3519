package sorting

import (
	"sort"
	"strings"
	"time"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

type Mode string

const (
	ModeNumber      Mode = "number"
	ModeReleaseDate Mode = "releaseDate"
	ModeHP          Mode = "hp"
	ModeName        Mode = "name"
	ModeCombatPower Mode = "combatPower"
	ModeFavorite    Mode = "favorite"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Entry is one resolved collection row: the stored instance plus the catalog
// variant it displays as. Sorting never mutates either.
type Entry struct {
	Instance *models.Instance
	Variant  *models.Variant
}

// Flavor precedence within one dex number for number ordering.
const (
	flavorDefault = iota
	flavorShiny
	flavorCostume
	flavorMega
	flavorShadow
	flavorShinyShadow
	flavorMegaX
	flavorMegaY
	flavorShinyMegaX
	flavorShinyMegaY
)

// Sort orders entries in place: stable, pure, idempotent. Re-sorting sorted
// input under the same mode and direction is a no-op.
func Sort(entries []Entry, mode Mode, dir Direction) {
	cmp := comparator(mode)
	sort.SliceStable(entries, func(i, j int) bool {
		c := cmp(entries[i], entries[j])
		if dir == Descending {
			c = -c
		}
		return c < 0
	})
}

func comparator(mode Mode) func(a, b Entry) int {
	switch mode {
	case ModeReleaseDate:
		return compareReleaseDate
	case ModeHP:
		return compareHP
	case ModeName:
		return compareName
	case ModeCombatPower:
		return compareCombatPower
	case ModeFavorite:
		return compareFavorite
	default:
		return compareNumber
	}
}

func compareNumber(a, b Entry) int {
	if c := a.Variant.SpeciesID - b.Variant.SpeciesID; c != 0 {
		return c
	}
	// unnamed forms ahead of named ones
	if c := boolCmp(a.Variant.FormName != "", b.Variant.FormName != ""); c != 0 {
		return c
	}
	ra, rb := flavorRank(a.Variant), flavorRank(b.Variant)
	if c := ra - rb; c != 0 {
		return c
	}
	if ra == flavorCostume {
		return compareCostumes(a.Variant, b.Variant)
	}
	return 0
}

func flavorRank(v *models.Variant) int {
	if v.Mega {
		switch v.MegaForm {
		case "mega_x":
			if v.Shiny {
				return flavorShinyMegaX
			}
			return flavorMegaX
		case "mega_y":
			if v.Shiny {
				return flavorShinyMegaY
			}
			return flavorMegaY
		}
		return flavorMega
	}
	if v.Shadow {
		if v.Shiny {
			return flavorShinyShadow
		}
		return flavorShadow
	}
	if len(v.Costumes) > 0 {
		return flavorCostume
	}
	if v.Shiny {
		return flavorShiny
	}
	return flavorDefault
}

func compareCostumes(a, b *models.Variant) int {
	ca, cb := a.Costumes[0], b.Costumes[0]
	if !ca.AvailableDate.Equal(cb.AvailableDate) {
		if ca.AvailableDate.Before(cb.AvailableDate) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(ca.ID, cb.ID); c != 0 {
		return c
	}
	// shiny costume after its plain counterpart
	return boolCmp(a.Shiny, b.Shiny)
}

func compareReleaseDate(a, b Entry) int {
	da, oka := resolveReleaseDate(a)
	db, okb := resolveReleaseDate(b)
	if oka != okb {
		// missing dates sort as lowest
		return boolCmp(oka, okb)
	}
	if oka && !da.Equal(db) {
		if da.Before(db) {
			return -1
		}
		return 1
	}
	return a.Variant.SpeciesID - b.Variant.SpeciesID
}

// resolveReleaseDate picks the variant-specific date for this entry: costume
// release first, then fused form, mega form matching the stored form, max
// data, and finally the plain availability date for the matching flavor.
func resolveReleaseDate(e Entry) (time.Time, bool) {
	inst, v := e.Instance, e.Variant

	if inst != nil && inst.CostumeID != "" {
		if costume, ok := v.CostumeByID(inst.CostumeID); ok {
			if inst.Shiny && costume.ShinyDate != nil {
				return *costume.ShinyDate, true
			}
			return costume.AvailableDate, true
		}
	}

	if v.Fused && v.FusionRelease != nil {
		return *v.FusionRelease, true
	}

	if v.Mega {
		form := v.MegaForm
		if inst != nil && inst.Form != "" {
			form = inst.Form
		}
		for _, mega := range v.MegaEvolutions {
			if mega.Form == form && mega.ReleaseDate != nil {
				return *mega.ReleaseDate, true
			}
		}
	}

	if v.Max != nil {
		if v.Gigantamax && v.Max.GigantamaxDate != nil {
			return *v.Max.GigantamaxDate, true
		}
		if v.Dynamax && v.Max.DynamaxDate != nil {
			return *v.Max.DynamaxDate, true
		}
	}

	avail := v.Availability
	switch {
	case v.Shiny && v.Shadow:
		if avail.ShinyShadowDate != nil {
			return *avail.ShinyShadowDate, true
		}
	case v.Shadow:
		if avail.ShadowDate != nil {
			return *avail.ShadowDate, true
		}
	case v.Shiny:
		if avail.ShinyDate != nil {
			return *avail.ShinyDate, true
		}
	}
	if avail.ReleaseDate != nil {
		return *avail.ReleaseDate, true
	}
	return time.Time{}, false
}

func compareCombatPower(a, b Entry) int {
	cpa, oka := combatPower(a)
	cpb, okb := combatPower(b)
	if oka != okb {
		// missing values sort as lowest
		return boolCmp(oka, okb)
	}
	if oka {
		if c := cpa - cpb; c != 0 {
			return c
		}
	}
	return a.Variant.SpeciesID - b.Variant.SpeciesID
}

// combatPower prefers the instance's recorded CP whenever the record carries
// any instance data, even when that CP is unset; only records with no
// instance data at all fall back to the species' level-50 reference value.
func combatPower(e Entry) (int, bool) {
	if e.Instance != nil && e.Instance.Stats != nil {
		if e.Instance.Stats.CP == nil {
			return 0, false
		}
		return *e.Instance.Stats.CP, true
	}
	if e.Variant.CP50 > 0 {
		return e.Variant.CP50, true
	}
	return 0, false
}

func compareFavorite(a, b Entry) int {
	fa := a.Instance != nil && a.Instance.Favorite
	fb := b.Instance != nil && b.Instance.Favorite
	if fa != fb {
		// favorites group first
		return boolCmp(fb, fa)
	}
	return compareCombatPower(a, b)
}

func compareHP(a, b Entry) int {
	return a.Variant.Stamina - b.Variant.Stamina
}

// compareName orders by the last whitespace-delimited token of the display
// name, so regional and form prefixes do not drive the primary sort.
func compareName(a, b Entry) int {
	return strings.Compare(lastNameToken(a.Variant.Name), lastNameToken(b.Variant.Name))
}

func lastNameToken(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[len(fields)-1])
}

// boolCmp orders false before true.
func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
