package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Instance is one physical creature owned by exactly one trainer, or a
// mirror-synthesized wanted record (Mirror=true, Caught always false) that
// represents desire for a variant without any physical capture behind it.
type Instance struct {
	bun.BaseModel `bun:"table:instances,alias:i"`

	ID         int64  `bun:"id,pk,autoincrement" json:"-"`
	InstanceID string `bun:"instance_id,notnull,unique" json:"instance_id"`
	Username   string `bun:"username,notnull" json:"username"`
	VariantID  string `bun:"variant_id" json:"variant_id"`
	SpeciesID  int    `bun:"species_id" json:"pokemon_id"`

	Caught     bool `bun:"is_caught,notnull,default:false" json:"is_caught"`
	ForTrade   bool `bun:"is_for_trade,notnull,default:false" json:"is_for_trade"`
	Wanted     bool `bun:"is_wanted,notnull,default:false" json:"is_wanted"`
	Mirror     bool `bun:"mirror,notnull,default:false" json:"mirror"`
	Favorite   bool `bun:"favorite,notnull,default:false" json:"favorite"`
	MostWanted bool `bun:"most_wanted,notnull,default:false" json:"most_wanted"`
	Registered bool `bun:"registered,notnull,default:false" json:"registered"`

	// Display flags used by variant resolution when the variant key is
	// missing or no longer in the catalog.
	Shiny      bool   `bun:"shiny,notnull,default:false" json:"shiny"`
	Shadow     bool   `bun:"shadow,notnull,default:false" json:"shadow"`
	Mega       bool   `bun:"mega,notnull,default:false" json:"mega"`
	Fused      bool   `bun:"fused,notnull,default:false" json:"fused"`
	Dynamax    bool   `bun:"dynamax,notnull,default:false" json:"dynamax"`
	Gigantamax bool   `bun:"gigantamax,notnull,default:false" json:"gigantamax"`
	CostumeID  string `bun:"costume_id,type:text,default:''" json:"costume_id"`
	Form       string `bun:"form,type:text,default:''" json:"form"`

	Stats *InstanceStats `bun:"stats,type:jsonb" json:"stats,omitempty"`

	NotTradeList  map[string]bool `bun:"not_trade_list,type:jsonb" json:"not_trade_list,omitempty"`
	NotWantedList map[string]bool `bun:"not_wanted_list,type:jsonb" json:"not_wanted_list,omitempty"`
	TradeFilters  map[string]bool `bun:"trade_filters,type:jsonb" json:"trade_filters,omitempty"`

	LastUpdate time.Time `bun:"last_update,notnull" json:"last_update"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"-"`
	UpdatedAt  time.Time `bun:"updated_at,notnull" json:"-"`
}

// InstanceStats is the trainer-entered appraisal block. A non-nil Stats with a
// nil CP still counts as "has instance data" for combat-power ordering.
type InstanceStats struct {
	CP      *int     `json:"cp,omitempty"`
	HP      *int     `json:"hp,omitempty"`
	Level   *float64 `json:"level,omitempty"`
	Attack  *int     `json:"attack,omitempty"`
	Defense *int     `json:"defense,omitempty"`
}

// variant key suffix tokens that decorate a base form
var variantDecorations = map[string]bool{
	"shiny":      true,
	"shadow":     true,
	"mega":       true,
	"mega_x":     true,
	"mega_y":     true,
	"primal":     true,
	"dynamax":    true,
	"gigantamax": true,
	"fused":      true,
	"costume":    true,
	"x":          true,
	"y":          true,
}

// BaseVariantKey strips decoration tokens off a variant key, leaving the key
// of the species' plain form. Exclusion maps accept this key as an alternative
// to a full instance id so a hide can cover every decorated sibling at once.
func BaseVariantKey(variantID string) string {
	if variantID == "" {
		return ""
	}
	parts := strings.Split(variantID, "_")
	end := len(parts)
	for end > 1 {
		if variantDecorations[parts[end-1]] {
			end--
			continue
		}
		// a costume id trails its "costume" marker; strip both
		if end > 2 && parts[end-2] == "costume" {
			end -= 2
			continue
		}
		break
	}
	return strings.Join(parts[:end], "_")
}

// BaseVariantKey returns the undecorated variant key for this instance.
func (i *Instance) BaseVariantKey() string {
	return BaseVariantKey(i.VariantID)
}

// Clone returns a deep copy; exclusion and filter maps are copied, never shared.
func (i *Instance) Clone() *Instance {
	dup := *i
	dup.NotTradeList = cloneBoolMap(i.NotTradeList)
	dup.NotWantedList = cloneBoolMap(i.NotWantedList)
	dup.TradeFilters = cloneBoolMap(i.TradeFilters)
	if i.Stats != nil {
		stats := *i.Stats
		dup.Stats = &stats
	}
	return &dup
}

func cloneBoolMap(m map[string]bool) map[string]bool {
	if m == nil {
		return nil
	}
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
