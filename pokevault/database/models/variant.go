package models

import "time"

// Variant is one renderable catalog form: a species crossed with its
// shiny/shadow/costume/mega/dynamax decorations. The catalog is preloaded and
// read-only; variants are never written back to storage.
type Variant struct {
	VariantID string `json:"variant_id"`
	SpeciesID int    `json:"pokemon_id"`
	Name      string `json:"name"`

	Shiny      bool `json:"shiny"`
	Shadow     bool `json:"shadow"`
	Mega       bool `json:"mega"`
	Fused      bool `json:"fused"`
	Dynamax    bool `json:"dynamax"`
	Gigantamax bool `json:"gigantamax"`

	Legendary bool `json:"legendary"`
	Mythical  bool `json:"mythical"`

	// MegaForm distinguishes mega_x/mega_y/primal entries sharing a species.
	MegaForm string `json:"mega_form,omitempty"`
	// FormName is the regional/alternate form label, empty for the base form.
	FormName string `json:"form_name,omitempty"`

	Costumes       []Costume       `json:"costumes,omitempty"`
	MegaEvolutions []MegaEvolution `json:"mega_evolutions,omitempty"`
	Max            *MaxData        `json:"max,omitempty"`
	FusionRelease  *time.Time      `json:"fusion_release,omitempty"`

	Availability Availability `json:"availability"`

	Stamina int `json:"stamina"`
	// CP50 is the species' level-50 reference combat power, used when an
	// instance carries no recorded CP of its own.
	CP50 int `json:"cp50"`
}

// Costume is a time-limited cosmetic applied to a species.
type Costume struct {
	ID            string     `json:"id"`
	AvailableDate time.Time  `json:"available_date"`
	ShinyDate     *time.Time `json:"shiny_date,omitempty"`
}

// MegaEvolution carries the release date of one mega/primal form.
type MegaEvolution struct {
	Form        string     `json:"form"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
}

// MaxData is the species' dynamax/gigantamax availability block.
type MaxData struct {
	DynamaxDate    *time.Time `json:"dynamax_date,omitempty"`
	GigantamaxDate *time.Time `json:"gigantamax_date,omitempty"`
}

// Availability holds the plain release dates per variant flavor.
type Availability struct {
	ReleaseDate     *time.Time `json:"release_date,omitempty"`
	ShinyDate       *time.Time `json:"shiny_date,omitempty"`
	ShadowDate      *time.Time `json:"shadow_date,omitempty"`
	ShinyShadowDate *time.Time `json:"shiny_shadow_date,omitempty"`
}

// IsPlain reports whether v is the undecorated default form of its species.
func (v *Variant) IsPlain() bool {
	return !v.Shiny && !v.Shadow && !v.Mega && !v.Fused &&
		!v.Dynamax && !v.Gigantamax && len(v.Costumes) == 0
}

// HasCostume reports whether the variant's costume list contains id.
func (v *Variant) HasCostume(id string) bool {
	for _, c := range v.Costumes {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CostumeByID returns the costume entry with the given id, if present.
func (v *Variant) CostumeByID(id string) (Costume, bool) {
	for _, c := range v.Costumes {
		if c.ID == id {
			return c, true
		}
	}
	return Costume{}, false
}
