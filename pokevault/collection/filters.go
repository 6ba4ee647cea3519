package collection

import (
	"github.com/trainerlab/pokevault/pokevault/config"
	"github.com/trainerlab/pokevault/pokevault/database/models"
)

// PassesTradeFilters applies the viewer's named rarity/source toggles to one
// for-trade entry. A key absent from the map counts as enabled; an explicit
// false hides entries with the matching trait.
func PassesTradeFilters(filters map[string]bool, entry *models.Instance, variant *models.Variant) bool {
	if !filterEnabled(filters, config.FilterLegendary) && variant.Legendary {
		return false
	}
	if !filterEnabled(filters, config.FilterMythical) && variant.Mythical {
		return false
	}
	if !filterEnabled(filters, config.FilterShiny) && (entry.Shiny || variant.Shiny) {
		return false
	}
	if !filterEnabled(filters, config.FilterShadow) && (entry.Shadow || variant.Shadow) {
		return false
	}
	if !filterEnabled(filters, config.FilterCostume) && entry.CostumeID != "" {
		return false
	}
	if !filterEnabled(filters, config.FilterRegional) && variant.FormName != "" {
		return false
	}
	return true
}

func filterEnabled(filters map[string]bool, key string) bool {
	enabled, present := filters[key]
	return !present || enabled
}
