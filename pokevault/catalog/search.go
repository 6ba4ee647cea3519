package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

// variantSearchItems implements fuzzy.Source over the catalog
type variantSearchItems []variantSearchItem

type variantSearchItem struct {
	Variant *models.Variant
	Name    string
}

func (items variantSearchItems) Len() int {
	return len(items)
}

func (items variantSearchItems) String(i int) string {
	return items[i].Name
}

// Search performs fuzzy species-name search over the catalog, best matches
// first. A limit of 0 means unlimited.
func (ix *Index) Search(query string, limit int) []*models.Variant {
	query = normalizeQuery(query)
	if query == "" || ix.Len() == 0 {
		return nil
	}

	searchItems := make(variantSearchItems, 0, ix.Len())
	for _, v := range ix.ordered {
		searchItems = append(searchItems, variantSearchItem{
			Variant: v,
			Name:    normalizeQuery(v.Name),
		})
	}

	matches := fuzzy.FindFrom(query, searchItems)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]*models.Variant, len(matches))
	for i, match := range matches {
		results[i] = searchItems[match.Index].Variant
	}
	return results
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
