package sorting

import (
	"math/rand"
	"testing"
	"time"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func intPtr(v int) *int { return &v }

func entry(v *models.Variant) Entry {
	return Entry{Variant: v}
}

func variantIDs(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Variant.VariantID
	}
	return ids
}

func assertOrder(t *testing.T, entries []Entry, want []string) {
	t.Helper()
	got := variantIDs(entries)
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSort_NumberFlavorPrecedence(t *testing.T) {
	entries := []Entry{
		entry(&models.Variant{VariantID: "char_shiny_mega_y", SpeciesID: 6, Shiny: true, Mega: true, MegaForm: "mega_y"}),
		entry(&models.Variant{VariantID: "char_shadow", SpeciesID: 6, Shadow: true}),
		entry(&models.Variant{VariantID: "char", SpeciesID: 6}),
		entry(&models.Variant{VariantID: "char_mega_x", SpeciesID: 6, Mega: true, MegaForm: "mega_x"}),
		entry(&models.Variant{VariantID: "char_shiny", SpeciesID: 6, Shiny: true}),
		entry(&models.Variant{VariantID: "char_shiny_shadow", SpeciesID: 6, Shiny: true, Shadow: true}),
		entry(&models.Variant{VariantID: "bulba", SpeciesID: 1}),
	}

	Sort(entries, ModeNumber, Ascending)

	assertOrder(t, entries, []string{
		"bulba",
		"char",
		"char_shiny",
		"char_shadow",
		"char_shiny_shadow",
		"char_mega_x",
		"char_shiny_mega_y",
	})
}

func TestSort_NumberUnnamedFormsFirst(t *testing.T) {
	entries := []Entry{
		entry(&models.Variant{VariantID: "deoxys_attack", SpeciesID: 386, FormName: "Attack"}),
		entry(&models.Variant{VariantID: "deoxys", SpeciesID: 386}),
	}

	Sort(entries, ModeNumber, Ascending)
	assertOrder(t, entries, []string{"deoxys", "deoxys_attack"})
}

func TestSort_NumberCostumeOrdering(t *testing.T) {
	older := &models.Variant{VariantID: "pika_party", SpeciesID: 25,
		Costumes: []models.Costume{{ID: "party", AvailableDate: date(2020, 1, 1)}}}
	newer := &models.Variant{VariantID: "pika_explorer", SpeciesID: 25,
		Costumes: []models.Costume{{ID: "explorer", AvailableDate: date(2023, 6, 1)}}}
	newerShiny := &models.Variant{VariantID: "pika_explorer_shiny", SpeciesID: 25, Shiny: true,
		Costumes: []models.Costume{{ID: "explorer", AvailableDate: date(2023, 6, 1)}}}

	entries := []Entry{entry(newerShiny), entry(newer), entry(older)}
	Sort(entries, ModeNumber, Ascending)
	assertOrder(t, entries, []string{"pika_party", "pika_explorer", "pika_explorer_shiny"})
}

func TestSort_ReleaseDate(t *testing.T) {
	entries := []Entry{
		entry(&models.Variant{VariantID: "undated", SpeciesID: 3}),
		entry(&models.Variant{VariantID: "new", SpeciesID: 2,
			Availability: models.Availability{ReleaseDate: datePtr(2024, 5, 1)}}),
		entry(&models.Variant{VariantID: "old", SpeciesID: 1,
			Availability: models.Availability{ReleaseDate: datePtr(2016, 7, 6)}}),
	}

	Sort(entries, ModeReleaseDate, Ascending)
	assertOrder(t, entries, []string{"undated", "old", "new"})

	Sort(entries, ModeReleaseDate, Descending)
	assertOrder(t, entries, []string{"new", "old", "undated"})
}

func TestSort_ReleaseDateShinyUsesShinyDate(t *testing.T) {
	shiny := &models.Variant{VariantID: "shiny", SpeciesID: 7, Shiny: true,
		Availability: models.Availability{
			ReleaseDate: datePtr(2016, 7, 6),
			ShinyDate:   datePtr(2021, 3, 1),
		}}
	plain := &models.Variant{VariantID: "plain", SpeciesID: 8,
		Availability: models.Availability{ReleaseDate: datePtr(2018, 1, 1)}}

	entries := []Entry{entry(shiny), entry(plain)}
	Sort(entries, ModeReleaseDate, Ascending)
	// shiny sorts by its shiny date, not the base release
	assertOrder(t, entries, []string{"plain", "shiny"})
}

func TestSort_CombatPower(t *testing.T) {
	withCP := Entry{
		Instance: &models.Instance{InstanceID: "a", Stats: &models.InstanceStats{CP: intPtr(2500)}},
		Variant:  &models.Variant{VariantID: "recorded", SpeciesID: 1, CP50: 900},
	}
	statsNoCP := Entry{
		Instance: &models.Instance{InstanceID: "b", Stats: &models.InstanceStats{}},
		Variant:  &models.Variant{VariantID: "unset", SpeciesID: 2, CP50: 3000},
	}
	fallback := Entry{
		Variant: &models.Variant{VariantID: "reference", SpeciesID: 3, CP50: 1800},
	}

	entries := []Entry{withCP, statsNoCP, fallback}
	Sort(entries, ModeCombatPower, Ascending)

	// stats present but CP unset counts as missing, never the CP50 fallback
	assertOrder(t, entries, []string{"unset", "reference", "recorded"})
}

func TestSort_FavoriteGroupsFirst(t *testing.T) {
	fav := Entry{
		Instance: &models.Instance{InstanceID: "a", Favorite: true, Stats: &models.InstanceStats{CP: intPtr(100)}},
		Variant:  &models.Variant{VariantID: "fav_weak", SpeciesID: 1},
	}
	strong := Entry{
		Instance: &models.Instance{InstanceID: "b", Stats: &models.InstanceStats{CP: intPtr(4000)}},
		Variant:  &models.Variant{VariantID: "strong", SpeciesID: 2},
	}

	entries := []Entry{strong, fav}
	Sort(entries, ModeFavorite, Ascending)
	assertOrder(t, entries, []string{"fav_weak", "strong"})
}

func TestSort_NameUsesLastToken(t *testing.T) {
	entries := []Entry{
		entry(&models.Variant{VariantID: "alolan_vulpix", SpeciesID: 37, Name: "Alolan Vulpix"}),
		entry(&models.Variant{VariantID: "abra", SpeciesID: 63, Name: "Abra"}),
		entry(&models.Variant{VariantID: "galarian_meowth", SpeciesID: 52, Name: "Galarian Meowth"}),
	}

	Sort(entries, ModeName, Ascending)
	assertOrder(t, entries, []string{"abra", "galarian_meowth", "alolan_vulpix"})
}

func TestSort_HP(t *testing.T) {
	entries := []Entry{
		entry(&models.Variant{VariantID: "blissey", SpeciesID: 242, Stamina: 496}),
		entry(&models.Variant{VariantID: "shedinja", SpeciesID: 292, Stamina: 1}),
		entry(&models.Variant{VariantID: "snorlax", SpeciesID: 143, Stamina: 330}),
	}

	Sort(entries, ModeHP, Descending)
	assertOrder(t, entries, []string{"blissey", "snorlax", "shedinja"})
}

func TestSort_StableAndIdempotent(t *testing.T) {
	base := []Entry{
		entry(&models.Variant{VariantID: "a", SpeciesID: 1, Stamina: 100}),
		entry(&models.Variant{VariantID: "b", SpeciesID: 2, Stamina: 100}),
		entry(&models.Variant{VariantID: "c", SpeciesID: 3, Stamina: 100}),
	}

	// equal keys keep input order under a stable sort
	entries := append([]Entry(nil), base...)
	Sort(entries, ModeHP, Ascending)
	assertOrder(t, entries, []string{"a", "b", "c"})

	// re-sorting sorted input changes nothing
	Sort(entries, ModeHP, Ascending)
	assertOrder(t, entries, []string{"a", "b", "c"})
}

func TestSort_PermutationInvariant(t *testing.T) {
	build := func() []Entry {
		return []Entry{
			entry(&models.Variant{VariantID: "v1", SpeciesID: 10}),
			entry(&models.Variant{VariantID: "v2", SpeciesID: 4, Shiny: true}),
			entry(&models.Variant{VariantID: "v3", SpeciesID: 4}),
			entry(&models.Variant{VariantID: "v4", SpeciesID: 7, Shadow: true}),
			entry(&models.Variant{VariantID: "v5", SpeciesID: 7}),
		}
	}

	want := build()
	Sort(want, ModeNumber, Ascending)
	wantIDs := variantIDs(want)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		entries := build()
		rng.Shuffle(len(entries), func(a, b int) {
			entries[a], entries[b] = entries[b], entries[a]
		})
		Sort(entries, ModeNumber, Ascending)
		got := variantIDs(entries)
		for j := range wantIDs {
			if got[j] != wantIDs[j] {
				t.Fatalf("shuffle %d: order = %v, want %v", i, got, wantIDs)
			}
		}
	}
}
