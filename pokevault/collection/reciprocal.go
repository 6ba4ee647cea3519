package collection

import (
	"log/slog"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

// VariantResolver is the slice of the catalog resolver the synchronizer needs.
type VariantResolver interface {
	Resolve(inst *models.Instance) (*models.Variant, error)
}

// Synchronizer keeps two trainers' independent collections consistent without
// shared storage: it mints wanted-side mirror entries when an instance is
// exposed for trade, and maintains per-viewer exclusion maps that hide a
// specific reciprocal match without deleting either side's data.
type Synchronizer struct {
	ledger   *Ledger
	buckets  *Buckets
	resolver VariantResolver
	newID    func() string
}

func NewSynchronizer(ledger *Ledger, buckets *Buckets, resolver VariantResolver) *Synchronizer {
	return &Synchronizer{
		ledger:   ledger,
		buckets:  buckets,
		resolver: resolver,
		newID:    NewID,
	}
}

// CreateMirrorEntry synthesizes a wanted-side mirror of the source instance,
// registers it in the ledger and the wanted bucket, and flags the source as
// mirrored. Each call mints a fresh wanted id; the source's mirror flag is
// simply set true again on repeat calls. A missing source id degrades to a
// warning, never an error.
func (s *Synchronizer) CreateMirrorEntry(currentUsername, sourceInstanceID string) (string, bool) {
	source, ok := s.ledger.Get(sourceInstanceID)
	if !ok {
		slog.Warn("Mirror source missing, skipping",
			slog.String("type", "ledger"),
			slog.String("username", currentUsername),
			slog.String("instance_id", sourceInstanceID))
		return "", false
	}

	speciesID := source.SpeciesID
	if speciesID == 0 && source.VariantID != "" {
		if v, err := s.resolver.Resolve(source); err == nil {
			speciesID = v.SpeciesID
		}
	}

	mirror := &models.Instance{
		InstanceID: s.newID(),
		Username:   currentUsername,
		VariantID:  source.VariantID,
		SpeciesID:  speciesID,
		Wanted:     true,
		Mirror:     true,
		Caught:     false,
		Shiny:      source.Shiny,
		Shadow:     source.Shadow,
		Mega:       source.Mega,
		Fused:      source.Fused,
		Dynamax:    source.Dynamax,
		Gigantamax: source.Gigantamax,
		CostumeID:  source.CostumeID,
		Form:       source.Form,
	}

	s.ledger.Put(mirror)
	s.buckets.Put(BucketWanted, mirror)

	if err := s.ledger.Apply(map[string]Patch{
		sourceInstanceID: {Mirror: Bool(true)},
	}); err != nil {
		slog.Warn("Failed to flag mirror source",
			slog.String("type", "ledger"),
			slog.String("instance_id", sourceInstanceID),
			slog.Any("error", err))
	}

	return mirror.InstanceID, true
}

// ToggleNotTradeList hides (or unhides) the caller's instance from the
// partner's trade-list view. The new exclusion map is computed for the
// PARTNER's record: exclusions are per-viewer, so only the record of the side
// doing the hiding changes. A missing partner record is a logged no-op.
func (s *Synchronizer) ToggleNotTradeList(currentInstanceID, partnerInstanceID string, add bool) {
	s.toggleExclusion(currentInstanceID, partnerInstanceID, add, false)
}

// ToggleNotWantedList is the want-side analogue of ToggleNotTradeList.
func (s *Synchronizer) ToggleNotWantedList(currentInstanceID, partnerInstanceID string, add bool) {
	s.toggleExclusion(currentInstanceID, partnerInstanceID, add, true)
}

func (s *Synchronizer) toggleExclusion(currentInstanceID, partnerInstanceID string, add, wantedSide bool) {
	partner, ok := s.ledger.Get(partnerInstanceID)
	if !ok {
		slog.Warn("Exclusion partner missing, skipping",
			slog.String("type", "ledger"),
			slog.String("instance_id", partnerInstanceID))
		return
	}

	existing := partner.NotTradeList
	if wantedSide {
		existing = partner.NotWantedList
	}

	updated := make(map[string]bool, len(existing)+1)
	for k, v := range existing {
		updated[k] = v
	}
	if add {
		updated[currentInstanceID] = true
	} else {
		delete(updated, currentInstanceID)
	}

	patch := Patch{}
	if wantedSide {
		patch.NotWantedList = updated
	} else {
		patch.NotTradeList = updated
	}

	if err := s.ledger.Apply(map[string]Patch{partnerInstanceID: patch}); err != nil {
		slog.Warn("Failed to update exclusion map",
			slog.String("type", "ledger"),
			slog.String("instance_id", partnerInstanceID),
			slog.Any("error", err))
	}
}

// VisibleInTradeList applies the trade-list visibility contract: an entry is
// shown unless the viewer's own exclusion map hides it (under its full id or
// its base-variant key), or it is a mirror-only entry for a different base
// variant than the one the viewer has open.
func VisibleInTradeList(current, entry *models.Instance) bool {
	return visible(current, entry, current.NotTradeList)
}

// VisibleInWantedList is the want-side analogue of VisibleInTradeList.
func VisibleInWantedList(current, entry *models.Instance) bool {
	return visible(current, entry, current.NotWantedList)
}

func visible(current, entry *models.Instance, exclusions map[string]bool) bool {
	if exclusions[entry.InstanceID] {
		return false
	}
	if base := entry.BaseVariantKey(); base != "" && exclusions[base] {
		return false
	}
	if entry.Mirror && !entry.Caught && entry.BaseVariantKey() != current.BaseVariantKey() {
		return false
	}
	return true
}

// TradeListEntries returns the for-trade bucket entries visible to the viewer
// of the currently open instance, after exclusions and the viewer's trade
// filter toggles.
func (s *Synchronizer) TradeListEntries(current *models.Instance) []*models.Instance {
	entries := s.buckets.Entries(BucketForTrade)
	out := make([]*models.Instance, 0, len(entries))
	for _, entry := range entries {
		if !VisibleInTradeList(current, entry) {
			continue
		}
		if !s.passesTradeFilters(current.TradeFilters, entry) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func (s *Synchronizer) passesTradeFilters(filters map[string]bool, entry *models.Instance) bool {
	if len(filters) == 0 {
		return true
	}
	variant, err := s.resolver.Resolve(entry)
	if err != nil {
		slog.Warn("Skipping unrenderable trade entry",
			slog.String("type", "ledger"),
			slog.String("instance_id", entry.InstanceID),
			slog.Any("error", err))
		return false
	}
	return PassesTradeFilters(filters, entry, variant)
}
