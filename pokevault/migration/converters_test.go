package migration

import (
	"testing"
	"time"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

func TestConvertInstance(t *testing.T) {
	cp := 2500
	last := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	got := convertInstance(LegacyInstance{
		InstanceID: "i1",
		Username:   "  ash ",
		VariantID:  "pikachu_shiny",
		SpeciesID:  25,
		IsCaught:   true,
		IsForTrade: true,
		Shiny:      true,
		CP:         &cp,
		LastUpdate: &last,
	})

	if got.Username != "ash" {
		t.Errorf("Username = %q, want trimmed", got.Username)
	}
	if !got.Caught || !got.ForTrade || !got.Shiny {
		t.Errorf("flags lost: %+v", got)
	}
	if got.Stats == nil || got.Stats.CP == nil || *got.Stats.CP != 2500 {
		t.Errorf("Stats = %+v, want CP 2500", got.Stats)
	}
	if !got.LastUpdate.Equal(last) {
		t.Errorf("LastUpdate = %v, want legacy timestamp preserved", got.LastUpdate)
	}
}

func TestConvertInstance_MirrorNeverCaught(t *testing.T) {
	got := convertInstance(LegacyInstance{
		InstanceID: "i1",
		IsCaught:   true,
		Mirror:     true,
	})
	if got.Caught {
		t.Error("mirror record imported as caught")
	}
	if !got.Mirror {
		t.Error("mirror flag lost")
	}
}

func TestConvertInstance_NoStatsBlock(t *testing.T) {
	got := convertInstance(LegacyInstance{InstanceID: "i1"})
	if got.Stats != nil {
		t.Errorf("Stats = %+v, want nil when no legacy stats present", got.Stats)
	}
	if got.LastUpdate.IsZero() {
		t.Error("missing legacy timestamp must default to now")
	}
}

func TestConvertStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want models.TradeStatus
	}{
		{"proposed", models.TradeProposed},
		{" Pending ", models.TradePending},
		{"COMPLETED", models.TradeCompleted},
		{"cancelled", models.TradeCancelled},
		{"denied", models.TradeDenied},
		{"deleted", models.TradeDeleted},
		{"bogus", models.TradeDeleted},
		{"", models.TradeDeleted},
	}
	for _, tt := range tests {
		if got := convertStatus(tt.raw); got != tt.want {
			t.Errorf("convertStatus(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestConvertTrade(t *testing.T) {
	proposed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sat := true

	got := convertTrade(LegacyTrade{
		TradeID:             "t1",
		Status:              "completed",
		UsernameProposed:    "ash",
		UsernameAccepting:   "misty",
		ProposedInstanceID:  "i1",
		AcceptingInstanceID: "i2",
		ProposalDate:        &proposed,
		ProposerConfirmed:   true,
		AccepterConfirmed:   true,
		ProposerSatisfied:   &sat,
	})

	if got.Status != models.TradeCompleted {
		t.Errorf("Status = %s, want completed", got.Status)
	}
	if got.ProposedInstanceID != "i1" || got.AcceptingInstanceID != "i2" {
		t.Errorf("instance ids lost: %+v", got)
	}
	if got.ProposerSatisfied == nil || !*got.ProposerSatisfied {
		t.Error("satisfaction flag lost")
	}
	if got.AccepterSatisfied != nil {
		t.Error("unset satisfaction must stay nil")
	}
}
