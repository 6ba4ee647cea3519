// types.go
package migration

import "time"

// LegacyInstance is one creature record as exported by the original document
// store: flat flags, stringly-typed stat block, exclusion maps keyed however
// the old client left them.
type LegacyInstance struct {
	InstanceID string `bson:"instance_id" json:"instance_id"`
	Username   string `bson:"username" json:"username"`
	VariantID  string `bson:"variant_id" json:"variant_id"`
	SpeciesID  int    `bson:"pokemon_id" json:"pokemon_id"`

	IsCaught   bool `bson:"is_caught" json:"is_caught"`
	IsForTrade bool `bson:"is_for_trade" json:"is_for_trade"`
	IsWanted   bool `bson:"is_wanted" json:"is_wanted"`
	Mirror     bool `bson:"mirror" json:"mirror"`
	Favorite   bool `bson:"favorite" json:"favorite"`
	MostWanted bool `bson:"most_wanted" json:"most_wanted"`
	Registered bool `bson:"registered" json:"registered"`

	Shiny      bool   `bson:"shiny" json:"shiny"`
	Shadow     bool   `bson:"shadow" json:"shadow"`
	Mega       bool   `bson:"mega" json:"mega"`
	Fused      bool   `bson:"fused" json:"fused"`
	Dynamax    bool   `bson:"dynamax" json:"dynamax"`
	Gigantamax bool   `bson:"gigantamax" json:"gigantamax"`
	CostumeID  string `bson:"costume_id" json:"costume_id"`
	Form       string `bson:"form" json:"form"`

	CP    *int     `bson:"cp" json:"cp"`
	HP    *int     `bson:"hp" json:"hp"`
	Level *float64 `bson:"level" json:"level"`

	NotTradeList  map[string]bool `bson:"not_trade_list" json:"not_trade_list"`
	NotWantedList map[string]bool `bson:"not_wanted_list" json:"not_wanted_list"`
	TradeFilters  map[string]bool `bson:"trade_filters" json:"trade_filters"`

	LastUpdate *time.Time `bson:"last_update" json:"last_update"`
}

// LegacyTrade is one trade document from the original export.
type LegacyTrade struct {
	TradeID string `bson:"trade_id" json:"trade_id"`
	Status  string `bson:"trade_status" json:"trade_status"`

	UsernameProposed  string `bson:"username_proposed" json:"username_proposed"`
	UsernameAccepting string `bson:"username_accepting" json:"username_accepting"`

	ProposedInstanceID  string `bson:"pokemon_instance_id_user_proposed" json:"pokemon_instance_id_user_proposed"`
	AcceptingInstanceID string `bson:"pokemon_instance_id_user_accepting" json:"pokemon_instance_id_user_accepting"`

	ProposalDate  *time.Time `bson:"trade_proposal_date" json:"trade_proposal_date"`
	AcceptedDate  *time.Time `bson:"trade_accepted_date" json:"trade_accepted_date"`
	CompletedDate *time.Time `bson:"trade_completed_date" json:"trade_completed_date"`
	CancelledDate *time.Time `bson:"trade_cancelled_date" json:"trade_cancelled_date"`
	CancelledBy   string     `bson:"trade_cancelled_by" json:"trade_cancelled_by"`
	DeletedDate   *time.Time `bson:"trade_deleted_date" json:"trade_deleted_date"`

	ProposerConfirmed bool `bson:"user_proposed_completion_confirmed" json:"user_proposed_completion_confirmed"`
	AccepterConfirmed bool `bson:"user_accepting_completion_confirmed" json:"user_accepting_completion_confirmed"`

	ProposerSatisfied *bool `bson:"user_1_trade_satisfaction" json:"user_1_trade_satisfaction"`
	AccepterSatisfied *bool `bson:"user_2_trade_satisfaction" json:"user_2_trade_satisfaction"`

	LastUpdate *time.Time `bson:"last_update" json:"last_update"`
}

// MigrationStats tracks import progress for the final summary.
type MigrationStats struct {
	InstancesRead    int
	InstancesWritten int
	InstancesSkipped int
	TradesRead       int
	TradesWritten    int
	TradesSkipped    int
	StartedAt        time.Time
}
