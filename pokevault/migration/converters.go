// converters.go
package migration

import (
	"strings"
	"time"

	"github.com/trainerlab/pokevault/pokevault/database/models"
)

func convertInstance(li LegacyInstance) *models.Instance {
	now := time.Now()

	lastUpdate := now
	if li.LastUpdate != nil {
		lastUpdate = *li.LastUpdate
	}

	var stats *models.InstanceStats
	if li.CP != nil || li.HP != nil || li.Level != nil {
		stats = &models.InstanceStats{
			CP:    li.CP,
			HP:    li.HP,
			Level: li.Level,
		}
	}

	return &models.Instance{
		InstanceID:    li.InstanceID,
		Username:      strings.TrimSpace(li.Username),
		VariantID:     li.VariantID,
		SpeciesID:     li.SpeciesID,
		Caught:        li.IsCaught && !li.Mirror,
		ForTrade:      li.IsForTrade,
		Wanted:        li.IsWanted,
		Mirror:        li.Mirror,
		Favorite:      li.Favorite,
		MostWanted:    li.MostWanted,
		Registered:    li.Registered,
		Shiny:         li.Shiny,
		Shadow:        li.Shadow,
		Mega:          li.Mega,
		Fused:         li.Fused,
		Dynamax:       li.Dynamax,
		Gigantamax:    li.Gigantamax,
		CostumeID:     li.CostumeID,
		Form:          li.Form,
		Stats:         stats,
		NotTradeList:  li.NotTradeList,
		NotWantedList: li.NotWantedList,
		TradeFilters:  li.TradeFilters,
		LastUpdate:    lastUpdate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func convertTrade(lt LegacyTrade) *models.Trade {
	now := time.Now()

	lastUpdate := now
	if lt.LastUpdate != nil {
		lastUpdate = *lt.LastUpdate
	}

	return &models.Trade{
		TradeID:             lt.TradeID,
		Status:              convertStatus(lt.Status),
		UsernameProposed:    strings.TrimSpace(lt.UsernameProposed),
		UsernameAccepting:   strings.TrimSpace(lt.UsernameAccepting),
		ProposedInstanceID:  lt.ProposedInstanceID,
		AcceptingInstanceID: lt.AcceptingInstanceID,
		ProposalDate:        lt.ProposalDate,
		AcceptedDate:        lt.AcceptedDate,
		CompletedDate:       lt.CompletedDate,
		CancelledDate:       lt.CancelledDate,
		CancelledBy:         lt.CancelledBy,
		DeletedDate:         lt.DeletedDate,
		ProposerConfirmed:   lt.ProposerConfirmed,
		AccepterConfirmed:   lt.AccepterConfirmed,
		ProposerSatisfied:   lt.ProposerSatisfied,
		AccepterSatisfied:   lt.AccepterSatisfied,
		LastUpdate:          lastUpdate,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func convertStatus(raw string) models.TradeStatus {
	switch models.TradeStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case models.TradeProposed:
		return models.TradeProposed
	case models.TradePending:
		return models.TradePending
	case models.TradeCompleted:
		return models.TradeCompleted
	case models.TradeCancelled:
		return models.TradeCancelled
	case models.TradeDenied:
		return models.TradeDenied
	default:
		// unknown legacy statuses land on deleted rather than reviving a
		// proposal the old client considered dead
		return models.TradeDeleted
	}
}
