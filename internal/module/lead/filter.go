package lead

import (
	"github.com/google/uuid"

	"github.com/simp-lee/leadboard/internal/domain"
)

// Predicates builds the lead listing filter. Lead status is matched exactly
// unless it is "all"; the campaign filter matches campaign names through the
// listing's join.
func Predicates(p domain.PaginationParams) []domain.Predicate {
	var preds []domain.Predicate
	if p.Search != "" {
		preds = append(preds, domain.ContainsFold("leads.name", p.Search))
	}
	if p.Status != "" && p.Status != domain.LeadFilterAll {
		preds = append(preds, domain.Eq("leads.status", p.Status))
	}
	if p.Campaign != "" {
		preds = append(preds, domain.ContainsFold("campaigns.name", p.Campaign))
	}
	if p.CampaignID != "" {
		// An unparsable id must match nothing rather than reach the driver.
		id, err := uuid.Parse(p.CampaignID)
		if err != nil {
			id = uuid.Nil
		}
		preds = append(preds, domain.Eq("leads.campaign_id", id))
	}
	return preds
}
