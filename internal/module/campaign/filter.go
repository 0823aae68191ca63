package campaign

import "github.com/simp-lee/leadboard/internal/domain"

// Predicates builds the campaign listing filter. The status filter accepts
// the aggregates "active" and "inactive"; "all" or an empty value disables
// it, and any other value matches that status exactly.
func Predicates(p domain.PaginationParams) []domain.Predicate {
	var preds []domain.Predicate
	if p.Search != "" {
		preds = append(preds, domain.ContainsFold("name", p.Search))
	}

	switch p.Status {
	case "", domain.CampaignFilterAll:
	case domain.CampaignFilterActive:
		preds = append(preds, domain.Eq("status", string(domain.CampaignActive)))
	case domain.CampaignFilterInactive:
		vs := make([]any, 0, len(domain.InactiveCampaignStatuses))
		for _, s := range domain.InactiveCampaignStatuses {
			vs = append(vs, string(s))
		}
		preds = append(preds, domain.In("status", vs...))
	default:
		preds = append(preds, domain.Eq("status", p.Status))
	}
	return preds
}
