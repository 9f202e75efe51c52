package crm

import (
	"context"
	"fmt"

	"github.com/etc-team/bestellung/pkg/odoo"
)

type IOdoo interface {
	SearchCount(ctx context.Context, model string, domain odoo.Domain) (int, error)
	SearchRead(ctx context.Context, model string, params odoo.SearchReadParams, out any) error
}

type Service struct {
	odoo IOdoo
}

func NewService(o IOdoo) *Service {
	return &Service{odoo: o}
}

// Opportunities returns every opportunity, newest first, each with its
// linked contact card loaded from res.partner.
func (s *Service) Opportunities(ctx context.Context) ([]Opportunity, error) {
	count, err := s.odoo.SearchCount(ctx, leadModel, opportunityDomain)
	if err != nil {
		return nil, fmt.Errorf("crm: can't count opportunities, %w", err)
	}
	if count == 0 {
		return []Opportunity{}, nil
	}

	var opps []Opportunity
	err = s.odoo.SearchRead(ctx, leadModel, odoo.SearchReadParams{
		Domain: opportunityDomain,
		Fields: opportunityFields,
		Limit:  count,
		Order:  "create_date desc",
	}, &opps)
	if err != nil {
		return nil, fmt.Errorf("crm: can't read opportunities, %w", err)
	}

	partners, err := s.partners(ctx, partnerIDs(opps))
	if err != nil {
		return nil, err
	}
	for i := range opps {
		if p, ok := partners[opps[i].PartnerID.ID]; ok {
			opps[i].Partner = p
		}
	}
	return opps, nil
}

func (s *Service) partners(ctx context.Context, ids []int64) (map[int64]*Partner, error) {
	partners := make(map[int64]*Partner, len(ids))
	if len(ids) == 0 {
		return partners, nil
	}

	var rows []partnerRow
	err := s.odoo.SearchRead(ctx, partnerModel, odoo.SearchReadParams{
		Domain: odoo.Domain{odoo.Cond("id", "in", ids)},
		Fields: partnerFields,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("crm: can't read partners, %w", err)
	}
	for _, r := range rows {
		if r.ID != 0 {
			partners[r.ID] = r.partner()
		}
	}
	return partners, nil
}

// partnerIDs returns the distinct linked partner ids in first-seen order.
func partnerIDs(opps []Opportunity) []int64 {
	seen := make(map[int64]struct{}, len(opps))
	ids := make([]int64, 0, len(opps))
	for _, o := range opps {
		id := o.PartnerID.ID
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Leads returns the newest crm.lead records, leads and opportunities alike.
func (s *Service) Leads(ctx context.Context) ([]Lead, error) {
	leads := []Lead{}
	err := s.odoo.SearchRead(ctx, leadModel, odoo.SearchReadParams{
		Fields: leadFields,
		Limit:  LeadsLimit,
		Order:  "create_date desc",
	}, &leads)
	if err != nil {
		return nil, fmt.Errorf("crm: can't read leads, %w", err)
	}
	return leads, nil
}
