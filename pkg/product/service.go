package product

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

// Sellable returns all products with sale_ok set, ordered by name.
func (s *Service) Sellable(ctx context.Context) ([]Product, error) {
	count, err := s.odoo.SearchCount(ctx, productModel, sellableDomain)
	if err != nil {
		return nil, fmt.Errorf("product: can't count products, %w", err)
	}
	if count == 0 {
		return []Product{}, nil
	}

	products := []Product{}
	err = s.odoo.SearchRead(ctx, productModel, odoo.SearchReadParams{
		Domain: sellableDomain,
		Fields: productFields,
		Limit:  count,
		Order:  "name asc",
	}, &products)
	if err != nil {
		return nil, fmt.Errorf("product: can't read products, %w", err)
	}
	return products, nil
}
