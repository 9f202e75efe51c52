package product

import "github.com/etc-team/bestellung/pkg/odoo"

const productModel = "product.product"

var sellableDomain = odoo.Domain{odoo.Cond("sale_ok", "=", true)}

var productFields = []string{"id", "name", "list_price", "default_code", "taxes_id"}

// Product is a sellable product.product record.
type Product struct {
	ID          int64       `json:"id"`
	Name        odoo.String `json:"name,omitempty"`
	ListPrice   float64     `json:"list_price"`
	DefaultCode odoo.String `json:"default_code,omitempty"`
	TaxIDs      odoo.IDs    `json:"taxes_id"`
}
