package crm

import "github.com/etc-team/bestellung/pkg/odoo"

const (
	leadModel    = "crm.lead"
	partnerModel = "res.partner"

	// LeadsLimit caps the raw lead listing.
	LeadsLimit = 500
)

var opportunityDomain = odoo.Domain{odoo.Cond("type", "=", "opportunity")}

var opportunityFields = []string{
	"id", "name", "partner_id", "partner_name", "contact_name", "email_from", "phone",
	"street", "street2", "city", "zip", "stage_id", "user_id", "create_date",
}

var partnerFields = []string{
	"id", "name", "street", "street2", "city", "zip", "email", "phone", "x_studio_geburtstag",
}

var leadFields = []string{
	"id", "name", "partner_name", "email_from", "expected_revenue", "stage_id", "user_id", "create_date",
}

// Partner is the linked contact card (res.partner) of an opportunity.
type Partner struct {
	Name       odoo.String `json:"name,omitempty"`
	Street     odoo.String `json:"street,omitempty"`
	Street2    odoo.String `json:"street2,omitempty"`
	City       odoo.String `json:"city,omitempty"`
	Zip        odoo.String `json:"zip,omitempty"`
	Email      odoo.String `json:"email,omitempty"`
	Phone      odoo.String `json:"phone,omitempty"`
	Geburtstag odoo.String `json:"geburtstag,omitempty"`
}

type partnerRow struct {
	ID         int64       `json:"id"`
	Name       odoo.String `json:"name"`
	Street     odoo.String `json:"street"`
	Street2    odoo.String `json:"street2"`
	City       odoo.String `json:"city"`
	Zip        odoo.String `json:"zip"`
	Email      odoo.String `json:"email"`
	Phone      odoo.String `json:"phone"`
	Geburtstag odoo.String `json:"x_studio_geburtstag"`
}

func (r partnerRow) partner() *Partner {
	return &Partner{
		Name:       r.Name,
		Street:     r.Street,
		Street2:    r.Street2,
		City:       r.City,
		Zip:        r.Zip,
		Email:      r.Email,
		Phone:      r.Phone,
		Geburtstag: r.Geburtstag,
	}
}

// Opportunity is a crm.lead of type opportunity, with its contact attached
// when partner_id is set.
type Opportunity struct {
	ID          int64         `json:"id"`
	Name        odoo.String   `json:"name,omitempty"`
	PartnerName odoo.String   `json:"partner_name,omitempty"`
	ContactName odoo.String   `json:"contact_name,omitempty"`
	EmailFrom   odoo.String   `json:"email_from,omitempty"`
	Phone       odoo.String   `json:"phone,omitempty"`
	Street      odoo.String   `json:"street,omitempty"`
	Street2     odoo.String   `json:"street2,omitempty"`
	City        odoo.String   `json:"city,omitempty"`
	Zip         odoo.String   `json:"zip,omitempty"`
	Stage       odoo.Many2One `json:"stage_id"`
	User        odoo.Many2One `json:"user_id"`
	CreateDate  odoo.String   `json:"create_date,omitempty"`
	PartnerID   odoo.Many2One `json:"partner_id"`
	Partner     *Partner      `json:"partner,omitempty"`
}

// Lead is a row of the raw crm.lead listing.
type Lead struct {
	ID              int64         `json:"id"`
	Name            odoo.String   `json:"name,omitempty"`
	PartnerName     odoo.String   `json:"partner_name,omitempty"`
	EmailFrom       odoo.String   `json:"email_from,omitempty"`
	ExpectedRevenue float64       `json:"expected_revenue"`
	Stage           odoo.Many2One `json:"stage_id"`
	User            odoo.Many2One `json:"user_id"`
	CreateDate      odoo.String   `json:"create_date,omitempty"`
}
