package pricelisting

import (
	"github.com/shopspring/decimal"
)

// CreatePriceListingRequest creates a route price. TotalAmount is derived
// server side from amount plus the selected delivery partner's price.
type CreatePriceListingRequest struct {
	FromCountry       string          `json:"from_country" validate:"required,min=1,max=100"`
	ToCountry         string          `json:"to_country" validate:"required,min=1,max=100"`
	Amount            decimal.Decimal `json:"amount" validate:"required"`
	DeliveryPartnerID *uint           `json:"delivery_partner_id"`
}

// UpdatePriceListingRequest carries a partial price listing update. The
// total is recomputed when amount or partner selection changes.
type UpdatePriceListingRequest struct {
	FromCountry       *string          `json:"from_country" validate:"omitempty,min=1,max=100"`
	ToCountry         *string          `json:"to_country" validate:"omitempty,min=1,max=100"`
	Amount            *decimal.Decimal `json:"amount"`
	DeliveryPartnerID *uint            `json:"delivery_partner_id"`
	ClearPartner      bool             `json:"clear_partner"`
}
