package partner

import (
	"github.com/shopspring/decimal"
)

// CreatePartnerRequest creates a pickup or delivery partner.
type CreatePartnerRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=255"`
	PartnerType string           `json:"partner_type" validate:"required,oneof=pickup delivery"`
	Phone       string           `json:"phone" validate:"omitempty,max=20"`
	Location    string           `json:"location" validate:"omitempty,max=255"`
	Price       *decimal.Decimal `json:"price"`
}

// UpdatePartnerRequest carries a partial partner update.
type UpdatePartnerRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Phone    *string          `json:"phone" validate:"omitempty,max=20"`
	Location *string          `json:"location" validate:"omitempty,max=255"`
	Price    *decimal.Decimal `json:"price"`
}
