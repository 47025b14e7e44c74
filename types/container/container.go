package container

import (
	"github.com/shopspring/decimal"
)

// CreateContainerRequest creates a container. The container code is
// generated server side; balance amount is derived from the two charges.
type CreateContainerRequest struct {
	VesselName     string           `json:"vessel_name" validate:"omitempty,max=255"`
	BookingCharge  *decimal.Decimal `json:"booking_charge"`
	AdvancePayment *decimal.Decimal `json:"advance_payment"`
	Status         string           `json:"status" validate:"omitempty,oneof=open stuffing dispatched arrived"`
	Notes          string           `json:"notes"`
}

// UpdateContainerRequest carries a partial container update. When either
// charge field is present the balance is recomputed against the stored value
// of the other.
type UpdateContainerRequest struct {
	VesselName     *string          `json:"vessel_name" validate:"omitempty,max=255"`
	BookingCharge  *decimal.Decimal `json:"booking_charge"`
	AdvancePayment *decimal.Decimal `json:"advance_payment"`
	Status         *string          `json:"status" validate:"omitempty,oneof=open stuffing dispatched arrived"`
	Notes          *string          `json:"notes"`
}
