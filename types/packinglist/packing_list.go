package packinglist

import (
	bundleTypes "freight-forward/types/bundle"
)

// CreatePackingListRequest creates a packing list for a booking, optionally
// together with its initial bundles. The packing list code is generated
// server side.
type CreatePackingListRequest struct {
	BookingID     uint                     `json:"booking_id" validate:"required"`
	PackingStatus string                   `json:"packing_status" validate:"omitempty,oneof=pending in_progress completed"`
	Notes         string                   `json:"notes"`
	Bundles       []bundleTypes.BundleInput `json:"bundles" validate:"omitempty,dive"`
}

// UpdatePackingListRequest carries a partial packing list update.
type UpdatePackingListRequest struct {
	PackingStatus *string `json:"packing_status" validate:"omitempty,oneof=pending in_progress completed"`
	Notes         *string `json:"notes"`
}
