package booking

// CreateBookingRequest creates a booking between an existing sender and
// receiver. PickupPartner is either a partner id in digits or one of the
// legacy sentinels "Self" / "Central".
type CreateBookingRequest struct {
	SenderID              uint    `json:"sender_id" validate:"required"`
	ReceiverID            uint    `json:"receiver_id" validate:"required"`
	ReceiverBranch        *string `json:"receiver_branch" validate:"omitempty,max=255"`
	PickupPartner         string  `json:"pickup_partner" validate:"required"`
	Date                  string  `json:"date" validate:"required"`
	ExpectedReceivingDate string  `json:"expected_receiving_date" validate:"required"`
	BundleCount           int     `json:"bundle_count" validate:"required,min=1"`
	Notes                 string  `json:"notes"`
}

// UpdateBookingRequest carries a partial booking update. BookingCode is not
// accepted here; the code is immutable after creation.
type UpdateBookingRequest struct {
	SenderID              *uint   `json:"sender_id"`
	ReceiverID            *uint   `json:"receiver_id"`
	ReceiverBranch        *string `json:"receiver_branch" validate:"omitempty,max=255"`
	PickupPartner         *string `json:"pickup_partner"`
	Date                  *string `json:"date"`
	ExpectedReceivingDate *string `json:"expected_receiving_date"`
	BundleCount           *int    `json:"bundle_count" validate:"omitempty,min=1"`
	Status                *string `json:"status" validate:"omitempty,oneof=pending success"`
	Notes                 *string `json:"notes"`
}
