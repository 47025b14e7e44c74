package pickupassign

// LRNumberInput is one lorry receipt in a pickup assignment payload.
type LRNumberInput struct {
	Number string `json:"number" validate:"required,min=1,max=100"`
	Status string `json:"status" validate:"omitempty,oneof='Collected' 'Not Collected'"`
}

// CreatePickupAssignRequest assigns a transport partner to a set of lorry
// receipts. At least one LR number is required.
type CreatePickupAssignRequest struct {
	PartnerID  uint            `json:"partner_id" validate:"required"`
	PickupDate string          `json:"pickup_date" validate:"required"`
	Notes      string          `json:"notes"`
	LRNumbers  []LRNumberInput `json:"lr_numbers" validate:"required,min=1,dive"`
}

// UpdatePickupAssignRequest carries a partial assignment update.
type UpdatePickupAssignRequest struct {
	PartnerID  *uint           `json:"partner_id"`
	PickupDate *string         `json:"pickup_date"`
	Notes      *string         `json:"notes"`
	LRNumbers  []LRNumberInput `json:"lr_numbers" validate:"omitempty,min=1,dive"`
}

// UpdateLRStatusRequest flips the collection status of a single LR number
// inside an assignment.
type UpdateLRStatusRequest struct {
	LRNumberID uint   `json:"lr_number_id" validate:"required"`
	Status     string `json:"status" validate:"required,oneof='Collected' 'Not Collected'"`
}
