package bundle

// ProductInput is one product line item in a bundle payload.
type ProductInput struct {
	ProductID       string `json:"id" validate:"required,min=1,max=100"`
	ProductName     string `json:"product_name" validate:"required,min=1,max=255"`
	ProductQuantity int    `json:"product_quantity" validate:"min=0"`
	Fabric          string `json:"fabric" validate:"omitempty,max=255"`
	Description     string `json:"description"`
}

// BundleInput is one bundle inside a packing list create payload.
type BundleInput struct {
	BundleNumber int            `json:"bundle_number" validate:"required,min=1"`
	Status       string         `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority     string         `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Weight       float64        `json:"weight" validate:"omitempty,min=0"`
	Notes        string         `json:"notes"`
	Products     []ProductInput `json:"products" validate:"omitempty,dive"`
}

// CreateBundleRequest adds a bundle to an existing packing list.
type CreateBundleRequest struct {
	PackingListID uint           `json:"packing_list_id" validate:"required"`
	BundleNumber  int            `json:"bundle_number" validate:"required,min=1"`
	Status        string         `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority      string         `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Weight        float64        `json:"weight" validate:"omitempty,min=0"`
	Notes         string         `json:"notes"`
	Products      []ProductInput `json:"products" validate:"omitempty,dive"`
}

// UpdateBundleRequest carries a partial bundle update.
type UpdateBundleRequest struct {
	BundleNumber *int           `json:"bundle_number" validate:"omitempty,min=1"`
	Status       *string        `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
	Priority     *string        `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Weight       *float64       `json:"weight" validate:"omitempty,min=0"`
	Notes        *string        `json:"notes"`
	Products     []ProductInput `json:"products" validate:"omitempty,dive"`
}

// ReadyToShipRequest updates the shipping stage of a completed bundle.
// A container may only be referenced while the status is stuffed or
// dispatched; any other status clears the reference.
type ReadyToShipRequest struct {
	ReadyToShipStatus string  `json:"ready_to_ship_status" validate:"required,oneof=pending stuffed dispatched"`
	ContainerID       *uint   `json:"container_id"`
	Priority          *string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}
