package store

// CreateStoreRequest creates a branch office record.
type CreateStoreRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Location string `json:"location" validate:"omitempty,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
}

// UpdateStoreRequest carries a partial store update.
type UpdateStoreRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Location *string `json:"location" validate:"omitempty,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
}
