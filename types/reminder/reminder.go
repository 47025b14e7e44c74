package reminder

// CreateReminderRequest creates a dated reminder, optionally linked to a
// customer and optionally dispatched over WhatsApp on creation.
type CreateReminderRequest struct {
	Date        string `json:"date" validate:"required"`
	Description string `json:"description" validate:"required,min=1"`
	Purpose     string `json:"purpose" validate:"required,min=1,max=255"`
	Whatsapp    bool   `json:"whatsapp"`
	CustomerID  *uint  `json:"customer_id"`
}

// UpdateReminderRequest carries a partial reminder update.
type UpdateReminderRequest struct {
	Date        *string `json:"date"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Purpose     *string `json:"purpose" validate:"omitempty,min=1,max=255"`
	Whatsapp    *bool   `json:"whatsapp"`
	CustomerID  *uint   `json:"customer_id"`
}
