package reminder

import (
	"time"

	"freight-forward/models/customer"
)

// Reminder is a dated back-office note, optionally linked to a customer and
// optionally dispatched over WhatsApp. A failed dispatch never rolls the
// reminder back; the error is recorded on the row instead.
type Reminder struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Date        time.Time `gorm:"not null;index" json:"date"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Purpose     string    `gorm:"type:varchar(255);not null" json:"purpose"`

	CustomerID *uint              `gorm:"index" json:"customer_id,omitempty"`
	Customer   *customer.Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	// WhatsApp delivery tracking. Sending is attempted at most once per
	// create/update unless explicitly re-triggered.
	Whatsapp       bool       `gorm:"default:false" json:"whatsapp"`
	WhatsappSent   bool       `gorm:"default:false" json:"whatsapp_sent"`
	WhatsappSentAt *time.Time `json:"whatsapp_sent_at,omitempty"`
	WhatsappError  *string    `gorm:"type:text" json:"whatsapp_error,omitempty"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (Reminder) TableName() string {
	return "reminders"
}
