package booking

import (
	"time"

	"freight-forward/models/customer"
	"freight-forward/models/partner"
)

// Booking represents a shipment arrangement between a sender and a receiver
// customer, optionally routed through a pickup partner.
type Booking struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// BookingCode is generated once at creation and immutable thereafter.
	// The unique index is the authority for collision detection.
	BookingCode string `gorm:"type:varchar(40);not null;uniqueIndex" json:"booking_code"`

	SenderID uint              `gorm:"not null;index" json:"sender_id"`
	Sender   customer.Customer `gorm:"foreignKey:SenderID" json:"sender"`

	ReceiverID uint              `gorm:"not null;index" json:"receiver_id"`
	Receiver   customer.Customer `gorm:"foreignKey:ReceiverID" json:"receiver"`

	// ReceiverBranch must match one of the receiver's branch names when set.
	ReceiverBranch *string `gorm:"type:varchar(255)" json:"receiver_branch,omitempty"`

	// Pickup is a tagged variant: either an external partner reference or
	// one of the self/central sentinels.
	PickupKind      PickupKind       `gorm:"type:varchar(20);not null;default:self" json:"pickup_kind"`
	PickupPartnerID *uint            `gorm:"index" json:"pickup_partner_id,omitempty"`
	PickupPartner   *partner.Partner `gorm:"foreignKey:PickupPartnerID" json:"pickup_partner,omitempty"`

	Date                  time.Time `gorm:"not null;index" json:"date"`
	ExpectedReceivingDate time.Time `gorm:"not null" json:"expected_receiving_date"`

	BundleCount int           `gorm:"not null" json:"bundle_count"`
	Status      BookingStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	Notes       string        `gorm:"type:text" json:"notes"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}
