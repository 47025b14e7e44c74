package pickupassign

import (
	"time"

	"freight-forward/models/partner"
)

// LRStatus is the collection status of a lorry-receipt number.
type LRStatus string

const (
	LRStatusCollected    LRStatus = "Collected"
	LRStatusNotCollected LRStatus = "Not Collected"
)

func (ls LRStatus) String() string {
	return string(ls)
}

func (ls LRStatus) IsValid() bool {
	switch ls {
	case LRStatusCollected, LRStatusNotCollected:
		return true
	default:
		return false
	}
}

// PickupAssign assigns a transport partner to collect a set of lorry
// receipts. Every assignment carries at least one LR number.
type PickupAssign struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	PartnerID uint            `gorm:"not null;index" json:"partner_id"`
	Partner   partner.Partner `gorm:"foreignKey:PartnerID" json:"partner"`

	PickupDate time.Time  `gorm:"not null" json:"pickup_date"`
	Notes      string     `gorm:"type:text" json:"notes"`
	LRNumbers  []LRNumber `gorm:"foreignKey:PickupAssignID;constraint:OnDelete:CASCADE" json:"lr_numbers"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (PickupAssign) TableName() string {
	return "pickup_assigns"
}

// LRNumber is one tracked lorry-receipt within a pickup assignment.
type LRNumber struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PickupAssignID uint      `gorm:"not null;index" json:"pickup_assign_id"`
	Number         string    `gorm:"type:varchar(100);not null" json:"number"`
	Status         LRStatus  `gorm:"type:varchar(20);not null;default:'Not Collected'" json:"status"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LRNumber) TableName() string {
	return "lr_numbers"
}
