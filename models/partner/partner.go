package partner

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartnerType separates pickup partners (collect goods from senders) from
// delivery partners (carry goods in the destination country).
type PartnerType string

const (
	PartnerTypePickup   PartnerType = "pickup"
	PartnerTypeDelivery PartnerType = "delivery"
)

func (pt PartnerType) String() string {
	return string(pt)
}

func (pt PartnerType) IsValid() bool {
	switch pt {
	case PartnerTypePickup, PartnerTypeDelivery:
		return true
	default:
		return false
	}
}

// Partner represents an external pickup or delivery partner.
type Partner struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string      `gorm:"type:varchar(255);not null;index" json:"name"`
	PartnerType PartnerType `gorm:"type:varchar(20);not null;index" json:"partner_type"`
	Phone       string      `gorm:"type:varchar(20)" json:"phone"`
	Location    string      `gorm:"type:varchar(255)" json:"location"`

	// Price is the delivery partner's per-shipment charge, added to price
	// listings that select the partner.
	Price decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"price"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (Partner) TableName() string {
	return "partners"
}
