package pricelisting

import (
	"time"

	"freight-forward/models/partner"

	"github.com/shopspring/decimal"
)

// PriceListing is a route price between two countries. TotalAmount is
// derived: amount plus the selected delivery partner's price, recomputed
// whenever amount or partner selection changes. The partner's price is read
// fresh at each recomputation; later partner price changes do not reflect
// retroactively into existing listings.
type PriceListing struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	FromCountry string `gorm:"type:varchar(100);not null;index" json:"from_country"`
	ToCountry   string `gorm:"type:varchar(100);not null;index" json:"to_country"`

	Amount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`

	DeliveryPartnerID *uint            `gorm:"index" json:"delivery_partner_id,omitempty"`
	DeliveryPartner   *partner.Partner `gorm:"foreignKey:DeliveryPartnerID" json:"delivery_partner,omitempty"`

	TotalAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_amount"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (PriceListing) TableName() string {
	return "price_listings"
}
