package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerType discriminates which optional fields are meaningful on a
// customer record.
type CustomerType string

const (
	CustomerTypeSender   CustomerType = "Sender"
	CustomerTypeReceiver CustomerType = "Receiver"
)

func (ct CustomerType) String() string {
	return string(ct)
}

func (ct CustomerType) IsValid() bool {
	switch ct {
	case CustomerTypeSender, CustomerTypeReceiver:
		return true
	default:
		return false
	}
}

// Customer represents a sender or receiver party of a booking.
// Sender-only fields (AccountDetails) and receiver-only fields (Branches,
// Payments) are gated at write time by customer type; the storage layer does
// not enforce the exclusion.
type Customer struct {
	ID           uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerType CustomerType `gorm:"type:varchar(20);not null;index" json:"customer_type"`
	Name         string       `gorm:"type:varchar(255);not null;index" json:"name"`
	Phone        string       `gorm:"type:varchar(20)" json:"phone"`
	Email        *string      `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address      string       `gorm:"type:text" json:"address"`

	// Sender only
	AccountDetails *string `gorm:"type:text" json:"account_details,omitempty"`

	// Receiver only
	Branches []CustomerBranch  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"branches,omitempty"`
	Payments []CustomerPayment `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"payment_history,omitempty"`

	Credit   decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"credit"`
	Discount decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"discount"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}

// CustomerBranch is a receiver-side branch office goods can be delivered to.
type CustomerBranch struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Location   string    `gorm:"type:varchar(255)" json:"location"`
	Phone      string    `gorm:"type:varchar(20)" json:"phone"`
	Contact    string    `gorm:"type:varchar(255)" json:"contact"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CustomerBranch) TableName() string {
	return "customer_branches"
}

// CustomerPayment is one receiver payment history row.
type CustomerPayment struct {
	ID         uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID uint            `gorm:"not null;index" json:"customer_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	PaidAt     time.Time       `gorm:"not null" json:"paid_at"`
	Reference  string          `gorm:"type:varchar(255)" json:"reference"`
	Notes      string          `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (CustomerPayment) TableName() string {
	return "customer_payments"
}

// HasBranch reports whether the receiver owns a branch with the exact given
// name. Matching is case-sensitive.
func (c *Customer) HasBranch(name string) bool {
	for _, b := range c.Branches {
		if b.Name == name {
			return true
		}
	}
	return false
}
