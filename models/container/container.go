package container

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContainerStatus is the container lifecycle status.
type ContainerStatus string

const (
	ContainerStatusOpen       ContainerStatus = "open"
	ContainerStatusStuffing   ContainerStatus = "stuffing"
	ContainerStatusDispatched ContainerStatus = "dispatched"
	ContainerStatusArrived    ContainerStatus = "arrived"
)

func (cs ContainerStatus) String() string {
	return string(cs)
}

func (cs ContainerStatus) IsValid() bool {
	switch cs {
	case ContainerStatusOpen, ContainerStatusStuffing, ContainerStatusDispatched, ContainerStatusArrived:
		return true
	default:
		return false
	}
}

// Container represents a shipping container bundles are stuffed into.
// BalanceAmount is derived: bookingCharge - advancePayment, recomputed on
// every create or update that touches either input.
type Container struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// ContainerCode format: CNT + YY + MM + 4-digit sequence. Unique index
	// is the authority for collision detection.
	ContainerCode string `gorm:"type:varchar(20);not null;uniqueIndex" json:"container_code"`

	VesselName string `gorm:"type:varchar(255)" json:"vessel_name"`

	BookingCharge  decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"booking_charge"`
	AdvancePayment decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"advance_payment"`
	BalanceAmount  decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"balance_amount"`

	Status ContainerStatus `gorm:"type:varchar(20);not null;default:open;index" json:"status"`
	Notes  string          `gorm:"type:text" json:"notes"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (Container) TableName() string {
	return "containers"
}
