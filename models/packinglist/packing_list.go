package packinglist

import (
	"time"

	"freight-forward/models/booking"
	"freight-forward/models/bundle"
)

// PackingStatus is the packing list lifecycle status.
type PackingStatus string

const (
	PackingStatusPending    PackingStatus = "pending"
	PackingStatusInProgress PackingStatus = "in_progress"
	PackingStatusCompleted  PackingStatus = "completed"
)

func (ps PackingStatus) String() string {
	return string(ps)
}

func (ps PackingStatus) IsValid() bool {
	switch ps {
	case PackingStatusPending, PackingStatusInProgress, PackingStatusCompleted:
		return true
	default:
		return false
	}
}

// CanBeDeleted returns true while the packing list has not been completed.
func (ps PackingStatus) CanBeDeleted() bool {
	return ps != PackingStatusCompleted
}

// PackingList records how a booking's goods were physically packed. Exactly
// one packing list may exist per booking (unique index on booking_id); it
// owns its bundles, which are cascade-deleted with it.
type PackingList struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// PackingListCode format: PL-<year>-<seq>, sequence restarts per year.
	PackingListCode string `gorm:"type:varchar(20);not null;uniqueIndex" json:"packing_list_code"`

	BookingID uint            `gorm:"not null;uniqueIndex" json:"booking_id"`
	Booking   booking.Booking `gorm:"foreignKey:BookingID" json:"booking"`

	PackingStatus PackingStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"packing_status"`
	Notes         string        `gorm:"type:text" json:"notes"`

	Bundles []bundle.Bundle `gorm:"foreignKey:PackingListID;constraint:OnDelete:CASCADE" json:"bundles,omitempty"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (PackingList) TableName() string {
	return "packing_lists"
}
