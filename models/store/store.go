package store

import (
	"time"
)

// Store is a physical branch office of the forwarding business.
type Store struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreCode string     `gorm:"type:varchar(40);not null;uniqueIndex" json:"store_code"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Location  string     `gorm:"type:varchar(255)" json:"location"`
	Phone     string     `gorm:"type:varchar(20)" json:"phone"`
	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (Store) TableName() string {
	return "stores"
}
