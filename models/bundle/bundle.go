package bundle

import (
	"time"

	"freight-forward/models/container"
)

// Bundle is a physical package unit within a packing list, carrying
// individual product line items. (packing_list_id, bundle_number) is unique.
type Bundle struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	PackingListID uint `gorm:"not null;index;uniqueIndex:idx_bundles_list_number" json:"packing_list_id"`
	BundleNumber  int  `gorm:"not null;uniqueIndex:idx_bundles_list_number" json:"bundle_number"`

	Status   BundleStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`
	Priority Priority     `gorm:"type:varchar(20);not null;default:normal" json:"priority"`

	// Ready-to-Ship workflow. ContainerID may only be set while the
	// ready-to-ship status is stuffed or dispatched; it is cleared otherwise.
	ReadyToShipStatus ReadyToShipStatus    `gorm:"type:varchar(20);not null;default:pending;index" json:"ready_to_ship_status"`
	ContainerID       *uint                `gorm:"index" json:"container_id,omitempty"`
	Container         *container.Container `gorm:"foreignKey:ContainerID" json:"container,omitempty"`

	Products []BundleProduct `gorm:"foreignKey:BundleID;constraint:OnDelete:CASCADE" json:"products,omitempty"`

	Weight    float64    `gorm:"default:0" json:"weight"`
	Notes     string     `gorm:"type:text" json:"notes"`
	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

func (Bundle) TableName() string {
	return "bundles"
}

// BundleProduct is one product line item inside a bundle.
type BundleProduct struct {
	ID       uint `gorm:"primaryKey;autoIncrement" json:"id"`
	BundleID uint `gorm:"not null;index" json:"bundle_id"`

	ProductID       string `gorm:"type:varchar(100);not null" json:"product_id"`
	ProductName     string `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductQuantity int    `gorm:"not null" json:"product_quantity"`
	Fabric          string `gorm:"type:varchar(255)" json:"fabric"`
	Description     string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BundleProduct) TableName() string {
	return "bundle_products"
}
