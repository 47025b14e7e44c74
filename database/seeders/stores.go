package seeders

import (
	"errors"

	"freight-forward/logger"
	store_model "freight-forward/models/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedStores creates the head-office store record when the table is empty so
// a fresh deployment is usable immediately.
func SeedStores(db *gorm.DB) error {
	var existing store_model.Store
	err := db.First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	headOffice := store_model.Store{
		StoreCode: "ST-" + uuid.NewString()[:8],
		Name:      "Head Office",
		Location:  "Central Warehouse",
		CreatedBy: "seeder",
	}

	if err := db.Create(&headOffice).Error; err != nil {
		return err
	}
	logger.Success("Seeded default head-office store")
	return nil
}
