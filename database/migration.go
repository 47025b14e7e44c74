package database

import (
	"fmt"

	"freight-forward/logger"
	"freight-forward/models/booking"
	"freight-forward/models/bundle"
	"freight-forward/models/container"
	"freight-forward/models/customer"
	log_model "freight-forward/models/log"
	"freight-forward/models/packinglist"
	"freight-forward/models/partner"
	"freight-forward/models/pickupassign"
	"freight-forward/models/pricelisting"
	"freight-forward/models/reminder"
	"freight-forward/models/store"
	"freight-forward/models/user"

	"gorm.io/gorm"
)

// RunStartupMigration brings the schema up to date. It runs once at process
// start, before the HTTP listener is opened; no schema work happens on the
// request path.
func RunStartupMigration(db *gorm.DB) error {
	if err := dropLegacyIndexes(db); err != nil {
		return err
	}
	if err := autoMigrate(db); err != nil {
		return err
	}
	if err := createForeignKeyConstraints(db); err != nil {
		return err
	}
	return createIndexes(db)
}

// dropLegacyIndexes removes indexes left behind by earlier schema versions.
// Older deployments carried a non-unique index on bookings.booking_code that
// shadowed the unique one; dropping is idempotent, so re-running is safe.
func dropLegacyIndexes(db *gorm.DB) error {
	legacy := []string{
		"DROP INDEX IF EXISTS idx_bookings_booking_code_old",
		"DROP INDEX IF EXISTS idx_containers_code_old",
		"DROP INDEX IF EXISTS idx_packing_lists_booking_ref",
	}

	for _, stmt := range legacy {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to drop legacy index: %w", err)
		}
	}
	return nil
}

// autoMigrate runs auto migration for all models in dependency stages.
func autoMigrate(db *gorm.DB) error {
	// Stage 1: Core foundation models
	stage1Models := []interface{}{
		&user.User{},
		&store.Store{},
		&partner.Partner{},
		&customer.Customer{},
		&customer.CustomerBranch{},
		&customer.CustomerPayment{},
	}

	for _, model := range stage1Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: Models with dependencies on Stage 1
	stage2Models := []interface{}{
		&booking.Booking{},
		&booking.BookingStatusEvent{},
		&container.Container{},
		&pickupassign.PickupAssign{},
		&pickupassign.LRNumber{},
		&pricelisting.PriceListing{},
		&reminder.Reminder{},
	}

	for _, model := range stage2Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: Packing structures built on bookings and containers
	stage3Models := []interface{}{
		&packinglist.PackingList{},
		&bundle.Bundle{},
		&bundle.BundleProduct{},
	}

	for _, model := range stage3Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 4: Logging
	if err := db.AutoMigrate(&log_model.Log{}); err != nil {
		return fmt.Errorf("failed to migrate %T: %w", &log_model.Log{}, err)
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(name)",
		"CREATE INDEX IF NOT EXISTS idx_customers_customer_type ON customers(customer_type)",
		"CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)",
		"CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date)",
		"CREATE INDEX IF NOT EXISTS idx_bundles_ready_to_ship_status ON bundles(ready_to_ship_status)",
		"CREATE INDEX IF NOT EXISTS idx_reminders_date ON reminders(date)",
		"CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)",
		"CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)",
	}

	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration
func createForeignKeyConstraints(db *gorm.DB) error {
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_bookings_sender",
			sql: `ALTER TABLE bookings ADD CONSTRAINT fk_bookings_sender
				  FOREIGN KEY (sender_id) REFERENCES customers(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_bookings_receiver",
			sql: `ALTER TABLE bookings ADD CONSTRAINT fk_bookings_receiver
				  FOREIGN KEY (receiver_id) REFERENCES customers(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_packing_lists_booking",
			sql: `ALTER TABLE packing_lists ADD CONSTRAINT fk_packing_lists_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_bundles_packing_list",
			sql: `ALTER TABLE bundles ADD CONSTRAINT fk_bundles_packing_list
				  FOREIGN KEY (packing_list_id) REFERENCES packing_lists(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_pickup_assigns_partner",
			sql: `ALTER TABLE pickup_assigns ADD CONSTRAINT fk_pickup_assigns_partner
				  FOREIGN KEY (partner_id) REFERENCES partners(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
	}

	for _, constraint := range constraints {
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		err := db.Raw(checkSQL, constraint.name).Scan(&exists).Error
		if err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if !exists {
			if err := db.Exec(constraint.sql).Error; err != nil {
				logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
			} else {
				logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
			}
		}
	}

	return nil
}
