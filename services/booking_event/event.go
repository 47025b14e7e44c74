package booking_event

import (
	bookingModel "freight-forward/models/booking"

	"gorm.io/gorm"
)

// RecordStatusChange appends a status event row for a booking. Called inside
// the same transaction as the status write so history and state stay in step.
func RecordStatusChange(tx *gorm.DB, bookingID uint, status bookingModel.BookingStatus, changedBy string) error {
	ev := bookingModel.BookingStatusEvent{
		BookingID: bookingID,
		Status:    status,
		CreatedBy: changedBy,
	}
	return tx.Create(&ev).Error
}
