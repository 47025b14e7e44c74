package validation

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	booking_model "freight-forward/models/booking"
	bundle_model "freight-forward/models/bundle"
	customer_model "freight-forward/models/customer"
	packinglist_model "freight-forward/models/packinglist"
	partner_model "freight-forward/models/partner"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Error is a cross-entity validation failure carrying the HTTP status it
// should surface as.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func BadRequest(message string) *Error {
	return &Error{Status: fiber.StatusBadRequest, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: fiber.StatusNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Status: fiber.StatusConflict, Message: message}
}

// StatusOf maps an error to its HTTP status, defaulting to 500.
func StatusOf(err error) int {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Status
	}
	return fiber.StatusInternalServerError
}

// BookingRefs are the resolved related documents of a validated booking
// payload.
type BookingRefs struct {
	Sender          *customer_model.Customer
	Receiver        *customer_model.Customer
	PickupKind      booking_model.PickupKind
	PickupPartnerID *uint
}

// ResolvePickup maps the legacy pickup field (partner id digits, or the
// sentinels "Self" / "Central") onto the tagged pickup variant, verifying
// that a referenced partner exists and is a pickup partner.
func ResolvePickup(db *gorm.DB, raw string) (booking_model.PickupKind, *uint, error) {
	switch raw {
	case booking_model.PickupSentinelSelf:
		return booking_model.PickupKindSelf, nil, nil
	case booking_model.PickupSentinelCentral:
		return booking_model.PickupKindCentral, nil, nil
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return "", nil, BadRequest(fmt.Sprintf("pickup partner must be a partner id, %q or %q", booking_model.PickupSentinelSelf, booking_model.PickupSentinelCentral))
	}

	var p partner_model.Partner
	if err := db.First(&p, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, NotFound(fmt.Sprintf("pickup partner %d not found", id))
		}
		return "", nil, err
	}
	if p.PartnerType != partner_model.PartnerTypePickup {
		return "", nil, BadRequest(fmt.Sprintf("partner %d is not a pickup partner", id))
	}

	partnerID := uint(id)
	return booking_model.PickupKindPartner, &partnerID, nil
}

// ValidateBookingRefs enforces referential and type integrity for a booking
// payload: sender/receiver existence and customer type, branch match,
// pickup resolution, date ordering and bundle count.
func ValidateBookingRefs(db *gorm.DB, senderID, receiverID uint, receiverBranch *string, pickupRaw string, date, expectedReceivingDate time.Time, bundleCount int) (*BookingRefs, error) {
	var sender customer_model.Customer
	if err := db.First(&sender, senderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound(fmt.Sprintf("sender %d not found", senderID))
		}
		return nil, err
	}
	if sender.CustomerType != customer_model.CustomerTypeSender {
		return nil, BadRequest(fmt.Sprintf("customer %d is not a Sender", senderID))
	}

	var receiver customer_model.Customer
	if err := db.Preload("Branches").First(&receiver, receiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound(fmt.Sprintf("receiver %d not found", receiverID))
		}
		return nil, err
	}
	if receiver.CustomerType != customer_model.CustomerTypeReceiver {
		return nil, BadRequest(fmt.Sprintf("customer %d is not a Receiver", receiverID))
	}

	// Branch name must match exactly (case-sensitive) when the receiver has
	// branches at all.
	if receiverBranch != nil && *receiverBranch != "" && len(receiver.Branches) > 0 {
		if !receiver.HasBranch(*receiverBranch) {
			return nil, BadRequest(fmt.Sprintf("receiver branch %q does not match any branch of receiver %d", *receiverBranch, receiverID))
		}
	}

	pickupKind, pickupPartnerID, err := ResolvePickup(db, pickupRaw)
	if err != nil {
		return nil, err
	}

	if !expectedReceivingDate.After(date) {
		return nil, BadRequest("expected receiving date must be after the booking date")
	}
	if bundleCount < 1 {
		return nil, BadRequest("bundle count must be at least 1")
	}

	return &BookingRefs{
		Sender:          &sender,
		Receiver:        &receiver,
		PickupKind:      pickupKind,
		PickupPartnerID: pickupPartnerID,
	}, nil
}

// EnsureBookingExists fetches a booking or reports 404.
func EnsureBookingExists(db *gorm.DB, id uint) (*booking_model.Booking, error) {
	var bk booking_model.Booking
	if err := db.First(&bk, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound(fmt.Sprintf("booking %d not found", id))
		}
		return nil, err
	}
	return &bk, nil
}

// EnsurePackingListAvailable verifies that no other packing list already
// references the booking. The unique index on booking_id remains the final
// authority under concurrent writers; this pre-check yields the friendly
// conflict message.
func EnsurePackingListAvailable(db *gorm.DB, bookingID uint, excludeID uint) error {
	var count int64
	query := db.Model(&packinglist_model.PackingList{}).Where("booking_id = ?", bookingID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return Conflict(fmt.Sprintf("booking %d already has a packing list", bookingID))
	}
	return nil
}

// EnsurePackingListExists fetches a packing list or reports 404.
func EnsurePackingListExists(db *gorm.DB, id uint) (*packinglist_model.PackingList, error) {
	var pl packinglist_model.PackingList
	if err := db.First(&pl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound(fmt.Sprintf("packing list %d not found", id))
		}
		return nil, err
	}
	return &pl, nil
}

// EnsureBundleNumberAvailable verifies (packing list, bundle number)
// uniqueness. Same raciness caveat as packing lists: the composite unique
// index decides under concurrency.
func EnsureBundleNumberAvailable(db *gorm.DB, packingListID uint, bundleNumber int, excludeID uint) error {
	var count int64
	query := db.Model(&bundle_model.Bundle{}).
		Where("packing_list_id = ? AND bundle_number = ?", packingListID, bundleNumber)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return Conflict(fmt.Sprintf("bundle number %d already exists in packing list %d", bundleNumber, packingListID))
	}
	return nil
}
