package codegen

import (
	"errors"
	"fmt"
	"strings"
	"time"

	booking_model "freight-forward/models/booking"
	container_model "freight-forward/models/container"
	packinglist_model "freight-forward/models/packinglist"

	"gorm.io/gorm"
)

// ErrCodeExhausted is returned when the bounded retry budget for a unique
// code is spent without a successful insert.
var ErrCodeExhausted = errors.New("unable to generate unique code")

const (
	bookingProbeLimit     = 999
	bookingInsertAttempts = 3
	containerAttempts     = 5
	containerRetryDelay   = 50 * time.Millisecond
)

// NamePart normalizes a customer name into its code fragment: everything
// outside ASCII A-Z/0-9 is stripped (accented letters included, so codes
// stay in the documented alphabet), uppercased, truncated to 3 characters.
func NamePart(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		default:
			continue
		}
		if b.Len() >= 3 {
			break
		}
	}
	return b.String()
}

// BookingCode derives a candidate booking code of the form
// SENDER3_RECEIVER3_YYYYMMDD_SEQ, probing sequence numbers 001..999 against
// the bookings table. When all 999 are taken it falls back to the last six
// digits of the current timestamp; the fallback is not re-probed, which is
// an accepted, extremely low probability non-uniqueness risk.
func BookingCode(db *gorm.DB, senderName, receiverName string, date time.Time) (string, error) {
	prefix := fmt.Sprintf("%s_%s_%s", NamePart(senderName), NamePart(receiverName), date.Format("20060102"))

	for seq := 1; seq <= bookingProbeLimit; seq++ {
		candidate := fmt.Sprintf("%s_%03d", prefix, seq)

		var count int64
		if err := db.Model(&booking_model.Booking{}).Where("booking_code = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
	}

	suffix := time.Now().UnixNano() % 1000000
	return fmt.Sprintf("%s_%06d", prefix, suffix), nil
}

// CreateBookingWithUniqueCode assigns a candidate code and inserts the
// booking. The unique index on booking_code is the authoritative collision
// signal; a duplicate-key error triggers a fresh probe, bounded to a few
// attempts.
func CreateBookingWithUniqueCode(db *gorm.DB, bk *booking_model.Booking, senderName, receiverName string) error {
	for attempt := 0; attempt < bookingInsertAttempts; attempt++ {
		code, err := BookingCode(db, senderName, receiverName, bk.Date)
		if err != nil {
			return err
		}
		bk.BookingCode = code

		err = db.Create(bk).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return ErrCodeExhausted
}

// ContainerCode derives the next candidate container code for the given
// month: prefix CNT + YY + MM, then one past the highest existing 4-digit
// suffix under that prefix.
func ContainerCode(db *gorm.DB, t time.Time) (string, error) {
	prefix := "CNT" + t.Format("0601")

	var codes []string
	err := db.Model(&container_model.Container{}).
		Where("container_code LIKE ?", prefix+"%").
		Pluck("container_code", &codes).Error
	if err != nil {
		return "", err
	}

	highest := 0
	for _, code := range codes {
		if len(code) < 4 {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(code[len(code)-4:], "%04d", &n); err == nil && n > highest {
			highest = n
		}
	}

	return fmt.Sprintf("%s%04d", prefix, highest+1), nil
}

// CreateContainerWithUniqueCode generates a code and inserts the container,
// retrying the whole generate-and-insert cycle on duplicate-key collisions
// with a short delay between attempts. After the attempts are spent the
// caller gets ErrCodeExhausted rather than an unbounded loop.
func CreateContainerWithUniqueCode(db *gorm.DB, cn *container_model.Container) error {
	for attempt := 0; attempt < containerAttempts; attempt++ {
		code, err := ContainerCode(db, time.Now())
		if err != nil {
			return err
		}
		cn.ContainerCode = code

		err = db.Create(cn).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		time.Sleep(containerRetryDelay)
	}
	return ErrCodeExhausted
}

// PackingListCode derives the next candidate code of the form
// PL-<year>-<seq>, with the sequence restarting each year.
func PackingListCode(db *gorm.DB, year int) (string, error) {
	prefix := fmt.Sprintf("PL-%d-", year)

	var codes []string
	err := db.Model(&packinglist_model.PackingList{}).
		Where("packing_list_code LIKE ?", prefix+"%").
		Pluck("packing_list_code", &codes).Error
	if err != nil {
		return "", err
	}

	highest := 0
	for _, code := range codes {
		var n int
		if _, err := fmt.Sscanf(strings.TrimPrefix(code, prefix), "%d", &n); err == nil && n > highest {
			highest = n
		}
	}

	return fmt.Sprintf("%s%03d", prefix, highest+1), nil
}

// IsDuplicateKey reports whether err is the storage layer's unique
// constraint violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
