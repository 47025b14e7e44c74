package validation

import (
	"testing"
	"time"

	bookingModel "freight-forward/models/booking"
	bundleModel "freight-forward/models/bundle"
	customerModel "freight-forward/models/customer"
	packingListModel "freight-forward/models/packinglist"
	partnerModel "freight-forward/models/partner"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&customerModel.Customer{},
		&customerModel.CustomerBranch{},
		&partnerModel.Partner{},
		&bookingModel.Booking{},
		&packingListModel.PackingList{},
		&bundleModel.Bundle{},
	))
	return db
}

func seedBookingFixtures(t *testing.T, db *gorm.DB) (sender, receiver customerModel.Customer, pickup partnerModel.Partner) {
	t.Helper()

	sender = customerModel.Customer{CustomerType: customerModel.CustomerTypeSender, Name: "Acme Exports", Phone: "01711111111"}
	receiver = customerModel.Customer{
		CustomerType: customerModel.CustomerTypeReceiver,
		Name:         "Global Imports",
		Phone:        "01722222222",
		Branches: []customerModel.CustomerBranch{
			{Name: "Chittagong", Location: "Agrabad"},
			{Name: "Dhaka", Location: "Tejgaon"},
		},
	}
	pickup = partnerModel.Partner{Name: "City Pickup", PartnerType: partnerModel.PartnerTypePickup}
	require.NoError(t, db.Create(&sender).Error)
	require.NoError(t, db.Create(&receiver).Error)
	require.NoError(t, db.Create(&pickup).Error)
	return sender, receiver, pickup
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, StatusOf(BadRequest("x")))
	assert.Equal(t, fiber.StatusNotFound, StatusOf(NotFound("x")))
	assert.Equal(t, fiber.StatusConflict, StatusOf(Conflict("x")))
	assert.Equal(t, fiber.StatusInternalServerError, StatusOf(gorm.ErrInvalidDB))
}

func TestResolvePickup(t *testing.T) {
	db := setupTestDB(t)
	_, _, pickup := seedBookingFixtures(t, db)

	delivery := partnerModel.Partner{Name: "Door Delivery", PartnerType: partnerModel.PartnerTypeDelivery}
	require.NoError(t, db.Create(&delivery).Error)

	t.Run("self sentinel", func(t *testing.T) {
		kind, partnerID, err := ResolvePickup(db, "Self")
		require.NoError(t, err)
		assert.Equal(t, bookingModel.PickupKindSelf, kind)
		assert.Nil(t, partnerID)
	})

	t.Run("central sentinel", func(t *testing.T) {
		kind, partnerID, err := ResolvePickup(db, "Central")
		require.NoError(t, err)
		assert.Equal(t, bookingModel.PickupKindCentral, kind)
		assert.Nil(t, partnerID)
	})

	t.Run("partner id", func(t *testing.T) {
		kind, partnerID, err := ResolvePickup(db, "1")
		require.NoError(t, err)
		assert.Equal(t, bookingModel.PickupKindPartner, kind)
		require.NotNil(t, partnerID)
		assert.Equal(t, pickup.ID, *partnerID)
	})

	t.Run("delivery partner rejected", func(t *testing.T) {
		_, _, err := ResolvePickup(db, "2")
		assert.Equal(t, fiber.StatusBadRequest, StatusOf(err))
	})

	t.Run("unknown partner", func(t *testing.T) {
		_, _, err := ResolvePickup(db, "999")
		assert.Equal(t, fiber.StatusNotFound, StatusOf(err))
	})

	t.Run("garbage value", func(t *testing.T) {
		_, _, err := ResolvePickup(db, "self")
		assert.Equal(t, fiber.StatusBadRequest, StatusOf(err), "sentinels are case-sensitive")
	})
}

func TestValidateBookingRefs(t *testing.T) {
	db := setupTestDB(t)
	sender, receiver, _ := seedBookingFixtures(t, db)

	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	expected := date.AddDate(0, 0, 14)

	t.Run("valid payload", func(t *testing.T) {
		branch := "Chittagong"
		refs, err := ValidateBookingRefs(db, sender.ID, receiver.ID, &branch, "Self", date, expected, 3)
		require.NoError(t, err)
		assert.Equal(t, sender.ID, refs.Sender.ID)
		assert.Equal(t, bookingModel.PickupKindSelf, refs.PickupKind)
	})

	t.Run("sender must be a Sender", func(t *testing.T) {
		_, err := ValidateBookingRefs(db, receiver.ID, receiver.ID, nil, "Self", date, expected, 1)
		assert.Equal(t, fiber.StatusBadRequest, StatusOf(err))
	})

	t.Run("receiver must be a Receiver", func(t *testing.T) {
		_, err := ValidateBookingRefs(db, sender.ID, sender.ID, nil, "Self", date, expected, 1)
		assert.Equal(t, fiber.StatusBadRequest, StatusOf(err))
	})

	t.Run("missing sender", func(t *testing.T) {
		_, err := ValidateBookingRefs(db, 999, receiver.ID, nil, "Self", date, expected, 1)
		assert.Equal(t, fiber.StatusNotFound, StatusOf(err))
	})

	t.Run("branch must match case-sensitively", func(t *testing.T) {
		branch := "chittagong"
		_, err := ValidateBookingRefs(db, sender.ID, receiver.ID, &branch, "Self", date, expected, 1)
		assert.Equal(t, fiber.StatusBadRequest, StatusOf(err))
	})

	t.Run("expected date must be strictly after booking date", func(t *testing.T) {
		_, err := ValidateBookingRefs(db, sender.ID, receiver.ID, nil, "Self", date, date, 1)
		assert.Equal(t, fiber.StatusBadRequest, StatusOf(err))
	})

	t.Run("bundle count at least one", func(t *testing.T) {
		_, err := ValidateBookingRefs(db, sender.ID, receiver.ID, nil, "Self", date, expected, 0)
		assert.Equal(t, fiber.StatusBadRequest, StatusOf(err))
	})
}

func TestEnsurePackingListAvailable(t *testing.T) {
	db := setupTestDB(t)
	sender, receiver, _ := seedBookingFixtures(t, db)

	bk := bookingModel.Booking{
		BookingCode:           "ACM_GLO_20240110_001",
		SenderID:              sender.ID,
		ReceiverID:            receiver.ID,
		PickupKind:            bookingModel.PickupKindSelf,
		Date:                  time.Now(),
		ExpectedReceivingDate: time.Now().AddDate(0, 0, 7),
		BundleCount:           1,
		Status:                bookingModel.BookingStatusPending,
	}
	require.NoError(t, db.Create(&bk).Error)

	require.NoError(t, EnsurePackingListAvailable(db, bk.ID, 0))

	pl := packingListModel.PackingList{PackingListCode: "PL-2024-001", BookingID: bk.ID, PackingStatus: packingListModel.PackingStatusPending}
	require.NoError(t, db.Create(&pl).Error)

	err := EnsurePackingListAvailable(db, bk.ID, 0)
	assert.Equal(t, fiber.StatusConflict, StatusOf(err))

	// The owning list itself is excluded when re-validated on update.
	assert.NoError(t, EnsurePackingListAvailable(db, bk.ID, pl.ID))
}

func TestEnsureBundleNumberAvailable(t *testing.T) {
	db := setupTestDB(t)

	pl := packingListModel.PackingList{PackingListCode: "PL-2024-001", BookingID: 1, PackingStatus: packingListModel.PackingStatusPending}
	require.NoError(t, db.Create(&pl).Error)

	b := bundleModel.Bundle{PackingListID: pl.ID, BundleNumber: 1, Status: bundleModel.BundleStatusPending, Priority: bundleModel.PriorityNormal}
	require.NoError(t, db.Create(&b).Error)

	err := EnsureBundleNumberAvailable(db, pl.ID, 1, 0)
	assert.Equal(t, fiber.StatusConflict, StatusOf(err))

	assert.NoError(t, EnsureBundleNumberAvailable(db, pl.ID, 2, 0))
	assert.NoError(t, EnsureBundleNumberAvailable(db, pl.ID, 1, b.ID), "own row excluded on update")
}
