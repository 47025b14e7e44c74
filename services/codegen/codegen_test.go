package codegen

import (
	"fmt"
	"testing"
	"time"

	bookingModel "freight-forward/models/booking"
	containerModel "freight-forward/models/container"
	customerModel "freight-forward/models/customer"
	packingListModel "freight-forward/models/packinglist"

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
		&bookingModel.Booking{},
		&containerModel.Container{},
		&packingListModel.PackingList{},
	))
	return db
}

func seedCustomers(t *testing.T, db *gorm.DB) (sender, receiver customerModel.Customer) {
	t.Helper()

	sender = customerModel.Customer{CustomerType: customerModel.CustomerTypeSender, Name: "Acme Exports", Phone: "01711111111"}
	receiver = customerModel.Customer{CustomerType: customerModel.CustomerTypeReceiver, Name: "Global Imports", Phone: "01722222222"}
	require.NoError(t, db.Create(&sender).Error)
	require.NoError(t, db.Create(&receiver).Error)
	return sender, receiver
}

func TestNamePart(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Acme Exports", "ACM"},
		{"Global Imports", "GLO"},
		{"A. B. Corp", "ABC"},
		{"xy", "XY"},
		{"42 Logistics", "42L"},
		{"  - ", ""},
		{"Ünal Traders", "NAL"},
		{"Łódź Imports", "DIM"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NamePart(tc.name), "NamePart(%q)", tc.name)
	}
}

func TestBookingCodeSequence(t *testing.T) {
	db := setupTestDB(t)
	sender, receiver := seedCustomers(t, db)
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	code, err := BookingCode(db, sender.Name, receiver.Name, date)
	require.NoError(t, err)
	assert.Equal(t, "ACM_GLO_20240110_001", code)

	// Occupy the first slot; the probe must move to the next sequence.
	require.NoError(t, db.Create(&bookingModel.Booking{
		BookingCode:           code,
		SenderID:              sender.ID,
		ReceiverID:            receiver.ID,
		PickupKind:            bookingModel.PickupKindSelf,
		Date:                  date,
		ExpectedReceivingDate: date.AddDate(0, 0, 7),
		BundleCount:           1,
		Status:                bookingModel.BookingStatusPending,
	}).Error)

	next, err := BookingCode(db, sender.Name, receiver.Name, date)
	require.NoError(t, err)
	assert.Equal(t, "ACM_GLO_20240110_002", next)
}

func TestBookingCodeDistinctPairsShareNothing(t *testing.T) {
	db := setupTestDB(t)
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	a, err := BookingCode(db, "Acme Exports", "Global Imports", date)
	require.NoError(t, err)
	b, err := BookingCode(db, "Bengal Traders", "Global Imports", date)
	require.NoError(t, err)

	assert.Equal(t, "ACM_GLO_20240110_001", a)
	assert.Equal(t, "BEN_GLO_20240110_001", b)
}

func TestBookingCodeFallsBackToTimestampSuffix(t *testing.T) {
	db := setupTestDB(t)
	sender, receiver := seedCustomers(t, db)
	date := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	bookings := make([]bookingModel.Booking, 0, bookingProbeLimit)
	for seq := 1; seq <= bookingProbeLimit; seq++ {
		bookings = append(bookings, bookingModel.Booking{
			BookingCode:           fmt.Sprintf("ACM_GLO_20240110_%03d", seq),
			SenderID:              sender.ID,
			ReceiverID:            receiver.ID,
			PickupKind:            bookingModel.PickupKindSelf,
			Date:                  date,
			ExpectedReceivingDate: date.AddDate(0, 0, 10),
			BundleCount:           1,
			Status:                bookingModel.BookingStatusPending,
		})
	}
	require.NoError(t, db.CreateInBatches(bookings, 200).Error)

	code, err := BookingCode(db, sender.Name, receiver.Name, date)
	require.NoError(t, err)
	assert.Regexp(t, `^ACM_GLO_20240110_\d{6}$`, code)
}

func TestCreateBookingWithUniqueCode(t *testing.T) {
	db := setupTestDB(t)
	sender, receiver := seedCustomers(t, db)
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		bk := bookingModel.Booking{
			SenderID:              sender.ID,
			ReceiverID:            receiver.ID,
			PickupKind:            bookingModel.PickupKindSelf,
			Date:                  date,
			ExpectedReceivingDate: date.AddDate(0, 0, 10),
			BundleCount:           2,
			Status:                bookingModel.BookingStatusPending,
		}
		require.NoError(t, CreateBookingWithUniqueCode(db, &bk, sender.Name, receiver.Name))
		assert.Equal(t, fmt.Sprintf("ACM_GLO_20240305_%03d", i+1), bk.BookingCode)
	}
}

func TestContainerCode(t *testing.T) {
	db := setupTestDB(t)
	month := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	code, err := ContainerCode(db, month)
	require.NoError(t, err)
	assert.Equal(t, "CNT24060001", code)

	require.NoError(t, db.Create(&containerModel.Container{ContainerCode: code}).Error)
	require.NoError(t, db.Create(&containerModel.Container{ContainerCode: "CNT24060007"}).Error)

	next, err := ContainerCode(db, month)
	require.NoError(t, err)
	assert.Equal(t, "CNT24060008", next, "sequence continues past the highest existing suffix")

	// A different month starts its own sequence.
	other, err := ContainerCode(db, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "CNT24070001", other)
}

func TestCreateContainerWithUniqueCode(t *testing.T) {
	db := setupTestDB(t)

	first := containerModel.Container{Status: containerModel.ContainerStatusOpen}
	require.NoError(t, CreateContainerWithUniqueCode(db, &first))
	second := containerModel.Container{Status: containerModel.ContainerStatusOpen}
	require.NoError(t, CreateContainerWithUniqueCode(db, &second))

	assert.NotEqual(t, first.ContainerCode, second.ContainerCode)
	assert.Len(t, first.ContainerCode, 11)
}

func TestPackingListCode(t *testing.T) {
	db := setupTestDB(t)

	code, err := PackingListCode(db, 2024)
	require.NoError(t, err)
	assert.Equal(t, "PL-2024-001", code)

	require.NoError(t, db.Exec(
		"INSERT INTO packing_lists (packing_list_code, booking_id, packing_status) VALUES ('PL-2024-041', 1, 'pending')",
	).Error)

	next, err := PackingListCode(db, 2024)
	require.NoError(t, err)
	assert.Equal(t, "PL-2024-042", next)

	fresh, err := PackingListCode(db, 2025)
	require.NoError(t, err)
	assert.Equal(t, "PL-2025-001", fresh, "sequence restarts per year")
}

func TestIsDuplicateKey(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.Create(&containerModel.Container{ContainerCode: "CNT24010001"}).Error)
	err := db.Create(&containerModel.Container{ContainerCode: "CNT24010001"}).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
	assert.False(t, IsDuplicateKey(gorm.ErrRecordNotFound))
}
