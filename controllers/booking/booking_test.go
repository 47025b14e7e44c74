package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"freight-forward/logger"
	bookingModel "freight-forward/models/booking"
	customerModel "freight-forward/models/customer"
	packingListModel "freight-forward/models/packinglist"
	partnerModel "freight-forward/models/partner"
	"freight-forward/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
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
		&bookingModel.BookingStatusEvent{},
		&packingListModel.PackingList{},
	))

	controller := NewBookingController(db, logger.NewAsyncLogger(db))

	app := fiber.New()
	app.Post("/bookings", controller.Store)
	app.Delete("/bookings/:id", controller.Delete)
	return app, db
}

func performJSON(t *testing.T, app *fiber.App, method, target string, payload interface{}) (int, types.ApiResponse) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var apiResp types.ApiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiResp))
	return resp.StatusCode, apiResp
}

func seedCustomers(t *testing.T, db *gorm.DB) (sender, receiver customerModel.Customer) {
	t.Helper()

	sender = customerModel.Customer{CustomerType: customerModel.CustomerTypeSender, Name: "Acme Exports"}
	receiver = customerModel.Customer{CustomerType: customerModel.CustomerTypeReceiver, Name: "Global Imports"}
	require.NoError(t, db.Create(&sender).Error)
	require.NoError(t, db.Create(&receiver).Error)
	return sender, receiver
}

func createPayload(senderID, receiverID uint) fiber.Map {
	return fiber.Map{
		"sender_id":               senderID,
		"receiver_id":             receiverID,
		"pickup_partner":          "Self",
		"date":                    "2024-01-10",
		"expected_receiving_date": "2024-01-20",
		"bundle_count":            3,
	}
}

func TestStoreGeneratesCodeAndRecordsEvent(t *testing.T) {
	app, db := setupTestApp(t)
	sender, receiver := seedCustomers(t, db)

	status, _ := performJSON(t, app, "POST", "/bookings", createPayload(sender.ID, receiver.ID))
	assert.Equal(t, fiber.StatusCreated, status)

	var bk bookingModel.Booking
	require.NoError(t, db.First(&bk).Error)
	assert.Equal(t, "ACM_GLO_20240110_001", bk.BookingCode)
	assert.Equal(t, bookingModel.BookingStatusPending, bk.Status)

	var events int64
	require.NoError(t, db.Model(&bookingModel.BookingStatusEvent{}).
		Where("booking_id = ?", bk.ID).Count(&events).Error)
	assert.Equal(t, int64(1), events)
}

func TestStoreConflictWhenCodesExhausted(t *testing.T) {
	app, db := setupTestApp(t)
	sender, receiver := seedCustomers(t, db)

	// Occupy every candidate code before its insert lands, so each attempt
	// hits the unique index and the retry budget runs out.
	err := db.Callback().Create().Before("gorm:create").Register("occupy_candidate_code", func(tx *gorm.DB) {
		bk, ok := tx.Statement.Dest.(*bookingModel.Booking)
		if !ok || bk.BookingCode == "" {
			return
		}
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO bookings (booking_code, sender_id, receiver_id, date, expected_receiving_date, bundle_count) VALUES (?, ?, ?, ?, ?, ?)",
			bk.BookingCode, bk.SenderID, bk.ReceiverID, bk.Date, bk.ExpectedReceivingDate, bk.BundleCount,
		)
	})
	require.NoError(t, err)
	defer db.Callback().Create().Remove("occupy_candidate_code")

	status, resp := performJSON(t, app, "POST", "/bookings", createPayload(sender.ID, receiver.ID))
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, resp.Message, "Unable to generate a unique booking code")
}

func TestDeleteRefusedWhilePackingListExists(t *testing.T) {
	app, db := setupTestApp(t)
	sender, receiver := seedCustomers(t, db)

	bk := bookingModel.Booking{
		BookingCode:           "ACM_GLO_20240110_001",
		SenderID:              sender.ID,
		ReceiverID:            receiver.ID,
		PickupKind:            bookingModel.PickupKindSelf,
		Date:                  time.Now(),
		ExpectedReceivingDate: time.Now().AddDate(0, 0, 7),
		BundleCount:           3,
		Status:                bookingModel.BookingStatusPending,
	}
	require.NoError(t, db.Create(&bk).Error)
	require.NoError(t, db.Create(&packingListModel.PackingList{
		PackingListCode: "PL-2024-001",
		BookingID:       bk.ID,
		PackingStatus:   packingListModel.PackingStatusPending,
	}).Error)

	status, resp := performJSON(t, app, "DELETE", fmt.Sprintf("/bookings/%d", bk.ID), nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, resp.Message, "has a packing list")

	var count int64
	require.NoError(t, db.Model(&bookingModel.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteSurfacesStorageErrorAsInternal(t *testing.T) {
	app, db := setupTestApp(t)
	sender, receiver := seedCustomers(t, db)

	bk := bookingModel.Booking{
		BookingCode:           "ACM_GLO_20240110_001",
		SenderID:              sender.ID,
		ReceiverID:            receiver.ID,
		PickupKind:            bookingModel.PickupKindSelf,
		Date:                  time.Now(),
		ExpectedReceivingDate: time.Now().AddDate(0, 0, 7),
		BundleCount:           3,
		Status:                bookingModel.BookingStatusPending,
	}
	require.NoError(t, db.Create(&bk).Error)

	// A broken packing list lookup is an internal failure, not a conflict.
	require.NoError(t, db.Exec("DROP TABLE packing_lists").Error)

	status, _ := performJSON(t, app, "DELETE", fmt.Sprintf("/bookings/%d", bk.ID), nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)

	var count int64
	require.NoError(t, db.Model(&bookingModel.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
