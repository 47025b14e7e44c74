package packinglist

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
	bundleModel "freight-forward/models/bundle"
	customerModel "freight-forward/models/customer"
	packingListModel "freight-forward/models/packinglist"
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
		&bookingModel.Booking{},
		&packingListModel.PackingList{},
		&bundleModel.Bundle{},
		&bundleModel.BundleProduct{},
	))

	controller := NewPackingListController(db, logger.NewAsyncLogger(db))

	app := fiber.New()
	app.Post("/packing-lists", controller.Store)
	app.Delete("/packing-lists/:id", controller.Delete)
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

func seedBooking(t *testing.T, db *gorm.DB, code string) bookingModel.Booking {
	t.Helper()

	sender := customerModel.Customer{CustomerType: customerModel.CustomerTypeSender, Name: "Acme Exports"}
	receiver := customerModel.Customer{CustomerType: customerModel.CustomerTypeReceiver, Name: "Global Imports"}
	require.NoError(t, db.Create(&sender).Error)
	require.NoError(t, db.Create(&receiver).Error)

	bk := bookingModel.Booking{
		BookingCode:           code,
		SenderID:              sender.ID,
		ReceiverID:            receiver.ID,
		PickupKind:            bookingModel.PickupKindSelf,
		Date:                  time.Now(),
		ExpectedReceivingDate: time.Now().AddDate(0, 0, 7),
		BundleCount:           2,
		Status:                bookingModel.BookingStatusPending,
	}
	require.NoError(t, db.Create(&bk).Error)
	return bk
}

func TestStoreCreatesListWithBundles(t *testing.T) {
	app, db := setupTestApp(t)
	bk := seedBooking(t, db, "ACM_GLO_20240110_001")

	status, _ := performJSON(t, app, "POST", "/packing-lists", fiber.Map{
		"booking_id": bk.ID,
		"bundles": []fiber.Map{
			{
				"bundle_number": 1,
				"weight":        12.5,
				"products": []fiber.Map{
					{"id": "P-1", "product_name": "Cotton Shirts", "product_quantity": 40, "fabric": "cotton"},
				},
			},
			{"bundle_number": 2},
		},
	})
	assert.Equal(t, fiber.StatusCreated, status)

	var pl packingListModel.PackingList
	require.NoError(t, db.Preload("Bundles.Products").First(&pl).Error)
	assert.Equal(t, fmt.Sprintf("PL-%d-001", time.Now().Year()), pl.PackingListCode)
	assert.Equal(t, packingListModel.PackingStatusPending, pl.PackingStatus)
	require.Len(t, pl.Bundles, 2)
	assert.Len(t, pl.Bundles[0].Products, 1)
}

func TestStoreRejectsSecondListForBooking(t *testing.T) {
	app, db := setupTestApp(t)
	bk := seedBooking(t, db, "ACM_GLO_20240110_001")

	status, _ := performJSON(t, app, "POST", "/packing-lists", fiber.Map{"booking_id": bk.ID})
	require.Equal(t, fiber.StatusCreated, status)

	status, resp := performJSON(t, app, "POST", "/packing-lists", fiber.Map{"booking_id": bk.ID})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, resp.Message, "already has a packing list")
}

func TestStoreRejectsDuplicateBundleNumbersInPayload(t *testing.T) {
	app, db := setupTestApp(t)
	bk := seedBooking(t, db, "ACM_GLO_20240110_001")

	status, resp := performJSON(t, app, "POST", "/packing-lists", fiber.Map{
		"booking_id": bk.ID,
		"bundles": []fiber.Map{
			{"bundle_number": 1},
			{"bundle_number": 1},
		},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, resp.Message, "Duplicate bundle number")

	var count int64
	require.NoError(t, db.Model(&packingListModel.PackingList{}).Count(&count).Error)
	assert.Zero(t, count, "nothing persisted when the payload is rejected")
}

func TestStoreUnknownBooking(t *testing.T) {
	app, _ := setupTestApp(t)

	status, _ := performJSON(t, app, "POST", "/packing-lists", fiber.Map{"booking_id": 404})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestDeleteCascadesBundles(t *testing.T) {
	app, db := setupTestApp(t)
	bk := seedBooking(t, db, "ACM_GLO_20240110_001")

	status, _ := performJSON(t, app, "POST", "/packing-lists", fiber.Map{
		"booking_id": bk.ID,
		"bundles": []fiber.Map{
			{"bundle_number": 1, "products": []fiber.Map{{"id": "P-1", "product_name": "Cotton Shirts"}}},
		},
	})
	require.Equal(t, fiber.StatusCreated, status)

	var pl packingListModel.PackingList
	require.NoError(t, db.First(&pl).Error)

	status, _ = performJSON(t, app, "DELETE", fmt.Sprintf("/packing-lists/%d", pl.ID), nil)
	assert.Equal(t, fiber.StatusOK, status)

	var lists, bundles, products int64
	require.NoError(t, db.Model(&packingListModel.PackingList{}).Count(&lists).Error)
	require.NoError(t, db.Model(&bundleModel.Bundle{}).Count(&bundles).Error)
	require.NoError(t, db.Model(&bundleModel.BundleProduct{}).Count(&products).Error)
	assert.Zero(t, lists)
	assert.Zero(t, bundles)
	assert.Zero(t, products)
}

func TestDeleteRefusedWhenCompleted(t *testing.T) {
	app, db := setupTestApp(t)
	bk := seedBooking(t, db, "ACM_GLO_20240110_001")

	pl := packingListModel.PackingList{
		PackingListCode: "PL-2024-001",
		BookingID:       bk.ID,
		PackingStatus:   packingListModel.PackingStatusCompleted,
	}
	require.NoError(t, db.Create(&pl).Error)

	status, resp := performJSON(t, app, "DELETE", fmt.Sprintf("/packing-lists/%d", pl.ID), nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, resp.Message, "Completed packing lists")
}
