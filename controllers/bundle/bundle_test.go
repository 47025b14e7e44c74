package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"freight-forward/logger"
	bundleModel "freight-forward/models/bundle"
	containerModel "freight-forward/models/container"
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
		&packingListModel.PackingList{},
		&containerModel.Container{},
		&bundleModel.Bundle{},
		&bundleModel.BundleProduct{},
	))

	controller := NewBundleController(db, logger.NewAsyncLogger(db))

	app := fiber.New()
	app.Post("/bundles", controller.Store)
	app.Get("/ready-to-ship/stats", controller.ReadyToShipStats)
	app.Put("/ready-to-ship/:id", controller.UpdateReadyToShip)
	app.Delete("/bundles/:id", controller.Delete)
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

func seedBundle(t *testing.T, db *gorm.DB, status bundleModel.BundleStatus) bundleModel.Bundle {
	t.Helper()

	pl := packingListModel.PackingList{PackingListCode: "PL-2024-001", BookingID: 1, PackingStatus: packingListModel.PackingStatusInProgress}
	require.NoError(t, db.FirstOrCreate(&pl, packingListModel.PackingList{PackingListCode: "PL-2024-001"}).Error)

	var count int64
	require.NoError(t, db.Model(&bundleModel.Bundle{}).Where("packing_list_id = ?", pl.ID).Count(&count).Error)

	b := bundleModel.Bundle{
		PackingListID:     pl.ID,
		BundleNumber:      int(count) + 1,
		Status:            status,
		Priority:          bundleModel.PriorityNormal,
		ReadyToShipStatus: bundleModel.ReadyToShipPending,
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func TestUpdateReadyToShipRequiresCompletedBundle(t *testing.T) {
	app, db := setupTestApp(t)
	b := seedBundle(t, db, bundleModel.BundleStatusInProgress)

	status, resp := performJSON(t, app, "PUT", fmt.Sprintf("/ready-to-ship/%d", b.ID), fiber.Map{
		"ready_to_ship_status": "stuffed",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, resp.Message, "completed bundles")
}

func TestUpdateReadyToShipAttachesContainer(t *testing.T) {
	app, db := setupTestApp(t)
	b := seedBundle(t, db, bundleModel.BundleStatusCompleted)

	cn := containerModel.Container{ContainerCode: "CNT24060001", Status: containerModel.ContainerStatusOpen}
	require.NoError(t, db.Create(&cn).Error)

	status, _ := performJSON(t, app, "PUT", fmt.Sprintf("/ready-to-ship/%d", b.ID), fiber.Map{
		"ready_to_ship_status": "stuffed",
		"container_id":         cn.ID,
	})
	assert.Equal(t, fiber.StatusOK, status)

	var stored bundleModel.Bundle
	require.NoError(t, db.First(&stored, b.ID).Error)
	assert.Equal(t, bundleModel.ReadyToShipStuffed, stored.ReadyToShipStatus)
	require.NotNil(t, stored.ContainerID)
	assert.Equal(t, cn.ID, *stored.ContainerID)
}

func TestUpdateReadyToShipPendingClearsContainer(t *testing.T) {
	app, db := setupTestApp(t)
	b := seedBundle(t, db, bundleModel.BundleStatusCompleted)

	cn := containerModel.Container{ContainerCode: "CNT24060001", Status: containerModel.ContainerStatusOpen}
	require.NoError(t, db.Create(&cn).Error)
	require.NoError(t, db.Model(&bundleModel.Bundle{}).Where("id = ?", b.ID).
		Updates(map[string]interface{}{"ready_to_ship_status": bundleModel.ReadyToShipStuffed, "container_id": cn.ID}).Error)

	status, _ := performJSON(t, app, "PUT", fmt.Sprintf("/ready-to-ship/%d", b.ID), fiber.Map{
		"ready_to_ship_status": "pending",
	})
	assert.Equal(t, fiber.StatusOK, status)

	var stored bundleModel.Bundle
	require.NoError(t, db.First(&stored, b.ID).Error)
	assert.Equal(t, bundleModel.ReadyToShipPending, stored.ReadyToShipStatus)
	assert.Nil(t, stored.ContainerID)
}

func TestUpdateReadyToShipUnknownContainer(t *testing.T) {
	app, db := setupTestApp(t)
	b := seedBundle(t, db, bundleModel.BundleStatusCompleted)

	status, _ := performJSON(t, app, "PUT", fmt.Sprintf("/ready-to-ship/%d", b.ID), fiber.Map{
		"ready_to_ship_status": "dispatched",
		"container_id":         777,
	})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestReadyToShipStatsCountsOnlyCompleted(t *testing.T) {
	app, db := setupTestApp(t)

	seedBundle(t, db, bundleModel.BundleStatusCompleted)
	stuffed := seedBundle(t, db, bundleModel.BundleStatusCompleted)
	seedBundle(t, db, bundleModel.BundleStatusPending)
	require.NoError(t, db.Model(&bundleModel.Bundle{}).Where("id = ?", stuffed.ID).
		Update("ready_to_ship_status", bundleModel.ReadyToShipStuffed).Error)

	status, resp := performJSON(t, app, "GET", "/ready-to-ship/stats", nil)
	assert.Equal(t, fiber.StatusOK, status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), data["total"], "pending-status bundles stay out of the queue")

	byStatus, ok := data["by_status"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), byStatus["pending"])
	assert.Equal(t, float64(1), byStatus["stuffed"])
	assert.Equal(t, float64(0), byStatus["dispatched"])
}

func TestStoreRejectsDuplicateBundleNumber(t *testing.T) {
	app, db := setupTestApp(t)
	b := seedBundle(t, db, bundleModel.BundleStatusPending)

	status, resp := performJSON(t, app, "POST", "/bundles", fiber.Map{
		"packing_list_id": b.PackingListID,
		"bundle_number":   b.BundleNumber,
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, resp.Message, "already exists")
}

func TestDeleteRemovesProducts(t *testing.T) {
	app, db := setupTestApp(t)
	b := seedBundle(t, db, bundleModel.BundleStatusPending)
	require.NoError(t, db.Create(&bundleModel.BundleProduct{BundleID: b.ID, ProductID: "P-1", ProductName: "Cotton Shirts", ProductQuantity: 40}).Error)

	status, _ := performJSON(t, app, "DELETE", fmt.Sprintf("/bundles/%d", b.ID), nil)
	assert.Equal(t, fiber.StatusOK, status)

	var products int64
	require.NoError(t, db.Model(&bundleModel.BundleProduct{}).Where("bundle_id = ?", b.ID).Count(&products).Error)
	assert.Zero(t, products)
}
