package container

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"freight-forward/logger"
	bundleModel "freight-forward/models/bundle"
	containerModel "freight-forward/models/container"
	"freight-forward/types"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
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
	require.NoError(t, db.AutoMigrate(&containerModel.Container{}, &bundleModel.Bundle{}))

	controller := NewContainerController(db, logger.NewAsyncLogger(db))

	app := fiber.New()
	app.Post("/containers", controller.Store)
	app.Put("/containers/:id", controller.Update)
	app.Delete("/containers/:id", controller.Delete)
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

func TestStoreDerivesBalance(t *testing.T) {
	app, db := setupTestApp(t)

	status, _ := performJSON(t, app, "POST", "/containers", fiber.Map{
		"vessel_name":     "MV Meghna Star",
		"booking_charge":  "1000",
		"advance_payment": "300",
	})
	assert.Equal(t, fiber.StatusCreated, status)

	var stored containerModel.Container
	require.NoError(t, db.First(&stored).Error)
	assert.True(t, decimal.RequireFromString("700").Equal(stored.BalanceAmount))
	assert.True(t, strings.HasPrefix(stored.ContainerCode, "CNT"))
	assert.Equal(t, containerModel.ContainerStatusOpen, stored.Status)
}

func TestUpdateRecomputesBalanceFromStoredCharge(t *testing.T) {
	app, db := setupTestApp(t)

	cn := containerModel.Container{
		ContainerCode:  "CNT24060001",
		BookingCharge:  decimal.RequireFromString("1000"),
		AdvancePayment: decimal.RequireFromString("300"),
		BalanceAmount:  decimal.RequireFromString("700"),
		Status:         containerModel.ContainerStatusOpen,
	}
	require.NoError(t, db.Create(&cn).Error)

	// Only the advance changes; the stored charge completes the pair.
	status, _ := performJSON(t, app, "PUT", fmt.Sprintf("/containers/%d", cn.ID), fiber.Map{
		"advance_payment": "500",
	})
	assert.Equal(t, fiber.StatusOK, status)

	var stored containerModel.Container
	require.NoError(t, db.First(&stored, cn.ID).Error)
	assert.True(t, decimal.RequireFromString("1000").Equal(stored.BookingCharge))
	assert.True(t, decimal.RequireFromString("500").Equal(stored.AdvancePayment))
	assert.True(t, decimal.RequireFromString("500").Equal(stored.BalanceAmount))
}

func TestUpdateWithoutChargeFieldsKeepsBalance(t *testing.T) {
	app, db := setupTestApp(t)

	cn := containerModel.Container{
		ContainerCode:  "CNT24060001",
		BookingCharge:  decimal.RequireFromString("1000"),
		AdvancePayment: decimal.RequireFromString("300"),
		BalanceAmount:  decimal.RequireFromString("700"),
		Status:         containerModel.ContainerStatusOpen,
	}
	require.NoError(t, db.Create(&cn).Error)

	status, _ := performJSON(t, app, "PUT", fmt.Sprintf("/containers/%d", cn.ID), fiber.Map{
		"status": "stuffing",
	})
	assert.Equal(t, fiber.StatusOK, status)

	var stored containerModel.Container
	require.NoError(t, db.First(&stored, cn.ID).Error)
	assert.Equal(t, containerModel.ContainerStatusStuffing, stored.Status)
	assert.True(t, decimal.RequireFromString("700").Equal(stored.BalanceAmount))
}

func TestDeleteRefusedWhileBundlesAssigned(t *testing.T) {
	app, db := setupTestApp(t)

	cn := containerModel.Container{ContainerCode: "CNT24060001", Status: containerModel.ContainerStatusStuffing}
	require.NoError(t, db.Create(&cn).Error)
	require.NoError(t, db.Create(&bundleModel.Bundle{
		PackingListID:     1,
		BundleNumber:      1,
		Status:            bundleModel.BundleStatusCompleted,
		Priority:          bundleModel.PriorityNormal,
		ReadyToShipStatus: bundleModel.ReadyToShipStuffed,
		ContainerID:       &cn.ID,
	}).Error)

	status, resp := performJSON(t, app, "DELETE", fmt.Sprintf("/containers/%d", cn.ID), nil)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, resp.Message, "cannot be deleted")

	var count int64
	require.NoError(t, db.Model(&containerModel.Container{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStoreConflictWhenCodesExhausted(t *testing.T) {
	app, db := setupTestApp(t)

	// Occupy every candidate code the generator picks, so each insert
	// attempt collides with an existing row and the retry budget runs out.
	err := db.Callback().Create().Before("gorm:create").Register("occupy_candidate_code", func(tx *gorm.DB) {
		cn, ok := tx.Statement.Dest.(*containerModel.Container)
		if !ok || cn.ContainerCode == "" {
			return
		}
		tx.Session(&gorm.Session{NewDB: true}).
			Exec("INSERT INTO containers (container_code) VALUES (?)", cn.ContainerCode)
	})
	require.NoError(t, err)
	defer db.Callback().Create().Remove("occupy_candidate_code")

	status, resp := performJSON(t, app, "POST", "/containers", fiber.Map{
		"booking_charge": "1000",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, resp.Message, "Unable to generate a unique container code")
}
