package bundle

import (
	"errors"
	"fmt"

	"freight-forward/logger"
	bundleModel "freight-forward/models/bundle"
	containerModel "freight-forward/models/container"
	"freight-forward/services/validation"
	"freight-forward/types"
	bundleTypes "freight-forward/types/bundle"
	"freight-forward/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BundleController handles bundle and ready-to-ship HTTP requests
type BundleController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewBundleController creates a new bundle controller
func NewBundleController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *BundleController {
	return &BundleController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (bc *BundleController) logAPIRequest(c *fiber.Ctx) {
	bc.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

func (bc *BundleController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	bc.logAPIRequest(c)
	return result
}

// Store adds a bundle to an existing packing list. The bundle number must be
// unique within that list.
func (bc *BundleController) Store(c *fiber.Ctx) error {
	var req bundleTypes.CreateBundleRequest
	if err := c.BodyParser(&req); err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if _, err := validation.EnsurePackingListExists(bc.DB, req.PackingListID); err != nil {
		return bc.sendResponseWithLog(c, validation.StatusOf(err), types.ApiResponse{
			Status:  validation.StatusOf(err),
			Message: err.Error(),
		})
	}
	if err := validation.EnsureBundleNumberAvailable(bc.DB, req.PackingListID, req.BundleNumber, 0); err != nil {
		return bc.sendResponseWithLog(c, validation.StatusOf(err), types.ApiResponse{
			Status:  validation.StatusOf(err),
			Message: err.Error(),
		})
	}

	b := bundleModel.Bundle{
		PackingListID: req.PackingListID,
		BundleNumber:  req.BundleNumber,
		Status:        bundleModel.BundleStatusPending,
		Priority:      bundleModel.PriorityNormal,
		Weight:        req.Weight,
		Notes:         req.Notes,
		CreatedBy:     utils.CurrentUsername(c),
	}
	if req.Status != "" {
		b.Status = bundleModel.BundleStatus(req.Status)
	}
	if req.Priority != "" {
		b.Priority = bundleModel.Priority(req.Priority)
	}
	for _, p := range req.Products {
		b.Products = append(b.Products, bundleModel.BundleProduct{
			ProductID:       p.ProductID,
			ProductName:     p.ProductName,
			ProductQuantity: p.ProductQuantity,
			Fabric:          p.Fabric,
			Description:     p.Description,
		})
	}

	if err := bc.DB.Create(&b).Error; err != nil {
		logger.Error("Failed to create bundle", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create bundle",
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Bundle created successfully",
		Data:    b,
	})
}

// Index lists bundles with pagination, filtered by packing list, status or
// ready-to-ship status.
func (bc *BundleController) Index(c *fiber.Ctx) error {
	params := utils.ParsePagination(c, "bundle_number", "bundle_number", "created_at", "status", "priority")

	query := bc.DB.Model(&bundleModel.Bundle{})

	if listID := c.QueryInt("packing_list_id"); listID > 0 {
		query = query.Where("packing_list_id = ?", listID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if rts := c.Query("ready_to_ship_status"); rts != "" {
		query = query.Where("ready_to_ship_status = ?", rts)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count bundles",
		})
	}

	var bundles []bundleModel.Bundle
	if err := query.Preload("Products").Preload("Container").
		Offset(params.Offset).Limit(params.Limit).Order(params.OrderClause()).
		Find(&bundles).Error; err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to retrieve bundles",
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bundles retrieved successfully",
		Data: types.PaginatedResponse{
			Data: bundles,
			Meta: types.NewPaginationMeta(total, params.Page, params.Limit),
		},
	})
}

// Show returns one bundle with its products and container expanded.
func (bc *BundleController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid bundle id",
		})
	}

	var b bundleModel.Bundle
	if err := bc.DB.Preload("Products").Preload("Container").First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Bundle %d not found", id),
			})
		}
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bundle retrieved successfully",
		Data:    b,
	})
}

// Update applies a partial bundle update. When products are sent they
// replace the stored product lines.
func (bc *BundleController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid bundle id",
		})
	}

	var req bundleTypes.UpdateBundleRequest
	if err := c.BodyParser(&req); err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	var b bundleModel.Bundle
	if err := bc.DB.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Bundle %d not found", id),
			})
		}
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	if req.BundleNumber != nil && *req.BundleNumber != b.BundleNumber {
		if err := validation.EnsureBundleNumberAvailable(bc.DB, b.PackingListID, *req.BundleNumber, b.ID); err != nil {
			return bc.sendResponseWithLog(c, validation.StatusOf(err), types.ApiResponse{
				Status:  validation.StatusOf(err),
				Message: err.Error(),
			})
		}
	}

	updates := map[string]interface{}{
		"updated_by": utils.CurrentUsername(c),
	}
	if req.BundleNumber != nil {
		updates["bundle_number"] = *req.BundleNumber
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Weight != nil {
		updates["weight"] = *req.Weight
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	err = bc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&b).Updates(updates).Error; err != nil {
			return err
		}
		if req.Products != nil {
			if err := tx.Where("bundle_id = ?", b.ID).Delete(&bundleModel.BundleProduct{}).Error; err != nil {
				return err
			}
			for _, p := range req.Products {
				product := bundleModel.BundleProduct{
					BundleID:        b.ID,
					ProductID:       p.ProductID,
					ProductName:     p.ProductName,
					ProductQuantity: p.ProductQuantity,
					Fabric:          p.Fabric,
					Description:     p.Description,
				}
				if err := tx.Create(&product).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update bundle", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update bundle",
		})
	}

	var updated bundleModel.Bundle
	if err := bc.DB.Preload("Products").Preload("Container").First(&updated, b.ID).Error; err != nil {
		updated = b
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bundle updated successfully",
		Data:    updated,
	})
}

// ReadyToShipIndex lists completed bundles in the ready-to-ship queue,
// urgent first.
func (bc *BundleController) ReadyToShipIndex(c *fiber.Ctx) error {
	params := utils.ParsePagination(c, "bundle_number", "bundle_number", "created_at", "priority")

	query := bc.DB.Model(&bundleModel.Bundle{}).Where("status = ?", bundleModel.BundleStatusCompleted)

	if rts := c.Query("ready_to_ship_status"); rts != "" {
		query = query.Where("ready_to_ship_status = ?", rts)
	}
	if containerID := c.QueryInt("container_id"); containerID > 0 {
		query = query.Where("container_id = ?", containerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count ready-to-ship bundles",
		})
	}

	var bundles []bundleModel.Bundle
	if err := query.Preload("Products").Preload("Container").
		Offset(params.Offset).Limit(params.Limit).
		Order("CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'normal' THEN 2 ELSE 3 END").
		Order(params.OrderClause()).
		Find(&bundles).Error; err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to retrieve ready-to-ship bundles",
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Ready-to-ship bundles retrieved successfully",
		Data: types.PaginatedResponse{
			Data: bundles,
			Meta: types.NewPaginationMeta(total, params.Page, params.Limit),
		},
	})
}

// UpdateReadyToShip moves a completed bundle through the shipping stages.
// Only completed bundles are eligible; a container may only be attached
// while the new status is stuffed or dispatched, and the referenced
// container must exist. Any other status clears the container reference.
func (bc *BundleController) UpdateReadyToShip(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid bundle id",
		})
	}

	var req bundleTypes.ReadyToShipRequest
	if err := c.BodyParser(&req); err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	var b bundleModel.Bundle
	if err := bc.DB.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Bundle %d not found", id),
			})
		}
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	if !b.Status.CanEnterReadyToShip() {
		return bc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Only completed bundles can enter the ready-to-ship workflow",
		})
	}

	newStatus := bundleModel.ReadyToShipStatus(req.ReadyToShipStatus)

	updates := map[string]interface{}{
		"ready_to_ship_status": newStatus,
		"updated_by":           utils.CurrentUsername(c),
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}

	// A container reference only survives in the stuffed and dispatched
	// stages. Moving back to pending always clears it.
	if !newStatus.AllowsContainer() {
		updates["container_id"] = nil
	} else if req.ContainerID != nil {
		var cn containerModel.Container
		if err := bc.DB.First(&cn, *req.ContainerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
					Status:  fiber.StatusNotFound,
					Message: fmt.Sprintf("Container %d not found", *req.ContainerID),
				})
			}
			return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Database error",
			})
		}
		updates["container_id"] = cn.ID
	}

	if err := bc.DB.Model(&b).Updates(updates).Error; err != nil {
		logger.Error("Failed to update ready-to-ship status", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update ready-to-ship status",
		})
	}

	var updated bundleModel.Bundle
	if err := bc.DB.Preload("Products").Preload("Container").First(&updated, b.ID).Error; err != nil {
		updated = b
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Ready-to-ship status updated successfully",
		Data:    updated,
	})
}

// ReadyToShipStats returns queue counts grouped by ready-to-ship status for
// completed bundles.
func (bc *BundleController) ReadyToShipStats(c *fiber.Ctx) error {
	type statusCount struct {
		ReadyToShipStatus string `json:"ready_to_ship_status"`
		Count             int64  `json:"count"`
	}

	var rows []statusCount
	err := bc.DB.Model(&bundleModel.Bundle{}).
		Select("ready_to_ship_status, COUNT(*) as count").
		Where("status = ?", bundleModel.BundleStatusCompleted).
		Group("ready_to_ship_status").
		Scan(&rows).Error
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to compute ready-to-ship stats",
		})
	}

	stats := map[string]int64{
		bundleModel.ReadyToShipPending.String():    0,
		bundleModel.ReadyToShipStuffed.String():    0,
		bundleModel.ReadyToShipDispatched.String(): 0,
	}
	var total int64
	for _, row := range rows {
		stats[row.ReadyToShipStatus] = row.Count
		total += row.Count
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Ready-to-ship stats retrieved successfully",
		Data: fiber.Map{
			"total":     total,
			"by_status": stats,
		},
	})
}

// Delete removes a bundle and its product lines.
func (bc *BundleController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid bundle id",
		})
	}

	var b bundleModel.Bundle
	if err := bc.DB.First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Bundle %d not found", id),
			})
		}
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	err = bc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bundle_id = ?", b.ID).Delete(&bundleModel.BundleProduct{}).Error; err != nil {
			return err
		}
		return tx.Delete(&b).Error
	})
	if err != nil {
		logger.Error("Failed to delete bundle", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete bundle",
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bundle deleted successfully",
	})
}
