package packinglist

import (
	"errors"
	"fmt"
	"time"

	"freight-forward/logger"
	bundleModel "freight-forward/models/bundle"
	packingListModel "freight-forward/models/packinglist"
	"freight-forward/services/codegen"
	"freight-forward/services/validation"
	"freight-forward/types"
	bundleTypes "freight-forward/types/bundle"
	packingListTypes "freight-forward/types/packinglist"
	"freight-forward/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PackingListController handles packing list HTTP requests
type PackingListController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewPackingListController creates a new packing list controller
func NewPackingListController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *PackingListController {
	return &PackingListController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (pc *PackingListController) logAPIRequest(c *fiber.Ctx) {
	pc.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

func (pc *PackingListController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.logAPIRequest(c)
	return result
}

func buildBundle(listID uint, input bundleTypes.BundleInput, createdBy string) bundleModel.Bundle {
	b := bundleModel.Bundle{
		PackingListID: listID,
		BundleNumber:  input.BundleNumber,
		Status:        bundleModel.BundleStatusPending,
		Priority:      bundleModel.PriorityNormal,
		Weight:        input.Weight,
		Notes:         input.Notes,
		CreatedBy:     createdBy,
	}
	if input.Status != "" {
		b.Status = bundleModel.BundleStatus(input.Status)
	}
	if input.Priority != "" {
		b.Priority = bundleModel.Priority(input.Priority)
	}
	for _, p := range input.Products {
		b.Products = append(b.Products, bundleModel.BundleProduct{
			ProductID:       p.ProductID,
			ProductName:     p.ProductName,
			ProductQuantity: p.ProductQuantity,
			Fabric:          p.Fabric,
			Description:     p.Description,
		})
	}
	return b
}

// Store creates a packing list with its initial bundles in one transaction.
// A booking carries at most one packing list; duplicate bundle numbers
// within the payload are rejected up front.
func (pc *PackingListController) Store(c *fiber.Ctx) error {
	var req packingListTypes.CreatePackingListRequest
	if err := c.BodyParser(&req); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if _, err := validation.EnsureBookingExists(pc.DB, req.BookingID); err != nil {
		return pc.sendResponseWithLog(c, validation.StatusOf(err), types.ApiResponse{
			Status:  validation.StatusOf(err),
			Message: err.Error(),
		})
	}
	if err := validation.EnsurePackingListAvailable(pc.DB, req.BookingID, 0); err != nil {
		return pc.sendResponseWithLog(c, validation.StatusOf(err), types.ApiResponse{
			Status:  validation.StatusOf(err),
			Message: err.Error(),
		})
	}

	seen := make(map[int]bool, len(req.Bundles))
	for _, b := range req.Bundles {
		if seen[b.BundleNumber] {
			return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: fmt.Sprintf("Duplicate bundle number %d in request", b.BundleNumber),
			})
		}
		seen[b.BundleNumber] = true
	}

	status := packingListModel.PackingStatusPending
	if req.PackingStatus != "" {
		status = packingListModel.PackingStatus(req.PackingStatus)
	}

	createdBy := utils.CurrentUsername(c)
	pl := packingListModel.PackingList{
		BookingID:     req.BookingID,
		PackingStatus: status,
		Notes:         req.Notes,
		CreatedBy:     createdBy,
	}

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		code, err := codegen.PackingListCode(tx, time.Now().Year())
		if err != nil {
			return err
		}
		pl.PackingListCode = code
		if err := tx.Create(&pl).Error; err != nil {
			return err
		}
		for _, input := range req.Bundles {
			b := buildBundle(pl.ID, input, createdBy)
			if err := tx.Create(&b).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if codegen.IsDuplicateKey(err) {
			return pc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Packing list conflicts with an existing record",
			})
		}
		logger.Error("Failed to create packing list", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create packing list",
		})
	}

	var created packingListModel.PackingList
	if err := pc.DB.Preload("Booking.Sender").Preload("Booking.Receiver").
		Preload("Bundles.Products").First(&created, pl.ID).Error; err != nil {
		created = pl
	}

	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Packing list created successfully",
		Data:    created,
	})
}

// Index lists packing lists with pagination and optional status filter.
// Search matches the packing list code.
func (pc *PackingListController) Index(c *fiber.Ctx) error {
	params := utils.ParsePagination(c, "created_at", "created_at", "packing_list_code", "packing_status")

	query := pc.DB.Model(&packingListModel.PackingList{})

	if status := c.Query("packing_status"); status != "" {
		query = query.Where("packing_status = ?", status)
	}
	if bookingID := c.QueryInt("booking_id"); bookingID > 0 {
		query = query.Where("booking_id = ?", bookingID)
	}
	if params.Search != "" {
		query = query.Where("packing_list_code LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count packing lists",
		})
	}

	var lists []packingListModel.PackingList
	if err := query.Preload("Booking").Preload("Bundles").
		Offset(params.Offset).Limit(params.Limit).Order(params.OrderClause()).
		Find(&lists).Error; err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to retrieve packing lists",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Packing lists retrieved successfully",
		Data: types.PaginatedResponse{
			Data: lists,
			Meta: types.NewPaginationMeta(total, params.Page, params.Limit),
		},
	})
}

// Show returns one packing list with booking, bundles and products expanded.
func (pc *PackingListController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid packing list id",
		})
	}

	var pl packingListModel.PackingList
	if err := pc.DB.Preload("Booking.Sender").Preload("Booking.Receiver").
		Preload("Bundles.Products").Preload("Bundles.Container").
		First(&pl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Packing list %d not found", id),
			})
		}
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Packing list retrieved successfully",
		Data:    pl,
	})
}

// Update applies a partial packing list update. The owning booking and the
// generated code are immutable.
func (pc *PackingListController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid packing list id",
		})
	}

	var req packingListTypes.UpdatePackingListRequest
	if err := c.BodyParser(&req); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	pl, err := validation.EnsurePackingListExists(pc.DB, uint(id))
	if err != nil {
		return pc.sendResponseWithLog(c, validation.StatusOf(err), types.ApiResponse{
			Status:  validation.StatusOf(err),
			Message: err.Error(),
		})
	}

	updates := map[string]interface{}{
		"updated_by": utils.CurrentUsername(c),
	}
	if req.PackingStatus != nil {
		updates["packing_status"] = *req.PackingStatus
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if err := pc.DB.Model(pl).Updates(updates).Error; err != nil {
		logger.Error("Failed to update packing list", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update packing list",
		})
	}

	var updated packingListModel.PackingList
	if err := pc.DB.Preload("Bundles.Products").First(&updated, pl.ID).Error; err != nil {
		updated = *pl
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Packing list updated successfully",
		Data:    updated,
	})
}

// Delete removes a packing list and all of its bundles. Completed packing
// lists cannot be removed.
func (pc *PackingListController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid packing list id",
		})
	}

	pl, err := validation.EnsurePackingListExists(pc.DB, uint(id))
	if err != nil {
		return pc.sendResponseWithLog(c, validation.StatusOf(err), types.ApiResponse{
			Status:  validation.StatusOf(err),
			Message: err.Error(),
		})
	}

	if !pl.PackingStatus.CanBeDeleted() {
		return pc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: "Completed packing lists cannot be deleted",
		})
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		var bundleIDs []uint
		if err := tx.Model(&bundleModel.Bundle{}).Where("packing_list_id = ?", pl.ID).
			Pluck("id", &bundleIDs).Error; err != nil {
			return err
		}
		if len(bundleIDs) > 0 {
			if err := tx.Where("bundle_id IN ?", bundleIDs).Delete(&bundleModel.BundleProduct{}).Error; err != nil {
				return err
			}
			if err := tx.Where("packing_list_id = ?", pl.ID).Delete(&bundleModel.Bundle{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(pl).Error
	})
	if err != nil {
		logger.Error("Failed to delete packing list", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete packing list",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Packing list and its bundles deleted successfully",
	})
}
