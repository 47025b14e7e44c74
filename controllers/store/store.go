package store

import (
	"errors"
	"fmt"

	"freight-forward/logger"
	storeModel "freight-forward/models/store"
	"freight-forward/types"
	storeTypes "freight-forward/types/store"
	"freight-forward/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreController handles branch office HTTP requests
type StoreController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewStoreController creates a new store controller
func NewStoreController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *StoreController {
	return &StoreController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (sc *StoreController) logAPIRequest(c *fiber.Ctx) {
	sc.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

func (sc *StoreController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	sc.logAPIRequest(c)
	return result
}

// Store creates a branch office. The store code is generated server side.
func (sc *StoreController) Store(c *fiber.Ctx) error {
	var req storeTypes.CreateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return sc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return sc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	s := storeModel.Store{
		StoreCode: "ST-" + uuid.NewString()[:8],
		Name:      req.Name,
		Location:  req.Location,
		Phone:     req.Phone,
		CreatedBy: utils.CurrentUsername(c),
	}

	if err := sc.DB.Create(&s).Error; err != nil {
		logger.Error("Failed to create store", err)
		return sc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create store",
		})
	}

	return sc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Store created successfully",
		Data:    s,
	})
}

// Index lists stores with pagination and name search.
func (sc *StoreController) Index(c *fiber.Ctx) error {
	params := utils.ParsePagination(c, "created_at", "created_at", "name", "store_code")

	query := sc.DB.Model(&storeModel.Store{})
	if params.Search != "" {
		query = query.Where("name LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return sc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count stores",
		})
	}

	var stores []storeModel.Store
	if err := query.Offset(params.Offset).Limit(params.Limit).Order(params.OrderClause()).
		Find(&stores).Error; err != nil {
		return sc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to retrieve stores",
		})
	}

	return sc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Stores retrieved successfully",
		Data: types.PaginatedResponse{
			Data: stores,
			Meta: types.NewPaginationMeta(total, params.Page, params.Limit),
		},
	})
}

// Show returns one store.
func (sc *StoreController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return sc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid store id",
		})
	}

	var s storeModel.Store
	if err := sc.DB.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Store %d not found", id),
			})
		}
		return sc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return sc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Store retrieved successfully",
		Data:    s,
	})
}

// Update applies a partial store update. The store code is immutable.
func (sc *StoreController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return sc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid store id",
		})
	}

	var req storeTypes.UpdateStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return sc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return sc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	var s storeModel.Store
	if err := sc.DB.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Store %d not found", id),
			})
		}
		return sc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if len(updates) == 0 {
		return sc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Nothing to update",
			Data:    s,
		})
	}

	if err := sc.DB.Model(&s).Updates(updates).Error; err != nil {
		logger.Error("Failed to update store", err)
		return sc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update store",
		})
	}

	var updated storeModel.Store
	if err := sc.DB.First(&updated, s.ID).Error; err != nil {
		updated = s
	}

	return sc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Store updated successfully",
		Data:    updated,
	})
}

// Delete removes a store.
func (sc *StoreController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return sc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid store id",
		})
	}

	var s storeModel.Store
	if err := sc.DB.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Store %d not found", id),
			})
		}
		return sc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	if err := sc.DB.Delete(&s).Error; err != nil {
		logger.Error("Failed to delete store", err)
		return sc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete store",
		})
	}

	return sc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Store deleted successfully",
	})
}
