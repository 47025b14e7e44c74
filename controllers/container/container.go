package container

import (
	"errors"
	"fmt"

	"freight-forward/logger"
	containerModel "freight-forward/models/container"
	"freight-forward/services/balance"
	"freight-forward/services/codegen"
	"freight-forward/types"
	containerTypes "freight-forward/types/container"
	"freight-forward/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContainerController handles container-related HTTP requests
type ContainerController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewContainerController creates a new container controller
func NewContainerController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *ContainerController {
	return &ContainerController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (cc *ContainerController) logAPIRequest(c *fiber.Ctx) {
	cc.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

func (cc *ContainerController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	cc.logAPIRequest(c)
	return result
}

// Store creates a container. The code is generated per month (CNT + YYMM +
// sequence) and insertion is retried on a duplicate code.
func (cc *ContainerController) Store(c *fiber.Ctx) error {
	var req containerTypes.CreateContainerRequest
	if err := c.BodyParser(&req); err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	charge := decimal.Zero
	if req.BookingCharge != nil {
		charge = *req.BookingCharge
	}
	advance := decimal.Zero
	if req.AdvancePayment != nil {
		advance = *req.AdvancePayment
	}

	status := containerModel.ContainerStatusOpen
	if req.Status != "" {
		status = containerModel.ContainerStatus(req.Status)
	}

	cn := containerModel.Container{
		VesselName:     req.VesselName,
		BookingCharge:  charge,
		AdvancePayment: advance,
		BalanceAmount:  balance.ContainerBalance(charge, advance),
		Status:         status,
		Notes:          req.Notes,
		CreatedBy:      utils.CurrentUsername(c),
	}

	if err := codegen.CreateContainerWithUniqueCode(cc.DB, &cn); err != nil {
		if errors.Is(err, codegen.ErrCodeExhausted) {
			return cc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Unable to generate a unique container code, please retry",
			})
		}
		logger.Error("Failed to create container", err)
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create container",
		})
	}

	return cc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Container created successfully",
		Data:    cn,
	})
}

// Index lists containers with pagination and optional status filter. Search
// matches container code and vessel name.
func (cc *ContainerController) Index(c *fiber.Ctx) error {
	params := utils.ParsePagination(c, "created_at", "created_at", "container_code", "status", "vessel_name")

	query := cc.DB.Model(&containerModel.Container{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if params.Search != "" {
		query = query.Where("container_code LIKE ? OR vessel_name LIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count containers",
		})
	}

	var containers []containerModel.Container
	if err := query.Offset(params.Offset).Limit(params.Limit).Order(params.OrderClause()).
		Find(&containers).Error; err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to retrieve containers",
		})
	}

	return cc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Containers retrieved successfully",
		Data: types.PaginatedResponse{
			Data: containers,
			Meta: types.NewPaginationMeta(total, params.Page, params.Limit),
		},
	})
}

// Show returns one container.
func (cc *ContainerController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid container id",
		})
	}

	var cn containerModel.Container
	if err := cc.DB.First(&cn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Container %d not found", id),
			})
		}
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return cc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Container retrieved successfully",
		Data:    cn,
	})
}

// Update applies a partial container update. When booking charge or advance
// payment changes, the balance is recomputed against the stored value of the
// field that was not sent.
func (cc *ContainerController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid container id",
		})
	}

	var req containerTypes.UpdateContainerRequest
	if err := c.BodyParser(&req); err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	var cn containerModel.Container
	if err := cc.DB.First(&cn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Container %d not found", id),
			})
		}
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	updates := balance.ResolveContainerUpdate(&cn, req.BookingCharge, req.AdvancePayment)
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if req.VesselName != nil {
		updates["vessel_name"] = *req.VesselName
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		return cc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Nothing to update",
			Data:    cn,
		})
	}
	updates["updated_by"] = utils.CurrentUsername(c)

	if err := cc.DB.Model(&cn).Updates(updates).Error; err != nil {
		logger.Error("Failed to update container", err)
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update container",
		})
	}

	var updated containerModel.Container
	if err := cc.DB.First(&updated, cn.ID).Error; err != nil {
		updated = cn
	}

	return cc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Container updated successfully",
		Data:    updated,
	})
}

// Delete removes a container. Containers with bundles assigned cannot be
// removed.
func (cc *ContainerController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid container id",
		})
	}

	var cn containerModel.Container
	if err := cc.DB.First(&cn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Container %d not found", id),
			})
		}
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	var assigned int64
	if err := cc.DB.Table("bundles").Where("container_id = ?", cn.ID).Count(&assigned).Error; err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if assigned > 0 {
		return cc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: fmt.Sprintf("Container has %d bundle(s) assigned and cannot be deleted", assigned),
		})
	}

	if err := cc.DB.Delete(&cn).Error; err != nil {
		logger.Error("Failed to delete container", err)
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete container",
		})
	}

	return cc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Container deleted successfully",
	})
}
