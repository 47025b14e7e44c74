package pickupassign

import (
	"errors"
	"fmt"
	"time"

	"freight-forward/logger"
	partnerModel "freight-forward/models/partner"
	pickupAssignModel "freight-forward/models/pickupassign"
	"freight-forward/types"
	pickupAssignTypes "freight-forward/types/pickupassign"
	"freight-forward/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// PickupAssignController handles pickup assignment HTTP requests
type PickupAssignController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewPickupAssignController creates a new pickup assign controller
func NewPickupAssignController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *PickupAssignController {
	return &PickupAssignController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (pc *PickupAssignController) logAPIRequest(c *fiber.Ctx) {
	pc.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

func (pc *PickupAssignController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.logAPIRequest(c)
	return result
}

func (pc *PickupAssignController) ensurePickupPartner(id uint) (*partnerModel.Partner, int, error) {
	var p partnerModel.Partner
	if err := pc.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.StatusNotFound, fmt.Errorf("partner %d not found", id)
		}
		return nil, fiber.StatusInternalServerError, err
	}
	if p.PartnerType != partnerModel.PartnerTypePickup {
		return nil, fiber.StatusBadRequest, fmt.Errorf("partner %d is not a pickup partner", id)
	}
	return &p, fiber.StatusOK, nil
}

// Store assigns a pickup partner to a set of LR numbers. At least one LR
// number is required; new LR numbers default to Not Collected.
func (pc *PickupAssignController) Store(c *fiber.Ctx) error {
	var req pickupAssignTypes.CreatePickupAssignRequest
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

	pickupDate, err := time.Parse(dateLayout, req.PickupDate)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "pickup_date must be formatted as YYYY-MM-DD",
		})
	}

	if _, status, err := pc.ensurePickupPartner(req.PartnerID); err != nil {
		return pc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: err.Error(),
		})
	}

	assign := pickupAssignModel.PickupAssign{
		PartnerID:  req.PartnerID,
		PickupDate: pickupDate,
		Notes:      req.Notes,
		CreatedBy:  utils.CurrentUsername(c),
	}
	for _, lr := range req.LRNumbers {
		status := pickupAssignModel.LRStatusNotCollected
		if lr.Status != "" {
			status = pickupAssignModel.LRStatus(lr.Status)
		}
		assign.LRNumbers = append(assign.LRNumbers, pickupAssignModel.LRNumber{
			Number: lr.Number,
			Status: status,
		})
	}

	if err := pc.DB.Create(&assign).Error; err != nil {
		logger.Error("Failed to create pickup assignment", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create pickup assignment",
		})
	}

	var created pickupAssignModel.PickupAssign
	if err := pc.DB.Preload("Partner").Preload("LRNumbers").First(&created, assign.ID).Error; err != nil {
		created = assign
	}

	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Pickup assignment created successfully",
		Data:    created,
	})
}

// Index lists pickup assignments with pagination and optional partner
// filter.
func (pc *PickupAssignController) Index(c *fiber.Ctx) error {
	params := utils.ParsePagination(c, "created_at", "created_at", "pickup_date")

	query := pc.DB.Model(&pickupAssignModel.PickupAssign{})

	if partnerID := c.QueryInt("partner_id"); partnerID > 0 {
		query = query.Where("partner_id = ?", partnerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count pickup assignments",
		})
	}

	var assigns []pickupAssignModel.PickupAssign
	if err := query.Preload("Partner").Preload("LRNumbers").
		Offset(params.Offset).Limit(params.Limit).Order(params.OrderClause()).
		Find(&assigns).Error; err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to retrieve pickup assignments",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Pickup assignments retrieved successfully",
		Data: types.PaginatedResponse{
			Data: assigns,
			Meta: types.NewPaginationMeta(total, params.Page, params.Limit),
		},
	})
}

// Show returns one pickup assignment with its partner and LR numbers.
func (pc *PickupAssignController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid pickup assignment id",
		})
	}

	var assign pickupAssignModel.PickupAssign
	if err := pc.DB.Preload("Partner").Preload("LRNumbers").First(&assign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Pickup assignment %d not found", id),
			})
		}
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Pickup assignment retrieved successfully",
		Data:    assign,
	})
}

// Update applies a partial assignment update. When LR numbers are sent they
// replace the stored set, which loses per-LR collection history; status
// flips on single receipts should use the lr-status endpoint instead.
func (pc *PickupAssignController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid pickup assignment id",
		})
	}

	var req pickupAssignTypes.UpdatePickupAssignRequest
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

	var assign pickupAssignModel.PickupAssign
	if err := pc.DB.First(&assign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Pickup assignment %d not found", id),
			})
		}
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	updates := map[string]interface{}{}
	if req.PartnerID != nil {
		if _, status, err := pc.ensurePickupPartner(*req.PartnerID); err != nil {
			return pc.sendResponseWithLog(c, status, types.ApiResponse{
				Status:  status,
				Message: err.Error(),
			})
		}
		updates["partner_id"] = *req.PartnerID
	}
	if req.PickupDate != nil {
		pickupDate, err := time.Parse(dateLayout, *req.PickupDate)
		if err != nil {
			return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "pickup_date must be formatted as YYYY-MM-DD",
			})
		}
		updates["pickup_date"] = pickupDate
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&assign).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.LRNumbers != nil {
			if err := tx.Where("pickup_assign_id = ?", assign.ID).Delete(&pickupAssignModel.LRNumber{}).Error; err != nil {
				return err
			}
			for _, lr := range req.LRNumbers {
				status := pickupAssignModel.LRStatusNotCollected
				if lr.Status != "" {
					status = pickupAssignModel.LRStatus(lr.Status)
				}
				record := pickupAssignModel.LRNumber{
					PickupAssignID: assign.ID,
					Number:         lr.Number,
					Status:         status,
				}
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update pickup assignment", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update pickup assignment",
		})
	}

	var updated pickupAssignModel.PickupAssign
	if err := pc.DB.Preload("Partner").Preload("LRNumbers").First(&updated, assign.ID).Error; err != nil {
		updated = assign
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Pickup assignment updated successfully",
		Data:    updated,
	})
}

// UpdateLRStatus flips the collection status of one LR number within an
// assignment.
func (pc *PickupAssignController) UpdateLRStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid pickup assignment id",
		})
	}

	var req pickupAssignTypes.UpdateLRStatusRequest
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

	var lr pickupAssignModel.LRNumber
	if err := pc.DB.Where("id = ? AND pickup_assign_id = ?", req.LRNumberID, id).First(&lr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("LR number %d not found in assignment %d", req.LRNumberID, id),
			})
		}
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	if err := pc.DB.Model(&lr).Update("status", req.Status).Error; err != nil {
		logger.Error("Failed to update LR status", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update LR status",
		})
	}

	lr.Status = pickupAssignModel.LRStatus(req.Status)
	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "LR status updated successfully",
		Data:    lr,
	})
}

// Delete removes an assignment and its LR numbers.
func (pc *PickupAssignController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid pickup assignment id",
		})
	}

	var assign pickupAssignModel.PickupAssign
	if err := pc.DB.First(&assign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Pickup assignment %d not found", id),
			})
		}
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pickup_assign_id = ?", assign.ID).Delete(&pickupAssignModel.LRNumber{}).Error; err != nil {
			return err
		}
		return tx.Delete(&assign).Error
	})
	if err != nil {
		logger.Error("Failed to delete pickup assignment", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete pickup assignment",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Pickup assignment deleted successfully",
	})
}
