package partner

import (
	"errors"
	"fmt"

	"freight-forward/logger"
	partnerModel "freight-forward/models/partner"
	"freight-forward/types"
	partnerTypes "freight-forward/types/partner"
	"freight-forward/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PartnerController handles pickup and delivery partner HTTP requests
type PartnerController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewPartnerController creates a new partner controller
func NewPartnerController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *PartnerController {
	return &PartnerController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (pc *PartnerController) logAPIRequest(c *fiber.Ctx) {
	pc.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

func (pc *PartnerController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.logAPIRequest(c)
	return result
}

// Store creates a partner. The partner type is fixed at creation.
func (pc *PartnerController) Store(c *fiber.Ctx) error {
	var req partnerTypes.CreatePartnerRequest
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

	p := partnerModel.Partner{
		Name:        req.Name,
		PartnerType: partnerModel.PartnerType(req.PartnerType),
		Phone:       req.Phone,
		Location:    req.Location,
		CreatedBy:   utils.CurrentUsername(c),
	}
	if req.Price != nil {
		p.Price = *req.Price
	}

	if err := pc.DB.Create(&p).Error; err != nil {
		logger.Error("Failed to create partner", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create partner",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Partner created successfully",
		Data:    p,
	})
}

// Index lists partners with pagination, optional type filter and name
// search.
func (pc *PartnerController) Index(c *fiber.Ctx) error {
	params := utils.ParsePagination(c, "created_at", "created_at", "name", "partner_type")

	query := pc.DB.Model(&partnerModel.Partner{})

	if partnerType := c.Query("partner_type"); partnerType != "" {
		query = query.Where("partner_type = ?", partnerType)
	}
	if params.Search != "" {
		query = query.Where("name LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count partners",
		})
	}

	var partners []partnerModel.Partner
	if err := query.Offset(params.Offset).Limit(params.Limit).Order(params.OrderClause()).
		Find(&partners).Error; err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to retrieve partners",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Partners retrieved successfully",
		Data: types.PaginatedResponse{
			Data: partners,
			Meta: types.NewPaginationMeta(total, params.Page, params.Limit),
		},
	})
}

// Show returns one partner.
func (pc *PartnerController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid partner id",
		})
	}

	var p partnerModel.Partner
	if err := pc.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Partner %d not found", id),
			})
		}
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Partner retrieved successfully",
		Data:    p,
	})
}

// Update applies a partial partner update. A later price change does not
// reflow into existing price listings until those are re-edited.
func (pc *PartnerController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid partner id",
		})
	}

	var req partnerTypes.UpdatePartnerRequest
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

	var p partnerModel.Partner
	if err := pc.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Partner %d not found", id),
			})
		}
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if len(updates) == 0 {
		return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Nothing to update",
			Data:    p,
		})
	}

	if err := pc.DB.Model(&p).Updates(updates).Error; err != nil {
		logger.Error("Failed to update partner", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update partner",
		})
	}

	var updated partnerModel.Partner
	if err := pc.DB.First(&updated, p.ID).Error; err != nil {
		updated = p
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Partner updated successfully",
		Data:    updated,
	})
}

// Delete removes a partner unless bookings, assignments or price listings
// still reference it.
func (pc *PartnerController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid partner id",
		})
	}

	var p partnerModel.Partner
	if err := pc.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Partner %d not found", id),
			})
		}
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	refCounts := map[string]string{
		"bookings":       "pickup_partner_id = ?",
		"pickup_assigns": "partner_id = ?",
		"price_listings": "delivery_partner_id = ?",
	}
	for table, clause := range refCounts {
		var n int64
		if err := pc.DB.Table(table).Where(clause, p.ID).Count(&n).Error; err != nil {
			return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Database error",
			})
		}
		if n > 0 {
			return pc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: fmt.Sprintf("Partner is referenced by %d record(s) in %s and cannot be deleted", n, table),
			})
		}
	}

	if err := pc.DB.Delete(&p).Error; err != nil {
		logger.Error("Failed to delete partner", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete partner",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Partner deleted successfully",
	})
}
