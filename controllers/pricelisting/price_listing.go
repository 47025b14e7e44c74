package pricelisting

import (
	"errors"
	"fmt"

	"freight-forward/logger"
	priceListingModel "freight-forward/models/pricelisting"
	"freight-forward/services/balance"
	"freight-forward/types"
	priceListingTypes "freight-forward/types/pricelisting"
	"freight-forward/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PriceListingController handles route price HTTP requests
type PriceListingController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewPriceListingController creates a new price listing controller
func NewPriceListingController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *PriceListingController {
	return &PriceListingController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (pc *PriceListingController) logAPIRequest(c *fiber.Ctx) {
	pc.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

func (pc *PriceListingController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	pc.logAPIRequest(c)
	return result
}

// Store creates a route price. The total is derived server side from the
// amount plus the selected delivery partner's current price.
func (pc *PriceListingController) Store(c *fiber.Ctx) error {
	var req priceListingTypes.CreatePriceListingRequest
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

	total, err := balance.PriceListingTotal(pc.DB, req.Amount, req.DeliveryPartnerID)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	pl := priceListingModel.PriceListing{
		FromCountry:       req.FromCountry,
		ToCountry:         req.ToCountry,
		Amount:            req.Amount,
		DeliveryPartnerID: req.DeliveryPartnerID,
		TotalAmount:       total,
		CreatedBy:         utils.CurrentUsername(c),
	}

	if err := pc.DB.Create(&pl).Error; err != nil {
		logger.Error("Failed to create price listing", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create price listing",
		})
	}

	var created priceListingModel.PriceListing
	if err := pc.DB.Preload("DeliveryPartner").First(&created, pl.ID).Error; err != nil {
		created = pl
	}

	return pc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Price listing created successfully",
		Data:    created,
	})
}

// Index lists route prices with pagination and optional country filters.
func (pc *PriceListingController) Index(c *fiber.Ctx) error {
	params := utils.ParsePagination(c, "created_at", "created_at", "from_country", "to_country", "amount")

	query := pc.DB.Model(&priceListingModel.PriceListing{})

	if from := c.Query("from_country"); from != "" {
		query = query.Where("from_country = ?", from)
	}
	if to := c.Query("to_country"); to != "" {
		query = query.Where("to_country = ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count price listings",
		})
	}

	var listings []priceListingModel.PriceListing
	if err := query.Preload("DeliveryPartner").
		Offset(params.Offset).Limit(params.Limit).Order(params.OrderClause()).
		Find(&listings).Error; err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to retrieve price listings",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Price listings retrieved successfully",
		Data: types.PaginatedResponse{
			Data: listings,
			Meta: types.NewPaginationMeta(total, params.Page, params.Limit),
		},
	})
}

// Show returns one price listing with its delivery partner expanded.
func (pc *PriceListingController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid price listing id",
		})
	}

	var pl priceListingModel.PriceListing
	if err := pc.DB.Preload("DeliveryPartner").First(&pl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Price listing %d not found", id),
			})
		}
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Price listing retrieved successfully",
		Data:    pl,
	})
}

// Update applies a partial price listing update. Whenever amount or partner
// selection changes, the total is recomputed with a fresh partner price
// lookup; clear_partner removes the partner and the total falls back to the
// bare amount.
func (pc *PriceListingController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid price listing id",
		})
	}

	var req priceListingTypes.UpdatePriceListingRequest
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

	var pl priceListingModel.PriceListing
	if err := pc.DB.First(&pl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Price listing %d not found", id),
			})
		}
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	amount := pl.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}
	partnerID := pl.DeliveryPartnerID
	if req.ClearPartner {
		partnerID = nil
	} else if req.DeliveryPartnerID != nil {
		partnerID = req.DeliveryPartnerID
	}

	total, err := balance.PriceListingTotal(pc.DB, amount, partnerID)
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	updates := map[string]interface{}{
		"amount":              amount,
		"delivery_partner_id": partnerID,
		"total_amount":        total,
	}
	if req.FromCountry != nil {
		updates["from_country"] = *req.FromCountry
	}
	if req.ToCountry != nil {
		updates["to_country"] = *req.ToCountry
	}

	if err := pc.DB.Model(&pl).Updates(updates).Error; err != nil {
		logger.Error("Failed to update price listing", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update price listing",
		})
	}

	var updated priceListingModel.PriceListing
	if err := pc.DB.Preload("DeliveryPartner").First(&updated, pl.ID).Error; err != nil {
		updated = pl
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Price listing updated successfully",
		Data:    updated,
	})
}

// Delete removes a price listing.
func (pc *PriceListingController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return pc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid price listing id",
		})
	}

	var pl priceListingModel.PriceListing
	if err := pc.DB.First(&pl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Price listing %d not found", id),
			})
		}
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	if err := pc.DB.Delete(&pl).Error; err != nil {
		logger.Error("Failed to delete price listing", err)
		return pc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete price listing",
		})
	}

	return pc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Price listing deleted successfully",
	})
}
