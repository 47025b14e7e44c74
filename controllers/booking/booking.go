package booking

import (
	"errors"
	"fmt"
	"time"

	"freight-forward/logger"
	bookingModel "freight-forward/models/booking"
	"freight-forward/services/booking_event"
	"freight-forward/services/codegen"
	"freight-forward/services/validation"
	"freight-forward/types"
	bookingTypes "freight-forward/types/booking"
	"freight-forward/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// BookingController handles booking-related HTTP requests
type BookingController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewBookingController creates a new booking controller
func NewBookingController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *BookingController {
	return &BookingController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (bc *BookingController) logAPIRequest(c *fiber.Ctx) {
	bc.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

func (bc *BookingController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	bc.logAPIRequest(c)
	return result
}

func (bc *BookingController) loadBooking(id uint) (*bookingModel.Booking, error) {
	var bk bookingModel.Booking
	err := bc.DB.Preload("Sender").Preload("Receiver.Branches").Preload("PickupPartner").
		First(&bk, id).Error
	if err != nil {
		return nil, err
	}
	return &bk, nil
}

// Store creates a booking. The booking code is generated from sender name,
// receiver name and booking date; the unique index on booking_code is the
// collision authority and insertion is retried with a fresh code on
// conflict.
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.CreateBookingRequest
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

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "date must be formatted as YYYY-MM-DD",
		})
	}
	expected, err := time.Parse(dateLayout, req.ExpectedReceivingDate)
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "expected_receiving_date must be formatted as YYYY-MM-DD",
		})
	}

	refs, err := validation.ValidateBookingRefs(bc.DB, req.SenderID, req.ReceiverID, req.ReceiverBranch, req.PickupPartner, date, expected, req.BundleCount)
	if err != nil {
		return bc.sendResponseWithLog(c, validation.StatusOf(err), types.ApiResponse{
			Status:  validation.StatusOf(err),
			Message: err.Error(),
		})
	}

	bk := bookingModel.Booking{
		SenderID:              req.SenderID,
		ReceiverID:            req.ReceiverID,
		ReceiverBranch:        req.ReceiverBranch,
		PickupKind:            refs.PickupKind,
		PickupPartnerID:       refs.PickupPartnerID,
		Date:                  date,
		ExpectedReceivingDate: expected,
		BundleCount:           req.BundleCount,
		Status:                bookingModel.BookingStatusPending,
		Notes:                 req.Notes,
		CreatedBy:             utils.CurrentUsername(c),
	}

	err = bc.DB.Transaction(func(tx *gorm.DB) error {
		if err := codegen.CreateBookingWithUniqueCode(tx, &bk, refs.Sender.Name, refs.Receiver.Name); err != nil {
			return err
		}
		return booking_event.RecordStatusChange(tx, bk.ID, bk.Status, bk.CreatedBy)
	})
	if err != nil {
		if errors.Is(err, codegen.ErrCodeExhausted) {
			return bc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
				Status:  fiber.StatusConflict,
				Message: "Unable to generate a unique booking code, please retry",
			})
		}
		logger.Error("Failed to create booking", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create booking",
		})
	}

	created, err := bc.loadBooking(bk.ID)
	if err != nil {
		created = &bk
	}

	return bc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Booking created successfully",
		Data:    created,
	})
}

// Index lists bookings with pagination and optional status, sender and
// receiver filters. Search matches the booking code.
func (bc *BookingController) Index(c *fiber.Ctx) error {
	params := utils.ParsePagination(c, "created_at", "created_at", "date", "booking_code", "status")

	query := bc.DB.Model(&bookingModel.Booking{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if senderID := c.QueryInt("sender_id"); senderID > 0 {
		query = query.Where("sender_id = ?", senderID)
	}
	if receiverID := c.QueryInt("receiver_id"); receiverID > 0 {
		query = query.Where("receiver_id = ?", receiverID)
	}
	if params.Search != "" {
		query = query.Where("booking_code LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count bookings",
		})
	}

	var bookings []bookingModel.Booking
	if err := query.Preload("Sender").Preload("Receiver").Preload("PickupPartner").
		Offset(params.Offset).Limit(params.Limit).Order(params.OrderClause()).
		Find(&bookings).Error; err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to retrieve bookings",
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bookings retrieved successfully",
		Data: types.PaginatedResponse{
			Data: bookings,
			Meta: types.NewPaginationMeta(total, params.Page, params.Limit),
		},
	})
}

// Show returns one booking with sender, receiver and pickup partner
// expanded.
func (bc *BookingController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	bk, err := bc.loadBooking(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Booking %d not found", id),
			})
		}
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking retrieved successfully",
		Data:    bk,
	})
}

// History returns the status change events of a booking, newest first.
func (bc *BookingController) History(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	if _, err := validation.EnsureBookingExists(bc.DB, uint(id)); err != nil {
		return bc.sendResponseWithLog(c, validation.StatusOf(err), types.ApiResponse{
			Status:  validation.StatusOf(err),
			Message: err.Error(),
		})
	}

	var events []bookingModel.BookingStatusEvent
	if err := bc.DB.Where("booking_id = ?", id).Order("created_at DESC").Find(&events).Error; err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to retrieve booking history",
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking history retrieved successfully",
		Data:    events,
	})
}

// Update applies a partial booking update. Cross-entity references are
// re-validated against the merged state and the booking code never changes.
func (bc *BookingController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	var req bookingTypes.UpdateBookingRequest
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

	var bk bookingModel.Booking
	if err := bc.DB.First(&bk, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Booking %d not found", id),
			})
		}
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	// Merge the request onto the stored booking, then validate the merged
	// state the same way a create is validated.
	senderID := bk.SenderID
	if req.SenderID != nil {
		senderID = *req.SenderID
	}
	receiverID := bk.ReceiverID
	if req.ReceiverID != nil {
		receiverID = *req.ReceiverID
	}
	receiverBranch := bk.ReceiverBranch
	if req.ReceiverBranch != nil {
		if *req.ReceiverBranch == "" {
			receiverBranch = nil
		} else {
			receiverBranch = req.ReceiverBranch
		}
	}

	pickupRaw := string(bk.PickupKind)
	switch bk.PickupKind {
	case bookingModel.PickupKindSelf:
		pickupRaw = bookingModel.PickupSentinelSelf
	case bookingModel.PickupKindCentral:
		pickupRaw = bookingModel.PickupSentinelCentral
	case bookingModel.PickupKindPartner:
		pickupRaw = fmt.Sprintf("%d", *bk.PickupPartnerID)
	}
	if req.PickupPartner != nil {
		pickupRaw = *req.PickupPartner
	}

	date := bk.Date
	if req.Date != nil {
		date, err = time.Parse(dateLayout, *req.Date)
		if err != nil {
			return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "date must be formatted as YYYY-MM-DD",
			})
		}
	}
	expected := bk.ExpectedReceivingDate
	if req.ExpectedReceivingDate != nil {
		expected, err = time.Parse(dateLayout, *req.ExpectedReceivingDate)
		if err != nil {
			return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "expected_receiving_date must be formatted as YYYY-MM-DD",
			})
		}
	}
	bundleCount := bk.BundleCount
	if req.BundleCount != nil {
		bundleCount = *req.BundleCount
	}

	refs, err := validation.ValidateBookingRefs(bc.DB, senderID, receiverID, receiverBranch, pickupRaw, date, expected, bundleCount)
	if err != nil {
		return bc.sendResponseWithLog(c, validation.StatusOf(err), types.ApiResponse{
			Status:  validation.StatusOf(err),
			Message: err.Error(),
		})
	}

	updates := map[string]interface{}{
		"sender_id":               senderID,
		"receiver_id":             receiverID,
		"receiver_branch":         receiverBranch,
		"pickup_kind":             refs.PickupKind,
		"pickup_partner_id":       refs.PickupPartnerID,
		"date":                    date,
		"expected_receiving_date": expected,
		"bundle_count":            bundleCount,
		"updated_by":              utils.CurrentUsername(c),
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	statusChanged := false
	if req.Status != nil && bookingModel.BookingStatus(*req.Status) != bk.Status {
		updates["status"] = *req.Status
		statusChanged = true
	}

	err = bc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&bk).Updates(updates).Error; err != nil {
			return err
		}
		if statusChanged {
			return booking_event.RecordStatusChange(tx, bk.ID, bookingModel.BookingStatus(*req.Status), utils.CurrentUsername(c))
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update booking", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update booking",
		})
	}

	updated, err := bc.loadBooking(bk.ID)
	if err != nil {
		updated = &bk
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking updated successfully",
		Data:    updated,
	})
}

// Delete removes a booking. A booking with a packing list cannot be removed.
func (bc *BookingController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
		})
	}

	bk, err := validation.EnsureBookingExists(bc.DB, uint(id))
	if err != nil {
		return bc.sendResponseWithLog(c, validation.StatusOf(err), types.ApiResponse{
			Status:  validation.StatusOf(err),
			Message: err.Error(),
		})
	}

	if err := validation.EnsurePackingListAvailable(bc.DB, bk.ID, 0); err != nil {
		status := validation.StatusOf(err)
		message := err.Error()
		if status == fiber.StatusConflict {
			message = "Booking has a packing list and cannot be deleted"
		}
		return bc.sendResponseWithLog(c, status, types.ApiResponse{
			Status:  status,
			Message: message,
		})
	}

	err = bc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", bk.ID).Delete(&bookingModel.BookingStatusEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(bk).Error
	})
	if err != nil {
		logger.Error("Failed to delete booking", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete booking",
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking deleted successfully",
	})
}
