package reminder

import (
	"errors"
	"fmt"
	"time"

	whatsapp "freight-forward/httpServices/whatsapp"
	"freight-forward/logger"
	customerModel "freight-forward/models/customer"
	reminderModel "freight-forward/models/reminder"
	"freight-forward/types"
	reminderTypes "freight-forward/types/reminder"
	"freight-forward/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ReminderController handles reminder HTTP requests
type ReminderController struct {
	DB       *gorm.DB
	Logger   *logger.AsyncLogger
	Whatsapp whatsapp.Sender
}

// NewReminderController creates a new reminder controller
func NewReminderController(db *gorm.DB, asyncLogger *logger.AsyncLogger, sender whatsapp.Sender) *ReminderController {
	return &ReminderController{
		DB:       db,
		Logger:   asyncLogger,
		Whatsapp: sender,
	}
}

func (rc *ReminderController) logAPIRequest(c *fiber.Ctx) {
	rc.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

func (rc *ReminderController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	rc.logAPIRequest(c)
	return result
}

// dispatchWhatsapp attempts one WhatsApp delivery for the reminder and
// records the outcome on the row. A failed send never fails the reminder
// operation itself.
func (rc *ReminderController) dispatchWhatsapp(rem *reminderModel.Reminder) {
	updates := map[string]interface{}{}

	phone := ""
	if rem.CustomerID != nil {
		var cust customerModel.Customer
		if err := rc.DB.First(&cust, *rem.CustomerID).Error; err == nil {
			phone = cust.Phone
		}
	}

	var sendErr error
	if phone == "" {
		sendErr = errors.New("reminder has no customer phone to send to")
	} else if rc.Whatsapp == nil {
		sendErr = errors.New("whatsapp sender is not configured")
	} else {
		message := fmt.Sprintf("Reminder (%s): %s", rem.Purpose, rem.Description)
		sendErr = rc.Whatsapp.SendMessage(phone, message)
	}

	if sendErr != nil {
		msg := sendErr.Error()
		updates["whatsapp_sent"] = false
		updates["whatsapp_error"] = msg
		logger.Warning(fmt.Sprintf("WhatsApp delivery failed for reminder %d: %s", rem.ID, msg))
	} else {
		now := time.Now()
		updates["whatsapp_sent"] = true
		updates["whatsapp_sent_at"] = &now
		updates["whatsapp_error"] = nil
	}

	if err := rc.DB.Model(rem).Updates(updates).Error; err != nil {
		logger.Error("Failed to record WhatsApp delivery outcome", err)
	}
}

// Store creates a reminder. When the whatsapp flag is set, one delivery is
// attempted immediately and its outcome recorded on the reminder.
func (rc *ReminderController) Store(c *fiber.Ctx) error {
	var req reminderTypes.CreateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "date must be formatted as YYYY-MM-DD",
		})
	}

	if req.CustomerID != nil {
		var cust customerModel.Customer
		if err := rc.DB.First(&cust, *req.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
					Status:  fiber.StatusNotFound,
					Message: fmt.Sprintf("Customer %d not found", *req.CustomerID),
				})
			}
			return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Database error",
			})
		}
	}

	rem := reminderModel.Reminder{
		Date:        date,
		Description: req.Description,
		Purpose:     req.Purpose,
		CustomerID:  req.CustomerID,
		Whatsapp:    req.Whatsapp,
		CreatedBy:   utils.CurrentUsername(c),
	}

	if err := rc.DB.Create(&rem).Error; err != nil {
		logger.Error("Failed to create reminder", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create reminder",
		})
	}

	if rem.Whatsapp {
		rc.dispatchWhatsapp(&rem)
	}

	var created reminderModel.Reminder
	if err := rc.DB.Preload("Customer").First(&created, rem.ID).Error; err != nil {
		created = rem
	}

	return rc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Reminder created successfully",
		Data:    created,
	})
}

// Index lists reminders with pagination, optional customer filter and date
// range.
func (rc *ReminderController) Index(c *fiber.Ctx) error {
	params := utils.ParsePagination(c, "date", "date", "created_at", "purpose")

	query := rc.DB.Model(&reminderModel.Reminder{})

	if customerID := c.QueryInt("customer_id"); customerID > 0 {
		query = query.Where("customer_id = ?", customerID)
	}
	if from := c.Query("from"); from != "" {
		if fromDate, err := time.Parse(dateLayout, from); err == nil {
			query = query.Where("date >= ?", fromDate)
		}
	}
	if to := c.Query("to"); to != "" {
		if toDate, err := time.Parse(dateLayout, to); err == nil {
			query = query.Where("date <= ?", toDate)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count reminders",
		})
	}

	var reminders []reminderModel.Reminder
	if err := query.Preload("Customer").
		Offset(params.Offset).Limit(params.Limit).Order(params.OrderClause()).
		Find(&reminders).Error; err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to retrieve reminders",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reminders retrieved successfully",
		Data: types.PaginatedResponse{
			Data: reminders,
			Meta: types.NewPaginationMeta(total, params.Page, params.Limit),
		},
	})
}

// Show returns one reminder with its customer expanded.
func (rc *ReminderController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid reminder id",
		})
	}

	var rem reminderModel.Reminder
	if err := rc.DB.Preload("Customer").First(&rem, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Reminder %d not found", id),
			})
		}
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reminder retrieved successfully",
		Data:    rem,
	})
}

// Update applies a partial reminder update. Turning the whatsapp flag on
// for a reminder that has not been delivered yet triggers one send attempt.
func (rc *ReminderController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid reminder id",
		})
	}

	var req reminderTypes.UpdateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	var rem reminderModel.Reminder
	if err := rc.DB.First(&rem, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Reminder %d not found", id),
			})
		}
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	updates := map[string]interface{}{}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "date must be formatted as YYYY-MM-DD",
			})
		}
		updates["date"] = date
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Purpose != nil {
		updates["purpose"] = *req.Purpose
	}
	if req.CustomerID != nil {
		var cust customerModel.Customer
		if err := rc.DB.First(&cust, *req.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
					Status:  fiber.StatusNotFound,
					Message: fmt.Sprintf("Customer %d not found", *req.CustomerID),
				})
			}
			return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Database error",
			})
		}
		updates["customer_id"] = *req.CustomerID
	}
	if req.Whatsapp != nil {
		updates["whatsapp"] = *req.Whatsapp
	}

	if len(updates) > 0 {
		if err := rc.DB.Model(&rem).Updates(updates).Error; err != nil {
			logger.Error("Failed to update reminder", err)
			return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to update reminder",
			})
		}
	}

	var updated reminderModel.Reminder
	if err := rc.DB.First(&updated, rem.ID).Error; err != nil {
		updated = rem
	}
	if updated.Whatsapp && !updated.WhatsappSent {
		rc.dispatchWhatsapp(&updated)
		if err := rc.DB.First(&updated, rem.ID).Error; err != nil {
			updated = rem
		}
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reminder updated successfully",
		Data:    updated,
	})
}

// SendWhatsapp re-triggers a WhatsApp delivery for a reminder regardless of
// earlier attempts.
func (rc *ReminderController) SendWhatsapp(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid reminder id",
		})
	}

	var rem reminderModel.Reminder
	if err := rc.DB.First(&rem, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Reminder %d not found", id),
			})
		}
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	rc.dispatchWhatsapp(&rem)

	var updated reminderModel.Reminder
	if err := rc.DB.Preload("Customer").First(&updated, rem.ID).Error; err != nil {
		updated = rem
	}

	message := "WhatsApp delivery attempted"
	if updated.WhatsappSent {
		message = "WhatsApp message sent successfully"
	}
	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: message,
		Data:    updated,
	})
}

// Delete removes a reminder.
func (rc *ReminderController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid reminder id",
		})
	}

	var rem reminderModel.Reminder
	if err := rc.DB.First(&rem, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Reminder %d not found", id),
			})
		}
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	if err := rc.DB.Delete(&rem).Error; err != nil {
		logger.Error("Failed to delete reminder", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete reminder",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reminder deleted successfully",
	})
}
