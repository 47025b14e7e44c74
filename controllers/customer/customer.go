package customer

import (
	"errors"
	"fmt"
	"time"

	"freight-forward/logger"
	customerModel "freight-forward/models/customer"
	"freight-forward/types"
	customerTypes "freight-forward/types/customer"
	"freight-forward/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CustomerController handles customer-related HTTP requests
type CustomerController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewCustomerController creates a new customer controller
func NewCustomerController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *CustomerController {
	return &CustomerController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (cc *CustomerController) logAPIRequest(c *fiber.Ctx) {
	cc.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

func (cc *CustomerController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	cc.logAPIRequest(c)
	return result
}

// Store creates a new sender or receiver customer. Fields belonging to the
// other customer type are dropped before persisting.
func (cc *CustomerController) Store(c *fiber.Ctx) error {
	var req customerTypes.CreateCustomerRequest
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

	customerType := customerModel.CustomerType(req.CustomerType)

	cust := customerModel.Customer{
		CustomerType: customerType,
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		CreatedBy:    utils.CurrentUsername(c),
	}
	if req.Credit != nil {
		cust.Credit = *req.Credit
	}
	if req.Discount != nil {
		cust.Discount = *req.Discount
	}

	// Sender-only and receiver-only fields are gated by type at write time.
	switch customerType {
	case customerModel.CustomerTypeSender:
		cust.AccountDetails = req.AccountDetails
	case customerModel.CustomerTypeReceiver:
		for _, b := range req.Branches {
			cust.Branches = append(cust.Branches, customerModel.CustomerBranch{
				Name:     b.Name,
				Location: b.Location,
				Phone:    b.Phone,
				Contact:  b.Contact,
			})
		}
	}

	if err := cc.DB.Create(&cust).Error; err != nil {
		logger.Error("Failed to create customer", err)
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create customer",
		})
	}

	var created customerModel.Customer
	if err := cc.DB.Preload("Branches").Preload("Payments").First(&created, cust.ID).Error; err != nil {
		logger.Error("Failed to reload customer", err)
		created = cust
	}

	return cc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Customer created successfully",
		Data:    created,
	})
}

// Index lists customers with pagination, type filter and name search.
func (cc *CustomerController) Index(c *fiber.Ctx) error {
	params := utils.ParsePagination(c, "created_at", "created_at", "name", "customer_type")

	query := cc.DB.Model(&customerModel.Customer{})

	if customerType := c.Query("customer_type"); customerType != "" {
		query = query.Where("customer_type = ?", customerType)
	}
	if params.Search != "" {
		query = query.Where("name LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count customers",
		})
	}

	var customers []customerModel.Customer
	if err := query.Preload("Branches").
		Offset(params.Offset).Limit(params.Limit).Order(params.OrderClause()).
		Find(&customers).Error; err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to retrieve customers",
		})
	}

	return cc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Customers retrieved successfully",
		Data: types.PaginatedResponse{
			Data: customers,
			Meta: types.NewPaginationMeta(total, params.Page, params.Limit),
		},
	})
}

// Show returns one customer with its relations expanded.
func (cc *CustomerController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid customer id",
		})
	}

	var cust customerModel.Customer
	if err := cc.DB.Preload("Branches").Preload("Payments").First(&cust, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Customer %d not found", id),
			})
		}
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	return cc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Customer retrieved successfully",
		Data:    cust,
	})
}

// Update applies a partial customer update. Cross-type fields are still
// gated by the stored customer type; the type itself is immutable here.
func (cc *CustomerController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid customer id",
		})
	}

	var req customerTypes.UpdateCustomerRequest
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

	var cust customerModel.Customer
	if err := cc.DB.First(&cust, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Customer %d not found", id),
			})
		}
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	updates := map[string]interface{}{
		"updated_by": utils.CurrentUsername(c),
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Credit != nil {
		updates["credit"] = *req.Credit
	}
	if req.Discount != nil {
		updates["discount"] = *req.Discount
	}
	if req.AccountDetails != nil && cust.CustomerType == customerModel.CustomerTypeSender {
		updates["account_details"] = *req.AccountDetails
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&cust).Updates(updates).Error; err != nil {
			return err
		}

		// Replacing branches is receiver-only.
		if req.Branches != nil && cust.CustomerType == customerModel.CustomerTypeReceiver {
			if err := tx.Where("customer_id = ?", cust.ID).Delete(&customerModel.CustomerBranch{}).Error; err != nil {
				return err
			}
			for _, b := range req.Branches {
				branch := customerModel.CustomerBranch{
					CustomerID: cust.ID,
					Name:       b.Name,
					Location:   b.Location,
					Phone:      b.Phone,
					Contact:    b.Contact,
				}
				if err := tx.Create(&branch).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update customer", err)
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update customer",
		})
	}

	var updated customerModel.Customer
	if err := cc.DB.Preload("Branches").Preload("Payments").First(&updated, cust.ID).Error; err != nil {
		updated = cust
	}

	return cc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Customer updated successfully",
		Data:    updated,
	})
}

// AddPayment appends one payment history row to a receiver customer.
func (cc *CustomerController) AddPayment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid customer id",
		})
	}

	var req customerTypes.AddPaymentRequest
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

	paidAt, err := time.Parse("2006-01-02", req.PaidAt)
	if err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "paid_at must be formatted as YYYY-MM-DD",
		})
	}

	var cust customerModel.Customer
	if err := cc.DB.First(&cust, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Customer %d not found", id),
			})
		}
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}
	if cust.CustomerType != customerModel.CustomerTypeReceiver {
		return cc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Payment history is only kept for Receiver customers",
		})
	}

	payment := customerModel.CustomerPayment{
		CustomerID: cust.ID,
		Amount:     req.Amount,
		PaidAt:     paidAt,
		Reference:  req.Reference,
		Notes:      req.Notes,
	}
	if err := cc.DB.Create(&payment).Error; err != nil {
		logger.Error("Failed to record payment", err)
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to record payment",
		})
	}

	return cc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Payment recorded successfully",
		Data:    payment,
	})
}

// Delete soft-deletes a customer.
func (cc *CustomerController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return cc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid customer id",
		})
	}

	var cust customerModel.Customer
	if err := cc.DB.First(&cust, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: fmt.Sprintf("Customer %d not found", id),
			})
		}
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
		})
	}

	if err := cc.DB.Delete(&cust).Error; err != nil {
		logger.Error("Failed to delete customer", err)
		return cc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to delete customer",
		})
	}

	return cc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Customer deleted successfully",
	})
}
