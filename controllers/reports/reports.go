package reports

import (
	"sync"
	"time"

	"freight-forward/logger"
	bookingModel "freight-forward/models/booking"
	bundleModel "freight-forward/models/bundle"
	containerModel "freight-forward/models/container"
	customerModel "freight-forward/models/customer"
	"freight-forward/types"
	"freight-forward/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportsController serves back-office dashboard aggregates
type ReportsController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewReportsController creates a new reports controller
func NewReportsController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *ReportsController {
	return &ReportsController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (rc *ReportsController) logAPIRequest(c *fiber.Ctx) {
	rc.Logger.Log(utils.CreateSanitizedLogEntry(c))
}

func (rc *ReportsController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	rc.logAPIRequest(c)
	return result
}

// reportRange resolves the requested period; defaults to the current month.
func reportRange(c *fiber.Ctx) (time.Time, time.Time) {
	n := now.New(time.Now())
	start := n.BeginningOfMonth()
	end := n.EndOfMonth()

	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			start = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end = now.New(t).EndOfDay()
		}
	}
	return start, end
}

// Bookings reports booking volume for the period, split by status and
// pickup kind. The independent counts run concurrently.
func (rc *ReportsController) Bookings(c *fiber.Ctx) error {
	start, end := reportRange(c)

	base := func() *gorm.DB {
		return rc.DB.Model(&bookingModel.Booking{}).Where("date BETWEEN ? AND ?", start, end)
	}

	var (
		total, pending, success          int64
		partnerPickup, selfDrop, central int64
		bundles                          int64
	)
	counts := []struct {
		dest  *int64
		query func() *gorm.DB
	}{
		{&total, base},
		{&pending, func() *gorm.DB { return base().Where("status = ?", bookingModel.BookingStatusPending) }},
		{&success, func() *gorm.DB { return base().Where("status = ?", bookingModel.BookingStatusSuccess) }},
		{&partnerPickup, func() *gorm.DB { return base().Where("pickup_kind = ?", bookingModel.PickupKindPartner) }},
		{&selfDrop, func() *gorm.DB { return base().Where("pickup_kind = ?", bookingModel.PickupKindSelf) }},
		{&central, func() *gorm.DB { return base().Where("pickup_kind = ?", bookingModel.PickupKindCentral) }},
	}

	var wg sync.WaitGroup
	var firstErr error
	var mu sync.Mutex
	for _, cnt := range counts {
		wg.Add(1)
		go func(dest *int64, query func() *gorm.DB) {
			defer wg.Done()
			if err := query().Count(dest).Error; err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(cnt.dest, cnt.query)
	}
	wg.Wait()
	if firstErr != nil {
		logger.Error("Failed to compute booking report", firstErr)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to compute booking report",
		})
	}

	type row struct{ Sum int64 }
	var r row
	if err := base().Select("COALESCE(SUM(bundle_count), 0) as sum").Scan(&r).Error; err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to compute booking report",
		})
	}
	bundles = r.Sum

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking report computed successfully",
		Data: fiber.Map{
			"from":  start.Format("2006-01-02"),
			"to":    end.Format("2006-01-02"),
			"total": total,
			"by_status": fiber.Map{
				"pending": pending,
				"success": success,
			},
			"by_pickup": fiber.Map{
				"partner": partnerPickup,
				"self":    selfDrop,
				"central": central,
			},
			"declared_bundles": bundles,
		},
	})
}

// Containers reports container counts per lifecycle status plus the summed
// charges and outstanding balance for the period.
func (rc *ReportsController) Containers(c *fiber.Ctx) error {
	start, end := reportRange(c)

	base := rc.DB.Model(&containerModel.Container{}).Where("created_at BETWEEN ? AND ?", start, end)

	type statusRow struct {
		Status string
		Count  int64
	}
	var statusRows []statusRow
	if err := base.Session(&gorm.Session{}).
		Select("status, COUNT(*) as count").Group("status").Scan(&statusRows).Error; err != nil {
		logger.Error("Failed to compute container report", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to compute container report",
		})
	}

	byStatus := map[string]int64{
		containerModel.ContainerStatusOpen.String():       0,
		containerModel.ContainerStatusStuffing.String():   0,
		containerModel.ContainerStatusDispatched.String(): 0,
		containerModel.ContainerStatusArrived.String():    0,
	}
	var total int64
	for _, row := range statusRows {
		byStatus[row.Status] = row.Count
		total += row.Count
	}

	type sums struct {
		Charge  decimal.Decimal
		Advance decimal.Decimal
		Balance decimal.Decimal
	}
	var s sums
	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(booking_charge), 0) as charge, COALESCE(SUM(advance_payment), 0) as advance, COALESCE(SUM(balance_amount), 0) as balance").
		Scan(&s).Error; err != nil {
		logger.Error("Failed to compute container totals", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to compute container report",
		})
	}

	var stuffedBundles int64
	if err := rc.DB.Model(&bundleModel.Bundle{}).Where("container_id IS NOT NULL").Count(&stuffedBundles).Error; err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to compute container report",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Container report computed successfully",
		Data: fiber.Map{
			"from":                start.Format("2006-01-02"),
			"to":                  end.Format("2006-01-02"),
			"total":               total,
			"by_status":           byStatus,
			"booking_charge_sum":  s.Charge,
			"advance_payment_sum": s.Advance,
			"balance_amount_sum":  s.Balance,
			"stuffed_bundles":     stuffedBundles,
		},
	})
}

// Customers reports sender and receiver counts plus the most active senders
// of the period.
func (rc *ReportsController) Customers(c *fiber.Ctx) error {
	start, end := reportRange(c)

	var senders, receivers int64
	var wg sync.WaitGroup
	var firstErr error
	var mu sync.Mutex

	countType := func(dest *int64, customerType customerModel.CustomerType) {
		defer wg.Done()
		err := rc.DB.Model(&customerModel.Customer{}).
			Where("customer_type = ?", customerType).Count(dest).Error
		if err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	}
	wg.Add(2)
	go countType(&senders, customerModel.CustomerTypeSender)
	go countType(&receivers, customerModel.CustomerTypeReceiver)
	wg.Wait()
	if firstErr != nil {
		logger.Error("Failed to compute customer report", firstErr)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to compute customer report",
		})
	}

	type topRow struct {
		SenderID uint   `json:"sender_id"`
		Name     string `json:"name"`
		Bookings int64  `json:"bookings"`
	}
	var top []topRow
	err := rc.DB.Table("bookings").
		Select("bookings.sender_id, customers.name, COUNT(*) as bookings").
		Joins("JOIN customers ON customers.id = bookings.sender_id").
		Where("bookings.date BETWEEN ? AND ?", start, end).
		Group("bookings.sender_id, customers.name").
		Order("bookings DESC").
		Limit(10).
		Scan(&top).Error
	if err != nil {
		logger.Error("Failed to compute top senders", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to compute customer report",
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Customer report computed successfully",
		Data: fiber.Map{
			"from":        start.Format("2006-01-02"),
			"to":          end.Format("2006-01-02"),
			"senders":     senders,
			"receivers":   receivers,
			"top_senders": top,
		},
	})
}
