package routes

import (
	"os"

	"freight-forward/constants"
	"freight-forward/controllers/auth"
	"freight-forward/controllers/booking"
	"freight-forward/controllers/bundle"
	"freight-forward/controllers/container"
	"freight-forward/controllers/customer"
	"freight-forward/controllers/packinglist"
	"freight-forward/controllers/partner"
	"freight-forward/controllers/pickupassign"
	"freight-forward/controllers/pricelisting"
	"freight-forward/controllers/reminder"
	"freight-forward/controllers/reports"
	"freight-forward/controllers/store"
	whatsapp "freight-forward/httpServices/whatsapp"
	"freight-forward/logger"
	"freight-forward/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	whatsappClient := whatsapp.NewClient(os.Getenv("WHATSAPP_BASE_URL"), os.Getenv("WHATSAPP_API_KEY"))
	asyncLogger := logger.NewAsyncLogger(db)

	authController := auth.NewAuthController(db, asyncLogger)
	customerController := customer.NewCustomerController(db, asyncLogger)
	bookingController := booking.NewBookingController(db, asyncLogger)
	containerController := container.NewContainerController(db, asyncLogger)
	packingListController := packinglist.NewPackingListController(db, asyncLogger)
	bundleController := bundle.NewBundleController(db, asyncLogger)
	partnerController := partner.NewPartnerController(db, asyncLogger)
	pickupAssignController := pickupassign.NewPickupAssignController(db, asyncLogger)
	priceListingController := pricelisting.NewPriceListingController(db, asyncLogger)
	reminderController := reminder.NewReminderController(db, asyncLogger, whatsappClient)
	storeController := store.NewStoreController(db, asyncLogger)
	reportsController := reports.NewReportsController(db, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "freight-forward",
			"status":  "ok",
		})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/login", authController.Login)
	api.Post("/register", authController.Register)

	/*=============================================================================
	| Auth Routes
	===============================================================================*/
	authGroup := api.Group("/auth").Use(middleware.RequireAnyPermission())
	authGroup.Get("/me", authController.Me)

	bookingDesk := middleware.RequirePermissions(
		constants.PermSuperAdminFull,
		constants.PermManagerFull,
		constants.PermBookingFull,
	)
	warehouse := middleware.RequirePermissions(
		constants.PermSuperAdminFull,
		constants.PermManagerFull,
		constants.PermWarehouseFull,
	)
	accounts := middleware.RequirePermissions(
		constants.PermSuperAdminFull,
		constants.PermManagerFull,
		constants.PermAccountsFull,
	)
	admin := middleware.RequirePermissions(
		constants.PermSuperAdminFull,
		constants.PermManagerFull,
	)

	/*=============================================================================
	| Customer Routes
	===============================================================================*/
	customerGroup := api.Group("/customers").Use(bookingDesk)
	customerGroup.Post("/", customerController.Store)
	customerGroup.Get("/", customerController.Index)
	customerGroup.Get("/:id", customerController.Show)
	customerGroup.Put("/:id", customerController.Update)
	customerGroup.Post("/:id/payments", customerController.AddPayment)
	customerGroup.Delete("/:id", customerController.Delete)

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	bookingGroup := api.Group("/bookings").Use(bookingDesk)
	bookingGroup.Post("/", bookingController.Store)
	bookingGroup.Get("/", bookingController.Index)
	bookingGroup.Get("/:id", bookingController.Show)
	bookingGroup.Get("/:id/history", bookingController.History)
	bookingGroup.Put("/:id", bookingController.Update)
	bookingGroup.Delete("/:id", bookingController.Delete)

	/*=============================================================================
	| Container Routes
	===============================================================================*/
	containerGroup := api.Group("/containers").Use(warehouse)
	containerGroup.Post("/", containerController.Store)
	containerGroup.Get("/", containerController.Index)
	containerGroup.Get("/:id", containerController.Show)
	containerGroup.Put("/:id", containerController.Update)
	containerGroup.Delete("/:id", containerController.Delete)

	/*=============================================================================
	| Packing List Routes
	===============================================================================*/
	packingListGroup := api.Group("/packing-lists").Use(warehouse)
	packingListGroup.Post("/", packingListController.Store)
	packingListGroup.Get("/", packingListController.Index)
	packingListGroup.Get("/:id", packingListController.Show)
	packingListGroup.Put("/:id", packingListController.Update)
	packingListGroup.Delete("/:id", packingListController.Delete)

	/*=============================================================================
	| Bundle and Ready-to-Ship Routes
	===============================================================================*/
	readyToShipGroup := api.Group("/ready-to-ship").Use(warehouse)
	readyToShipGroup.Get("/", bundleController.ReadyToShipIndex)
	readyToShipGroup.Get("/stats", bundleController.ReadyToShipStats)
	readyToShipGroup.Put("/:id", bundleController.UpdateReadyToShip)

	bundleGroup := api.Group("/bundles").Use(warehouse)
	bundleGroup.Post("/", bundleController.Store)
	bundleGroup.Get("/", bundleController.Index)
	bundleGroup.Get("/:id", bundleController.Show)
	bundleGroup.Put("/:id", bundleController.Update)
	bundleGroup.Delete("/:id", bundleController.Delete)

	/*=============================================================================
	| Partner Routes
	===============================================================================*/
	partnerGroup := api.Group("/partners").Use(bookingDesk)
	partnerGroup.Post("/", partnerController.Store)
	partnerGroup.Get("/", partnerController.Index)
	partnerGroup.Get("/:id", partnerController.Show)
	partnerGroup.Put("/:id", partnerController.Update)
	partnerGroup.Delete("/:id", partnerController.Delete)

	/*=============================================================================
	| Pickup Assignment Routes
	===============================================================================*/
	pickupGroup := api.Group("/pickup-assign").Use(bookingDesk)
	pickupGroup.Post("/", pickupAssignController.Store)
	pickupGroup.Get("/", pickupAssignController.Index)
	pickupGroup.Get("/:id", pickupAssignController.Show)
	pickupGroup.Put("/:id", pickupAssignController.Update)
	pickupGroup.Patch("/:id/lr-status", pickupAssignController.UpdateLRStatus)
	pickupGroup.Delete("/:id", pickupAssignController.Delete)

	/*=============================================================================
	| Price Listing Routes
	===============================================================================*/
	priceGroup := api.Group("/price-listings").Use(accounts)
	priceGroup.Post("/", priceListingController.Store)
	priceGroup.Get("/", priceListingController.Index)
	priceGroup.Get("/:id", priceListingController.Show)
	priceGroup.Put("/:id", priceListingController.Update)
	priceGroup.Delete("/:id", priceListingController.Delete)

	/*=============================================================================
	| Reminder Routes
	===============================================================================*/
	reminderGroup := api.Group("/reminders").Use(bookingDesk)
	reminderGroup.Post("/", reminderController.Store)
	reminderGroup.Get("/", reminderController.Index)
	reminderGroup.Get("/:id", reminderController.Show)
	reminderGroup.Put("/:id", reminderController.Update)
	reminderGroup.Post("/:id/send-whatsapp", reminderController.SendWhatsapp)
	reminderGroup.Delete("/:id", reminderController.Delete)

	/*=============================================================================
	| Store Routes
	===============================================================================*/
	storeGroup := api.Group("/stores").Use(middleware.RequirePermissions(
		constants.PermSuperAdminFull,
		constants.PermManagerFull,
		constants.PermStoreFull,
	))
	storeGroup.Post("/", storeController.Store)
	storeGroup.Get("/", storeController.Index)
	storeGroup.Get("/:id", storeController.Show)
	storeGroup.Put("/:id", storeController.Update)
	storeGroup.Delete("/:id", storeController.Delete)

	/*=============================================================================
	| Report Routes
	===============================================================================*/
	reportGroup := api.Group("/reports").Use(admin)
	reportGroup.Get("/bookings", reportsController.Bookings)
	reportGroup.Get("/containers", reportsController.Containers)
	reportGroup.Get("/customers", reportsController.Customers)
}
