package routes

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"driver-dispatch/controllers/auth"
	"driver-dispatch/controllers/service"
	"driver-dispatch/controllers/version"
	"driver-dispatch/httpServices/mailer"
	"driver-dispatch/httpServices/maps"
	"driver-dispatch/logger"
	"driver-dispatch/middleware"
	"driver-dispatch/repository"
	"driver-dispatch/services/lifecycle"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	mapsClient := maps.NewClient(os.Getenv("MAPS_BASE_URL"), os.Getenv("MAPS_API_KEY"))
	mailClient := mailer.NewClient(
		os.Getenv("MAIL_API_BASE"),
		os.Getenv("MAIL_API_KEY"),
		os.Getenv("MAIL_FROM_EMAIL"),
		os.Getenv("MAIL_FROM_NAME"),
	)
	asyncLogger := logger.NewAsyncLogger(db)

	engine := lifecycle.NewEngine(
		repository.NewOrders(db),
		repository.NewTracking(db),
		repository.NewPings(db),
		repository.NewSnapshots(db),
		repository.NewSurveys(db),
		repository.NewEvidence(os.Getenv("EVIDENCE_DIR")),
		mailClient,
		mapsClient,
	)

	authController := auth.NewAuthController(db, asyncLogger)
	serviceController := service.NewServiceController(engine, asyncLogger)
	versionController := version.NewVersionController(db)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("driver-dispatch")
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/login", authController.Login)
	api.Get("/version", versionController.Current)

	/*=============================================================================
	| Service Routes
	===============================================================================*/
	services := api.Group("/services").Use(middleware.RequireDriver())

	services.Get("/", serviceController.Worklist)
	services.Get("/by-date", serviceController.WorklistByDate)
	services.Get("/pending", serviceController.Pending)
	services.Get("/:id", serviceController.Show)

	services.Post("/acceptance", serviceController.Acceptance)
	services.Post("/confirm", serviceController.Confirm)
	services.Post("/on-source", serviceController.OnSource)
	services.Post("/start", serviceController.Start)
	services.Post("/reschedule", serviceController.Reschedule)
	services.Post("/finish", serviceController.Finish)
	services.Post("/trace", serviceController.Trace)
	services.Delete("/:id/trace", serviceController.DeleteTrace)

	services.Post("/pings/pre-arrival", serviceController.PreArrivalPing)
	services.Post("/pings/ride", serviceController.RidePing)

	services.Post("/survey", serviceController.Qualify)
}
