package main

import (
	"fmt"
	"log"
	"time"

	config "github.com/madrefit/gym_backend/configs"
	"github.com/madrefit/gym_backend/database"
	"github.com/madrefit/gym_backend/handlers"
	"github.com/madrefit/gym_backend/jobs"
	"github.com/madrefit/gym_backend/notifications"
	"github.com/madrefit/gym_backend/routes"
	"github.com/madrefit/gym_backend/services"
	"github.com/madrefit/gym_backend/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	engineCfg := config.LoadEngineConfig()
	sink := notifications.NewStoreSink(database.DB)
	services.Setup(database.DB, engineCfg, sink)
	handlers.SetEngineConfig(engineCfg)

	c := cron.New()
	c.AddFunc(fmt.Sprintf("@every %s", engineCfg.SweepInterval), jobs.SweepWaitlistExpiries)
	go c.Start()
	log.Println("✅ Cron job for waitlist expiry scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "MadreFit",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: true,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to MadreFit API",
		})
	})

	routes.AuthRoutes(app)
	routes.ScheduleRoutes(app)
	routes.BookingRoutes(app)
	routes.EquipmentRoutes(app)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	log.Println("✅ Server is running on port 8080")
	err := app.Listen(":8080")
	if err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
