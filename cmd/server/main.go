package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/churchlife/internal/config"
	"github.com/example/churchlife/internal/database"
	"github.com/example/churchlife/internal/middleware"
	"github.com/example/churchlife/internal/routes"
	"github.com/example/churchlife/internal/services"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	mailer := services.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	mailQueue := services.NewMailQueue(mailer, cfg.MailQueueSize)
	defer mailQueue.Close()

	storage, err := services.NewCloudinaryUploader(cfg.CloudinaryURL)
	if err != nil {
		log.Fatalf("cloudinary setup failed: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Church Life Backend",
		ErrorHandler: middleware.ErrorHandler(cfg),
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg, mailQueue, storage)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
