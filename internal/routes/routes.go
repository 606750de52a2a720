package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/example/churchlife/internal/config"
	"github.com/example/churchlife/internal/handlers"
	"github.com/example/churchlife/internal/middleware"
	"github.com/example/churchlife/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, mail *services.MailQueue, storage services.Uploader) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	otpHandler := handlers.NewOTPHandler(db, cfg, mail)
	twoFactorHandler := handlers.NewTwoFactorHandler(db)
	adminHandler := handlers.NewAdminHandler(db, cfg)
	contactHandler := handlers.NewContactHandler(db)
	homeHandler := handlers.NewHomeHandler(db, storage)
	announcementHandler := handlers.NewAnnouncementHandler(db, storage)
	paymentHandler := handlers.NewPaymentHandler(db, mail, storage)
	bookHandler := handlers.NewBookHandler(db)

	requireAuth := middleware.AuthMiddleware(cfg)
	requireAdmin := middleware.RequireAdmin()

	loginLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, "too many login attempts, try again later")
		},
	})

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Get("/users", authHandler.ListUsers)
	auth.Post("/check-phone", authHandler.CheckPhone)
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", loginLimiter, authHandler.Login)
	auth.Post("/add-phone", authHandler.AddPhone)
	auth.Post("/verify-phone", authHandler.VerifyPhone)

	// OTP-based password reset
	auth.Post("/send-otp", otpHandler.SendOTP)
	auth.Post("/verify-otp", otpHandler.VerifyOTP)
	auth.Post("/reset-password", otpHandler.ResetPassword)
	auth.Post("/forgot", otpHandler.ForgotPassword)

	// Two-factor authentication
	auth.Post("/enable-2fa", requireAuth, twoFactorHandler.Enable)
	auth.Post("/verify-2fa", requireAuth, twoFactorHandler.Verify)

	// Admin user management
	auth.Post("/create-user", requireAuth, requireAdmin, adminHandler.CreateUser)
	auth.Put("/users/:id", requireAuth, requireAdmin, adminHandler.UpdateUser)
	auth.Put("/users/:id/role", requireAuth, requireAdmin, adminHandler.UpdateRole)
	auth.Delete("/users/:id", requireAuth, requireAdmin, adminHandler.DeleteUser)
	auth.Post("/import-users", requireAuth, requireAdmin, adminHandler.ImportUsers)

	api.Get("/admin/stats", requireAuth, requireAdmin, adminHandler.DashboardStats)

	// Contact messages
	contacts := api.Group("/contacts")
	contacts.Post("/", contactHandler.Create)
	contacts.Get("/", requireAuth, requireAdmin, contactHandler.List)
	contacts.Delete("/:id", requireAuth, requireAdmin, contactHandler.Delete)

	// Homepage configuration
	home := api.Group("/home")
	home.Get("/", homeHandler.Get)
	home.Put("/", requireAuth, requireAdmin, homeHandler.Update)
	home.Patch("/text", requireAuth, requireAdmin, homeHandler.UpdateText)

	// Announcements
	announcements := api.Group("/announcements")
	announcements.Get("/", announcementHandler.List)
	announcements.Get("/:id", announcementHandler.Get)
	announcements.Post("/", requireAuth, requireAdmin, announcementHandler.Create)
	announcements.Put("/:id", requireAuth, requireAdmin, announcementHandler.Update)
	announcements.Delete("/:id", requireAuth, requireAdmin, announcementHandler.Delete)

	// Books
	books := api.Group("/books")
	books.Get("/", bookHandler.List)
	books.Get("/:id", bookHandler.Get)
	books.Post("/", requireAuth, requireAdmin, bookHandler.Create)
	books.Put("/:id", requireAuth, requireAdmin, bookHandler.Update)
	books.Delete("/:id", requireAuth, requireAdmin, bookHandler.Delete)

	// Payments
	payments := api.Group("/payments")
	payments.Post("/", paymentHandler.Create)
	payments.Get("/", requireAuth, requireAdmin, paymentHandler.List)
	payments.Delete("/:id", requireAuth, requireAdmin, paymentHandler.Delete)
}
