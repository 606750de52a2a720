package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/churchlife/internal/config"
	"github.com/example/churchlife/internal/middleware"
	"github.com/example/churchlife/internal/models"
	"github.com/example/churchlife/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

// AddPhone pre-registers a phone number with placeholder identity fields.
func (h *AuthHandler) AddPhone(c *fiber.Ctx) error {
	var req phoneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone number is required")
	}

	phone := utils.NormalizePhone(req.Phone)

	var existing models.User
	if err := h.db.Where("phone = ?", phone).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "phone number already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	passwordHash, err := utils.HashPassword("defaultPassword123", h.cfg.PasswordPepper)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		FullName:     "Pre-Registered User",
		Email:        utils.PlaceholderEmail(phone),
		Phone:        phone,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		Status:       models.StatusPreRegistered,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "phone number added successfully",
		"user":    user,
	})
}

// CheckPhone reports the registration state for a phone number.
func (h *AuthHandler) CheckPhone(c *fiber.Ctx) error {
	var req phoneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone number is required")
	}

	phone := utils.NormalizePhone(req.Phone)

	var user models.User
	if err := h.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(fiber.Map{
				"status":  "not_found",
				"message": "phone number not recognized",
			})
		}
		return err
	}

	if user.Status == models.StatusRegistered {
		return c.JSON(fiber.Map{
			"status":  "already_registered",
			"message": "already registered",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "pre_registered",
		"message": "available for registration",
	})
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// Register completes self-registration for a pre-registered phone.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Phone == "" || req.FullName == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	phone := utils.NormalizePhone(req.Phone)

	var user models.User
	if err := h.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusBadRequest, "phone number not recognized, please contact admin")
		}
		return err
	}

	if user.Status == models.StatusRegistered {
		return fiber.NewError(fiber.StatusBadRequest, "user already registered with this phone")
	}

	passwordHash, err := utils.HashPassword(req.Password, h.cfg.PasswordPepper)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user.FullName = req.FullName
	user.Email = strings.ToLower(req.Email)
	user.PasswordHash = passwordHash
	user.Status = models.StatusRegistered

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "user registered successfully",
	})
}

type loginRequest struct {
	Phone    string `json:"phoneNumber"`
	Password string `json:"password"`
}

// Login authenticates by phone and password and issues a 7-day session
// token via an HTTP-only cookie. The failure message is identical whether
// the phone is unknown or the password mismatches.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	phone := utils.NormalizePhone(req.Phone)

	var user models.User
	if err := h.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid phone or password")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password, h.cfg.PasswordPepper) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid phone or password")
	}

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.cfg.TokenExpires),
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "logged in successfully",
		"user": fiber.Map{
			"id":        user.ID,
			"full_name": user.FullName,
			"email":     user.Email,
			"phone":     user.Phone,
			"role":      user.Role,
		},
		"token": token,
	})
}

// VerifyPhone confirms a phone number is known without mutating state.
func (h *AuthHandler) VerifyPhone(c *fiber.Ctx) error {
	var req phoneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Phone == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone number is required")
	}

	var user models.User
	if err := h.db.Where("phone = ?", utils.NormalizePhone(req.Phone)).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "phone number not found, please contact admin")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "phone number verified"})
}

// ListUsers returns all user records.
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.db.Order("created_at desc").Find(&users).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": users})
}
