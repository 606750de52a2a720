package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pquerna/otp/totp"
	"gorm.io/gorm"

	"github.com/example/churchlife/internal/middleware"
	"github.com/example/churchlife/internal/models"
)

// TwoFactorHandler manages TOTP setup and verification for the current
// session user.
type TwoFactorHandler struct {
	db *gorm.DB
}

// NewTwoFactorHandler constructs a TwoFactorHandler.
func NewTwoFactorHandler(db *gorm.DB) *TwoFactorHandler {
	return &TwoFactorHandler{db: db}
}

// Enable generates and stores a TOTP secret for the current user.
func (h *TwoFactorHandler) Enable(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Church Life",
		AccountName: user.Email,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate secret")
	}

	if err := h.db.Model(&user).Update("two_factor_secret", key.Secret()).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "2FA secret generated",
		"secret":  key.Secret(),
		"url":     key.URL(),
	})
}

type verifyTwoFactorRequest struct {
	Token string `json:"token"`
}

// Verify validates a TOTP token with one period of clock skew.
func (h *TwoFactorHandler) Verify(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req verifyTwoFactorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if user.TwoFactorSecret == "" {
		return fiber.NewError(fiber.StatusBadRequest, "2FA is not enabled for this account")
	}

	valid, err := totp.ValidateCustom(req.Token, user.TwoFactorSecret, time.Now(), totp.ValidateOpts{
		Period: 30,
		Skew:   1,
		Digits: 6,
	})
	if err != nil || !valid {
		return fiber.NewError(fiber.StatusBadRequest, "invalid 2FA token")
	}

	return c.JSON(fiber.Map{"success": true, "message": "2FA token verified successfully"})
}
