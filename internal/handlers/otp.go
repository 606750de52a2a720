package handlers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/churchlife/internal/config"
	"github.com/example/churchlife/internal/models"
	"github.com/example/churchlife/internal/services"
	"github.com/example/churchlife/internal/utils"
)

const otpTTL = 5 * time.Minute

// OTPHandler manages one-time codes and password resets.
type OTPHandler struct {
	db   *gorm.DB
	cfg  *config.Config
	mail *services.MailQueue
}

// NewOTPHandler constructs an OTPHandler.
func NewOTPHandler(db *gorm.DB, cfg *config.Config, mail *services.MailQueue) *OTPHandler {
	return &OTPHandler{db: db, cfg: cfg, mail: mail}
}

type sendOTPRequest struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// SendOTP issues a 6-digit code valid for five minutes. The code is emailed
// best-effort when a real recipient address exists; delivery failure never
// fails the request.
func (h *OTPHandler) SendOTP(c *fiber.Ctx) error {
	var req sendOTPRequest
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
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	code, err := generateOTPCode()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate code")
	}

	expires := time.Now().Add(otpTTL)
	user.OTPCode = code
	user.OTPExpires = &expires
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	recipient := req.Email
	if recipient == "" {
		recipient = user.Email
	}
	if recipient != "" && recipient != utils.PlaceholderEmail(phone) {
		h.mail.EnqueueOTP(recipient, code)
	}

	resp := fiber.Map{"success": true, "message": "OTP sent successfully"}
	if !h.cfg.IsProduction() {
		resp["otp"] = code
	}
	return c.JSON(resp)
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// VerifyOTP checks a code against the stored one and clears it on success.
// Codes are single use.
func (h *OTPHandler) VerifyOTP(c *fiber.Ctx) error {
	var req verifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Phone == "" || req.OTP == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone number and OTP are required")
	}

	var user models.User
	if err := h.db.Where("phone = ?", utils.NormalizePhone(req.Phone)).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if user.OTPCode == "" || user.OTPCode != req.OTP || user.OTPExpires == nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired OTP")
	}
	if user.OTPExpires.Before(time.Now()) {
		return fiber.NewError(fiber.StatusBadRequest, "OTP has expired")
	}

	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"otp_code":    "",
		"otp_expires": nil,
	}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "OTP verified successfully"})
}

type resetPasswordRequest struct {
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword replaces a user's password. Clients send the new password as
// either "password" or "newPassword".
func (h *OTPHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	newPassword := req.Password
	if newPassword == "" {
		newPassword = req.NewPassword
	}
	if req.Phone == "" || newPassword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "phone and new password are required")
	}

	var user models.User
	if err := h.db.Where("phone = ?", utils.NormalizePhone(req.Phone)).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	hash, err := utils.HashPassword(newPassword, h.cfg.PasswordPepper)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	if err := h.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "password updated successfully"})
}

// ForgotPassword generates a reset token valid for one hour. The raw token
// is returned to the caller; only its hash is stored.
func (h *OTPHandler) ForgotPassword(c *fiber.Ctx) error {
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
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	tokenBytes := make([]byte, 20)
	if _, err := rand.Read(tokenBytes); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}
	resetToken := hex.EncodeToString(tokenBytes)

	sum := sha256.Sum256([]byte(resetToken))
	expires := time.Now().Add(time.Hour)
	user.ResetTokenHash = hex.EncodeToString(sum[:])
	user.ResetTokenExpires = &expires
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "password reset token generated",
		"resetToken": resetToken,
	})
}

func generateOTPCode() (string, error) {
	// Uniform over 100000-999999.
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
