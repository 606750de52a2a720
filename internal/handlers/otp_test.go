package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/churchlife/internal/models"
	"github.com/example/churchlife/internal/utils"
)

func TestSendOTPUnknownPhone(t *testing.T) {
	env := newTestEnv(t)

	resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/send-otp", fiber.Map{"phone": "+917777777777"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOTPLifecycle(t *testing.T) {
	env := newTestEnv(t)
	phone := "+917000000001"
	env.createUser(t, phone, "otp@example.org", "password", models.RoleUser, models.StatusRegistered)

	resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/send-otp", fiber.Map{"phone": phone}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	code, ok := body["otp"].(string)
	require.True(t, ok, "non-production responses echo the code")
	require.Len(t, code, 6)

	// Real recipient address: code is emailed best-effort.
	require.Eventually(t, func() bool {
		env.mailer.mu.Lock()
		defer env.mailer.mu.Unlock()
		return env.mailer.otps["otp@example.org"] == code
	}, time.Second, 10*time.Millisecond)

	// Wrong code is rejected.
	resp = env.jsonRequest(t, fiber.MethodPost, "/api/auth/verify-otp", fiber.Map{"phone": phone, "otp": "000000"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Correct code verifies once.
	resp = env.jsonRequest(t, fiber.MethodPost, "/api/auth/verify-otp", fiber.Map{"phone": phone, "otp": code}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Single use: replaying the same code fails.
	resp = env.jsonRequest(t, fiber.MethodPost, "/api/auth/verify-otp", fiber.Map{"phone": phone, "otp": code}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var user models.User
	require.NoError(t, env.db.Where("phone = ?", phone).First(&user).Error)
	assert.Empty(t, user.OTPCode)
	assert.Nil(t, user.OTPExpires)
}

func TestVerifyOTPExpired(t *testing.T) {
	env := newTestEnv(t)
	phone := "+917000000002"
	user := env.createUser(t, phone, "late@example.org", "password", models.RoleUser, models.StatusRegistered)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, env.db.Model(&user).Updates(map[string]interface{}{
		"otp_code":    "123456",
		"otp_expires": expired,
	}).Error)

	resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/verify-otp", fiber.Map{"phone": phone, "otp": "123456"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSendOTPSkipsPlaceholderEmail(t *testing.T) {
	env := newTestEnv(t)
	phone := "+917000000003"
	env.createUser(t, phone, utils.PlaceholderEmail(phone), "password", models.RoleUser, models.StatusPreRegistered)

	resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/send-otp", fiber.Map{"phone": phone}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Give the queue a beat; nothing should arrive for a placeholder address.
	time.Sleep(50 * time.Millisecond)
	env.mailer.mu.Lock()
	defer env.mailer.mu.Unlock()
	assert.Empty(t, env.mailer.otps)
}

func TestResetPassword(t *testing.T) {
	env := newTestEnv(t)
	phone := "+917000000004"
	env.createUser(t, phone, "reset@example.org", "old-password", models.RoleUser, models.StatusRegistered)

	resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/reset-password", fiber.Map{
		"phone":    phone,
		"password": "new-password",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.jsonRequest(t, fiber.MethodPost, "/api/auth/login", fiber.Map{
		"phoneNumber": phone,
		"password":    "old-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.jsonRequest(t, fiber.MethodPost, "/api/auth/login", fiber.Map{
		"phoneNumber": phone,
		"password":    "new-password",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestForgotPassword(t *testing.T) {
	env := newTestEnv(t)
	phone := "+917000000005"
	user := env.createUser(t, phone, "forgot@example.org", "password", models.RoleUser, models.StatusRegistered)

	resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/forgot", fiber.Map{"phone": phone}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	token, ok := body["resetToken"].(string)
	require.True(t, ok)
	assert.Len(t, token, 40)

	// Only the hash is stored.
	require.NoError(t, env.db.First(&user, "id = ?", user.ID).Error)
	assert.NotEmpty(t, user.ResetTokenHash)
	assert.NotEqual(t, token, user.ResetTokenHash)
	require.NotNil(t, user.ResetTokenExpires)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *user.ResetTokenExpires, time.Minute)
}
