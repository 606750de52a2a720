package handlers_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/churchlife/internal/models"
)

func TestAddPhoneConflict(t *testing.T) {
	env := newTestEnv(t)

	resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/add-phone", fiber.Map{"phone": "+911234567890"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user models.User
	require.NoError(t, env.db.Where("phone = ?", "+911234567890").First(&user).Error)
	assert.Equal(t, models.StatusPreRegistered, user.Status)
	assert.Equal(t, "+911234567890@example.com", user.Email)

	// Second add with the same phone must conflict.
	resp = env.jsonRequest(t, fiber.MethodPost, "/api/auth/add-phone", fiber.Map{"phone": "+911234567890"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Whitespace variants normalize to the same phone.
	resp = env.jsonRequest(t, fiber.MethodPost, "/api/auth/add-phone", fiber.Map{"phone": " +91 1234567890 "}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckPhoneProgression(t *testing.T) {
	env := newTestEnv(t)
	phone := "+911111111111"

	resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/check-phone", fiber.Map{"phone": phone}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "not_found", decodeBody(t, resp)["status"])

	resp = env.jsonRequest(t, fiber.MethodPost, "/api/auth/add-phone", fiber.Map{"phone": phone}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.jsonRequest(t, fiber.MethodPost, "/api/auth/check-phone", fiber.Map{"phone": phone}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pre_registered", decodeBody(t, resp)["status"])

	resp = env.jsonRequest(t, fiber.MethodPost, "/api/auth/register", fiber.Map{
		"phone":    phone,
		"fullName": "Asha Thomas",
		"email":    "Asha@Example.org",
		"password": "strongpass",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.jsonRequest(t, fiber.MethodPost, "/api/auth/check-phone", fiber.Map{"phone": phone}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "already_registered", decodeBody(t, resp)["status"])

	// Email is stored lowercased.
	var user models.User
	require.NoError(t, env.db.Where("phone = ?", phone).First(&user).Error)
	assert.Equal(t, "asha@example.org", user.Email)
	assert.Equal(t, models.StatusRegistered, user.Status)
}

func TestRegisterUnknownPhone(t *testing.T) {
	env := newTestEnv(t)

	resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/register", fiber.Map{
		"phone":    "+919999999999",
		"fullName": "Nobody",
		"email":    "nobody@example.org",
		"password": "password",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterTwice(t *testing.T) {
	env := newTestEnv(t)
	phone := "+912222222222"
	env.createUser(t, phone, "done@example.org", "password", models.RoleUser, models.StatusRegistered)

	resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/register", fiber.Map{
		"phone":    phone,
		"fullName": "Again",
		"email":    "again@example.org",
		"password": "password",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	phone := "+913333333333"
	user := env.createUser(t, phone, "member@example.org", "correct-horse", models.RoleUser, models.StatusRegistered)

	resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/login", fiber.Map{
		"phoneNumber": phone,
		"password":    "correct-horse",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "login must set the session cookie")
	assert.True(t, sessionCookie.HttpOnly)

	respUser := body["user"].(map[string]interface{})
	assert.Equal(t, user.ID.String(), respUser["id"])
}

func TestLoginFailuresAreUniform(t *testing.T) {
	env := newTestEnv(t)
	phone := "+914444444444"
	env.createUser(t, phone, "member@example.org", "correct-horse", models.RoleUser, models.StatusRegistered)

	wrongPassword := env.jsonRequest(t, fiber.MethodPost, "/api/auth/login", fiber.Map{
		"phoneNumber": phone,
		"password":    "wrong",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	wrongPasswordBody, err := io.ReadAll(wrongPassword.Body)
	require.NoError(t, err)

	unknownPhone := env.jsonRequest(t, fiber.MethodPost, "/api/auth/login", fiber.Map{
		"phoneNumber": "+910000000000",
		"password":    "wrong",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, unknownPhone.StatusCode)
	unknownPhoneBody, err := io.ReadAll(unknownPhone.Body)
	require.NoError(t, err)

	// No user-existence leak: both failures read identically.
	assert.Equal(t, string(wrongPasswordBody), string(unknownPhoneBody))
}

func TestLoginRateLimit(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 5; i++ {
		resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/login", fiber.Map{
			"phoneNumber": "+915555555555",
			"password":    "nope",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/login", fiber.Map{
		"phoneNumber": "+915555555555",
		"password":    "nope",
	}, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestVerifyPhone(t *testing.T) {
	env := newTestEnv(t)
	phone := "+916666666666"

	resp := env.jsonRequest(t, fiber.MethodPost, "/api/auth/verify-phone", fiber.Map{"phone": phone}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	env.createUser(t, phone, "known@example.org", "password", models.RoleUser, models.StatusRegistered)
	resp = env.jsonRequest(t, fiber.MethodPost, "/api/auth/verify-phone", fiber.Map{"phone": phone}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
