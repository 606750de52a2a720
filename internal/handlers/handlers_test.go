package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/churchlife/internal/config"
	"github.com/example/churchlife/internal/database"
	"github.com/example/churchlife/internal/middleware"
	"github.com/example/churchlife/internal/models"
	"github.com/example/churchlife/internal/routes"
	"github.com/example/churchlife/internal/services"
	"github.com/example/churchlife/internal/utils"
)

type fakeMailer struct {
	mu        sync.Mutex
	purchases []services.PurchaseEmail
	otps      map[string]string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{otps: make(map[string]string)}
}

func (f *fakeMailer) SendPurchaseEmail(data services.PurchaseEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purchases = append(f.purchases, data)
	return nil
}

func (f *fakeMailer) SendOTPEmail(to, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.otps[to] = code
	return nil
}

func (f *fakeMailer) purchaseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.purchases)
}

func (f *fakeMailer) lastPurchase() services.PurchaseEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.purchases[len(f.purchases)-1]
}

type fakeUploader struct{}

func (f *fakeUploader) UploadImage(ctx context.Context, file io.Reader, folder string) (string, error) {
	return "https://res.example.com/image/upload/" + folder + "/fake.jpg", nil
}

func (f *fakeUploader) UploadRaw(ctx context.Context, file io.Reader, folder, filename string) (string, error) {
	return "https://res.example.com/raw/upload/" + folder + "/" + filename, nil
}

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	cfg    *config.Config
	mailer *fakeMailer
	queue  *services.MailQueue
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		AppEnv:         "test",
		JWTSecret:      "test-secret",
		TokenExpires:   time.Hour,
		PasswordPepper: "test-pepper",
		MailQueueSize:  8,
	}

	mailer := newFakeMailer()
	queue := services.NewMailQueue(mailer, cfg.MailQueueSize)
	t.Cleanup(queue.Close)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(cfg)})
	routes.Register(app, db, cfg, queue, &fakeUploader{})

	return &testEnv{app: app, db: db, cfg: cfg, mailer: mailer, queue: queue}
}

func (e *testEnv) jsonRequest(t *testing.T, method, path string, body interface{}, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) formRequest(t *testing.T, method, path string, values url.Values, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) multipartRequest(t *testing.T, method, path string, fields map[string]string, fileField, fileName string, fileBody []byte, headers map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(fileBody)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body), "body: %s", data)
	return body
}

// createUser inserts a user directly, bypassing the HTTP surface.
func (e *testEnv) createUser(t *testing.T, phone, email, password, role, status string) models.User {
	t.Helper()

	hash, err := utils.HashPassword(password, e.cfg.PasswordPepper)
	require.NoError(t, err)

	user := models.User{
		FullName:     "Test User",
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         role,
		Status:       status,
	}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

func (e *testEnv) adminHeaders(t *testing.T) map[string]string {
	t.Helper()

	admin := e.createUser(t, "+910000000001", "admin@example.com", "adminpass", models.RoleAdmin, models.StatusRegistered)
	token, err := utils.GenerateToken(e.cfg.JWTSecret, admin.ID, admin.Role, e.cfg.TokenExpires)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func (e *testEnv) userHeaders(t *testing.T, user models.User) map[string]string {
	t.Helper()

	token, err := utils.GenerateToken(e.cfg.JWTSecret, user.ID, user.Role, e.cfg.TokenExpires)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}
