package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/churchlife/internal/models"
	"github.com/example/churchlife/internal/services"
)

// PaymentHandler manages purchase/borrow recording and its stock side
// effects.
type PaymentHandler struct {
	db      *gorm.DB
	mail    *services.MailQueue
	storage services.Uploader
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(db *gorm.DB, mail *services.MailQueue, storage services.Uploader) *PaymentHandler {
	return &PaymentHandler{db: db, mail: mail, storage: storage}
}

type createPaymentRequest struct {
	BookID        string  `json:"bookId" form:"bookId"`
	BookName      string  `json:"bookName" form:"bookName"`
	UserName      string  `json:"userName" form:"userName"`
	ContactNumber string  `json:"contactNumber" form:"contactNumber"`
	Email         string  `json:"email" form:"email"`
	Language      string  `json:"language" form:"language"`
	Quantity      int     `json:"quantity" form:"quantity"`
	Price         float64 `json:"price" form:"price"`
	PaymentMethod string  `json:"paymentMethod" form:"paymentMethod"`
}

// Create records a payment, adjusts book stock and queues a confirmation
// email. Payment creation and the stock update are not atomic; email
// delivery is best-effort and never fails the request.
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	required := []struct {
		name  string
		value string
	}{
		{"bookName", req.BookName},
		{"userName", req.UserName},
		{"contactNumber", req.ContactNumber},
		{"language", req.Language},
		{"paymentMethod", req.PaymentMethod},
		{"email", req.Email},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "missing required field: "+field.name)
		}
	}

	method := strings.ToLower(req.PaymentMethod)
	price := req.Price
	if price < 0 {
		price = 0
	}
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	payment := models.Payment{
		BookName:      req.BookName,
		UserName:      req.UserName,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Language:      req.Language,
		Quantity:      quantity,
		Price:         price,
		PaymentMethod: method,
		PurchaseDate:  time.Now(),
	}

	switch method {
	case models.PaymentMethodCash, models.PaymentMethodOnline, models.PaymentMethodBorrow:
		payment.InvoiceNumber = generateInvoiceNumber()
	}

	if fileHeader, err := c.FormFile("screenshot"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
		}
		defer file.Close()

		url, err := h.storage.UploadImage(c.Context(), file, "payments")
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "file upload failed")
		}
		payment.Screenshot = url
	}

	var bookID *uuid.UUID
	if req.BookID != "" {
		id, err := uuid.Parse(req.BookID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid bookId")
		}
		bookID = &id
		payment.BookID = bookID
	}

	if err := h.db.Create(&payment).Error; err != nil {
		return err
	}

	var bookCategory string
	if bookID != nil {
		var book models.Book
		if err := h.db.First(&book, "id = ?", *bookID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fiber.NewError(fiber.StatusNotFound, "book not found")
			}
			return err
		}

		bookCategory = strings.ToLower(book.Category)

		if method == models.PaymentMethodBorrow {
			// Single-copy borrow semantics: any existing stock is zeroed.
			book.Stock = 0
		} else {
			if book.Stock < quantity {
				return fiber.NewError(fiber.StatusBadRequest, "insufficient stock")
			}
			book.Stock -= quantity
		}

		if err := h.db.Save(&book).Error; err != nil {
			return err
		}
	}

	h.mail.EnqueuePurchase(services.PurchaseEmail{
		CustomerName:  payment.UserName,
		Email:         payment.Email,
		BookTitle:     payment.BookName,
		Quantity:      payment.Quantity,
		Price:         payment.Price,
		InvoiceNumber: payment.InvoiceNumber,
		Category:      bookCategory,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payment})
}

// List returns payments, newest purchase first, optionally filtered by
// payment method.
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	query := h.db.Model(&models.Payment{})

	if method := c.Query("paymentMethod"); method != "" {
		query = query.Where("payment_method = ?", strings.ToLower(method))
	}

	var payments []models.Payment
	if err := query.Order("purchase_date desc").Find(&payments).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": payments})
}

// Delete removes a payment record. Stock is not restored.
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.Payment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "payment not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "payment deleted successfully"})
}

func generateInvoiceNumber() string {
	return fmt.Sprintf("INV-%d", time.Now().UnixMilli())
}
