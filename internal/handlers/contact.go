package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gorm.io/gorm"

	"github.com/example/churchlife/internal/models"
)

// ContactHandler manages contact-form messages.
type ContactHandler struct {
	db *gorm.DB
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(db *gorm.DB) *ContactHandler {
	return &ContactHandler{db: db}
}

type createContactRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	Additional string `json:"additional"`
}

// Create stores a new contact message. Messages are immutable once created.
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var req createContactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	contact := models.Contact{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Subject:    req.Subject,
		Message:    req.Message,
		Additional: req.Additional,
	}

	if err := h.db.Create(&contact).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": contact})
}

// List returns all contact messages, newest first.
func (h *ContactHandler) List(c *fiber.Ctx) error {
	var contacts []models.Contact
	if err := h.db.Order("created_at desc").Find(&contacts).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": contacts})
}

// Delete removes a contact message by id.
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.Contact{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "contact not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "contact deleted successfully"})
}
