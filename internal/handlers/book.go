package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/churchlife/internal/models"
	"github.com/example/churchlife/internal/utils"
)

// BookHandler manages the book inventory that payments draw from.
type BookHandler struct {
	db *gorm.DB
}

// NewBookHandler constructs a BookHandler.
func NewBookHandler(db *gorm.DB) *BookHandler {
	return &BookHandler{db: db}
}

type bookRequest struct {
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Language string  `json:"language"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Cover    string  `json:"cover"`
}

// Create adds a book to the inventory.
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var req bookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}
	if req.Stock < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "stock cannot be negative")
	}

	book := models.Book{
		Title:    req.Title,
		Category: req.Category,
		Language: req.Language,
		Price:    req.Price,
		Stock:    req.Stock,
		Cover:    req.Cover,
	}

	if err := h.db.Create(&book).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": book})
}

// List returns books with pagination.
func (h *BookHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	query := h.db.Model(&models.Book{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var books []models.Book
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&books).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": books, "pagination": fiber.Map{
		"current_page":   pg.Page,
		"items_per_page": pg.Limit,
		"total_items":    total,
	}})
}

// Get returns a single book by id.
func (h *BookHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var book models.Book
	if err := h.db.First(&book, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "book not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": book})
}

// Update modifies a book record.
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var book models.Book
	if err := h.db.First(&book, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "book not found")
		}
		return err
	}

	if err := c.BodyParser(&book); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if book.Stock < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "stock cannot be negative")
	}

	book.ID = id
	if err := h.db.Save(&book).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": book})
}

// Delete removes a book by id.
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.Book{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "book not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "book deleted successfully"})
}
