package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/churchlife/internal/models"
	"github.com/example/churchlife/internal/services"
)

// AnnouncementHandler manages announcement CRUD with optional image uploads.
type AnnouncementHandler struct {
	db      *gorm.DB
	storage services.Uploader
}

// NewAnnouncementHandler constructs an AnnouncementHandler.
func NewAnnouncementHandler(db *gorm.DB, storage services.Uploader) *AnnouncementHandler {
	return &AnnouncementHandler{db: db, storage: storage}
}

// Create stores a new announcement. Accepts multipart form fields with an
// optional "image" file.
func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	title := c.FormValue("title")
	if title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}

	announcement := models.Announcement{
		Title:       title,
		Description: c.FormValue("description"),
		Link:        c.FormValue("link"),
	}

	if dateStr := c.FormValue("date"); dateStr != "" {
		if date, err := parseDate(dateStr); err == nil {
			announcement.Date = &date
		}
	}

	if url, err := h.uploadImage(c); err != nil {
		return err
	} else if url != "" {
		announcement.Image = url
	}

	if err := h.db.Create(&announcement).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": announcement})
}

// List returns all announcements, newest first.
func (h *AnnouncementHandler) List(c *fiber.Ctx) error {
	var announcements []models.Announcement
	if err := h.db.Order("created_at desc").Find(&announcements).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": announcements})
}

// Get returns a single announcement by id.
func (h *AnnouncementHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var announcement models.Announcement
	if err := h.db.First(&announcement, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "announcement not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": announcement})
}

// Update modifies an announcement. The stored image is kept when no new file
// is sent.
func (h *AnnouncementHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var announcement models.Announcement
	if err := h.db.First(&announcement, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "announcement not found")
		}
		return err
	}

	if v := c.FormValue("title"); v != "" {
		announcement.Title = v
	}
	if v := c.FormValue("description"); v != "" {
		announcement.Description = v
	}
	if v := c.FormValue("link"); v != "" {
		announcement.Link = v
	}
	if dateStr := c.FormValue("date"); dateStr != "" {
		if date, err := parseDate(dateStr); err == nil {
			announcement.Date = &date
		}
	}

	if url, err := h.uploadImage(c); err != nil {
		return err
	} else if url != "" {
		announcement.Image = url
	}

	if err := h.db.Save(&announcement).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": announcement})
}

// Delete removes an announcement by id.
func (h *AnnouncementHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.Announcement{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "announcement not found")
	}

	return c.JSON(fiber.Map{"success": true, "message": "announcement deleted successfully"})
}

func (h *AnnouncementHandler) uploadImage(c *fiber.Ctx) (string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	url, err := h.storage.UploadImage(c.Context(), file, "announcements")
	if err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, "file upload failed")
	}
	return url, nil
}

func parseDate(value string) (time.Time, error) {
	if date, err := time.Parse(time.RFC3339, value); err == nil {
		return date, nil
	}
	return time.Parse("2006-01-02", value)
}
