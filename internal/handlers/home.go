package handlers

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/example/churchlife/internal/models"
	"github.com/example/churchlife/internal/services"
)

// HomeHandler manages the singleton homepage configuration.
type HomeHandler struct {
	db      *gorm.DB
	storage services.Uploader
}

// NewHomeHandler constructs a HomeHandler.
func NewHomeHandler(db *gorm.DB, storage services.Uploader) *HomeHandler {
	return &HomeHandler{db: db, storage: storage}
}

// Get returns the homepage configuration, creating it on first access.
func (h *HomeHandler) Get(c *fiber.Ctx) error {
	config, err := h.loadOrCreate()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": config})
}

// Update applies field updates from a multipart form and optionally replaces
// the event calendar PDF. An absent file leaves the stored PDF untouched.
func (h *HomeHandler) Update(c *fiber.Ctx) error {
	config, err := h.loadOrCreate()
	if err != nil {
		return err
	}

	if v := c.FormValue("mainText"); v != "" {
		config.MainText = v
	}
	if v := c.FormValue("bannerTitle"); v != "" {
		config.BannerTitle = v
	}
	if v := c.FormValue("lightBg"); v != "" {
		config.LightBg = v
	}
	if v := c.FormValue("darkBg"); v != "" {
		config.DarkBg = v
	}
	if v := c.FormValue("sections"); v != "" {
		sections, err := parseSections(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid sections format")
		}
		config.Sections = sections
	}
	if v := c.FormValue("latestUpdates"); v != "" {
		config.LatestUpdates = parseLatestUpdates(v)
	}

	if fileHeader, err := c.FormFile("eventCalendarPdf"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
		}
		defer file.Close()

		url, err := h.storage.UploadRaw(c.Context(), file, "eventCalendarPdfs", fileHeader.Filename)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "file upload failed")
		}
		config.EventCalendarPDF = url
	}

	if url, err := h.uploadBanner(c, "banner"); err != nil {
		return err
	} else if url != "" {
		config.Banner = url
	}
	if url, err := h.uploadBanner(c, "eventCalendarBanner"); err != nil {
		return err
	} else if url != "" {
		config.EventCalendarBanner = url
	}

	if err := h.db.Save(config).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "home configuration updated successfully",
		"data":    config,
	})
}

type updateHomeTextRequest struct {
	MainText      *string         `json:"mainText"`
	BannerTitle   *string         `json:"bannerTitle"`
	Sections      json.RawMessage `json:"sections"`
	LatestUpdates json.RawMessage `json:"latestUpdates"`
}

// UpdateText updates text-only fields. latestUpdates accepts either a JSON
// array or a comma-separated string.
func (h *HomeHandler) UpdateText(c *fiber.Ctx) error {
	var req updateHomeTextRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	config, err := h.loadOrCreate()
	if err != nil {
		return err
	}

	if req.MainText != nil {
		config.MainText = *req.MainText
	}
	if req.BannerTitle != nil {
		config.BannerTitle = *req.BannerTitle
	}
	if len(req.Sections) > 0 {
		sections, err := parseSections(string(req.Sections))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid sections format")
		}
		config.Sections = sections
	}
	if len(req.LatestUpdates) > 0 {
		var asString string
		if err := json.Unmarshal(req.LatestUpdates, &asString); err == nil {
			config.LatestUpdates = parseLatestUpdates(asString)
		} else {
			var items []string
			if err := json.Unmarshal(req.LatestUpdates, &items); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid latestUpdates format")
			}
			config.LatestUpdates = mustJSON(items)
		}
	}

	if err := h.db.Save(config).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "home text updated successfully",
		"data":    config,
	})
}

func (h *HomeHandler) uploadBanner(c *fiber.Ctx, field string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	url, err := h.storage.UploadImage(c.Context(), file, "homeBanners")
	if err != nil {
		return "", fiber.NewError(fiber.StatusInternalServerError, "file upload failed")
	}
	return url, nil
}

func (h *HomeHandler) loadOrCreate() (*models.HomeConfig, error) {
	var config models.HomeConfig
	err := h.db.First(&config).Error
	if err == gorm.ErrRecordNotFound {
		config = models.HomeConfig{
			MainText:      models.DefaultMainText,
			Sections:      datatypes.JSON("[]"),
			LatestUpdates: datatypes.JSON("[]"),
		}
		if err := h.db.Create(&config).Error; err != nil {
			return nil, err
		}
		return &config, nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func parseSections(raw string) (datatypes.JSON, error) {
	var sections []interface{}
	if err := json.Unmarshal([]byte(raw), &sections); err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// parseLatestUpdates accepts a JSON string array or falls back to splitting
// on commas, matching the lenient client contract.
func parseLatestUpdates(raw string) datatypes.JSON {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		return datatypes.JSON(raw)
	}

	parts := strings.Split(raw, ",")
	items = items[:0]
	for _, p := range parts {
		items = append(items, strings.TrimSpace(p))
	}
	return mustJSON(items)
}

func mustJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(data)
}
