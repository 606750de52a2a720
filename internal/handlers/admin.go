package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/example/churchlife/internal/config"
	"github.com/example/churchlife/internal/models"
	"github.com/example/churchlife/internal/utils"
)

// Default password assigned to accounts created by spreadsheet import.
const importedUserPassword = "secret123"

// AdminHandler manages admin-only user management endpoints.
type AdminHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(db *gorm.DB, cfg *config.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg}
}

type createUserRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser completes a pre-registered record with identity details and an
// optional role. The phone must have been added first.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Phone == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	var user models.User
	if err := h.db.Where("phone = ?", utils.NormalizePhone(req.Phone)).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusBadRequest, "phone number not recognized, please add first")
		}
		return err
	}

	if user.Status == models.StatusRegistered {
		return fiber.NewError(fiber.StatusBadRequest, "user with this phone is already registered")
	}

	passwordHash, err := utils.HashPassword(req.Password, h.cfg.PasswordPepper)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user.FullName = req.FullName
	user.Email = strings.ToLower(req.Email)
	user.PasswordHash = passwordHash
	user.Role = role
	user.Status = models.StatusRegistered

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "user registered successfully",
		"user":    user,
	})
}

type updateUserRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// UpdateUser updates basic identity fields on a user record.
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != "" {
		user.Email = strings.ToLower(req.Email)
	}
	if req.Phone != "" {
		user.Phone = utils.NormalizePhone(req.Phone)
	}

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "user updated successfully", "user": user})
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole changes a user's role.
func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		return fiber.NewError(fiber.StatusBadRequest, "invalid role")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	user.Role = req.Role
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "user role updated", "user": user})
}

// DeleteUser removes a user record.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "user not found or already deleted")
	}

	return c.JSON(fiber.Map{"success": true, "message": "user deleted successfully"})
}

// ImportUsers bulk-creates or updates users from an uploaded spreadsheet.
// Expected columns: "Full Name", "Email", "Contact Number". Rows without an
// email address are skipped; existing users are matched by email.
func (h *AdminHandler) ImportUsers(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("excel")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "no excel file uploaded")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid excel file")
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "excel file has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to read excel rows")
	}
	if len(rows) < 2 {
		return c.JSON(fiber.Map{"success": true, "message": "users imported successfully", "imported": 0})
	}

	columns := make(map[string]int)
	for i, name := range rows[0] {
		columns[strings.TrimSpace(name)] = i
	}

	defaultHash, err := utils.HashPassword(importedUserPassword, h.cfg.PasswordPepper)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	imported := 0
	for _, row := range rows[1:] {
		fullName := cellValue(row, columns, "Full Name")
		if fullName == "" {
			fullName = "No Name"
		}
		email := strings.ToLower(cellValue(row, columns, "Email"))
		phone := utils.NormalizePhone(cellValue(row, columns, "Contact Number"))

		if email == "" {
			continue
		}

		var existing models.User
		err := h.db.Where("email = ?", email).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			user := models.User{
				FullName:     fullName,
				Email:        email,
				Phone:        phone,
				PasswordHash: defaultHash,
				Role:         models.RoleUser,
				Status:       models.StatusRegistered,
			}
			if err := h.db.Create(&user).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			existing.FullName = fullName
			existing.Phone = phone
			if err := h.db.Save(&existing).Error; err != nil {
				return err
			}
		}
		imported++
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "users imported successfully",
		"imported": imported,
	})
}

// DashboardStats returns aggregate counts for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalPayments int64
	if err := h.db.Model(&models.Payment{}).Count(&totalPayments).Error; err != nil {
		return err
	}

	var totalContacts int64
	if err := h.db.Model(&models.Contact{}).Count(&totalContacts).Error; err != nil {
		return err
	}

	var totalRevenue float64
	if err := h.db.Model(&models.Payment{}).
		Where("payment_method != ?", models.PaymentMethodBorrow).
		Select("COALESCE(SUM(price * quantity), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":    totalUsers,
			"total_payments": totalPayments,
			"total_contacts": totalContacts,
			"total_revenue":  totalRevenue,
		},
	})
}

func cellValue(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
