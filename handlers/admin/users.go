package admin

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// ListUsers returns a paginated user listing with optional role and
// search filters
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	query := h.db.Model(&model.User{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if c.Query("staff") == "true" {
		query = query.Where("is_staff = ?", true)
	}
	if search := c.Query("q"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			like, like, like, like,
		)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	var total int64
	query.Count(&total)
	pagination := response.CalculatePagination(page, limit, total)

	var users []model.User
	err := query.
		Order("created_at DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PerPage).
		Limit(pagination.PerPage).
		Find(&users).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Paginated(c, users, pagination)
}

// GetUser returns one user with their enrollments
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	var user model.User
	err := h.db.
		Preload("Enrollments").
		Preload("Enrollments.Course").
		First(&user, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "User not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, user)
}

// ChangeRoleRequest sets a user's role and staff flag
type ChangeRoleRequest struct {
	Role    string `json:"role" validate:"required,oneof=visitor student instructor parent admin"`
	IsStaff *bool  `json:"is_staff,omitempty"`
}

// ChangeRole updates a user's role. Admins cannot demote themselves.
func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	var req ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	var user model.User
	if err := h.db.First(&user, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	adminID, _ := middleware.GetUserID(c)
	if user.ID == adminID && req.Role != model.RoleAdmin {
		return response.BadRequest(c, "You cannot demote your own account")
	}

	oldRole := user.Role
	user.Role = req.Role
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}
	if err := h.db.Save(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update user")
	}

	h.audit(c, model.AuditUpdate, "user", user.ID, fiber.Map{
		"role": fiber.Map{"from": oldRole, "to": user.Role},
	})
	return response.Success(c, user)
}

// DeactivateUser soft-deletes a user account and bumps their token
// version so outstanding tokens die
func (h *AdminHandler) DeactivateUser(c *fiber.Ctx) error {
	var user model.User
	if err := h.db.First(&user, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	adminID, _ := middleware.GetUserID(c)
	if user.ID == adminID {
		return response.BadRequest(c, "You cannot deactivate your own account")
	}

	h.db.Model(&user).Update("token_version", user.TokenVersion+1)
	if err := h.db.Delete(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to deactivate user")
	}

	h.audit(c, model.AuditDelete, "user", user.ID, nil)
	return response.SuccessWithMessage(c, "User deactivated", nil)
}

// ReactivateUser restores a soft-deleted account
func (h *AdminHandler) ReactivateUser(c *fiber.Ctx) error {
	result := h.db.Unscoped().Model(&model.User{}).
		Where("id = ? AND deleted_at IS NOT NULL", c.Params("id")).
		Update("deleted_at", nil)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to reactivate user")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "No deactivated user with that id")
	}

	var user model.User
	if err := h.db.First(&user, c.Params("id")).Error; err == nil {
		h.audit(c, model.AuditUpdate, "user", user.ID, fiber.Map{"reactivated": true})
	}
	return response.SuccessWithMessage(c, "User reactivated", nil)
}
