package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// ListSettings returns all runtime settings
func (h *AdminHandler) ListSettings(c *fiber.Ctx) error {
	var settings []model.AppSetting
	if err := h.db.Order("key ASC").Find(&settings).Error; err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, settings)
}

// SettingRequest updates one setting's value
type SettingRequest struct {
	Value       string `json:"value" validate:"required"`
	Description string `json:"description"`
}

// UpdateSetting sets the value of the setting named in :key. Unknown
// keys are created.
func (h *AdminHandler) UpdateSetting(c *fiber.Ctx) error {
	var req SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	key := c.Params("key")
	var setting model.AppSetting
	err := h.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = model.AppSetting{Key: key, Value: req.Value, Description: req.Description}
		if err := h.db.Create(&setting).Error; err != nil {
			return response.InternalServerError(c, "Failed to save setting")
		}
		h.audit(c, model.AuditCreate, "app_setting", setting.ID, fiber.Map{"key": key, "value": req.Value})
		return response.Created(c, setting)
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	old := setting.Value
	setting.Value = req.Value
	if req.Description != "" {
		setting.Description = req.Description
	}
	if err := h.db.Save(&setting).Error; err != nil {
		return response.InternalServerError(c, "Failed to save setting")
	}

	h.audit(c, model.AuditUpdate, "app_setting", setting.ID, fiber.Map{
		"key": key, "from": old, "to": setting.Value,
	})
	return response.Success(c, setting)
}
