package portfolio

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// ListSkills returns all skills ordered by proficiency
func (h *PortfolioHandler) ListSkills(c *fiber.Ctx) error {
	var skills []model.Skill
	if err := h.db.Order("proficiency DESC, name ASC").Find(&skills).Error; err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, skills)
}

// SkillRequest is the create/update payload for a skill
type SkillRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Proficiency int    `json:"proficiency" validate:"gte=0,lte=100"`
	Icon        string `json:"icon" validate:"max=50"`
	Description string `json:"description"`
}

// CreateSkill adds a skill (staff only, enforced by router)
func (h *PortfolioHandler) CreateSkill(c *fiber.Ctx) error {
	var req SkillRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	skill := model.Skill{
		Name:        validation.SanitizeString(req.Name),
		Proficiency: req.Proficiency,
		Icon:        req.Icon,
		Description: req.Description,
	}
	if err := h.db.Create(&skill).Error; err != nil {
		return response.Conflict(c, "A skill with this name already exists")
	}
	return response.Created(c, skill)
}

// UpdateSkill updates a skill by ID
func (h *PortfolioHandler) UpdateSkill(c *fiber.Ctx) error {
	var skill model.Skill
	if err := h.db.First(&skill, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Skill not found")
	}

	var req SkillRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	skill.Name = validation.SanitizeString(req.Name)
	skill.Proficiency = req.Proficiency
	skill.Icon = req.Icon
	skill.Description = req.Description
	if err := h.db.Save(&skill).Error; err != nil {
		return response.InternalServerError(c, "Failed to update skill")
	}
	return response.Success(c, skill)
}

// DeleteSkill removes a skill
func (h *PortfolioHandler) DeleteSkill(c *fiber.Ctx) error {
	result := h.db.Delete(&model.Skill{}, c.Params("id"))
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete skill")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Skill not found")
	}
	return response.NoContent(c)
}
