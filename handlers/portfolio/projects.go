package portfolio

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/slug"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// ListProjects returns projects, optionally filtered by status or featured
func (h *PortfolioHandler) ListProjects(c *fiber.Ctx) error {
	query := h.db.Model(&model.Project{}).Preload("Skills")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if c.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	var total int64
	query.Count(&total)
	pagination := response.CalculatePagination(page, limit, total)

	var projects []model.Project
	err := query.
		Order("is_featured DESC, created_at DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PerPage).
		Limit(pagination.PerPage).
		Find(&projects).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Paginated(c, projects, pagination)
}

// GetProject returns a single project by slug
func (h *PortfolioHandler) GetProject(c *fiber.Ctx) error {
	var project model.Project
	err := h.db.Preload("Skills").Where("slug = ?", c.Params("slug")).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Project not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, project)
}

// ProjectRequest is the create/update payload for a project
type ProjectRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	ImageURL    string `json:"image_url"`
	URL         string `json:"url"`
	Status      string `json:"status" validate:"omitempty,oneof=completed in_progress planned archived"`
	Tags        string `json:"tags" validate:"max=200"`
	IsFeatured  bool   `json:"is_featured"`
	SkillIDs    []uint `json:"skill_ids"`
}

// CreateProject adds a project (staff only)
func (h *PortfolioHandler) CreateProject(c *fiber.Ctx) error {
	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	if req.Status == "" {
		req.Status = model.ProjectCompleted
	}

	project := model.Project{
		Title:       validation.SanitizeString(req.Title),
		Slug:        h.uniqueProjectSlug(req.Title),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		URL:         req.URL,
		Status:      req.Status,
		Tags:        req.Tags,
		IsFeatured:  req.IsFeatured,
	}
	if err := h.db.Create(&project).Error; err != nil {
		return response.InternalServerError(c, "Failed to create project")
	}

	if len(req.SkillIDs) > 0 {
		var skills []model.Skill
		h.db.Find(&skills, req.SkillIDs)
		h.db.Model(&project).Association("Skills").Replace(skills)
	}

	return response.Created(c, project)
}

// UpdateProject updates a project by ID
func (h *PortfolioHandler) UpdateProject(c *fiber.Ctx) error {
	var project model.Project
	if err := h.db.First(&project, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Project not found")
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	project.Title = validation.SanitizeString(req.Title)
	project.Description = req.Description
	project.ImageURL = req.ImageURL
	project.URL = req.URL
	if req.Status != "" {
		project.Status = req.Status
	}
	project.Tags = req.Tags
	project.IsFeatured = req.IsFeatured
	if err := h.db.Save(&project).Error; err != nil {
		return response.InternalServerError(c, "Failed to update project")
	}

	if req.SkillIDs != nil {
		var skills []model.Skill
		h.db.Find(&skills, req.SkillIDs)
		h.db.Model(&project).Association("Skills").Replace(skills)
	}

	return response.Success(c, project)
}

// DeleteProject soft-deletes a project
func (h *PortfolioHandler) DeleteProject(c *fiber.Ctx) error {
	result := h.db.Delete(&model.Project{}, c.Params("id"))
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete project")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Project not found")
	}
	return response.NoContent(c)
}

func (h *PortfolioHandler) uniqueProjectSlug(title string) string {
	base := slug.Make(title)
	var count int64
	h.db.Model(&model.Project{}).Where("slug = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return slug.WithSuffix(base)
}
