package portfolio

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// ListTestimonials returns all testimonials, featured first
func (h *PortfolioHandler) ListTestimonials(c *fiber.Ctx) error {
	var testimonials []model.Testimonial
	if err := h.db.Order("is_featured DESC, created_at DESC").Find(&testimonials).Error; err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, testimonials)
}

// TestimonialRequest is the create payload
type TestimonialRequest struct {
	Author   string `json:"author" validate:"required,max=100"`
	Role     string `json:"role" validate:"max=100"`
	Content  string `json:"content" validate:"required,max=2000"`
	ImageURL string `json:"image_url"`
	Rating   int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

// CreateTestimonial adds a testimonial. Logged-in submitters get linked
// to their account; staff create them directly.
func (h *PortfolioHandler) CreateTestimonial(c *fiber.Ctx) error {
	var req TestimonialRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	if req.Rating == 0 {
		req.Rating = 5
	}

	testimonial := model.Testimonial{
		Author:   validation.SanitizeString(req.Author),
		Role:     validation.SanitizeString(req.Role),
		Content:  validation.SanitizeString(req.Content),
		ImageURL: req.ImageURL,
		Rating:   req.Rating,
	}
	if userID, ok := middleware.GetUserID(c); ok {
		testimonial.UserID = &userID
	}

	if err := h.db.Create(&testimonial).Error; err != nil {
		return response.InternalServerError(c, "Failed to create testimonial")
	}
	return response.Created(c, testimonial)
}

// DeleteTestimonial removes a testimonial (staff only)
func (h *PortfolioHandler) DeleteTestimonial(c *fiber.Ctx) error {
	result := h.db.Delete(&model.Testimonial{}, c.Params("id"))
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete testimonial")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Testimonial not found")
	}
	return response.NoContent(c)
}
