package course

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// ListReviews returns approved reviews for the course in :id
func (h *CourseHandler) ListReviews(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	query := h.db.Model(&model.CourseReview{}).
		Preload("User").
		Where("course_id = ? AND is_approved = ?", c.Params("id"), true)

	var total int64
	query.Count(&total)
	pagination := response.CalculatePagination(page, limit, total)

	var reviews []model.CourseReview
	err := query.
		Order("helpful_count DESC, created_at DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PerPage).
		Limit(pagination.PerPage).
		Find(&reviews).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Paginated(c, reviews, pagination)
}

// ReviewRequest is the create/update payload
type ReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Review string `json:"review" validate:"max=4000"`
}

// CreateReview adds or replaces the current user's review of a course.
// Only enrolled students can review.
func (h *CourseHandler) CreateReview(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var course model.Course
	if err := h.db.First(&course, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Course not found")
	}

	enrolled, err := h.enrollments.IsEnrolled(user.ID, course.ID)
	if err != nil {
		return response.InternalServerError(c, "")
	}
	if !enrolled {
		return response.Forbidden(c, "Only enrolled students can review a course")
	}

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	// One review per (user, course): a resubmission overwrites
	var review model.CourseReview
	err = h.db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		review = model.CourseReview{
			UserID:     user.ID,
			CourseID:   course.ID,
			Rating:     req.Rating,
			Review:     validation.SanitizeString(req.Review),
			IsApproved: true,
		}
		if err := h.db.Create(&review).Error; err != nil {
			return response.InternalServerError(c, "Failed to save review")
		}
		return response.Created(c, review)
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	review.Rating = req.Rating
	review.Review = validation.SanitizeString(req.Review)
	if err := h.db.Save(&review).Error; err != nil {
		return response.InternalServerError(c, "Failed to save review")
	}
	return response.Success(c, review)
}

// DeleteReview removes the current user's review (or any review, for staff)
func (h *CourseHandler) DeleteReview(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var review model.CourseReview
	if err := h.db.First(&review, c.Params("reviewId")).Error; err != nil {
		return response.NotFound(c, "Review not found")
	}
	if review.UserID != user.ID && !user.Staff() {
		return response.Forbidden(c, "You can only delete your own review")
	}

	if err := h.db.Delete(&review).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete review")
	}
	return response.NoContent(c)
}
