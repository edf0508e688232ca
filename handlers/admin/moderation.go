package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/response"
)

// ListPendingReviews returns course reviews awaiting approval
func (h *AdminHandler) ListPendingReviews(c *fiber.Ctx) error {
	var reviews []model.CourseReview
	err := h.db.
		Preload("User").
		Where("is_approved = ?", false).
		Order("created_at ASC").
		Find(&reviews).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, reviews)
}

// ApproveReview publishes the review in :id
func (h *AdminHandler) ApproveReview(c *fiber.Ctx) error {
	var review model.CourseReview
	if err := h.db.First(&review, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Review not found")
	}

	if err := h.db.Model(&review).Update("is_approved", true).Error; err != nil {
		return response.InternalServerError(c, "Failed to approve review")
	}

	h.audit(c, model.AuditUpdate, "course_review", review.ID, fiber.Map{"is_approved": true})
	return response.SuccessWithMessage(c, "Review approved", nil)
}

// RejectReview removes the review in :id
func (h *AdminHandler) RejectReview(c *fiber.Ctx) error {
	var review model.CourseReview
	if err := h.db.First(&review, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Review not found")
	}

	if err := h.db.Delete(&review).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete review")
	}

	h.audit(c, model.AuditDelete, "course_review", review.ID, nil)
	return response.NoContent(c)
}
