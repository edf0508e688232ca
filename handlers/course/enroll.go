package course

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/services"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
)

// Enroll signs the current user up for the course in :id
func (h *CourseHandler) Enroll(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var course model.Course
	err := h.db.First(&course, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Course not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	enrollment, err := h.enrollments.Enroll(user, &course)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyEnrolled):
			return response.Conflict(c, "You are already enrolled in this course")
		case errors.Is(err, services.ErrEnrollmentClosed):
			return response.BadRequest(c, "This course is not open for enrollment")
		case errors.Is(err, services.ErrPaidCourse):
			return response.BadRequest(c, "This course requires payment")
		default:
			return response.InternalServerError(c, "Failed to enroll")
		}
	}

	// Confirmation email is best-effort
	if err := h.email.SendEnrollmentConfirmation(user.Email, user.DisplayName(), course.Title); err != nil {
		log.Printf("Failed to send enrollment confirmation to %s: %v", user.Email, err)
	}

	return response.Created(c, enrollment)
}

// Unenroll drops the current user from the course in :id
func (h *CourseHandler) Unenroll(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var course model.Course
	if err := h.db.First(&course, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Course not found")
	}

	if err := h.enrollments.Drop(user.ID, course.ID); err != nil {
		if errors.Is(err, services.ErrNotEnrolled) {
			return response.NotFound(c, "You are not enrolled in this course")
		}
		return response.InternalServerError(c, "Failed to unenroll")
	}

	return response.SuccessWithMessage(c, "Dropped from course", nil)
}

// MyEnrollments lists the current user's enrollments with course details
func (h *CourseHandler) MyEnrollments(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var enrollments []model.Enrollment
	err := h.db.
		Preload("Course").
		Preload("Course.Instructor").
		Where("user_id = ?", user.ID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, enrollments)
}

// MyProgress returns the current user's progress in the course in :id
func (h *CourseHandler) MyProgress(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var progress model.UserProgress
	err := h.db.Where("user_id = ? AND course_id = ?", user.ID, c.Params("id")).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "You are not enrolled in this course")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, fiber.Map{
		"progress":   progress,
		"percentage": progress.CalculateProgress(),
	})
}

// CompleteModuleRequest names the module being finished
type CompleteModuleRequest struct {
	ModuleID uint `json:"module_id" validate:"required"`
}

// CompleteModule marks a module finished for the current user. Finishing
// the last module completes the course and issues the certificate.
func (h *CourseHandler) CompleteModule(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var course model.Course
	if err := h.db.First(&course, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Course not found")
	}

	var req CompleteModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ModuleID == 0 {
		return response.BadRequest(c, "module_id is required")
	}

	var module model.CourseModule
	err := h.db.Where("id = ? AND course_id = ? AND is_published = ?", req.ModuleID, course.ID, true).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Module not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	progress, err := h.enrollments.CompleteModule(user.ID, course.ID, module.ID)
	if err != nil {
		if errors.Is(err, services.ErrNotEnrolled) {
			return response.Forbidden(c, "This content is only available to enrolled students")
		}
		return response.InternalServerError(c, "Failed to record progress")
	}

	return response.Success(c, fiber.Map{
		"progress":   progress,
		"percentage": progress.CalculateProgress(),
	})
}

// MyCertificates lists the current user's certificates
func (h *CourseHandler) MyCertificates(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var certificates []model.Certificate
	err := h.db.Preload("Course").Where("user_id = ?", user.ID).Find(&certificates).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, certificates)
}

// VerifyCertificate is a public lookup by certificate identifier
func (h *CourseHandler) VerifyCertificate(c *fiber.Ctx) error {
	var cert model.Certificate
	err := h.db.
		Preload("Course").
		Preload("User").
		Where("certificate_id = ?", c.Params("certificateId")).
		First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Certificate not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	return response.Success(c, fiber.Map{
		"certificate_id": cert.CertificateID,
		"issued_date":    cert.IssuedDate,
		"is_verified":    cert.IsVerified,
		"course":         cert.Course.Title,
		"holder":         cert.User.DisplayName(),
	})
}
