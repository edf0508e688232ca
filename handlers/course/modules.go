package course

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/slug"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// ModuleRequest is the create/update payload for a course module
type ModuleRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Order       int    `json:"order" validate:"gte=0"`
	IsPublished *bool  `json:"is_published,omitempty"`
}

// CreateModule adds a module to a course; instructor or staff
func (h *CourseHandler) CreateModule(c *fiber.Ctx) error {
	_, course, errResp := h.loadOwnedCourse(c)
	if errResp != nil {
		return errResp(c)
	}

	var req ModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	module := model.CourseModule{
		CourseID:    course.ID,
		Title:       validation.SanitizeString(req.Title),
		Description: req.Description,
		Order:       req.Order,
		IsPublished: true,
	}
	if req.IsPublished != nil {
		module.IsPublished = *req.IsPublished
	}

	if err := h.db.Create(&module).Error; err != nil {
		return response.Conflict(c, "A module with this order already exists in the course")
	}
	return response.Created(c, module)
}

// UpdateModule edits a module; instructor or staff
func (h *CourseHandler) UpdateModule(c *fiber.Ctx) error {
	_, course, errResp := h.loadOwnedCourse(c)
	if errResp != nil {
		return errResp(c)
	}

	var module model.CourseModule
	err := h.db.Where("id = ? AND course_id = ?", c.Params("moduleId"), course.ID).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Module not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	var req ModuleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	module.Title = validation.SanitizeString(req.Title)
	module.Description = req.Description
	module.Order = req.Order
	if req.IsPublished != nil {
		module.IsPublished = *req.IsPublished
	}

	if err := h.db.Save(&module).Error; err != nil {
		return response.Conflict(c, "A module with this order already exists in the course")
	}
	return response.Success(c, module)
}

// DeleteModule removes a module and its lessons; instructor or staff
func (h *CourseHandler) DeleteModule(c *fiber.Ctx) error {
	_, course, errResp := h.loadOwnedCourse(c)
	if errResp != nil {
		return errResp(c)
	}

	result := h.db.Where("course_id = ?", course.ID).Delete(&model.CourseModule{}, c.Params("moduleId"))
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete module")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Module not found")
	}
	return response.NoContent(c)
}

// ListLessons returns a module's published lessons. Course material is
// restricted to enrolled students, the instructor, and staff.
func (h *CourseHandler) ListLessons(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Please log in to view this content")
	}

	var module model.CourseModule
	if err := h.db.Preload("Course").First(&module, c.Params("moduleId")).Error; err != nil {
		return response.NotFound(c, "Module not found")
	}

	if err := h.requireCourseAccess(c, user, &module.Course); err != nil {
		return err
	}

	var lessons []model.Lesson
	err := h.db.
		Preload("Documents").
		Where("module_id = ? AND is_published = ?", module.ID, true).
		Order(`"order" ASC`).
		Find(&lessons).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, lessons)
}

// requireCourseAccess writes the denial response unless the user may view
// course material
func (h *CourseHandler) requireCourseAccess(c *fiber.Ctx, user *model.User, course *model.Course) error {
	if user.Staff() || user.ID == course.InstructorID {
		return nil
	}
	enrolled, err := h.enrollments.IsEnrolled(user.ID, course.ID)
	if err != nil {
		return response.InternalServerError(c, "")
	}
	if !enrolled {
		return response.Forbidden(c, "This content is only available to enrolled students")
	}
	return nil
}

// LessonRequest is the create/update payload for a lesson
type LessonRequest struct {
	Title              string `json:"title" validate:"required,max=200"`
	Content            string `json:"content"`
	VideoURL           string `json:"video_url"`
	DurationMinutes    int    `json:"duration_minutes" validate:"gte=0"`
	Order              int    `json:"order" validate:"gte=0"`
	IsPublished        *bool  `json:"is_published,omitempty"`
	RequiresCompletion *bool  `json:"requires_completion,omitempty"`
	DocumentIDs        []uint `json:"document_ids"`
}

// CreateLesson adds a lesson to a module; instructor or staff
func (h *CourseHandler) CreateLesson(c *fiber.Ctx) error {
	_, course, errResp := h.loadOwnedCourse(c)
	if errResp != nil {
		return errResp(c)
	}

	var module model.CourseModule
	err := h.db.Where("id = ? AND course_id = ?", c.Params("moduleId"), course.ID).First(&module).Error
	if err != nil {
		return response.NotFound(c, "Module not found")
	}

	var req LessonRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	lesson := model.Lesson{
		ModuleID:           module.ID,
		Title:              validation.SanitizeString(req.Title),
		Slug:               slug.Make(req.Title),
		Content:            req.Content,
		VideoURL:           req.VideoURL,
		DurationMinutes:    req.DurationMinutes,
		Order:              req.Order,
		IsPublished:        true,
		RequiresCompletion: true,
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}
	if req.RequiresCompletion != nil {
		lesson.RequiresCompletion = *req.RequiresCompletion
	}

	if err := h.db.Create(&lesson).Error; err != nil {
		return response.Conflict(c, "A lesson with this order already exists in the module")
	}

	if len(req.DocumentIDs) > 0 {
		var docs []model.Document
		h.db.Find(&docs, req.DocumentIDs)
		h.db.Model(&lesson).Association("Documents").Replace(docs)
	}

	return response.Created(c, lesson)
}

// DeleteLesson removes a lesson; instructor or staff
func (h *CourseHandler) DeleteLesson(c *fiber.Ctx) error {
	_, course, errResp := h.loadOwnedCourse(c)
	if errResp != nil {
		return errResp(c)
	}

	var lesson model.Lesson
	err := h.db.
		Joins("JOIN course_modules ON course_modules.id = lessons.module_id").
		Where("lessons.id = ? AND course_modules.course_id = ?", c.Params("lessonId"), course.ID).
		First(&lesson).Error
	if err != nil {
		return response.NotFound(c, "Lesson not found")
	}

	if err := h.db.Delete(&lesson).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete lesson")
	}
	return response.NoContent(c)
}
