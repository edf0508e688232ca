package course

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/slug"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// List returns the active course catalog with optional filters
func (h *CourseHandler) List(c *fiber.Ctx) error {
	query := h.db.Model(&model.Course{}).
		Preload("Instructor").
		Preload("Skills").
		Where("is_active = ?", true)

	if school := c.Query("school"); school != "" {
		query = query.Where("school = ?", school)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}
	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if c.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
	}
	if search := c.Query("q"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 12)

	var total int64
	query.Count(&total)
	pagination := response.CalculatePagination(page, limit, total)

	var courses []model.Course
	err := query.
		Order("is_featured DESC, enrollment_count DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PerPage).
		Limit(pagination.PerPage).
		Find(&courses).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Paginated(c, courses, pagination)
}

// Get returns one course by slug with its published modules, counting
// the view with a plain read-modify-write
func (h *CourseHandler) Get(c *fiber.Ctx) error {
	var course model.Course
	err := h.db.
		Preload("Instructor").
		Preload("Skills").
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order(`"order" ASC`)
		}).
		Where("slug = ?", c.Params("slug")).
		First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Course not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	viewer, _ := middleware.GetUser(c)
	isInstructor := viewer != nil && viewer.ID == course.InstructorID
	if !course.IsActive && !isInstructor && (viewer == nil || !viewer.Staff()) {
		return response.NotFound(c, "Course not found")
	}

	h.db.Model(&course).Update("views", course.Views+1)
	course.Views++

	return response.Success(c, course)
}

// CourseRequest is the create/update payload
type CourseRequest struct {
	CourseCode          string   `json:"course_code" validate:"required,max=20"`
	Title               string   `json:"title" validate:"required,max=200"`
	Description         string   `json:"description" validate:"required"`
	DetailedDescription string   `json:"detailed_description"`
	School              string   `json:"school"`
	Department          string   `json:"department" validate:"max=100"`
	Credits             int      `json:"credits" validate:"omitempty,gte=1,lte=30"`
	Level               string   `json:"level" validate:"omitempty,oneof=highschool undergraduate postgraduate certificate professional"`
	Duration            string   `json:"duration" validate:"max=50"`
	Difficulty          string   `json:"difficulty" validate:"omitempty,oneof=introductory intermediate advanced expert"`
	ThumbnailURL        string   `json:"thumbnail_url"`
	PromoVideo          string   `json:"promo_video"`
	IsActive            *bool    `json:"is_active,omitempty"`
	IsFeatured          bool     `json:"is_featured"`
	IsOpenForEnrollment *bool    `json:"is_open_for_enrollment,omitempty"`
	Price               float64  `json:"price" validate:"gte=0"`
	SkillIDs            []uint   `json:"skill_ids"`
}

// Create adds a course taught by the current user (instructor/staff only)
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	if !user.IsInstructor() && !user.Staff() {
		return response.Forbidden(c, "Only instructors can create courses")
	}

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	course := model.Course{
		CourseID:            generateCourseID(req.CourseCode),
		CourseCode:          strings.ToUpper(req.CourseCode),
		Title:               validation.SanitizeString(req.Title),
		Slug:                h.uniqueSlug(req.Title),
		Description:         req.Description,
		DetailedDescription: req.DetailedDescription,
		School:              req.School,
		Department:          req.Department,
		InstructorID:        user.ID,
		ThumbnailURL:        req.ThumbnailURL,
		PromoVideo:          req.PromoVideo,
		IsFeatured:          req.IsFeatured,
		Price:               req.Price,
		IsFree:              req.Price == 0,
	}
	if req.Credits > 0 {
		course.Credits = req.Credits
	}
	if req.Level != "" {
		course.Level = req.Level
	}
	if req.Duration != "" {
		course.Duration = req.Duration
	}
	if req.Difficulty != "" {
		course.Difficulty = req.Difficulty
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	} else {
		course.IsActive = true
	}
	if req.IsOpenForEnrollment != nil {
		course.IsOpenForEnrollment = *req.IsOpenForEnrollment
	} else {
		course.IsOpenForEnrollment = true
	}

	if err := h.db.Create(&course).Error; err != nil {
		return response.InternalServerError(c, "Failed to create course")
	}

	if len(req.SkillIDs) > 0 {
		var skills []model.Skill
		h.db.Find(&skills, req.SkillIDs)
		h.db.Model(&course).Association("Skills").Replace(skills)
	}

	return response.Created(c, course)
}

// Update edits a course; only its instructor or staff
func (h *CourseHandler) Update(c *fiber.Ctx) error {
	_, course, errResp := h.loadOwnedCourse(c)
	if errResp != nil {
		return errResp(c)
	}

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	course.CourseCode = strings.ToUpper(req.CourseCode)
	course.Title = validation.SanitizeString(req.Title)
	course.Description = req.Description
	course.DetailedDescription = req.DetailedDescription
	course.School = req.School
	course.Department = req.Department
	if req.Credits > 0 {
		course.Credits = req.Credits
	}
	if req.Level != "" {
		course.Level = req.Level
	}
	if req.Duration != "" {
		course.Duration = req.Duration
	}
	if req.Difficulty != "" {
		course.Difficulty = req.Difficulty
	}
	course.ThumbnailURL = req.ThumbnailURL
	course.PromoVideo = req.PromoVideo
	course.IsFeatured = req.IsFeatured
	course.Price = req.Price
	course.IsFree = req.Price == 0
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	if req.IsOpenForEnrollment != nil {
		course.IsOpenForEnrollment = *req.IsOpenForEnrollment
	}

	if err := h.db.Save(course).Error; err != nil {
		return response.InternalServerError(c, "Failed to update course")
	}

	if req.SkillIDs != nil {
		var skills []model.Skill
		h.db.Find(&skills, req.SkillIDs)
		h.db.Model(course).Association("Skills").Replace(skills)
	}

	return response.Success(c, course)
}

// Delete soft-deletes a course; only its instructor or staff
func (h *CourseHandler) Delete(c *fiber.Ctx) error {
	_, course, errResp := h.loadOwnedCourse(c)
	if errResp != nil {
		return errResp(c)
	}

	if err := h.db.Delete(course).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete course")
	}
	return response.NoContent(c)
}

// loadOwnedCourse fetches the course in :id and checks the caller may
// manage it
func (h *CourseHandler) loadOwnedCourse(c *fiber.Ctx) (*model.User, *model.Course, func(*fiber.Ctx) error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return nil, nil, func(c *fiber.Ctx) error { return response.Unauthorized(c, "Authentication required") }
	}

	var course model.Course
	if err := h.db.First(&course, c.Params("id")).Error; err != nil {
		return nil, nil, func(c *fiber.Ctx) error { return response.NotFound(c, "Course not found") }
	}
	if course.InstructorID != user.ID && !user.Staff() {
		return nil, nil, func(c *fiber.Ctx) error {
			return response.Forbidden(c, "Only the course instructor can manage this course")
		}
	}
	return user, &course, nil
}

func (h *CourseHandler) uniqueSlug(title string) string {
	base := slug.Make(title)
	var count int64
	h.db.Model(&model.Course{}).Where("slug = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return slug.WithSuffix(base)
}

// generateCourseID builds the external identifier, e.g. "CS101-4821"
func generateCourseID(courseCode string) string {
	return fmt.Sprintf("%s-%04d", strings.ToUpper(courseCode), rand.Intn(10000))
}
