package assignment

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/services"
	"github.com/rsichomba/portfolio-lms/services/storage"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// AssignmentHandler manages coursework and submissions
type AssignmentHandler struct {
	db          *gorm.DB
	enrollments *services.EnrollmentService
	spaces      *storage.SpacesClient
	validator   *validation.Validator
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(db *gorm.DB, enrollments *services.EnrollmentService, spaces *storage.SpacesClient) *AssignmentHandler {
	return &AssignmentHandler{
		db:          db,
		enrollments: enrollments,
		spaces:      spaces,
		validator:   validation.NewValidator(),
	}
}

// ListByCourse returns a course's published assignments for enrolled
// students; the instructor and staff also see unpublished ones
func (h *AssignmentHandler) ListByCourse(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Please log in to view this content")
	}

	var course model.Course
	if err := h.db.First(&course, c.Params("courseId")).Error; err != nil {
		return response.NotFound(c, "Course not found")
	}

	manages := user.Staff() || user.ID == course.InstructorID
	if !manages {
		enrolled, err := h.enrollments.IsEnrolled(user.ID, course.ID)
		if err != nil {
			return response.InternalServerError(c, "")
		}
		if !enrolled {
			return response.Forbidden(c, "This content is only available to enrolled students")
		}
	}

	query := h.db.Where("course_id = ?", course.ID)
	if !manages {
		query = query.Where("is_published = ?", true)
	}

	var assignments []model.Assignment
	if err := query.Order("due_date ASC NULLS LAST, created_at ASC").Find(&assignments).Error; err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, assignments)
}

// Get returns one assignment, with the same visibility rules as listing
func (h *AssignmentHandler) Get(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Please log in to view this content")
	}

	var assignment model.Assignment
	err := h.db.Preload("Course").First(&assignment, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Assignment not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	manages := user.Staff() || user.ID == assignment.Course.InstructorID
	if !manages {
		if !assignment.IsPublished {
			return response.NotFound(c, "Assignment not found")
		}
		enrolled, err := h.enrollments.IsEnrolled(user.ID, assignment.CourseID)
		if err != nil {
			return response.InternalServerError(c, "")
		}
		if !enrolled {
			return response.Forbidden(c, "This content is only available to enrolled students")
		}
	}

	return response.Success(c, assignment)
}

// AssignmentRequest is the create/update payload
type AssignmentRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description" validate:"required"`
	Instructions string     `json:"instructions"`
	Type         string     `json:"type" validate:"omitempty,oneof=homework quiz project exam lab"`
	MaxPoints    float64    `json:"max_points" validate:"omitempty,gt=0"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ModuleID     *uint      `json:"module_id,omitempty"`
	IsPublished  bool       `json:"is_published"`
	AllowLate    bool       `json:"allow_late"`
}

// Create adds an assignment to a course; instructor or staff only
func (h *AssignmentHandler) Create(c *fiber.Ctx) error {
	user, course, errResp := h.loadManagedCourse(c, c.Params("courseId"))
	if errResp != nil {
		return errResp(c)
	}

	var req AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	if req.Type == "" {
		req.Type = model.AssignmentHomework
	}
	if req.MaxPoints == 0 {
		req.MaxPoints = 100
	}
	if req.ModuleID != nil {
		var count int64
		h.db.Model(&model.CourseModule{}).
			Where("id = ? AND course_id = ?", *req.ModuleID, course.ID).
			Count(&count)
		if count == 0 {
			return response.BadRequest(c, "Module does not belong to this course")
		}
	}

	assignment := model.Assignment{
		AssignmentID: fmt.Sprintf("ASG-%06d", rand.Intn(1000000)),
		CourseID:     course.ID,
		ModuleID:     req.ModuleID,
		Title:        validation.SanitizeString(req.Title),
		Description:  req.Description,
		Instructions: req.Instructions,
		Type:         req.Type,
		MaxPoints:    req.MaxPoints,
		DueDate:      req.DueDate,
		IsPublished:  req.IsPublished,
		AllowLate:    req.AllowLate,
		CreatedByID:  user.ID,
	}
	if err := h.db.Create(&assignment).Error; err != nil {
		return response.InternalServerError(c, "Failed to create assignment")
	}
	return response.Created(c, assignment)
}

// Update edits an assignment; instructor or staff only
func (h *AssignmentHandler) Update(c *fiber.Ctx) error {
	var assignment model.Assignment
	err := h.db.Preload("Course").First(&assignment, c.Params("id")).Error
	if err != nil {
		return response.NotFound(c, "Assignment not found")
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	if assignment.Course.InstructorID != user.ID && !user.Staff() {
		return response.Forbidden(c, "Only the course instructor can manage assignments")
	}

	var req AssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	assignment.Title = validation.SanitizeString(req.Title)
	assignment.Description = req.Description
	assignment.Instructions = req.Instructions
	if req.Type != "" {
		assignment.Type = req.Type
	}
	if req.MaxPoints > 0 {
		assignment.MaxPoints = req.MaxPoints
	}
	assignment.DueDate = req.DueDate
	assignment.IsPublished = req.IsPublished
	assignment.AllowLate = req.AllowLate

	if err := h.db.Save(&assignment).Error; err != nil {
		return response.InternalServerError(c, "Failed to update assignment")
	}
	return response.Success(c, assignment)
}

// Delete removes an assignment and its submissions; instructor or staff
func (h *AssignmentHandler) Delete(c *fiber.Ctx) error {
	var assignment model.Assignment
	if err := h.db.Preload("Course").First(&assignment, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Assignment not found")
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	if assignment.Course.InstructorID != user.ID && !user.Staff() {
		return response.Forbidden(c, "Only the course instructor can manage assignments")
	}

	if err := h.db.Delete(&assignment).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete assignment")
	}
	return response.NoContent(c)
}

func (h *AssignmentHandler) loadManagedCourse(c *fiber.Ctx, courseID string) (*model.User, *model.Course, func(*fiber.Ctx) error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return nil, nil, func(c *fiber.Ctx) error { return response.Unauthorized(c, "Authentication required") }
	}

	var course model.Course
	if err := h.db.First(&course, courseID).Error; err != nil {
		return nil, nil, func(c *fiber.Ctx) error { return response.NotFound(c, "Course not found") }
	}
	if course.InstructorID != user.ID && !user.Staff() {
		return nil, nil, func(c *fiber.Ctx) error {
			return response.Forbidden(c, "Only the course instructor can manage assignments")
		}
	}
	return user, &course, nil
}
