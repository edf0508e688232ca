package parent

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/services"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// ParentHandler manages parent-student account links
type ParentHandler struct {
	db        *gorm.DB
	email     *services.EmailService
	validator *validation.Validator
}

// NewParentHandler creates a new parent handler
func NewParentHandler(db *gorm.DB, email *services.EmailService) *ParentHandler {
	return &ParentHandler{
		db:        db,
		email:     email,
		validator: validation.NewValidator(),
	}
}

// LinkRequest names the student account to connect to
type LinkRequest struct {
	StudentEmail string `json:"student_email" validate:"required,email"`
}

// RequestLink creates an unverified connection to a student account and
// emails the student a confirmation code
func (h *ParentHandler) RequestLink(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	if user.Role != model.RoleParent && !user.Staff() {
		return response.Forbidden(c, "Parent account required")
	}

	var req LinkRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	var student model.User
	err := h.db.Where("email = ?", req.StudentEmail).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "No account found for that email")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}
	if student.ID == user.ID {
		return response.BadRequest(c, "You cannot link to your own account")
	}
	if !student.IsStudent() {
		return response.BadRequest(c, "That account is not a student account")
	}

	var existing model.ParentConnection
	err = h.db.Where("parent_id = ? AND student_id = ?", user.ID, student.ID).First(&existing).Error
	if err == nil {
		if existing.IsVerified {
			return response.Conflict(c, "You are already linked to this student")
		}
		// Pending request: issue a fresh code
		existing.VerificationCode = generateCode()
		if err := h.db.Save(&existing).Error; err != nil {
			return response.InternalServerError(c, "Failed to save link request")
		}
		h.mailCode(&student, existing.VerificationCode)
		return response.SuccessWithMessage(c, "A new confirmation code was sent to the student", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "")
	}

	connection := model.ParentConnection{
		ParentID:         user.ID,
		StudentID:        student.ID,
		VerificationCode: generateCode(),
	}
	if err := h.db.Create(&connection).Error; err != nil {
		return response.InternalServerError(c, "Failed to save link request")
	}

	h.mailCode(&student, connection.VerificationCode)
	return response.Created(c, fiber.Map{
		"id":          connection.ID,
		"student":     student.DisplayName(),
		"is_verified": false,
	})
}

// VerifyRequest carries the emailed confirmation code
type VerifyRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

// VerifyLink confirms the pending connection in :id with the code the
// student received
func (h *ParentHandler) VerifyLink(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	var connection model.ParentConnection
	err := h.db.First(&connection, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Link request not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}
	// Either side of the connection may enter the code
	if connection.ParentID != user.ID && connection.StudentID != user.ID {
		return response.NotFound(c, "Link request not found")
	}
	if connection.IsVerified {
		return response.Conflict(c, "This link is already verified")
	}
	if connection.VerificationCode != req.Code {
		return response.BadRequest(c, "Invalid confirmation code")
	}

	now := time.Now()
	connection.IsVerified = true
	connection.VerifiedAt = &now
	connection.VerificationCode = ""
	if err := h.db.Save(&connection).Error; err != nil {
		return response.InternalServerError(c, "Failed to verify link")
	}

	return response.SuccessWithMessage(c, "Accounts linked", connection)
}

// Children lists the current parent's verified student connections
func (h *ParentHandler) Children(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var connections []model.ParentConnection
	err := h.db.
		Preload("Student").
		Where("parent_id = ? AND is_verified = ?", user.ID, true).
		Find(&connections).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, connections)
}

// ChildProgress returns a linked student's enrollments, progress, and
// grades. Grades are withheld when the student disabled grade sharing.
func (h *ParentHandler) ChildProgress(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var connection model.ParentConnection
	err := h.db.
		Preload("Student").
		Where("parent_id = ? AND student_id = ? AND is_verified = ?", user.ID, c.Params("studentId"), true).
		First(&connection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Student not linked to your account")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	var enrollments []model.Enrollment
	err = h.db.
		Preload("Course").
		Where("user_id = ?", connection.StudentID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}

	var progress []model.UserProgress
	if err := h.db.Where("user_id = ?", connection.StudentID).Find(&progress).Error; err != nil {
		return response.InternalServerError(c, "")
	}

	payload := fiber.Map{
		"student":     connection.Student.DisplayName(),
		"enrollments": enrollments,
		"progress":    progress,
	}

	if connection.CanViewGrades {
		var grades []model.Submission
		err = h.db.
			Preload("Assignment").
			Where("user_id = ? AND is_graded = ?", connection.StudentID, true).
			Order("graded_at DESC").
			Find(&grades).Error
		if err != nil {
			return response.InternalServerError(c, "")
		}
		payload["grades"] = grades
	}

	return response.Success(c, payload)
}

// UpdatePermissionsRequest toggles what the linked parent may see
type UpdatePermissionsRequest struct {
	CanViewGrades           *bool `json:"can_view_grades,omitempty"`
	CanViewAttendance       *bool `json:"can_view_attendance,omitempty"`
	CanReceiveNotifications *bool `json:"can_receive_notifications,omitempty"`
}

// UpdatePermissions lets the student adjust a verified connection's
// visibility flags
func (h *ParentHandler) UpdatePermissions(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var connection model.ParentConnection
	err := h.db.Where("id = ? AND student_id = ?", c.Params("id"), user.ID).First(&connection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Link not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	var req UpdatePermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.CanViewGrades != nil {
		connection.CanViewGrades = *req.CanViewGrades
	}
	if req.CanViewAttendance != nil {
		connection.CanViewAttendance = *req.CanViewAttendance
	}
	if req.CanReceiveNotifications != nil {
		connection.CanReceiveNotifications = *req.CanReceiveNotifications
	}

	if err := h.db.Save(&connection).Error; err != nil {
		return response.InternalServerError(c, "Failed to update permissions")
	}
	return response.Success(c, connection)
}

// Unlink removes a connection; either side may do it
func (h *ParentHandler) Unlink(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	result := h.db.
		Where("id = ? AND (parent_id = ? OR student_id = ?)", c.Params("id"), user.ID, user.ID).
		Delete(&model.ParentConnection{})
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to remove link")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Link not found")
	}
	return response.NoContent(c)
}

func (h *ParentHandler) mailCode(student *model.User, code string) {
	err := h.email.SendVerificationCode(student.Email, student.DisplayName(), code, "parent_link")
	if err != nil {
		log.Printf("Failed to send parent link code to %s: %v", student.Email, err)
	}
}

func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
