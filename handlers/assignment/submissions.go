package assignment

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/services/storage"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// MaxSubmissionSize caps submission file uploads at 25 MB
const MaxSubmissionSize = 25 << 20

// Submit records the current user's answer to the assignment in :id.
// One submission per (user, assignment): resubmitting overwrites the
// previous content and clears any grade.
func (h *AssignmentHandler) Submit(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var assignment model.Assignment
	err := h.db.First(&assignment, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Assignment not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}
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

	now := time.Now()
	isLate := assignment.IsPastDue(now)
	if isLate && !assignment.AllowLate {
		return response.BadRequest(c, "The due date for this assignment has passed")
	}

	content := validation.SanitizeString(c.FormValue("content"))
	fileURL, fileKey, filename := "", "", ""

	if fileHeader, err := c.FormFile("file"); err == nil {
		if fileHeader.Size > MaxSubmissionSize {
			return response.BadRequest(c, "File exceeds the 25MB limit")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return response.InternalServerError(c, "Failed to read upload")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return response.InternalServerError(c, "Failed to read upload")
		}

		fileKey = storage.GenerateKey(fmt.Sprintf("submissions/%d/%d", assignment.ID, user.ID), fileHeader.Filename)
		fileURL, err = h.spaces.UploadBytes(c.Context(), fileKey, data, storage.GetContentType(fileHeader.Filename))
		if err != nil {
			return response.InternalServerError(c, "Failed to store file")
		}
		filename = fileHeader.Filename
	}

	if content == "" && fileURL == "" {
		return response.BadRequest(c, "A submission needs content or a file")
	}

	var submission model.Submission
	err = h.db.Where("user_id = ? AND assignment_id = ?", user.ID, assignment.ID).First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		submission = model.Submission{
			UserID:       user.ID,
			AssignmentID: assignment.ID,
			Content:      content,
			FileURL:      fileURL,
			FileKey:      fileKey,
			Filename:     filename,
			IsLate:       isLate,
		}
		if err := h.db.Create(&submission).Error; err != nil {
			return response.InternalServerError(c, "Failed to save submission")
		}
		h.bumpSubmittedCount(user.ID, assignment.CourseID)
		return response.Created(c, submission)
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	// Resubmission: replace the work and reset the grade
	if submission.FileKey != "" && fileKey != "" && submission.FileKey != fileKey {
		if err := h.spaces.DeleteFile(c.Context(), submission.FileKey); err != nil {
			log.Printf("Failed to delete replaced submission file %s: %v", submission.FileKey, err)
		}
	}
	submission.Content = content
	if fileURL != "" {
		submission.FileURL = fileURL
		submission.FileKey = fileKey
		submission.Filename = filename
	}
	submission.IsLate = isLate
	submission.Grade = nil
	submission.Feedback = ""
	submission.IsGraded = false
	submission.GradedAt = nil
	submission.GradedByID = nil

	err = h.db.Model(&submission).Select(
		"content", "file_url", "file_key", "filename", "is_late",
		"grade", "feedback", "is_graded", "graded_at", "graded_by_id",
	).Updates(&submission).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to save submission")
	}
	return response.Success(c, submission)
}

// MySubmission returns the current user's submission for the assignment in :id
func (h *AssignmentHandler) MySubmission(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var submission model.Submission
	err := h.db.
		Preload("Assignment").
		Where("user_id = ? AND assignment_id = ?", user.ID, c.Params("id")).
		First(&submission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "You have not submitted this assignment")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, submission)
}

// MySubmissions lists all of the current user's submissions
func (h *AssignmentHandler) MySubmissions(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var submissions []model.Submission
	err := h.db.
		Preload("Assignment").
		Where("user_id = ?", user.ID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, submissions)
}

// ListSubmissions returns all submissions for the assignment in :id;
// instructor or staff only. Ungraded first.
func (h *AssignmentHandler) ListSubmissions(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var assignment model.Assignment
	if err := h.db.Preload("Course").First(&assignment, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Assignment not found")
	}
	if assignment.Course.InstructorID != user.ID && !user.Staff() {
		return response.Forbidden(c, "Only the course instructor can view submissions")
	}

	query := h.db.Model(&model.Submission{}).
		Preload("User").
		Where("assignment_id = ?", assignment.ID)
	if c.Query("graded") == "false" {
		query = query.Where("is_graded = ?", false)
	}

	var submissions []model.Submission
	err := query.Order("is_graded ASC, submitted_at ASC").Find(&submissions).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, submissions)
}

// GradeRequest carries the points awarded and optional feedback. No cap
// is enforced against the assignment's max points; bonus grades are
// allowed.
type GradeRequest struct {
	Grade    float64 `json:"grade" validate:"gte=0"`
	Feedback string  `json:"feedback" validate:"max=4000"`
}

// Grade records a grade for the submission in :submissionId; instructor
// or staff only
func (h *AssignmentHandler) Grade(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var submission model.Submission
	err := h.db.
		Preload("Assignment").
		Preload("Assignment.Course").
		First(&submission, c.Params("submissionId")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Submission not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	if submission.Assignment.Course.InstructorID != user.ID && !user.Staff() {
		return response.Forbidden(c, "Only the course instructor can grade submissions")
	}

	var req GradeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	now := time.Now()
	submission.Grade = &req.Grade
	submission.Feedback = validation.SanitizeString(req.Feedback)
	submission.IsGraded = true
	submission.GradedAt = &now
	submission.GradedByID = &user.ID

	err = h.db.Model(&submission).Select(
		"grade", "feedback", "is_graded", "graded_at", "graded_by_id",
	).Updates(&submission).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to save grade")
	}
	return response.Success(c, submission)
}

// bumpSubmittedCount advances the per-course progress counter with a
// plain read-modify-write
func (h *AssignmentHandler) bumpSubmittedCount(userID, courseID uint) {
	var progress model.UserProgress
	err := h.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err != nil {
		return
	}
	h.db.Model(&progress).Update("assignments_submitted", progress.AssignmentsSubmitted+1)
}
