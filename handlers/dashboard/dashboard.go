package dashboard

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
)

// DashboardHandler assembles per-user overviews
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Student returns the current user's enrollments, progress, pending
// assignments, and recent grades in one payload
func (h *DashboardHandler) Student(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var enrollments []model.Enrollment
	err := h.db.
		Preload("Course").
		Preload("Course.Instructor").
		Where("user_id = ? AND status IN ?", user.ID, []string{model.EnrollmentActive, model.EnrollmentCompleted}).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Status == model.EnrollmentActive {
			courseIDs = append(courseIDs, e.CourseID)
		}
	}

	// Published assignments in active courses the user has not submitted yet
	var pending []model.Assignment
	if len(courseIDs) > 0 {
		err = h.db.
			Where("course_id IN ? AND is_published = ?", courseIDs, true).
			Where("id NOT IN (?)", h.db.Model(&model.Submission{}).
				Select("assignment_id").
				Where("user_id = ?", user.ID)).
			Order("due_date ASC NULLS LAST").
			Limit(20).
			Find(&pending).Error
		if err != nil {
			return response.InternalServerError(c, "")
		}
	}

	var recentGrades []model.Submission
	err = h.db.
		Preload("Assignment").
		Where("user_id = ? AND is_graded = ?", user.ID, true).
		Order("graded_at DESC").
		Limit(10).
		Find(&recentGrades).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}

	var certificateCount int64
	h.db.Model(&model.Certificate{}).Where("user_id = ?", user.ID).Count(&certificateCount)

	return response.Success(c, fiber.Map{
		"enrollments":         enrollments,
		"pending_assignments": pending,
		"recent_grades":       recentGrades,
		"certificate_count":   certificateCount,
	})
}

// Instructor returns an overview of the current user's courses with
// enrollment and grading workload numbers
func (h *DashboardHandler) Instructor(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	if !user.IsInstructor() && !user.Staff() {
		return response.Forbidden(c, "Instructor account required")
	}

	var courses []model.Course
	err := h.db.
		Where("instructor_id = ?", user.ID).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}

	courseIDs := make([]uint, 0, len(courses))
	for _, course := range courses {
		courseIDs = append(courseIDs, course.ID)
	}

	var ungraded int64
	var recentSubmissions []model.Submission
	if len(courseIDs) > 0 {
		h.db.Model(&model.Submission{}).
			Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
			Where("assignments.course_id IN ? AND submissions.is_graded = ?", courseIDs, false).
			Count(&ungraded)

		err = h.db.
			Preload("User").
			Preload("Assignment").
			Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
			Where("assignments.course_id IN ?", courseIDs).
			Order("submissions.submitted_at DESC").
			Limit(10).
			Find(&recentSubmissions).Error
		if err != nil {
			return response.InternalServerError(c, "")
		}
	}

	var newEnrollments int64
	if len(courseIDs) > 0 {
		weekAgo := time.Now().AddDate(0, 0, -7)
		h.db.Model(&model.Enrollment{}).
			Where("course_id IN ? AND enrolled_at > ?", courseIDs, weekAgo).
			Count(&newEnrollments)
	}

	return response.Success(c, fiber.Map{
		"courses":              courses,
		"ungraded_submissions": ungraded,
		"recent_submissions":   recentSubmissions,
		"new_enrollments_week": newEnrollments,
	})
}
