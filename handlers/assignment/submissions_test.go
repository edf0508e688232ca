package assignment

import (
	"fmt"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/services"
)

// openTestDB connects to the database named by TEST_DATABASE_DSN. Tests
// are skipped when it is unset so the suite runs without Postgres.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping database test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.CourseModule{},
		&model.Assignment{},
		&model.Submission{},
		&model.Enrollment{},
		&model.UserProgress{},
		&model.Certificate{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, role string) *model.User {
	t.Helper()

	user := &model.User{
		Email:        fmt.Sprintf("test-%d@example.com", time.Now().UnixNano()),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCourse(t *testing.T, db *gorm.DB, instructorID uint) *model.Course {
	t.Helper()

	suffix := time.Now().UnixNano()
	course := &model.Course{
		CourseID:            fmt.Sprintf("TST-%d", suffix),
		CourseCode:          "TST101",
		Title:               "Test Course",
		Slug:                fmt.Sprintf("test-course-%d", suffix),
		Description:         "integration fixture",
		InstructorID:        instructorID,
		IsActive:            true,
		IsOpenForEnrollment: true,
		IsFree:              true,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func createTestAssignment(t *testing.T, db *gorm.DB, courseID, createdByID uint) *model.Assignment {
	t.Helper()

	assignment := &model.Assignment{
		AssignmentID: fmt.Sprintf("ASG-%d", time.Now().UnixNano()%1000000000),
		CourseID:     courseID,
		Title:        "Essay",
		Description:  "integration fixture",
		IsPublished:  true,
		CreatedByID:  createdByID,
	}
	require.NoError(t, db.Create(assignment).Error)
	return assignment
}

// asUser stands in for the auth middleware and pins the request identity
func asUser(user *model.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", user.ID)
		c.Locals("user_role", user.Role)
		c.Locals("user", user)
		return c.Next()
	}
}

func postContent(t *testing.T, app *fiber.App, path, content string) int {
	t.Helper()

	form := url.Values{"content": {content}}
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestResubmitUpdatesInPlace(t *testing.T) {
	db := openTestDB(t)
	enrollments := services.NewEnrollmentService(db)
	h := NewAssignmentHandler(db, enrollments, nil)

	instructor := createTestUser(t, db, model.RoleInstructor)
	student := createTestUser(t, db, model.RoleStudent)
	course := createTestCourse(t, db, instructor.ID)
	assignment := createTestAssignment(t, db, course.ID, instructor.ID)

	_, err := enrollments.Enroll(student, course)
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/assignments/:id/submissions", asUser(student), h.Submit)

	path := fmt.Sprintf("/assignments/%d/submissions", assignment.ID)
	assert.Equal(t, fiber.StatusCreated, postContent(t, app, path, "first draft"))

	var submission model.Submission
	require.NoError(t, db.Where("user_id = ? AND assignment_id = ?", student.ID, assignment.ID).First(&submission).Error)
	assert.Equal(t, "first draft", submission.Content)

	// Grade it so the resubmission has something to clear
	now := time.Now()
	require.NoError(t, db.Model(&submission).Updates(map[string]interface{}{
		"grade":        80.0,
		"feedback":     "good start",
		"is_graded":    true,
		"graded_at":    now,
		"graded_by_id": instructor.ID,
	}).Error)

	assert.Equal(t, fiber.StatusOK, postContent(t, app, path, "second draft"))

	var count int64
	require.NoError(t, db.Model(&model.Submission{}).
		Where("user_id = ? AND assignment_id = ?", student.ID, assignment.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var resubmitted model.Submission
	require.NoError(t, db.First(&resubmitted, submission.ID).Error)
	assert.Equal(t, "second draft", resubmitted.Content)
	assert.Nil(t, resubmitted.Grade)
	assert.Empty(t, resubmitted.Feedback)
	assert.False(t, resubmitted.IsGraded)
	assert.Nil(t, resubmitted.GradedAt)
	assert.Nil(t, resubmitted.GradedByID)

	// Only the first submission advances the progress counter
	var progress model.UserProgress
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&progress).Error)
	assert.Equal(t, 1, progress.AssignmentsSubmitted)
}

func TestSubmitRequiresEnrollment(t *testing.T) {
	db := openTestDB(t)
	enrollments := services.NewEnrollmentService(db)
	h := NewAssignmentHandler(db, enrollments, nil)

	instructor := createTestUser(t, db, model.RoleInstructor)
	outsider := createTestUser(t, db, model.RoleStudent)
	course := createTestCourse(t, db, instructor.ID)
	assignment := createTestAssignment(t, db, course.ID, instructor.ID)

	app := fiber.New()
	app.Post("/assignments/:id/submissions", asUser(outsider), h.Submit)

	path := fmt.Sprintf("/assignments/%d/submissions", assignment.ID)
	assert.Equal(t, fiber.StatusForbidden, postContent(t, app, path, "not enrolled"))

	var count int64
	require.NoError(t, db.Model(&model.Submission{}).
		Where("assignment_id = ?", assignment.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
