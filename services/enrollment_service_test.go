package services

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rsichomba/portfolio-lms/model"
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
		&model.Enrollment{},
		&model.UserProgress{},
		&model.Certificate{},
	))
	return db
}

func createTestCourse(t *testing.T, db *gorm.DB, instructorID uint, modules int) *model.Course {
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

	for i := 0; i < modules; i++ {
		require.NoError(t, db.Create(&model.CourseModule{
			CourseID:    course.ID,
			Title:       fmt.Sprintf("Module %d", i+1),
			Order:       i,
			IsPublished: true,
		}).Error)
	}
	return course
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

func TestEnrollCreatesBookkeeping(t *testing.T) {
	db := openTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := createTestUser(t, db, model.RoleInstructor)
	student := createTestUser(t, db, model.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, 2)

	enrollment, err := svc.Enroll(student, course)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)
	assert.NotEmpty(t, enrollment.CertificateID)

	var refreshed model.Course
	require.NoError(t, db.First(&refreshed, course.ID).Error)
	assert.Equal(t, 1, refreshed.EnrollmentCount)

	var progress model.UserProgress
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&progress).Error)
	assert.Equal(t, 2, progress.TotalChapters)
	assert.Equal(t, 0, progress.ChaptersCompleted)
}

func TestEnrollTwiceFails(t *testing.T) {
	db := openTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := createTestUser(t, db, model.RoleInstructor)
	student := createTestUser(t, db, model.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, 1)

	_, err := svc.Enroll(student, course)
	require.NoError(t, err)

	_, err = svc.Enroll(student, course)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestEnrollClosedCourse(t *testing.T) {
	db := openTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := createTestUser(t, db, model.RoleInstructor)
	student := createTestUser(t, db, model.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, 0)
	require.NoError(t, db.Model(course).Update("is_open_for_enrollment", false).Error)
	course.IsOpenForEnrollment = false

	_, err := svc.Enroll(student, course)
	assert.ErrorIs(t, err, ErrEnrollmentClosed)
}

func TestCompleteModuleIssuesCertificate(t *testing.T) {
	db := openTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := createTestUser(t, db, model.RoleInstructor)
	student := createTestUser(t, db, model.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, 2)

	_, err := svc.Enroll(student, course)
	require.NoError(t, err)

	var modules []model.CourseModule
	require.NoError(t, db.Where("course_id = ?", course.ID).Order(`"order" ASC`).Find(&modules).Error)

	progress, err := svc.CompleteModule(student.ID, course.ID, modules[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.ChaptersCompleted)
	assert.Equal(t, 50.0, progress.CalculateProgress())

	// Completing the same module again changes nothing
	progress, err = svc.CompleteModule(student.ID, course.ID, modules[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.ChaptersCompleted)

	progress, err = svc.CompleteModule(student.ID, course.ID, modules[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, progress.ChaptersCompleted)

	var enrollment model.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.True(t, enrollment.Completed)
	assert.Equal(t, model.EnrollmentCompleted, enrollment.Status)
	assert.Equal(t, 100.0, enrollment.ProgressPercentage)

	var cert model.Certificate
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&cert).Error)
	assert.Equal(t, enrollment.CertificateID, cert.CertificateID)
}

func TestDropDecrementsCounter(t *testing.T) {
	db := openTestDB(t)
	svc := NewEnrollmentService(db)

	instructor := createTestUser(t, db, model.RoleInstructor)
	student := createTestUser(t, db, model.RoleStudent)
	course := createTestCourse(t, db, instructor.ID, 1)

	_, err := svc.Enroll(student, course)
	require.NoError(t, err)

	require.NoError(t, svc.Drop(student.ID, course.ID))

	enrolled, err := svc.IsEnrolled(student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, enrolled)

	var refreshed model.Course
	require.NoError(t, db.First(&refreshed, course.ID).Error)
	assert.Equal(t, 0, refreshed.EnrollmentCount)
}

func TestDropNotEnrolled(t *testing.T) {
	db := openTestDB(t)
	svc := NewEnrollmentService(db)

	student := createTestUser(t, db, model.RoleStudent)
	assert.ErrorIs(t, svc.Drop(student.ID, 999999), ErrNotEnrolled)
}
