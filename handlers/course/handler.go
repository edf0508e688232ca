package course

import (
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/services"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// CourseHandler manages the course catalog, modules, lessons,
// enrollment, and reviews
type CourseHandler struct {
	db          *gorm.DB
	enrollments *services.EnrollmentService
	email       *services.EmailService
	validator   *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(db *gorm.DB, enrollments *services.EnrollmentService, email *services.EmailService) *CourseHandler {
	return &CourseHandler{
		db:          db,
		enrollments: enrollments,
		email:       email,
		validator:   validation.NewValidator(),
	}
}
