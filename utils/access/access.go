// Package access centralizes content visibility decisions. Every content
// type (blog posts, notes, documents, books) carries an access level; the
// rules live here so handlers do not grow their own variants.
package access

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/response"
)

// Verdict is the outcome of an access check
type Verdict int

const (
	// Allow grants access
	Allow Verdict = iota
	// DenyLogin means the viewer must log in first (401)
	DenyLogin
	// DenyHidden means the resource is treated as nonexistent (404)
	DenyHidden
	// DenyCourse means the viewer is not enrolled in the required course (403)
	DenyCourse
)

// Resource is the subset of a content row the decision needs
type Resource struct {
	AccessLevel model.AccessLevel
	OwnerID     *uint // author/uploader, nil for system-owned rows
	IsPublished bool
	CourseID    *uint // set when AccessLevel is course_students
}

// Decide applies the visibility rules. viewer is nil for anonymous
// requests; enrolled reports whether the viewer is enrolled in the
// resource's course and only matters for course_students rows.
func Decide(res Resource, viewer *model.User, enrolled bool) Verdict {
	// Staff see everything
	if viewer != nil && viewer.Staff() {
		return Allow
	}

	isOwner := viewer != nil && res.OwnerID != nil && *res.OwnerID == viewer.ID

	// Unpublished rows exist only for their owner
	if !res.IsPublished && !isOwner {
		return DenyHidden
	}

	switch res.AccessLevel {
	case model.AccessPublic:
		return Allow
	case model.AccessRegistered:
		if viewer == nil {
			return DenyLogin
		}
		return Allow
	case model.AccessPrivate:
		if isOwner {
			return Allow
		}
		return DenyHidden
	case model.AccessCourseStudents:
		if viewer == nil {
			return DenyLogin
		}
		// A course-students row with no course degrades to registered
		if res.CourseID == nil {
			return Allow
		}
		if isOwner || enrolled {
			return Allow
		}
		return DenyCourse
	default:
		return DenyHidden
	}
}

// Service answers access checks that need an enrollment lookup
type Service struct {
	db *gorm.DB
}

// NewService creates an access service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CanView runs the decision table, resolving enrollment from the database
// when the resource is restricted to course students.
func (s *Service) CanView(res Resource, viewer *model.User) (Verdict, error) {
	enrolled := false
	if res.AccessLevel == model.AccessCourseStudents && viewer != nil && res.CourseID != nil {
		var count int64
		err := s.db.Model(&model.Enrollment{}).
			Where("user_id = ? AND course_id = ? AND status IN ?",
				viewer.ID, *res.CourseID, []string{model.EnrollmentActive, model.EnrollmentCompleted}).
			Count(&count).Error
		if err != nil {
			return DenyHidden, err
		}
		enrolled = count > 0
	}
	return Decide(res, viewer, enrolled), nil
}

// Respond writes the HTTP response for a denial verdict. Callers handle
// Allow themselves; passing Allow here is a programming error and maps
// to a 500.
func Respond(c *fiber.Ctx, v Verdict) error {
	switch v {
	case DenyLogin:
		return response.Unauthorized(c, "Please log in to view this content")
	case DenyHidden:
		return response.NotFound(c, "")
	case DenyCourse:
		return response.Forbidden(c, "This content is only available to enrolled students")
	default:
		return response.InternalServerError(c, "")
	}
}
