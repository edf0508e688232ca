package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rsichomba/portfolio-lms/model"
)

func uintPtr(v uint) *uint { return &v }

func published(level model.AccessLevel, ownerID *uint) Resource {
	return Resource{AccessLevel: level, OwnerID: ownerID, IsPublished: true}
}

func TestDecidePublic(t *testing.T) {
	res := published(model.AccessPublic, nil)

	assert.Equal(t, Allow, Decide(res, nil, false))
	assert.Equal(t, Allow, Decide(res, &model.User{ID: 1}, false))
}

func TestDecideRegistered(t *testing.T) {
	res := published(model.AccessRegistered, nil)

	assert.Equal(t, DenyLogin, Decide(res, nil, false))
	assert.Equal(t, Allow, Decide(res, &model.User{ID: 1}, false))
}

func TestDecidePrivate(t *testing.T) {
	res := published(model.AccessPrivate, uintPtr(7))

	// Anonymous and non-owner viewers cannot tell the row exists
	assert.Equal(t, DenyHidden, Decide(res, nil, false))
	assert.Equal(t, DenyHidden, Decide(res, &model.User{ID: 8}, false))
	assert.Equal(t, Allow, Decide(res, &model.User{ID: 7}, false))
}

func TestDecideCourseStudents(t *testing.T) {
	res := Resource{
		AccessLevel: model.AccessCourseStudents,
		IsPublished: true,
		CourseID:    uintPtr(3),
	}

	// Anonymous viewers are asked to log in, not told the course exists
	assert.Equal(t, DenyLogin, Decide(res, nil, false))
	assert.Equal(t, DenyCourse, Decide(res, &model.User{ID: 1}, false))
	assert.Equal(t, Allow, Decide(res, &model.User{ID: 1}, true))
}

func TestDecideCourseStudentsOwner(t *testing.T) {
	res := Resource{
		AccessLevel: model.AccessCourseStudents,
		OwnerID:     uintPtr(5),
		IsPublished: true,
		CourseID:    uintPtr(3),
	}

	// The author sees their own course content without enrolling
	assert.Equal(t, Allow, Decide(res, &model.User{ID: 5}, false))
}

func TestDecideCourseStudentsWithoutCourse(t *testing.T) {
	// No course to be enrolled in: behaves like registered
	res := Resource{AccessLevel: model.AccessCourseStudents, IsPublished: true}

	assert.Equal(t, DenyLogin, Decide(res, nil, false))
	assert.Equal(t, Allow, Decide(res, &model.User{ID: 1}, false))
}

func TestDecideUnpublished(t *testing.T) {
	res := Resource{
		AccessLevel: model.AccessPublic,
		OwnerID:     uintPtr(2),
		IsPublished: false,
	}

	assert.Equal(t, DenyHidden, Decide(res, nil, false))
	assert.Equal(t, DenyHidden, Decide(res, &model.User{ID: 9}, false))
	assert.Equal(t, Allow, Decide(res, &model.User{ID: 2}, false))
}

func TestDecideStaffBypass(t *testing.T) {
	admin := &model.User{ID: 99, Role: model.RoleAdmin}
	flagged := &model.User{ID: 100, IsStaff: true}

	cases := []Resource{
		published(model.AccessPublic, nil),
		published(model.AccessRegistered, nil),
		published(model.AccessPrivate, uintPtr(1)),
		{AccessLevel: model.AccessCourseStudents, IsPublished: true, CourseID: uintPtr(4)},
		{AccessLevel: model.AccessPublic, IsPublished: false},
	}
	for _, res := range cases {
		assert.Equal(t, Allow, Decide(res, admin, false))
		assert.Equal(t, Allow, Decide(res, flagged, false))
	}
}

func TestDecideUnknownLevelHidden(t *testing.T) {
	res := Resource{AccessLevel: model.AccessLevel("secret"), IsPublished: true}
	assert.Equal(t, DenyHidden, Decide(res, &model.User{ID: 1}, false))
}
