package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
)

var (
	ErrAlreadyEnrolled  = errors.New("already enrolled in this course")
	ErrEnrollmentClosed = errors.New("course is not open for enrollment")
	ErrPaidCourse       = errors.New("course requires payment")
	ErrNotEnrolled      = errors.New("not enrolled in this course")
)

// EnrollmentService owns enrollment and progress bookkeeping
type EnrollmentService struct {
	db *gorm.DB
}

// NewEnrollmentService creates an enrollment service
func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{db: db}
}

// Enroll signs the user up for a course. Bookkeeping is three separate
// writes (enrollment row, course counter, progress row); the counter and
// progress row are best-effort after the enrollment row exists.
func (s *EnrollmentService) Enroll(user *model.User, course *model.Course) (*model.Enrollment, error) {
	var existing model.Enrollment
	err := s.db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyEnrolled
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if !course.IsActive || !course.IsOpenForEnrollment {
		return nil, ErrEnrollmentClosed
	}
	if !course.IsFree && course.Price > 0 {
		return nil, ErrPaidCourse
	}

	enrollment := &model.Enrollment{
		UserID:        user.ID,
		CourseID:      course.ID,
		Status:        model.EnrollmentActive,
		CertificateID: uuid.New().String(),
	}
	if err := s.db.Create(enrollment).Error; err != nil {
		return nil, err
	}

	// Plain read-modify-write on the denormalized counter
	s.db.Model(course).Update("enrollment_count", course.EnrollmentCount+1)

	var totalModules int64
	s.db.Model(&model.CourseModule{}).
		Where("course_id = ? AND is_published = ?", course.ID, true).
		Count(&totalModules)

	var totalAssignments int64
	s.db.Model(&model.Assignment{}).
		Where("course_id = ? AND is_published = ?", course.ID, true).
		Count(&totalAssignments)

	progress := &model.UserProgress{
		UserID:           user.ID,
		CourseID:         course.ID,
		TotalChapters:    int(totalModules),
		TotalAssignments: int(totalAssignments),
		CurrentChapter:   1,
	}
	s.db.Create(progress)

	return enrollment, nil
}

// CompleteModule marks a module done for the user and refreshes the
// derived progress fields. Completing the last module completes the
// enrollment and issues the certificate.
func (s *EnrollmentService) CompleteModule(userID, courseID, moduleID uint) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}

	completed := decodeIDList(progress.CompletedModules)
	for _, id := range completed {
		if id == moduleID {
			return &progress, nil // already done, idempotent
		}
	}
	completed = append(completed, moduleID)

	progress.CompletedModules = encodeIDList(completed)
	progress.ChaptersCompleted = len(completed)
	if progress.ChaptersCompleted < progress.TotalChapters {
		progress.CurrentChapter = uint(progress.ChaptersCompleted + 1)
	}
	if err := s.db.Save(&progress).Error; err != nil {
		return nil, err
	}

	pct := progress.CalculateProgress()
	s.db.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("progress_percentage", pct)

	if progress.TotalChapters > 0 && progress.ChaptersCompleted >= progress.TotalChapters {
		if err := s.completeEnrollment(userID, courseID); err != nil {
			return nil, err
		}
	}

	return &progress, nil
}

// completeEnrollment flips the enrollment to completed and issues the
// certificate if one does not exist yet
func (s *EnrollmentService) completeEnrollment(userID, courseID uint) error {
	var enrollment model.Enrollment
	err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err != nil {
		return err
	}
	if enrollment.Completed {
		return nil
	}

	now := time.Now()
	enrollment.Completed = true
	enrollment.Status = model.EnrollmentCompleted
	enrollment.CompletionDate = &now
	enrollment.ProgressPercentage = 100
	enrollment.CertificateIssued = true
	enrollment.CertificateIssueDate = &now
	if err := s.db.Save(&enrollment).Error; err != nil {
		return err
	}

	var existing model.Certificate
	err = s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	cert := &model.Certificate{
		UserID:           userID,
		CourseID:         courseID,
		EnrollmentID:     enrollment.ID,
		CertificateID:    enrollment.CertificateID,
		VerificationCode: fmt.Sprintf("%08X", enrollment.ID*2654435761),
	}
	return s.db.Create(cert).Error
}

// Drop marks the enrollment dropped and decrements the course counter
func (s *EnrollmentService) Drop(userID, courseID uint) error {
	var enrollment model.Enrollment
	err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotEnrolled
	}
	if err != nil {
		return err
	}
	if enrollment.Status == model.EnrollmentDropped {
		return nil
	}

	enrollment.Status = model.EnrollmentDropped
	if err := s.db.Save(&enrollment).Error; err != nil {
		return err
	}

	var course model.Course
	if err := s.db.First(&course, courseID).Error; err == nil && course.EnrollmentCount > 0 {
		s.db.Model(&course).Update("enrollment_count", course.EnrollmentCount-1)
	}
	return nil
}

// IsEnrolled reports active or completed enrollment
func (s *EnrollmentService) IsEnrolled(userID, courseID uint) (bool, error) {
	var count int64
	err := s.db.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status IN ?",
			userID, courseID, []string{model.EnrollmentActive, model.EnrollmentCompleted}).
		Count(&count).Error
	return count > 0, err
}

func decodeIDList(raw []byte) []uint {
	var ids []uint
	if len(raw) == 0 {
		return ids
	}
	json.Unmarshal(raw, &ids)
	return ids
}

func encodeIDList(ids []uint) []byte {
	data, _ := json.Marshal(ids)
	return data
}
