package meeting

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/slug"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// MeetingHandler manages bookable meeting slots
type MeetingHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(db *gorm.DB) *MeetingHandler {
	return &MeetingHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// List returns upcoming active meetings
func (h *MeetingHandler) List(c *fiber.Ctx) error {
	query := h.db.Model(&model.Meeting{}).
		Where("is_active = ? AND starts_at > ?", true, time.Now())
	if meetingType := c.Query("type"); meetingType != "" {
		query = query.Where("meeting_type = ?", meetingType)
	}

	var meetings []model.Meeting
	if err := query.Order("starts_at ASC").Find(&meetings).Error; err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, meetings)
}

// Get returns one meeting by slug with its remaining capacity
func (h *MeetingHandler) Get(c *fiber.Ctx) error {
	var meeting model.Meeting
	err := h.db.Where("slug = ? AND is_active = ?", c.Params("slug"), true).First(&meeting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Meeting not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	var booked int64
	h.db.Model(&model.MeetingBooking{}).Where("meeting_id = ?", meeting.ID).Count(&booked)

	payload := fiber.Map{"meeting": meeting, "booked": booked}
	if meeting.MaxAttendees != nil {
		payload["seats_left"] = *meeting.MaxAttendees - int(booked)
	}
	return response.Success(c, payload)
}

// Book reserves a seat for the current user in the meeting in :id
func (h *MeetingHandler) Book(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var meeting model.Meeting
	err := h.db.First(&meeting, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Meeting not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}
	if !meeting.IsActive || time.Now().After(meeting.StartsAt) {
		return response.BadRequest(c, "This meeting is no longer open for booking")
	}

	if meeting.MaxAttendees != nil {
		var booked int64
		h.db.Model(&model.MeetingBooking{}).Where("meeting_id = ?", meeting.ID).Count(&booked)
		if int(booked) >= *meeting.MaxAttendees {
			return response.Conflict(c, "This meeting is fully booked")
		}
	}

	booking := model.MeetingBooking{MeetingID: meeting.ID, UserID: user.ID}
	if err := h.db.Create(&booking).Error; err != nil {
		return response.Conflict(c, "You already have a seat in this meeting")
	}
	return response.Created(c, booking)
}

// CancelBooking releases the current user's seat in the meeting in :id
func (h *MeetingHandler) CancelBooking(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	result := h.db.
		Where("meeting_id = ? AND user_id = ?", c.Params("id"), user.ID).
		Delete(&model.MeetingBooking{})
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to cancel booking")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "You have no booking for this meeting")
	}
	return response.NoContent(c)
}

// MyBookings lists the current user's upcoming bookings
func (h *MeetingHandler) MyBookings(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var bookings []model.MeetingBooking
	err := h.db.
		Preload("Meeting").
		Joins("JOIN meetings ON meetings.id = meeting_bookings.meeting_id").
		Where("meeting_bookings.user_id = ? AND meetings.starts_at > ?", user.ID, time.Now()).
		Order("meetings.starts_at ASC").
		Find(&bookings).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, bookings)
}

// MeetingRequest is the create payload
type MeetingRequest struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Description  string     `json:"description" validate:"required"`
	MeetingType  string     `json:"meeting_type" validate:"omitempty,oneof=1-on-1 group_lecture discovery_call course_office_hours course_lecture"`
	StartsAt     time.Time  `json:"starts_at" validate:"required"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	MeetingLink  string     `json:"meeting_link"`
	MaxAttendees *int       `json:"max_attendees,omitempty"`
	CourseID     *uint      `json:"course_id,omitempty"`
}

// Create adds a meeting slot; instructors and staff only
func (h *MeetingHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	if !user.IsInstructor() && !user.Staff() {
		return response.Forbidden(c, "Only instructors can create meetings")
	}

	var req MeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}
	if req.StartsAt.Before(time.Now()) {
		return response.BadRequest(c, "Meetings must start in the future")
	}

	meeting := model.Meeting{
		Title:        validation.SanitizeString(req.Title),
		Slug:         h.uniqueSlug(req.Title),
		Description:  req.Description,
		MeetingType:  req.MeetingType,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		OwnerID:      user.ID,
		MeetingLink:  req.MeetingLink,
		MaxAttendees: req.MaxAttendees,
		IsActive:     true,
		CourseID:     req.CourseID,
	}
	if meeting.MeetingType == "" {
		meeting.MeetingType = model.MeetingOneOnOne
	}

	if err := h.db.Create(&meeting).Error; err != nil {
		return response.InternalServerError(c, "Failed to create meeting")
	}
	return response.Created(c, meeting)
}

// Delete removes a meeting and its bookings; owner or staff
func (h *MeetingHandler) Delete(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var meeting model.Meeting
	if err := h.db.First(&meeting, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Meeting not found")
	}
	if meeting.OwnerID != user.ID && !user.Staff() {
		return response.Forbidden(c, "Only the meeting owner can delete it")
	}

	if err := h.db.Delete(&meeting).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete meeting")
	}
	return response.NoContent(c)
}

func (h *MeetingHandler) uniqueSlug(title string) string {
	base := slug.Make(title)
	var count int64
	h.db.Model(&model.Meeting{}).Where("slug = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return slug.WithSuffix(base)
}
