package contact

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/services"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// ContactHandler manages contact form messages
type ContactHandler struct {
	db        *gorm.DB
	email     *services.EmailService
	validator *validation.Validator
}

// NewContactHandler creates a new contact handler
func NewContactHandler(db *gorm.DB, email *services.EmailService) *ContactHandler {
	return &ContactHandler{
		db:        db,
		email:     email,
		validator: validation.NewValidator(),
	}
}

// SubmitRequest is the contact form payload
type SubmitRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Subject     string `json:"subject" validate:"required,max=200"`
	Message     string `json:"message" validate:"required,max=8000"`
	MessageType string `json:"message_type" validate:"omitempty,oneof=general course technical feedback other"`
	CourseID    *uint  `json:"course_id,omitempty"`
}

// Submit stores a contact message. The owner notification email is
// best-effort; a delivery failure never fails the request.
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	message := model.ContactMessage{
		Name:        validation.SanitizeString(req.Name),
		Email:       req.Email,
		Subject:     validation.SanitizeString(req.Subject),
		Message:     validation.SanitizeString(req.Message),
		MessageType: req.MessageType,
		CourseID:    req.CourseID,
	}
	if message.MessageType == "" {
		message.MessageType = model.MessageGeneral
	}
	if user, ok := middleware.GetUser(c); ok {
		message.UserID = &user.ID
	}

	if err := h.db.Create(&message).Error; err != nil {
		return response.InternalServerError(c, "Failed to save message")
	}

	if err := h.email.SendContactNotification(message.Name, message.Email, message.Subject, message.Message); err != nil {
		log.Printf("Failed to forward contact message %d: %v", message.ID, err)
	}

	return response.Created(c, fiber.Map{"id": message.ID})
}

// List returns contact messages for staff, newest first
func (h *ContactHandler) List(c *fiber.Ctx) error {
	query := h.db.Model(&model.ContactMessage{})
	if c.Query("unread") == "true" {
		query = query.Where("is_read = ?", false)
	}
	if msgType := c.Query("type"); msgType != "" {
		query = query.Where("message_type = ?", msgType)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	var total int64
	query.Count(&total)
	pagination := response.CalculatePagination(page, limit, total)

	var messages []model.ContactMessage
	err := query.
		Order("created_at DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PerPage).
		Limit(pagination.PerPage).
		Find(&messages).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Paginated(c, messages, pagination)
}

// MarkRead flags the message in :id as read (staff)
func (h *ContactHandler) MarkRead(c *fiber.Ctx) error {
	return h.setFlag(c, "is_read")
}

// MarkResponded flags the message in :id as responded (staff)
func (h *ContactHandler) MarkResponded(c *fiber.Ctx) error {
	return h.setFlag(c, "is_responded")
}

func (h *ContactHandler) setFlag(c *fiber.Ctx, column string) error {
	result := h.db.Model(&model.ContactMessage{}).
		Where("id = ?", c.Params("id")).
		Update(column, true)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to update message")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Message not found")
	}
	return response.SuccessWithMessage(c, "Message updated", nil)
}

// Delete removes the message in :id (staff)
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	result := h.db.Delete(&model.ContactMessage{}, c.Params("id"))
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete message")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Message not found")
	}
	return response.NoContent(c)
}
