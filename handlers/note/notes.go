package note

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/access"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/slug"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// NoteHandler serves short-form notes, registered-only by default
type NoteHandler struct {
	db        *gorm.DB
	access    *access.Service
	validator *validation.Validator
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(db *gorm.DB) *NoteHandler {
	return &NoteHandler{
		db:        db,
		access:    access.NewService(db),
		validator: validation.NewValidator(),
	}
}

// List returns published notes visible to the viewer
func (h *NoteHandler) List(c *fiber.Ctx) error {
	viewer, _ := middleware.GetUser(c)

	query := h.db.Model(&model.Note{}).Preload("Author")
	if viewer == nil {
		query = query.Where("is_published = ? AND access_level = ?", true, model.AccessPublic)
	} else if !viewer.Staff() {
		query = query.Where(
			"(is_published = ? AND access_level IN ?) OR author_id = ?",
			true, []model.AccessLevel{model.AccessPublic, model.AccessRegistered}, viewer.ID,
		)
	}
	if tag := c.Query("tag"); tag != "" {
		query = query.Where("tags LIKE ?", "%"+tag+"%")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	var total int64
	query.Count(&total)
	pagination := response.CalculatePagination(page, limit, total)

	var notes []model.Note
	err := query.
		Order("created_at DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PerPage).
		Limit(pagination.PerPage).
		Find(&notes).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Paginated(c, notes, pagination)
}

// Get returns one note by slug, applying the access rules
func (h *NoteHandler) Get(c *fiber.Ctx) error {
	var note model.Note
	err := h.db.Preload("Author").Where("slug = ?", c.Params("slug")).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Note not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	viewer, _ := middleware.GetUser(c)
	verdict, err := h.access.CanView(access.Resource{
		AccessLevel: note.AccessLevel,
		OwnerID:     &note.AuthorID,
		IsPublished: note.IsPublished,
		CourseID:    note.CourseID,
	}, viewer)
	if err != nil {
		return response.InternalServerError(c, "")
	}
	if verdict != access.Allow {
		return access.Respond(c, verdict)
	}

	return response.Success(c, note)
}

// NoteRequest is the create/update payload
type NoteRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Content     string `json:"content" validate:"required"`
	IsPublished bool   `json:"is_published"`
	AccessLevel string `json:"access_level" validate:"omitempty,oneof=public registered private course_students"`
	CourseID    *uint  `json:"course_id,omitempty"`
	Tags        string `json:"tags" validate:"max=200"`
}

// Create adds a note authored by the current user
func (h *NoteHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	level := model.AccessRegistered
	if req.AccessLevel != "" {
		level = model.AccessLevel(req.AccessLevel)
	}
	if level == model.AccessCourseStudents && req.CourseID == nil {
		return response.BadRequest(c, "course_id is required for course_students access")
	}

	note := model.Note{
		Title:       validation.SanitizeString(req.Title),
		Slug:        h.uniqueSlug(req.Title),
		Content:     req.Content,
		AuthorID:    user.ID,
		IsPublished: req.IsPublished,
		AccessLevel: level,
		CourseID:    req.CourseID,
		Tags:        req.Tags,
	}
	if err := h.db.Create(&note).Error; err != nil {
		return response.InternalServerError(c, "Failed to create note")
	}
	return response.Created(c, note)
}

// Update edits a note; only the author or staff
func (h *NoteHandler) Update(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var note model.Note
	if err := h.db.First(&note, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Note not found")
	}
	if note.AuthorID != user.ID && !user.Staff() {
		return response.Forbidden(c, "Only the author can edit this note")
	}

	var req NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	note.Title = validation.SanitizeString(req.Title)
	note.Content = req.Content
	note.IsPublished = req.IsPublished
	if req.AccessLevel != "" {
		note.AccessLevel = model.AccessLevel(req.AccessLevel)
	}
	note.CourseID = req.CourseID
	note.Tags = req.Tags

	if note.AccessLevel == model.AccessCourseStudents && note.CourseID == nil {
		return response.BadRequest(c, "course_id is required for course_students access")
	}

	if err := h.db.Save(&note).Error; err != nil {
		return response.InternalServerError(c, "Failed to update note")
	}
	return response.Success(c, note)
}

// Delete soft-deletes a note; only the author or staff
func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var note model.Note
	if err := h.db.First(&note, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Note not found")
	}
	if note.AuthorID != user.ID && !user.Staff() {
		return response.Forbidden(c, "Only the author can delete this note")
	}

	if err := h.db.Delete(&note).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete note")
	}
	return response.NoContent(c)
}

func (h *NoteHandler) uniqueSlug(title string) string {
	base := slug.Make(title)
	var count int64
	h.db.Model(&model.Note{}).Where("slug = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return slug.WithSuffix(base)
}
