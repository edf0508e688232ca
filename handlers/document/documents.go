package document

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/services"
	"github.com/rsichomba/portfolio-lms/services/storage"
	"github.com/rsichomba/portfolio-lms/utils/access"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/slug"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// MaxUploadSize caps document uploads at 50 MB
const MaxUploadSize = 50 << 20

// DocumentHandler manages uploaded files stored in Spaces
type DocumentHandler struct {
	db        *gorm.DB
	spaces    *storage.SpacesClient
	access    *access.Service
	validator *validation.Validator
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(db *gorm.DB, spaces *storage.SpacesClient) *DocumentHandler {
	return &DocumentHandler{
		db:        db,
		spaces:    spaces,
		access:    access.NewService(db),
		validator: validation.NewValidator(),
	}
}

// List returns published documents visible to the viewer
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	viewer, _ := middleware.GetUser(c)

	query := h.db.Model(&model.Document{})
	if viewer == nil {
		query = query.Where("is_published = ? AND access_level = ?", true, model.AccessPublic)
	} else if !viewer.Staff() {
		query = query.Where(
			"(is_published = ? AND access_level IN ?) OR owner_id = ?",
			true, []model.AccessLevel{model.AccessPublic, model.AccessRegistered}, viewer.ID,
		)
	}
	if docType := c.Query("type"); docType != "" {
		query = query.Where("type = ?", docType)
	}
	if courseID := c.QueryInt("course_id"); courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	var total int64
	query.Count(&total)
	pagination := response.CalculatePagination(page, limit, total)

	var documents []model.Document
	err := query.
		Order("created_at DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PerPage).
		Limit(pagination.PerPage).
		Find(&documents).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Paginated(c, documents, pagination)
}

// Get returns document metadata by slug, applying the access rules
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	doc, verdict, err := h.loadWithAccess(c)
	if err != nil {
		return response.InternalServerError(c, "")
	}
	if doc == nil {
		return response.NotFound(c, "Document not found")
	}
	if verdict != access.Allow {
		return access.Respond(c, verdict)
	}
	return response.Success(c, doc)
}

// Download counts the download and redirects to the file. The counter is
// a plain read-modify-write; concurrent downloads may undercount.
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	doc, verdict, err := h.loadWithAccess(c)
	if err != nil {
		return response.InternalServerError(c, "")
	}
	if doc == nil {
		return response.NotFound(c, "Document not found")
	}
	if verdict != access.Allow {
		return access.Respond(c, verdict)
	}

	h.db.Model(doc).Update("download_count", doc.DownloadCount+1)

	url := doc.SpacesURL
	if doc.AccessLevel != model.AccessPublic {
		// Restricted files get a short-lived presigned link
		presigned, err := h.spaces.GetPresignedURL(doc.SpacesKey, 15*time.Minute)
		if err == nil {
			url = presigned
		} else {
			log.Printf("Failed to presign document %d: %v", doc.ID, err)
		}
	}

	return c.Redirect(url, fiber.StatusTemporaryRedirect)
}

func (h *DocumentHandler) loadWithAccess(c *fiber.Ctx) (*model.Document, access.Verdict, error) {
	var doc model.Document
	err := h.db.Where("slug = ?", c.Params("slug")).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, access.DenyHidden, nil
	}
	if err != nil {
		return nil, access.DenyHidden, err
	}

	viewer, _ := middleware.GetUser(c)
	verdict, err := h.access.CanView(access.Resource{
		AccessLevel: doc.AccessLevel,
		OwnerID:     doc.OwnerID,
		IsPublished: doc.IsPublished,
		CourseID:    doc.CourseID,
	}, viewer)
	return &doc, verdict, err
}

// Upload accepts a multipart file, pushes it to Spaces, and records the
// metadata. PDFs get a page count extracted at upload time.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "A file is required")
	}
	if fileHeader.Size > MaxUploadSize {
		return response.BadRequest(c, "File exceeds the 50MB limit")
	}

	title := validation.SanitizeString(c.FormValue("title"))
	if title == "" {
		title = fileHeader.Filename
	}
	docType := model.DocumentType(c.FormValue("type", string(model.DocumentTypePDF)))
	level := model.AccessLevel(c.FormValue("access_level", string(model.AccessRegistered)))
	isPublished := c.FormValue("is_published") == "true"

	var courseID *uint
	if id := c.QueryInt("course_id"); id > 0 {
		v := uint(id)
		courseID = &v
	}
	if level == model.AccessCourseStudents && courseID == nil {
		return response.BadRequest(c, "course_id is required for course_students access")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return response.InternalServerError(c, "Failed to read upload")
	}

	pageCount := 0
	if docType == model.DocumentTypePDF || services.IsPDF(data) {
		if n, err := services.PDFPageCount(data); err == nil {
			pageCount = n
		} else {
			log.Printf("Failed to count pages for %s: %v", fileHeader.Filename, err)
		}
	}

	key := storage.GenerateKey(fmt.Sprintf("documents/%d", user.ID), fileHeader.Filename)
	url, err := h.spaces.UploadBytes(c.Context(), key, data, storage.GetContentType(fileHeader.Filename))
	if err != nil {
		return response.InternalServerError(c, "Failed to store file")
	}

	doc := model.Document{
		Title:       title,
		Slug:        h.uniqueSlug(title),
		Description: validation.SanitizeString(c.FormValue("description")),
		Type:        docType,
		Filename:    fileHeader.Filename,
		SpacesURL:   url,
		SpacesKey:   key,
		FileSize:    fileHeader.Size,
		PageCount:   pageCount,
		OwnerID:     &user.ID,
		IsPublished: isPublished,
		AccessLevel: level,
		CourseID:    courseID,
	}
	if err := h.db.Create(&doc).Error; err != nil {
		// The object is already in Spaces; drop it so storage does not leak
		h.spaces.DeleteFile(c.Context(), key)
		return response.InternalServerError(c, "Failed to save document")
	}

	return response.Created(c, doc)
}

// Delete removes the document row and its stored object; owner or staff
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var doc model.Document
	if err := h.db.First(&doc, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Document not found")
	}

	isOwner := doc.OwnerID != nil && *doc.OwnerID == user.ID
	if !isOwner && !user.Staff() {
		return response.Forbidden(c, "Only the owner can delete this document")
	}

	if err := h.db.Delete(&doc).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete document")
	}
	if err := h.spaces.DeleteFile(c.Context(), doc.SpacesKey); err != nil {
		log.Printf("Failed to delete Spaces object %s: %v", doc.SpacesKey, err)
	}
	return response.NoContent(c)
}

func (h *DocumentHandler) uniqueSlug(title string) string {
	base := slug.Make(title)
	var count int64
	h.db.Model(&model.Document{}).Where("slug = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return slug.WithSuffix(base)
}
