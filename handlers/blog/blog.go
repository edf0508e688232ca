package blog

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

// BlogHandler serves blog posts with per-post access levels
type BlogHandler struct {
	db        *gorm.DB
	access    *access.Service
	validator *validation.Validator
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(db *gorm.DB) *BlogHandler {
	return &BlogHandler{
		db:        db,
		access:    access.NewService(db),
		validator: validation.NewValidator(),
	}
}

// List returns published posts visible to the viewer. Restricted posts
// are filtered out of listings rather than erroring; detail views apply
// the full access rules.
func (h *BlogHandler) List(c *fiber.Ctx) error {
	viewer, _ := middleware.GetUser(c)

	query := h.db.Model(&model.BlogPost{}).Preload("Author")
	if viewer == nil {
		query = query.Where("is_published = ? AND access_level = ?", true, model.AccessPublic)
	} else if !viewer.Staff() {
		query = query.Where(
			"(is_published = ? AND access_level IN ?) OR author_id = ?",
			true, []model.AccessLevel{model.AccessPublic, model.AccessRegistered}, viewer.ID,
		)
	}

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if tag := c.Query("tag"); tag != "" {
		query = query.Where("tags LIKE ?", "%"+tag+"%")
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	var total int64
	query.Count(&total)
	pagination := response.CalculatePagination(page, limit, total)

	var posts []model.BlogPost
	err := query.
		Order("created_at DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PerPage).
		Limit(pagination.PerPage).
		Find(&posts).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Paginated(c, posts, pagination)
}

// Get returns one post by slug, applying the access rules and counting
// the view. The counter is a plain read-modify-write; concurrent views
// may undercount and that is acceptable.
func (h *BlogHandler) Get(c *fiber.Ctx) error {
	var post model.BlogPost
	err := h.db.Preload("Author").Where("slug = ?", c.Params("slug")).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Post not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	viewer, _ := middleware.GetUser(c)
	verdict, err := h.access.CanView(access.Resource{
		AccessLevel: post.AccessLevel,
		OwnerID:     post.AuthorID,
		IsPublished: post.IsPublished,
		CourseID:    post.CourseID,
	}, viewer)
	if err != nil {
		return response.InternalServerError(c, "")
	}
	if verdict != access.Allow {
		return access.Respond(c, verdict)
	}

	h.db.Model(&post).Update("views", post.Views+1)
	post.Views++

	return response.Success(c, post)
}

// PostRequest is the create/update payload
type PostRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Content     string `json:"content" validate:"required"`
	Category    string `json:"category" validate:"omitempty,oneof=web_dev design career tutorial personal tech_review course_related"`
	ImageURL    string `json:"image_url"`
	IsPublished bool   `json:"is_published"`
	Tags        string `json:"tags" validate:"max=200"`
	AccessLevel string `json:"access_level" validate:"omitempty,oneof=public registered private course_students"`
	ReadTime    int    `json:"read_time" validate:"omitempty,gte=1"`
	CourseID    *uint  `json:"course_id,omitempty"`
}

// Create adds a post authored by the current user (instructor/staff only)
func (h *BlogHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	level := model.AccessPublic
	if req.AccessLevel != "" {
		level = model.AccessLevel(req.AccessLevel)
	}
	if level == model.AccessCourseStudents && req.CourseID == nil {
		return response.BadRequest(c, "course_id is required for course_students access")
	}
	if req.Category == "" {
		req.Category = model.BlogCategoryWebDev
	}
	if req.ReadTime == 0 {
		req.ReadTime = 5
	}

	post := model.BlogPost{
		Title:       validation.SanitizeString(req.Title),
		Slug:        h.uniqueSlug(req.Title),
		Content:     req.Content,
		AuthorID:    &user.ID,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsPublished: req.IsPublished,
		Tags:        req.Tags,
		AccessLevel: level,
		ReadTime:    req.ReadTime,
		CourseID:    req.CourseID,
	}
	if err := h.db.Create(&post).Error; err != nil {
		return response.InternalServerError(c, "Failed to create post")
	}
	return response.Created(c, post)
}

// Update edits a post; only the author or staff may edit
func (h *BlogHandler) Update(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var post model.BlogPost
	if err := h.db.First(&post, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Post not found")
	}

	isAuthor := post.AuthorID != nil && *post.AuthorID == user.ID
	if !isAuthor && !user.Staff() {
		return response.Forbidden(c, "Only the author can edit this post")
	}

	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	post.Title = validation.SanitizeString(req.Title)
	post.Content = req.Content
	if req.Category != "" {
		post.Category = req.Category
	}
	post.ImageURL = req.ImageURL
	post.IsPublished = req.IsPublished
	post.Tags = req.Tags
	if req.AccessLevel != "" {
		post.AccessLevel = model.AccessLevel(req.AccessLevel)
	}
	if req.ReadTime > 0 {
		post.ReadTime = req.ReadTime
	}
	post.CourseID = req.CourseID

	if post.AccessLevel == model.AccessCourseStudents && post.CourseID == nil {
		return response.BadRequest(c, "course_id is required for course_students access")
	}

	if err := h.db.Save(&post).Error; err != nil {
		return response.InternalServerError(c, "Failed to update post")
	}
	return response.Success(c, post)
}

// Delete soft-deletes a post; only the author or staff
func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var post model.BlogPost
	if err := h.db.First(&post, c.Params("id")).Error; err != nil {
		return response.NotFound(c, "Post not found")
	}

	isAuthor := post.AuthorID != nil && *post.AuthorID == user.ID
	if !isAuthor && !user.Staff() {
		return response.Forbidden(c, "Only the author can delete this post")
	}

	if err := h.db.Delete(&post).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete post")
	}
	return response.NoContent(c)
}

func (h *BlogHandler) uniqueSlug(title string) string {
	base := slug.Make(title)
	var count int64
	h.db.Model(&model.BlogPost{}).Where("slug = ?", base).Count(&count)
	if count == 0 {
		return base
	}
	return slug.WithSuffix(base)
}
