package portfolio

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/access"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// ListBooks returns the books the viewer can see. Registered-only books
// drop out of anonymous listings instead of erroring.
func (h *PortfolioHandler) ListBooks(c *fiber.Ctx) error {
	viewer, _ := middleware.GetUser(c)

	query := h.db.Model(&model.Book{})
	if viewer == nil {
		query = query.Where("access_level = ?", model.AccessPublic)
	} else if !viewer.Staff() {
		query = query.Where("access_level IN ?", []model.AccessLevel{model.AccessPublic, model.AccessRegistered})
	}
	if genre := c.Query("genre"); genre != "" {
		query = query.Where("genre = ?", genre)
	}

	var books []model.Book
	if err := query.Order("is_featured DESC, created_at DESC").Find(&books).Error; err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, books)
}

// GetBook returns a single book, subject to its access level
func (h *PortfolioHandler) GetBook(c *fiber.Ctx) error {
	var book model.Book
	err := h.db.First(&book, c.Params("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Book not found")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	viewer, _ := middleware.GetUser(c)
	verdict, err := h.access.CanView(access.Resource{
		AccessLevel: book.AccessLevel,
		OwnerID:     book.RecommendedByID,
		IsPublished: true,
	}, viewer)
	if err != nil {
		return response.InternalServerError(c, "")
	}
	if verdict != access.Allow {
		return access.Respond(c, verdict)
	}

	return response.Success(c, book)
}

// BookRequest is the create/update payload for a book
type BookRequest struct {
	Title         string  `json:"title" validate:"required,max=255"`
	Author        string  `json:"author" validate:"required,max=255"`
	ISBN          *string `json:"isbn,omitempty" validate:"omitempty,len=13"`
	Genre         string  `json:"genre" validate:"max=100"`
	Description   string  `json:"description"`
	CoverImageURL string  `json:"cover_image_url"`
	PurchaseLink  string  `json:"purchase_link"`
	IsFeatured    bool    `json:"is_featured"`
	AccessLevel   string  `json:"access_level" validate:"omitempty,oneof=public registered private"`
}

// CreateBook adds a recommended book (staff only)
func (h *PortfolioHandler) CreateBook(c *fiber.Ctx) error {
	var req BookRequest
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

	book := model.Book{
		Title:         validation.SanitizeString(req.Title),
		Author:        validation.SanitizeString(req.Author),
		ISBN:          req.ISBN,
		Genre:         req.Genre,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		PurchaseLink:  req.PurchaseLink,
		IsFeatured:    req.IsFeatured,
		AccessLevel:   level,
	}
	if userID, ok := middleware.GetUserID(c); ok {
		book.RecommendedByID = &userID
	}

	if err := h.db.Create(&book).Error; err != nil {
		return response.Conflict(c, "A book with this ISBN already exists")
	}
	return response.Created(c, book)
}

// DeleteBook soft-deletes a book (staff only)
func (h *PortfolioHandler) DeleteBook(c *fiber.Ctx) error {
	result := h.db.Delete(&model.Book{}, c.Params("id"))
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete book")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Book not found")
	}
	return response.NoContent(c)
}
