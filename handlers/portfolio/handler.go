package portfolio

import (
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/utils/access"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// PortfolioHandler serves the public portfolio: skills, projects,
// testimonials, and recommended books
type PortfolioHandler struct {
	db        *gorm.DB
	access    *access.Service
	validator *validation.Validator
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(db *gorm.DB) *PortfolioHandler {
	return &PortfolioHandler{
		db:        db,
		access:    access.NewService(db),
		validator: validation.NewValidator(),
	}
}
