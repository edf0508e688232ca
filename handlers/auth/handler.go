package auth

import (
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/services"
	"github.com/rsichomba/portfolio-lms/services/storage"
	authutil "github.com/rsichomba/portfolio-lms/utils/auth"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// AuthHandler handles registration, login, and token lifecycle
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	bruteForceProtection *middleware.BruteForceProtection
	emailService         *services.EmailService
	spaces               *storage.SpacesClient
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, bruteForce *middleware.BruteForceProtection, emailService *services.EmailService, spaces *storage.SpacesClient) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		bruteForceProtection: bruteForce,
		emailService:         emailService,
		spaces:               spaces,
		validator:            validation.NewValidator(),
	}
}
