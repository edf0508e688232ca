package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	authutil "github.com/rsichomba/portfolio-lms/utils/auth"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// RegisterRequest is the signup payload
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Username    string `json:"username" validate:"required,min=3,max=30"`
	FirstName   string `json:"first_name" validate:"max=100"`
	LastName    string `json:"last_name" validate:"max=100"`
	Role        string `json:"role,omitempty" validate:"omitempty,oneof=visitor student instructor parent"`
	School      string `json:"school,omitempty"`
	Department  string `json:"department,omitempty"`
	YearOfStudy int    `json:"year_of_study,omitempty" validate:"omitempty,gte=1,lte=7"`
	StudentID   string `json:"student_id,omitempty" validate:"max=20"`
	ParentEmail string `json:"parent_email,omitempty" validate:"omitempty,email"`
	Institution string `json:"institution,omitempty" validate:"max=200"`
}

// TokenPairResponse carries the issued tokens alongside the user
type TokenPairResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // seconds
}

// UserResponse is the user shape returned by auth endpoints
type UserResponse struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Role          string    `json:"role"`
	School        string    `json:"school,omitempty"`
	Department    string    `json:"department,omitempty"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          u.Role,
		School:        u.School,
		Department:    u.Department,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// Register creates an account. New accounts default to the visitor role;
// students, instructors, and parents declare themselves at signup. Admin
// accounts are only created by the seeder or an existing admin.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	req.Email = validation.SanitizeString(req.Email)
	req.Username = validation.SanitizeString(req.Username)

	if ok, msg := validation.ValidateUsername(req.Username); !ok {
		return response.BadRequest(c, msg)
	}

	if req.Role == "" {
		req.Role = model.RoleVisitor
	}

	var existing model.User
	err := h.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return response.Conflict(c, "An account with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return response.InternalServerError(c, "")
	}

	passwordHash, err := authutil.HashPassword(req.Password)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	user := model.User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		School:       req.School,
		Department:   req.Department,
		YearOfStudy:  req.YearOfStudy,
		StudentID:    req.StudentID,
		ParentEmail:  req.ParentEmail,
		Institution:  req.Institution,
	}
	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create account")
	}

	// Kick off email verification; delivery failure never blocks signup
	h.issueVerificationCode(&user, model.VerificationEmail)

	accessToken, _, err := h.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate access token")
	}
	refreshToken, _, err := h.jwtManager.GenerateRefreshToken(user.ID, user.Email, user.Role, user.TokenVersion)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate refresh token")
	}

	return response.Created(c, TokenPairResponse{
		User:         toUserResponse(&user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    24 * 60 * 60,
	})
}

// issueVerificationCode creates and mails a 6-digit code
func (h *AuthHandler) issueVerificationCode(user *model.User, purpose string) {
	code := generateCode()

	verification := model.EmailVerification{
		UserID:  user.ID,
		Code:    code,
		Purpose: purpose,
	}
	if err := h.db.Create(&verification).Error; err != nil {
		log.Printf("Failed to store verification code for user %d: %v", user.ID, err)
		return
	}

	if err := h.emailService.SendVerificationCode(user.Email, user.DisplayName(), code, purpose); err != nil {
		log.Printf("Failed to send verification code to %s: %v", user.Email, err)
	}
}

func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return fmt.Sprintf("%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
