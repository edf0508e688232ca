package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	authutil "github.com/rsichomba/portfolio-lms/utils/auth"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
)

// VerifyEmailRequest carries the emailed code
type VerifyEmailRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

// VerifyEmail consumes a pending verification code and marks the account
// verified
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.Code) != 6 {
		return response.BadRequest(c, "A 6-digit code is required")
	}

	var verification model.EmailVerification
	err := h.db.Where("user_id = ? AND code = ? AND purpose = ? AND is_used = ?",
		user.ID, req.Code, model.VerificationEmail, false).
		Order("created_at DESC").
		First(&verification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.BadRequest(c, "Invalid verification code")
	}
	if err != nil {
		return response.InternalServerError(c, "")
	}

	if verification.IsExpired() {
		return response.BadRequest(c, "Verification code has expired")
	}

	h.db.Model(&verification).Update("is_used", true)
	h.db.Model(&model.User{}).Where("id = ?", user.ID).Update("email_verified", true)

	return response.SuccessWithMessage(c, "Email verified successfully", nil)
}

// ResendVerification issues a fresh code for an unverified account
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	if user.EmailVerified {
		return response.BadRequest(c, "Email is already verified")
	}

	h.issueVerificationCode(user, model.VerificationEmail)
	return response.SuccessWithMessage(c, "Verification code sent", nil)
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword mails a reset code. The response is identical whether
// or not the account exists.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err == nil {
		h.issueVerificationCode(&user, model.VerificationPassword)
	}

	return response.SuccessWithMessage(c, "If the account exists, a reset code has been sent", nil)
}

// ResetPasswordRequest completes a password reset
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,len=6"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ResetPassword sets a new password after code verification and bumps the
// token version so existing sessions die
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" || len(req.Code) != 6 || req.NewPassword == "" {
		return response.BadRequest(c, "Email, code, and new password are required")
	}

	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return response.BadRequest(c, "Invalid reset code")
	}

	var verification model.EmailVerification
	err := h.db.Where("user_id = ? AND code = ? AND purpose = ? AND is_used = ?",
		user.ID, req.Code, model.VerificationPassword, false).
		Order("created_at DESC").
		First(&verification).Error
	if err != nil || verification.IsExpired() {
		return response.BadRequest(c, "Invalid reset code")
	}

	passwordHash, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	h.db.Model(&verification).Update("is_used", true)
	err = h.db.Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"token_version": user.TokenVersion + 1,
	}).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to reset password")
	}

	return response.SuccessWithMessage(c, "Password reset successfully", nil)
}
