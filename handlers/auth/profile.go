package auth

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/services/storage"
	authutil "github.com/rsichomba/portfolio-lms/utils/auth"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// MaxAvatarSize caps profile pictures at 5 MB
const MaxAvatarSize = 5 << 20

// Me returns the authenticated user's full profile
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	return response.Success(c, user)
}

// UpdateProfileRequest is the profile update payload; all fields optional
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Website     *string `json:"website,omitempty" validate:"omitempty,max=500"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=100"`
	School      *string `json:"school,omitempty"`
	Department  *string `json:"department,omitempty" validate:"omitempty,max=100"`
	YearOfStudy *int    `json:"year_of_study,omitempty" validate:"omitempty,gte=1,lte=7"`
	Institution *string `json:"institution,omitempty" validate:"omitempty,max=200"`
}

// UpdateProfile applies the provided profile fields
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, validation.FormatValidationErrors(err))
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = validation.SanitizeString(*req.FirstName)
	}
	if req.LastName != nil {
		updates["last_name"] = validation.SanitizeString(*req.LastName)
	}
	if req.Phone != nil {
		updates["phone"] = validation.SanitizeString(*req.Phone)
	}
	if req.Bio != nil {
		updates["bio"] = validation.SanitizeString(*req.Bio)
	}
	if req.Website != nil {
		updates["website"] = validation.SanitizeString(*req.Website)
	}
	if req.Location != nil {
		updates["location"] = validation.SanitizeString(*req.Location)
	}
	if req.School != nil {
		updates["school"] = *req.School
	}
	if req.Department != nil {
		updates["department"] = validation.SanitizeString(*req.Department)
	}
	if req.YearOfStudy != nil {
		updates["year_of_study"] = *req.YearOfStudy
	}
	if req.Institution != nil {
		updates["institution"] = validation.SanitizeString(*req.Institution)
	}
	if len(updates) == 0 {
		return response.BadRequest(c, "No fields to update")
	}

	if err := h.db.Model(user).Updates(updates).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	var fresh model.User
	if err := h.db.First(&fresh, user.ID).Error; err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, fresh)
}

// UploadProfilePicture stores a new avatar in Spaces and swaps the URL,
// deleting the previous object
func (h *AuthHandler) UploadProfilePicture(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "A file is required")
	}
	if fileHeader.Size > MaxAvatarSize {
		return response.BadRequest(c, "File exceeds the 5MB limit")
	}

	contentType := storage.GetContentType(fileHeader.Filename)
	if !strings.HasPrefix(contentType, "image/") {
		return response.BadRequest(c, "Profile pictures must be images")
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

	key := storage.GenerateKey(fmt.Sprintf("avatars/%d", user.ID), fileHeader.Filename)
	url, err := h.spaces.UploadBytes(c.Context(), key, data, contentType)
	if err != nil {
		return response.InternalServerError(c, "Failed to store file")
	}

	oldKey := user.ProfilePictureKey
	err = h.db.Model(user).Updates(map[string]interface{}{
		"profile_picture_url": url,
		"profile_picture_key": key,
	}).Error
	if err != nil {
		h.spaces.DeleteFile(c.Context(), key)
		return response.InternalServerError(c, "Failed to update profile")
	}

	if oldKey != "" {
		if err := h.spaces.DeleteFile(c.Context(), oldKey); err != nil {
			log.Printf("Failed to delete old avatar %s: %v", oldKey, err)
		}
	}

	return response.Success(c, fiber.Map{"profile_picture_url": url})
}

// ChangePasswordRequest is the password change payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword verifies the current password before setting a new one
// and invalidates other sessions
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Current and new password are required")
	}

	if err := authutil.VerifyPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		return response.Unauthorized(c, "Current password is incorrect")
	}

	passwordHash, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	err = h.db.Model(user).Updates(map[string]interface{}{
		"password_hash": passwordHash,
		"token_version": user.TokenVersion + 1,
	}).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to change password")
	}

	return response.SuccessWithMessage(c, "Password changed successfully", nil)
}
