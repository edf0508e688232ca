package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/auth"
	"github.com/rsichomba/portfolio-lms/utils/response"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	db         *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		db:         db,
	}
}

// authenticate validates the bearer token and loads the user. Returns the
// claims and user, or writes nothing and reports the failure.
func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*auth.Claims, *model.User, string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, nil, "Missing authorization token"
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, nil, "Invalid authorization format"
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		if err == auth.ErrExpiredToken {
			return nil, nil, "Token has expired"
		}
		return nil, nil, "Invalid token"
	}

	if claims.TokenType != auth.TokenAccess {
		return nil, nil, "Invalid token type"
	}

	var user model.User
	if err := m.db.First(&user, claims.UserID).Error; err != nil {
		return nil, nil, "User not found"
	}

	// A bumped token version invalidates every outstanding token
	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, "Token has been invalidated"
	}

	return claims, &user, ""
}

func storeIdentity(c *fiber.Ctx, claims *auth.Claims, user *model.User) {
	c.Locals("user_id", claims.UserID)
	c.Locals("user_email", claims.Email)
	c.Locals("user_role", claims.Role)
	c.Locals("claims", claims)
	c.Locals("user", user)
}

// Required rejects requests without a valid access token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, user, failure := m.authenticate(c)
		if failure != "" {
			return response.Unauthorized(c, failure)
		}
		storeIdentity(c, claims, user)
		return c.Next()
	}
}

// Optional resolves the user when a valid token is present and continues
// anonymously otherwise
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, user, failure := m.authenticate(c)
		if failure == "" {
			storeIdentity(c, claims, user)
		}
		return c.Next()
	}
}

// RequireRole requires one of the given roles on an authenticated request
func (m *AuthMiddleware) RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals("user_role").(string)
		if !ok {
			return response.Forbidden(c, "Access denied")
		}
		for _, r := range roles {
			if userRole == r {
				return c.Next()
			}
		}
		return response.Forbidden(c, "Insufficient permissions")
	}
}

// RequireStaff requires an admin role or the staff flag
func (m *AuthMiddleware) RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}
		if !user.Staff() {
			return response.Forbidden(c, "Staff access required")
		}
		return c.Next()
	}
}

// GetUserID extracts the user ID from the request context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("user_id").(uint)
	return id, ok
}

// GetUserRole extracts the user role from the request context
func GetUserRole(c *fiber.Ctx) (string, bool) {
	r, ok := c.Locals("user_role").(string)
	return r, ok
}

// GetUser extracts the full user from the request context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	u, ok := c.Locals("user").(*model.User)
	return u, ok
}

// GetClaims extracts the token claims from the request context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals("claims").(*auth.Claims)
	return claims, ok
}
