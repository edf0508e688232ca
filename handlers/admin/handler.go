package admin

import (
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/validation"
)

// AdminHandler covers the staff-only management endpoints. Every mutation
// writes an audit log row.
type AdminHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// audit records a staff action. Logging failures never fail the request.
func (h *AdminHandler) audit(c *fiber.Ctx, action, objectType string, objectID uint, changes interface{}) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		return
	}

	entry := model.AdminAuditLog{
		AdminID:    adminID,
		Action:     action,
		ObjectType: objectType,
		ObjectID:   objectID,
		IPAddress:  c.IP(),
	}
	if changes != nil {
		if data, err := json.Marshal(changes); err == nil {
			entry.Changes = datatypes.JSON(data)
		}
	}

	if err := h.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to write audit log for %s %s/%d: %v", action, objectType, objectID, err)
	}
}
