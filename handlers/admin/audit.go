package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rsichomba/portfolio-lms/model"
	"github.com/rsichomba/portfolio-lms/utils/response"
)

// ListAuditLogs returns the audit trail, newest first
func (h *AdminHandler) ListAuditLogs(c *fiber.Ctx) error {
	query := h.db.Model(&model.AdminAuditLog{}).Preload("Admin")

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if objectType := c.Query("object_type"); objectType != "" {
		query = query.Where("object_type = ?", objectType)
	}
	if adminID := c.QueryInt("admin_id"); adminID > 0 {
		query = query.Where("admin_id = ?", adminID)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)

	var total int64
	query.Count(&total)
	pagination := response.CalculatePagination(page, limit, total)

	var logs []model.AdminAuditLog
	err := query.
		Order("created_at DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PerPage).
		Limit(pagination.PerPage).
		Find(&logs).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Paginated(c, logs, pagination)
}

// ListCronLogs returns recent scheduled-job runs
func (h *AdminHandler) ListCronLogs(c *fiber.Ctx) error {
	query := h.db.Model(&model.CronJobLog{})
	if job := c.Query("job"); job != "" {
		query = query.Where("job_name = ?", job)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var logs []model.CronJobLog
	err := query.Order("started_at DESC").Limit(200).Find(&logs).Error
	if err != nil {
		return response.InternalServerError(c, "")
	}
	return response.Success(c, logs)
}
