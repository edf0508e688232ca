package stats

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rsichomba/portfolio-lms/database"
	"github.com/rsichomba/portfolio-lms/utils/cache"
	"github.com/rsichomba/portfolio-lms/utils/middleware"
	"github.com/rsichomba/portfolio-lms/utils/response"
)

const statsCacheTTL = 5 * time.Minute

// StatsHandler serves the public aggregate endpoints, backed by the
// reporting store with a short Redis cache in front
type StatsHandler struct {
	reporting *database.ReportingStore
	cache     *cache.RedisCache
}

// NewStatsHandler creates a new stats handler. The cache may be nil.
func NewStatsHandler(reporting *database.ReportingStore, redisCache *cache.RedisCache) *StatsHandler {
	return &StatsHandler{reporting: reporting, cache: redisCache}
}

// Site returns headline site counts
func (h *StatsHandler) Site(c *fiber.Ctx) error {
	ctx := context.Background()

	if h.cache != nil {
		var cached database.SiteStats
		err := h.cache.GetJSON(ctx, "stats:site", &cached)
		if err == nil {
			return response.Success(c, cached)
		}
		if !errors.Is(err, cache.ErrNotFound) {
			log.Printf("Stats cache read failed: %v", err)
		}
	}

	stats, err := h.reporting.GetSiteStats()
	if err != nil {
		return response.InternalServerError(c, "Failed to load statistics")
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, "stats:site", stats, statsCacheTTL); err != nil {
			log.Printf("Stats cache write failed: %v", err)
		}
	}
	return response.Success(c, stats)
}

// Progress returns the authenticated user's per-course progress rows.
// Not cached; the data is per-user and cheap to compute.
func (h *StatsHandler) Progress(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	rows, err := h.reporting.GetUserProgressStats(userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load statistics")
	}
	return response.Success(c, rows)
}

// Courses returns per-course enrollment, completion, and rating aggregates
func (h *StatsHandler) Courses(c *fiber.Ctx) error {
	ctx := context.Background()

	if h.cache != nil {
		var cached []database.CourseStatsRow
		if err := h.cache.GetJSON(ctx, "stats:courses", &cached); err == nil {
			return response.Success(c, cached)
		}
	}

	rows, err := h.reporting.GetCourseStats()
	if err != nil {
		return response.InternalServerError(c, "Failed to load statistics")
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, "stats:courses", rows, statsCacheTTL); err != nil {
			log.Printf("Stats cache write failed: %v", err)
		}
	}
	return response.Success(c, rows)
}
