package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/penlog/internal/models"
	"github.com/zulandar/penlog/internal/pen"
	"github.com/zulandar/penlog/internal/stats"
	"github.com/zulandar/penlog/internal/status"
	"gorm.io/gorm"
)

// defaultOpenTooLongDays is the reporting threshold for pens stuck open.
const defaultOpenTooLongDays = 7

// loadProjectPens resolves the mandatory project_id query parameter and
// returns the project's pen collection.
func loadProjectPens(c *gin.Context, db *gorm.DB) ([]models.Penetration, bool) {
	v := c.Query("project_id")
	if v == "" {
		badRequest(c, "project_id is required")
		return nil, false
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		badRequest(c, "invalid project_id")
		return nil, false
	}
	pens, err := pen.List(db, pen.ListFilters{ProjectID: uint(n)})
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return pens, true
}

func handleDashboardOverview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pens, ok := loadProjectPens(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, stats.Compute(pens))
	}
}

func handleDashboardByContractor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pens, ok := loadProjectPens(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, stats.ByContractor(pens))
	}
}

func handleDashboardByDeck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pens, ok := loadProjectPens(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, stats.ByDeck(pens))
	}
}

func handleDashboardOpenTooLong(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := defaultOpenTooLongDays
		if v := c.Query("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				badRequest(c, "invalid days")
				return
			}
			days = n
		}
		pens, ok := loadProjectPens(c, db)
		if !ok {
			return
		}
		threshold := time.Duration(days) * 24 * time.Hour
		c.JSON(http.StatusOK, stats.OpenTooLong(pens, threshold, time.Now()))
	}
}

func handleDashboardCritical(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pens, ok := loadProjectPens(c, db)
		if !ok {
			return
		}
		// Critical pens that still need work, most urgent state first.
		unfinished := make([]models.Penetration, 0)
		for _, st := range []status.Status{status.Open, status.NotStarted, status.Closed} {
			for i := range pens {
				p := pens[i]
				if p.Priority == string(status.Critical) && p.Status == string(st) {
					unfinished = append(unfinished, p)
				}
			}
		}
		c.JSON(http.StatusOK, unfinished)
	}
}

func handleDashboardTimeline(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := c.Query("project_id")
		if v == "" {
			badRequest(c, "project_id is required")
			return
		}
		projectID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			badRequest(c, "invalid project_id")
			return
		}
		limit := 50
		if lv := c.Query("limit"); lv != "" {
			n, err := strconv.Atoi(lv)
			if err != nil || n <= 0 {
				badRequest(c, "invalid limit")
				return
			}
			limit = n
		}

		var activities []models.Activity
		if err := db.
			Joins("JOIN penetrations ON penetrations.id = activities.penetration_id").
			Where("penetrations.project_id = ?", uint(projectID)).
			Order("activities.id DESC").
			Limit(limit).
			Find(&activities).Error; err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, activities)
	}
}
