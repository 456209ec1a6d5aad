package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/penlog/internal/apperr"
	"github.com/zulandar/penlog/internal/pen"
	"github.com/zulandar/penlog/internal/photo"
	"github.com/zulandar/penlog/internal/report"
	"gorm.io/gorm"
)

func handleReportForm(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := report.GetForm(db, c.Param("token"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, form)
	}
}

func handleReportSubmit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PenetrationID string `json:"penetration_id"`
			Status        string `json:"status"`
			Notes         string `json:"notes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		p, err := report.Submit(db, c.Param("token"), req.PenetrationID, req.Status, req.Notes)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handleReportCreatePen(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PenNumber string `json:"pen_id"`
			Deck      string `json:"deck"`
			Location  string `json:"location"`
			FireZone  string `json:"fire_zone"`
			Frame     string `json:"frame"`
			PenType   string `json:"pen_type"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		p, err := report.CreatePen(db, c.Param("token"), report.CreateOpts{
			PenNumber: req.PenNumber,
			Deck:      req.Deck,
			Location:  req.Location,
			FireZone:  req.FireZone,
			Frame:     req.Frame,
			PenType:   req.PenType,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// handleReportUpload stores a contractor photo after verifying the target
// pen belongs to the link's project.
func handleReportUpload(db *gorm.DB, photos *photo.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		link, err := report.Resolve(db, c.Param("token"))
		if err != nil {
			fail(c, err)
			return
		}
		penID := c.PostForm("penetration_id")
		if penID == "" {
			badRequest(c, "penetration_id is required")
			return
		}
		p, err := pen.Get(db, penID)
		if err != nil {
			fail(c, err)
			return
		}
		if p.ProjectID != link.ProjectID {
			fail(c, fmt.Errorf("report: pen %s outside link scope: %w", penID, apperr.ErrForbidden))
			return
		}
		ph, err := savePhotoUpload(c, db, photos, penID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, ph)
	}
}
