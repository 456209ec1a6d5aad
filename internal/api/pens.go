package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/penlog/internal/pen"
	"gorm.io/gorm"
)

type penCreateRequest struct {
	ProjectID    uint   `json:"project_id"`
	PenNumber    string `json:"pen_id"`
	Deck         string `json:"deck"`
	FireZone     string `json:"fire_zone"`
	Frame        string `json:"frame"`
	Location     string `json:"location"`
	PenType      string `json:"pen_type"`
	Size         string `json:"size"`
	ContractorID *uint  `json:"contractor_id"`
	Priority     string `json:"priority"`
	Notes        string `json:"notes"`
	Status       string `json:"status"`
}

func (r *penCreateRequest) opts(username string) pen.CreateOpts {
	return pen.CreateOpts{
		ProjectID:    r.ProjectID,
		PenNumber:    r.PenNumber,
		Deck:         r.Deck,
		FireZone:     r.FireZone,
		Frame:        r.Frame,
		Location:     r.Location,
		PenType:      r.PenType,
		Size:         r.Size,
		ContractorID: r.ContractorID,
		Priority:     r.Priority,
		Notes:        r.Notes,
		Status:       r.Status,
		Username:     username,
	}
}

// penUpdateRequest uses pointers so absent keys leave columns alone. The
// contractor field accepts null-to-clear via the "contractor_set" flag.
type penUpdateRequest struct {
	PenNumber     *string `json:"pen_id"`
	Deck          *string `json:"deck"`
	FireZone      *string `json:"fire_zone"`
	Frame         *string `json:"frame"`
	Location      *string `json:"location"`
	PenType       *string `json:"pen_type"`
	Size          *string `json:"size"`
	ContractorSet bool    `json:"contractor_set"`
	ContractorID  *uint   `json:"contractor_id"`
	Priority      *string `json:"priority"`
	Notes         *string `json:"notes"`
}

func handlePenList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := pen.ListFilters{
			Status:   c.Query("status"),
			Deck:     c.Query("deck"),
			Priority: c.Query("priority"),
			Search:   c.Query("search"),
		}
		if v := c.Query("project_id"); v != "" {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				badRequest(c, "invalid project_id")
				return
			}
			filters.ProjectID = uint(n)
		}
		if v := c.Query("contractor_id"); v != "" {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				badRequest(c, "invalid contractor_id")
				return
			}
			filters.ContractorID = uint(n)
		}
		pens, err := pen.List(db, filters)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, pens)
	}
}

func handlePenCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req penCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		p, err := pen.Create(db, req.opts(actorName(c)))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func handlePenGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := pen.Get(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handlePenUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req penUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		opts := pen.UpdateOpts{
			PenNumber: req.PenNumber,
			Deck:      req.Deck,
			FireZone:  req.FireZone,
			Frame:     req.Frame,
			Location:  req.Location,
			PenType:   req.PenType,
			Size:      req.Size,
			Priority:  req.Priority,
			Notes:     req.Notes,
		}
		if req.ContractorSet {
			opts.ContractorID = &req.ContractorID
		}
		p, err := pen.Update(db, c.Param("id"), opts)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handlePenDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := pen.Delete(db, c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func handlePenStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status"`
			Notes  string `json:"notes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		p, err := pen.UpdateStatus(db, c.Param("id"), req.Status, req.Notes, actorName(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handlePenActivities(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		activities, err := pen.ListActivities(db, c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, activities)
	}
}

func handlePenBulkImport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProjectID uint               `json:"project_id"`
			Pens      []penCreateRequest `json:"pens"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		username := actorName(c)
		drafts := make([]pen.CreateOpts, len(req.Pens))
		for i := range req.Pens {
			drafts[i] = req.Pens[i].opts(username)
		}
		result, err := pen.BulkImport(db, req.ProjectID, drafts, username)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
