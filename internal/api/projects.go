package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/penlog/internal/project"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type projectCreateRequest struct {
	ShipName        string `json:"ship_name"`
	Name            string `json:"name"`
	DrydockLocation string `json:"drydock_location"`
	StartDate       string `json:"start_date"`       // YYYY-MM-DD, optional
	EmbarkationDate string `json:"embarkation_date"` // YYYY-MM-DD, optional
	SupervisorID    *uint  `json:"supervisor_id"`
	Notes           string `json:"notes"`
}

// projectUpdateRequest uses pointers so absent keys leave columns alone.
// Date fields accept "" to clear.
type projectUpdateRequest struct {
	ShipName        *string `json:"ship_name"`
	Name            *string `json:"name"`
	DrydockLocation *string `json:"drydock_location"`
	StartDate       *string `json:"start_date"`
	EmbarkationDate *string `json:"embarkation_date"`
	Status          *string `json:"status"`
	Notes           *string `json:"notes"`
}

func handleProjectList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		showArchived := c.Query("archived") == "true"
		projects, err := project.List(db, showArchived)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, projects)
	}
}

func handleProjectCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req projectCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		opts := project.CreateOpts{
			ShipName:        req.ShipName,
			Name:            req.Name,
			DrydockLocation: req.DrydockLocation,
			SupervisorID:    req.SupervisorID,
			Notes:           req.Notes,
		}
		var ok bool
		if opts.StartDate, ok = parseDate(c, req.StartDate); !ok {
			return
		}
		if opts.EmbarkationDate, ok = parseDate(c, req.EmbarkationDate); !ok {
			return
		}
		p, err := project.Create(db, opts)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func handleProjectGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		p, err := project.Get(db, id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handleProjectUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var req projectUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		opts := project.UpdateOpts{
			ShipName:        req.ShipName,
			Name:            req.Name,
			DrydockLocation: req.DrydockLocation,
			Status:          req.Status,
			Notes:           req.Notes,
		}
		var ok2 bool
		if opts.StartDate, ok2 = parseDatePatch(c, req.StartDate); !ok2 {
			return
		}
		if opts.EmbarkationDate, ok2 = parseDatePatch(c, req.EmbarkationDate); !ok2 {
			return
		}
		p, err := project.Update(db, id, opts)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handleProjectDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		confirm := c.Query("confirm") == "true"
		if err := project.Delete(db, id, confirm); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func handleProjectActivate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		p, err := project.Activate(db, id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handleAssignSupervisor(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			SupervisorID uint `json:"supervisor_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		p, err := project.AssignSupervisor(db, id, req.SupervisorID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func handleSupervisorList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := project.Supervisors(db)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func handleProjectStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		s, err := project.Stats(db, id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func handleProjectDashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		d, err := project.GetDashboard(db, id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// parseDate parses an optional YYYY-MM-DD value. Empty means unset.
func parseDate(c *gin.Context, v string) (*time.Time, bool) {
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		badRequest(c, "invalid date: "+v)
		return nil, false
	}
	return &t, true
}

// parseDatePatch parses an optional date patch: nil leaves the column
// alone, "" clears it, a date sets it.
func parseDatePatch(c *gin.Context, v *string) (**time.Time, bool) {
	if v == nil {
		return nil, true
	}
	if *v == "" {
		var cleared *time.Time
		return &cleared, true
	}
	t, err := time.Parse(dateLayout, *v)
	if err != nil {
		badRequest(c, "invalid date: "+*v)
		return nil, false
	}
	p := &t
	return &p, true
}
