package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/penlog/internal/contractor"
	"gorm.io/gorm"
)

func handleContractorList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var projectID uint
		if v := c.Query("project_id"); v != "" {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				badRequest(c, "invalid project_id")
				return
			}
			projectID = uint(n)
		}
		contractors, err := contractor.List(db, projectID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, contractors)
	}
}

func handleContractorCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProjectID     uint   `json:"project_id"`
			Name          string `json:"name"`
			ContactPerson string `json:"contact_person"`
			ContactEmail  string `json:"contact_email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		ct, err := contractor.Create(db, contractor.CreateOpts{
			ProjectID:     req.ProjectID,
			Name:          req.Name,
			ContactPerson: req.ContactPerson,
			ContactEmail:  req.ContactEmail,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, ct)
	}
}

func handleContractorGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		ct, err := contractor.Get(db, id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ct)
	}
}

func handleContractorUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Name          *string `json:"name"`
			ContactPerson *string `json:"contact_person"`
			ContactEmail  *string `json:"contact_email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		ct, err := contractor.Update(db, id, contractor.UpdateOpts{
			Name:          req.Name,
			ContactPerson: req.ContactPerson,
			ContactEmail:  req.ContactEmail,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, ct)
	}
}

func handleContractorStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		s, err := contractor.Stats(db, id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

func handleGenerateLink(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			ProjectID uint `json:"project_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		link, err := contractor.GenerateLink(db, id, req.ProjectID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, link)
	}
}

func handleContractorMerge(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			SourceID uint `json:"source_id"`
			TargetID uint `json:"target_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		if err := contractor.Merge(db, req.SourceID, req.TargetID); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
