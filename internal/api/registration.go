package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/penlog/internal/registration"
	"gorm.io/gorm"
)

func handleRegistrationForm(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := registration.Form(db, c.Param("code"))
		if err != nil {
			fail(c, err)
			return
		}
		// The public form only needs the ship and project names.
		c.JSON(http.StatusOK, gin.H{
			"project_id": p.ID,
			"ship_name":  p.ShipName,
			"name":       p.Name,
		})
	}
}

func handleRegistrationSubmit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CompanyName   string `json:"company_name"`
			ContactPerson string `json:"contact_person"`
			ContactEmail  string `json:"contact_email"`
			Message       string `json:"message"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		r, err := registration.Submit(db, c.Param("code"), registration.SubmitOpts{
			CompanyName:   req.CompanyName,
			ContactPerson: req.ContactPerson,
			ContactEmail:  req.ContactEmail,
			Message:       req.Message,
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

func handleRegistrationPending(db *gorm.DB) gin.HandlerFunc {
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
		pending, err := registration.Pending(db, projectID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

func handleRegistrationApprove(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		link, err := registration.Approve(db, id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, link)
	}
}

func handleRegistrationReject(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var req struct {
			Reason string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		if err := registration.Reject(db, id, req.Reason); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
