package api

import (
	"github.com/gin-gonic/gin"
	"github.com/zulandar/penlog/internal/photo"
	"gorm.io/gorm"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, photos *photo.Store) {
	// Open surfaces: login, the magic-link report form, and the
	// invite-code registration form.
	router.POST("/api/auth/login", handleLogin(db))

	report := router.Group("/api/report")
	{
		report.GET("/:token", handleReportForm(db))
		report.POST("/:token/submit", handleReportSubmit(db))
		report.POST("/:token/create-pen", handleReportCreatePen(db))
		report.POST("/:token/upload", handleReportUpload(db, photos))
	}

	router.GET("/api/registration/join/:code", handleRegistrationForm(db))
	router.POST("/api/registration/join/:code", handleRegistrationSubmit(db))

	// Everything else needs a session.
	authed := router.Group("/api", requireAuth(db))
	{
		authed.GET("/auth/me", handleMe())
		authed.POST("/auth/logout", handleLogout(db))

		authed.GET("/projects", handleProjectList(db))
		authed.POST("/projects", handleProjectCreate(db))
		authed.GET("/projects/supervisors", handleSupervisorList(db))
		authed.GET("/projects/:id", handleProjectGet(db))
		authed.PUT("/projects/:id", handleProjectUpdate(db))
		authed.DELETE("/projects/:id", handleProjectDelete(db))
		authed.POST("/projects/:id/activate", handleProjectActivate(db))
		authed.POST("/projects/:id/assign-supervisor", handleAssignSupervisor(db))
		authed.GET("/projects/:id/stats", handleProjectStats(db))
		authed.GET("/projects/:id/dashboard", handleProjectDashboard(db))

		authed.GET("/penetrations", handlePenList(db))
		authed.POST("/penetrations", handlePenCreate(db))
		authed.POST("/penetrations/bulk-import", handlePenBulkImport(db))
		authed.GET("/penetrations/:id", handlePenGet(db))
		authed.PUT("/penetrations/:id", handlePenUpdate(db))
		authed.DELETE("/penetrations/:id", handlePenDelete(db))
		authed.POST("/penetrations/:id/status", handlePenStatus(db))
		authed.GET("/penetrations/:id/activities", handlePenActivities(db))

		authed.GET("/contractors", handleContractorList(db))
		authed.POST("/contractors", handleContractorCreate(db))
		authed.GET("/contractors/:id", handleContractorGet(db))
		authed.PUT("/contractors/:id", handleContractorUpdate(db))
		authed.GET("/contractors/:id/stats", handleContractorStats(db))
		authed.POST("/contractors/:id/generate-link", handleGenerateLink(db))
		authed.POST("/contractors/merge", handleContractorMerge(db))

		authed.POST("/photos/upload", handlePhotoUpload(db, photos))
		authed.GET("/photos/:id", handlePhotoDownload(db, photos))
		authed.GET("/photos/:id/info", handlePhotoInfo(db))
		authed.GET("/photos/penetration/:penId", handlePhotosByPen(db))
		authed.DELETE("/photos/:id", handlePhotoDelete(db, photos))

		authed.GET("/dashboard/overview", handleDashboardOverview(db))
		authed.GET("/dashboard/by-contractor", handleDashboardByContractor(db))
		authed.GET("/dashboard/by-deck", handleDashboardByDeck(db))
		authed.GET("/dashboard/open-too-long", handleDashboardOpenTooLong(db))
		authed.GET("/dashboard/critical-status", handleDashboardCritical(db))
		authed.GET("/dashboard/activity-timeline", handleDashboardTimeline(db))

		authed.GET("/registration/pending", handleRegistrationPending(db))
		authed.POST("/registration/:id/approve", handleRegistrationApprove(db))
		authed.POST("/registration/:id/reject", handleRegistrationReject(db))

		authed.GET("/export/project/:id", handleExportProject(db))
	}
}
