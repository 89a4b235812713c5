package http

import "github.com/gin-gonic/gin"

// Register attaches the project and application routes to the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/projects", h.createProject)
	rg.GET("/projects", h.listProjects)
	rg.GET("/projects/:id", h.getProject)
	rg.POST("/projects/:id/cancel", h.cancelProject)
	rg.POST("/projects/:id/acceptance-request", h.requestAcceptance)
	rg.PUT("/projects/:id/acceptance", h.setAcceptanceStatus)

	rg.POST("/projects/:id/applications", h.createApplication)
	rg.GET("/projects/:id/applications", h.listApplications)
	rg.POST("/projects/:id/applications/:application_id/accept", h.acceptApplication)
	rg.POST("/projects/:id/applications/:application_id/reject", h.rejectApplication)
	rg.DELETE("/applications/:application_id", h.withdrawApplication)
}
