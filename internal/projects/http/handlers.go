package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/worklane/worklane-backend/internal/projects/domain"
	"github.com/worklane/worklane-backend/internal/projects/service"
)

// Handler exposes the project and application commands over HTTP.
// Authentication happens upstream; the authenticated user id arrives in the
// X-User-ID header.
type Handler struct {
	projects     *service.ProjectService
	applications *service.ApplicationService
}

func NewHandler(projects *service.ProjectService, applications *service.ApplicationService) *Handler {
	return &Handler{
		projects:     projects,
		applications: applications,
	}
}

func userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

// respondError maps the domain error taxonomy onto status codes: conflicts
// are 409, missing references 404, everything else a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrAlreadyApplied):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrLifecycleNotFound),
		errors.Is(err, domain.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}

func (h *Handler) createProject(c *gin.Context) {
	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p := &domain.Project{
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Budget:         req.Budget,
		CategoryID:     req.CategoryID,
		EmployerUserID: userID(c),
	}
	lc := &domain.Lifecycle{
		ApplicationsStartDate: req.ApplicationsStartDate,
		ApplicationsDeadline:  req.ApplicationsDeadline,
		WorkStartDate:         req.WorkStartDate,
		WorkDeadline:          req.WorkDeadline,
	}

	if err := h.projects.Create(c.Request.Context(), p, lc); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p, "lifecycle": lc})
}

func (h *Handler) getProject(c *gin.Context) {
	projectID := c.Param("id")

	p, err := h.projects.Get(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	lc, err := h.projects.GetLifecycle(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p, "lifecycle": lc})
}

func (h *Handler) listProjects(c *gin.Context) {
	items, err := h.projects.ListByEmployer(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) createApplication(c *gin.Context) {
	app, err := h.applications.Create(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "application": app})
}

func (h *Handler) listApplications(c *gin.Context) {
	items, err := h.applications.ListByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "applications": items})
}

func (h *Handler) acceptApplication(c *gin.Context) {
	if err := h.applications.Accept(c.Request.Context(), c.Param("id"), c.Param("application_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) rejectApplication(c *gin.Context) {
	if err := h.applications.Reject(c.Request.Context(), c.Param("id"), c.Param("application_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) withdrawApplication(c *gin.Context) {
	if err := h.applications.Withdraw(c.Request.Context(), c.Param("application_id"), userID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) requestAcceptance(c *gin.Context) {
	if err := h.projects.RequestAcceptance(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) setAcceptanceStatus(c *gin.Context) {
	var req setAcceptanceReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Confirmed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	if err := h.projects.SetAcceptanceStatus(c.Request.Context(), c.Param("id"), *req.Confirmed); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) cancelProject(c *gin.Context) {
	if err := h.projects.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
