package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"complainthub/backend/internal/complaint"
	"complainthub/backend/internal/models"
	"complainthub/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, complaint.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, complaint.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, complaint.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, complaint.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// CreateComplaint registers a new complaint for the authenticated user.
func (h *Handler) CreateComplaint(c *gin.Context) {
	var in complaint.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, _ := actor(c)
	in.SubmitterID = userID

	created, err := h.Service.Create(in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetComplaint returns a single complaint if the actor may view it.
func (h *Handler) GetComplaint(c *gin.Context) {
	userID, role := actor(c)
	found, err := h.Service.Get(c.Param("id"), userID, role)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// UpdateComplaint edits the submitter-owned fields.
func (h *Handler) UpdateComplaint(c *gin.Context) {
	var in complaint.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, role := actor(c)
	updated, err := h.Service.Update(c.Param("id"), userID, role, in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteComplaint removes a complaint together with its thread, history and
// notifications.
func (h *Handler) DeleteComplaint(c *gin.Context) {
	userID, role := actor(c)
	if err := h.Service.Delete(c.Param("id"), userID, role); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Complaint deleted"})
}

// ListComplaints returns the complaints visible to the actor, optionally
// filtered by status, category and creation window.
func (h *Handler) ListComplaints(c *gin.Context) {
	var f storage.ComplaintFilter
	f.Status = models.Status(c.Query("status"))
	f.Category = models.Category(c.Query("category"))
	if v := c.Query("created_after"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "created_after must be RFC3339"})
			return
		}
		f.CreatedAfter = t
	}
	if v := c.Query("created_until"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "created_until must be RFC3339"})
			return
		}
		f.CreatedUntil = t
	}

	userID, role := actor(c)
	complaints, err := h.Service.List(f, userID, role)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// ChangeStatus moves a complaint through its workflow.
func (h *Handler) ChangeStatus(c *gin.Context) {
	var req struct {
		Status  models.Status `json:"status" binding:"required"`
		Comment string        `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	userID, role := actor(c)
	updated, err := h.Service.ChangeStatus(c.Param("id"), req.Status, userID, role, req.Comment)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GetHistory returns the complaint's workflow audit trail.
func (h *Handler) GetHistory(c *gin.Context) {
	userID, role := actor(c)
	history, err := h.Service.GetHistory(c.Param("id"), userID, role)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// PostMessage appends a message to the complaint's thread.
func (h *Handler) PostMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	userID, role := actor(c)
	msg, err := h.Service.PostMessage(c.Param("id"), userID, role, req.Content)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// GetThread returns the complaint's message thread with author display names.
func (h *Handler) GetThread(c *gin.Context) {
	userID, role := actor(c)
	thread, err := h.Service.GetThread(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

// RecomputeRisk re-scores a stored complaint. Staff only.
func (h *Handler) RecomputeRisk(c *gin.Context) {
	_, role := actor(c)
	if role == models.RoleStudent || role == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "staff role required"})
		return
	}
	updated, err := h.Service.RecomputeRisk(c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a number"})
		return 0, false
	}
	return uint(v), true
}
