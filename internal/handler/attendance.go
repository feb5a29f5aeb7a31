package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/model"
	"classtrack/internal/realtime"
	"classtrack/internal/repo"
)

// ListAttendance returns records filtered by date, user or session.
func (h *Handler) ListAttendance(c *gin.Context) {
	recs, err := h.repo.ListAttendance(c.Request.Context(), repo.AttendanceFilter{
		Date:      c.Query("date"),
		UserID:    c.Query("user_id"),
		SessionID: c.Query("session_id"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if recs == nil {
		recs = []model.AttendanceRecord{}
	}
	c.JSON(http.StatusOK, recs)
}

// GetAttendance returns one record by id.
func (h *Handler) GetAttendance(c *gin.Context) {
	rec, err := h.repo.GetAttendance(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// MarkAttendance records a check-in.
func (h *Handler) MarkAttendance(c *gin.Context) {
	var req struct {
		UserID    string `json:"user_id" binding:"required"`
		SessionID string `json:"session_id" binding:"required"`
		Status    string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != "" && !model.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	rec, err := h.repo.InsertAttendance(c.Request.Context(), model.AttendanceRecord{
		UserID:    req.UserID,
		SessionID: req.SessionID,
		Status:    req.Status,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.publish(c, realtime.TableAttendance, realtime.EventInsert, rec)
	c.JSON(http.StatusCreated, rec)
}

// UpdateAttendanceStatus sets the status of one record.
func (h *Handler) UpdateAttendanceStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	rec, err := h.repo.UpdateAttendanceStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}

	h.publish(c, realtime.TableAttendance, realtime.EventUpdate, rec)
	c.JSON(http.StatusOK, rec)
}

// DeleteAttendance removes one record.
func (h *Handler) DeleteAttendance(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.repo.DeleteAttendance(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}

	h.publish(c, realtime.TableAttendance, realtime.EventDelete, gin.H{"id": id})
	c.Status(http.StatusNoContent)
}
