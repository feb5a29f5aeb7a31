package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/model"
	"classtrack/internal/realtime"
)

// ListBeacons returns all registered beacons.
func (h *Handler) ListBeacons(c *gin.Context) {
	beacons, err := h.repo.ListBeacons(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if beacons == nil {
		beacons = []model.Beacon{}
	}
	c.JSON(http.StatusOK, beacons)
}

// RegisterBeacon adds a beacon.
func (h *Handler) RegisterBeacon(c *gin.Context) {
	var req struct {
		UUID  string `json:"uuid" binding:"required,uuid"`
		Major int    `json:"major"`
		Minor int    `json:"minor"`
		Label string `json:"label"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.repo.InsertBeacon(c.Request.Context(), model.Beacon{
		UUID:  req.UUID,
		Major: req.Major,
		Minor: req.Minor,
		Label: req.Label,
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	h.publish(c, realtime.TableBeacons, realtime.EventInsert, b)
	c.JSON(http.StatusCreated, b)
}

// DeleteBeacon removes a beacon; its assignments cascade.
func (h *Handler) DeleteBeacon(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.repo.DeleteBeacon(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "beacon not found"})
		return
	}

	h.publish(c, realtime.TableBeacons, realtime.EventDelete, gin.H{"id": id})
	c.Status(http.StatusNoContent)
}

// ListAssignments returns all beacon-course assignments.
func (h *Handler) ListAssignments(c *gin.Context) {
	asgs, err := h.repo.ListAssignments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if asgs == nil {
		asgs = []model.BeaconAssignment{}
	}
	c.JSON(http.StatusOK, asgs)
}

// AssignBeacon binds a beacon to a course.
func (h *Handler) AssignBeacon(c *gin.Context) {
	var req struct {
		BeaconID   string `json:"beacon_id" binding:"required"`
		CourseCode string `json:"course_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asg, err := h.repo.InsertAssignment(c.Request.Context(), req.BeaconID, req.CourseCode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.publish(c, realtime.TableBeacons, realtime.EventUpdate, asg)
	c.JSON(http.StatusCreated, asg)
}

// UnassignBeacon removes one assignment.
func (h *Handler) UnassignBeacon(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.repo.DeleteAssignment(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
		return
	}

	h.publish(c, realtime.TableBeacons, realtime.EventDelete, gin.H{"id": id})
	c.Status(http.StatusNoContent)
}
