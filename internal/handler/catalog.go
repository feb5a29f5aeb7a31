package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"classtrack/internal/model"
	"classtrack/internal/realtime"
)

// ListCourses returns all courses, or one instructor's.
func (h *Handler) ListCourses(c *gin.Context) {
	courses, err := h.repo.ListCourses(c.Request.Context(), c.Query("instructor_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}
	c.JSON(http.StatusOK, courses)
}

type courseRequest struct {
	Code         string `json:"code" binding:"required"`
	Title        string `json:"title" binding:"required"`
	InstructorID string `json:"instructor_id" binding:"required"`
}

// CreateCourse adds a course.
func (h *Handler) CreateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.repo.CreateCourse(c.Request.Context(), model.Course{
		Code:         req.Code,
		Title:        req.Title,
		InstructorID: req.InstructorID,
	})
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, course)
}

// UpdateCourse replaces a course's fields.
func (h *Handler) UpdateCourse(c *gin.Context) {
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.repo.UpdateCourse(c.Request.Context(), c.Param("id"), req.Code, req.Title, req.InstructorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if course == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteCourse removes a course and its sessions.
func (h *Handler) DeleteCourse(c *gin.Context) {
	ok, err := h.repo.DeleteCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	// Sessions cascade away with the course.
	h.publish(c, realtime.TableSessions, realtime.EventDelete, gin.H{"course_id": c.Param("id")})
	c.Status(http.StatusNoContent)
}

// ListSessions returns sessions filtered by date or course.
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.repo.ListSessions(c.Request.Context(), c.Query("date"), c.Query("course_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []model.ClassSession{}
	}
	c.JSON(http.StatusOK, sessions)
}

type sessionRequest struct {
	CourseID string    `json:"course_id" binding:"required"`
	Date     string    `json:"date" binding:"required"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
	Room     string    `json:"room"`
}

// CreateSession schedules a class session.
func (h *Handler) CreateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.repo.CreateSession(c.Request.Context(), model.ClassSession{
		CourseID: req.CourseID,
		Date:     req.Date,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Room:     req.Room,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.publish(c, realtime.TableSessions, realtime.EventInsert, session)
	c.JSON(http.StatusCreated, session)
}

// UpdateSession replaces a session's fields.
func (h *Handler) UpdateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.repo.UpdateSession(c.Request.Context(), c.Param("id"), model.ClassSession{
		CourseID: req.CourseID,
		Date:     req.Date,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Room:     req.Room,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	h.publish(c, realtime.TableSessions, realtime.EventUpdate, session)
	c.JSON(http.StatusOK, session)
}

// DeleteSession removes a session.
func (h *Handler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.repo.DeleteSession(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	h.publish(c, realtime.TableSessions, realtime.EventDelete, gin.H{"id": id})
	c.Status(http.StatusNoContent)
}
