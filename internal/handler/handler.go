// Package handler wires the REST API over the repository and publishes a
// change event after every committed mutation.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
	"classtrack/internal/cloudinary"
	"classtrack/internal/config"
	"classtrack/internal/model"
	"classtrack/internal/realtime"
	"classtrack/internal/repo"
	"classtrack/internal/store"
)

// Handler carries the API dependencies.
type Handler struct {
	cfg   config.App
	repo  *repo.Repository
	pub   *realtime.Publisher
	hub   *realtime.Hub
	redis *store.Redis
	cloud *cloudinary.Client // nil when not configured
}

// New creates the handler set.
func New(cfg config.App, r *repo.Repository, pub *realtime.Publisher, hub *realtime.Hub, rds *store.Redis, cloud *cloudinary.Client) *Handler {
	return &Handler{cfg: cfg, repo: r, pub: pub, hub: hub, redis: rds, cloud: cloud}
}

// Register mounts every route on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/healthz", h.Healthz)
	r.GET("/ws", h.hub.HandleWS)

	r.POST("/v1/auth/login", h.Login)
	r.POST("/v1/auth/refresh", h.Refresh)

	v1 := r.Group("/v1", auth.RequireAuth(h.cfg.JWTSigningKey, h.cfg.JWTIssuer))

	v1.GET("/users", h.ListUsers)
	v1.GET("/users/:id", h.GetUser)
	v1.PATCH("/users/:id", h.UpdateUser)
	v1.POST("/users/:id/password", h.ChangePassword)
	v1.POST("/users/:id/avatar", h.UploadAvatar)

	v1.GET("/attendance", h.ListAttendance)
	v1.GET("/attendance/:id", h.GetAttendance)
	v1.POST("/attendance", h.MarkAttendance)
	v1.PATCH("/attendance/:id", h.UpdateAttendanceStatus)
	v1.DELETE("/attendance/:id", h.DeleteAttendance)

	v1.GET("/courses", h.ListCourses)
	v1.POST("/courses", auth.RequireRole(model.RoleLecturer, model.RoleAdmin), h.CreateCourse)
	v1.PUT("/courses/:id", auth.RequireRole(model.RoleLecturer, model.RoleAdmin), h.UpdateCourse)
	v1.DELETE("/courses/:id", auth.RequireRole(model.RoleAdmin), h.DeleteCourse)

	v1.GET("/sessions", h.ListSessions)
	v1.POST("/sessions", auth.RequireRole(model.RoleLecturer, model.RoleAdmin), h.CreateSession)
	v1.PUT("/sessions/:id", auth.RequireRole(model.RoleLecturer, model.RoleAdmin), h.UpdateSession)
	v1.DELETE("/sessions/:id", auth.RequireRole(model.RoleLecturer, model.RoleAdmin), h.DeleteSession)

	v1.GET("/beacons", h.ListBeacons)
	v1.POST("/beacons", auth.RequireRole(model.RoleAdmin), h.RegisterBeacon)
	v1.DELETE("/beacons/:id", auth.RequireRole(model.RoleAdmin), h.DeleteBeacon)
	v1.GET("/beacon-assignments", h.ListAssignments)
	v1.POST("/beacon-assignments", auth.RequireRole(model.RoleAdmin), h.AssignBeacon)
	v1.DELETE("/beacon-assignments/:id", auth.RequireRole(model.RoleAdmin), h.UnassignBeacon)

	v1.GET("/dashboard/summary", h.DashboardSummary)
}

// Healthz reports db and redis health.
func (h *Handler) Healthz(c *gin.Context) {
	dbHealthy := h.repo.Ping(c.Request.Context()) == nil
	redisHealthy := h.redis.Healthy(c.Request.Context())
	status := http.StatusOK
	text := "ok"
	if !dbHealthy || !redisHealthy {
		status = http.StatusServiceUnavailable
		text = "degraded"
	}
	c.JSON(status, gin.H{"status": text, "db": dbHealthy, "redis": redisHealthy, "ws_clients": h.hub.Len()})
}

// DashboardSummary returns the aggregate figures.
func (h *Handler) DashboardSummary(c *gin.Context) {
	s, err := h.repo.DashboardSummary(c.Request.Context(), c.Query("instructor_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

// publish announces a committed row change.
func (h *Handler) publish(c *gin.Context, table, eventType string, row any) {
	evt := realtime.Event{Table: table, Type: eventType}
	if row != nil {
		if raw, err := json.Marshal(row); err == nil {
			evt.Row = raw
		}
	}
	h.pub.Publish(c.Request.Context(), evt)
}
