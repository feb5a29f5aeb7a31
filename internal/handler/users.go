package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"classtrack/internal/auth"
	"classtrack/internal/model"
	"classtrack/internal/realtime"
)

// ListUsers returns users filtered by role or email.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.repo.ListUsers(c.Request.Context(), c.Query("role"), c.Query("email"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if users == nil {
		users = []model.User{}
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns one user by id.
func (h *Handler) GetUser(c *gin.Context) {
	usr, err := h.repo.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if usr == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, usr)
}

// UpdateUser patches profile fields. Users can only update themselves
// unless they are admins.
func (h *Handler) UpdateUser(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	id := c.Param("id")
	if claims.Subject != id && claims.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot update another user"})
		return
	}

	var req struct {
		Name       *string `json:"name"`
		Department *string `json:"department"`
		Phone      *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	usr, err := h.repo.UpdateUser(c.Request.Context(), id, req.Name, req.Department, req.Phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if usr == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	h.publish(c, realtime.TableUsers, realtime.EventUpdate, usr)
	c.JSON(http.StatusOK, usr)
}

// ChangePassword verifies the current password and stores the new hash.
func (h *Handler) ChangePassword(c *gin.Context) {
	claims, _ := auth.FromContext(c)
	id := c.Param("id")
	if claims.Subject != id {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot change another user's password"})
		return
	}

	var req struct {
		Current string `json:"current_password" binding:"required"`
		New     string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	usr, hash, err := h.repo.Credential(c.Request.Context(), claims.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if usr == nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Current)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "current password incorrect"})
		return
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.New), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
		return
	}
	if err := h.repo.SetPassword(c.Request.Context(), id, string(newHash)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAvatar stores a base64 image and saves its public URL.
func (h *Handler) UploadAvatar(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
		return
	}

	claims, _ := auth.FromContext(c)
	id := c.Param("id")
	if claims.Subject != id && claims.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot update another user"})
		return
	}

	var req struct {
		Data string `json:"data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide {\"data\": \"<base64 data URL>\"}"})
		return
	}

	result, err := h.cloud.Upload(req.Data)
	if err != nil {
		log.Printf("avatar upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
		return
	}
	if err := h.repo.SetUserAvatar(c.Request.Context(), id, result.SecureURL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	usr, _ := h.repo.GetUser(c.Request.Context(), id)
	h.publish(c, realtime.TableUsers, realtime.EventUpdate, usr)
	c.JSON(http.StatusOK, gin.H{"url": result.SecureURL})
}
