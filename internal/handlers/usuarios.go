package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lord-einar/megasys/internal/models"
	"github.com/lord-einar/megasys/internal/permissions"
	"github.com/lord-einar/megasys/internal/repository"
)

func (h HandlerSet) ListUsuarios(c *gin.Context) {
	limit, offset := pagination(c)

	users, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]userPayload, 0, len(users))
	for _, user := range users {
		items = append(items, h.userPayload(c, user))
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "page": gin.H{"limit": limit, "offset": offset}})
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h HandlerSet) UpdateUsuarioRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := permissions.Role(req.Role)
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_role"})
		return
	}

	if err := h.users.UpdateRole(c.Request.Context(), c.Param("id"), role); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) UpdateUsuarioStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.UserStatus(req.Status)
	if status != models.UserStatusActive && status != models.UserStatusSuspended {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status"})
		return
	}

	if err := h.users.UpdateStatus(c.Request.Context(), c.Param("id"), status); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
