package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lord-einar/megasys/internal/ids"
	"github.com/lord-einar/megasys/internal/models"
	"github.com/lord-einar/megasys/internal/repository"
)

type personalRequest struct {
	SedeID   *string `json:"sedeId"`
	Nombre   string  `json:"nombre" binding:"required"`
	Apellido string  `json:"apellido" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Telefono string  `json:"telefono"`
	Puesto   string  `json:"puesto"`
	Activo   *bool   `json:"activo"`
}

func (h HandlerSet) ListPersonal(c *gin.Context) {
	limit, offset := pagination(c)

	personal, err := h.personal.List(c.Request.Context(), c.Query("sedeId"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": personal, "page": gin.H{"limit": limit, "offset": offset}})
}

func (h HandlerSet) GetPersonal(c *gin.Context) {
	p, err := h.personal.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPersonalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "personal_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h HandlerSet) CreatePersonal(c *gin.Context) {
	var req personalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := models.Personal{
		ID:       ids.New(),
		SedeID:   req.SedeID,
		Nombre:   req.Nombre,
		Apellido: req.Apellido,
		Email:    req.Email,
		Telefono: req.Telefono,
		Puesto:   req.Puesto,
		Activo:   true,
	}
	if req.Activo != nil {
		p.Activo = *req.Activo
	}

	if err := h.personal.Create(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h HandlerSet) UpdatePersonal(c *gin.Context) {
	var req personalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.personal.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPersonalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "personal_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	p.SedeID = req.SedeID
	p.Nombre = req.Nombre
	p.Apellido = req.Apellido
	p.Email = req.Email
	p.Telefono = req.Telefono
	p.Puesto = req.Puesto
	if req.Activo != nil {
		p.Activo = *req.Activo
	}

	if err := h.personal.Update(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h HandlerSet) DeletePersonal(c *gin.Context) {
	if err := h.personal.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrPersonalNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "personal_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
