package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lord-einar/megasys/internal/ids"
	"github.com/lord-einar/megasys/internal/models"
	"github.com/lord-einar/megasys/internal/repository"
)

type sedeRequest struct {
	Nombre    string `json:"nombre" binding:"required"`
	Direccion string `json:"direccion" binding:"required"`
	Ciudad    string `json:"ciudad"`
	Provincia string `json:"provincia"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
	Activa    *bool  `json:"activa"`
}

func (h HandlerSet) ListSedes(c *gin.Context) {
	limit, offset := pagination(c)

	sedes, err := h.sedes.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": sedes, "page": gin.H{"limit": limit, "offset": offset}})
}

func (h HandlerSet) GetSede(c *gin.Context) {
	sede, err := h.sedes.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSedeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "sede_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sede)
}

func (h HandlerSet) CreateSede(c *gin.Context) {
	var req sedeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sede := models.Sede{
		ID:        ids.New(),
		Nombre:    req.Nombre,
		Direccion: req.Direccion,
		Ciudad:    req.Ciudad,
		Provincia: req.Provincia,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Activa:    true,
	}
	if req.Activa != nil {
		sede.Activa = *req.Activa
	}

	if err := h.sedes.Create(c.Request.Context(), sede); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, sede)
}

func (h HandlerSet) UpdateSede(c *gin.Context) {
	var req sedeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sede, err := h.sedes.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrSedeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "sede_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sede.Nombre = req.Nombre
	sede.Direccion = req.Direccion
	sede.Ciudad = req.Ciudad
	sede.Provincia = req.Provincia
	sede.Telefono = req.Telefono
	sede.Email = req.Email
	if req.Activa != nil {
		sede.Activa = *req.Activa
	}

	if err := h.sedes.Update(c.Request.Context(), sede); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sede)
}

func (h HandlerSet) DeleteSede(c *gin.Context) {
	if err := h.sedes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrSedeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "sede_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
