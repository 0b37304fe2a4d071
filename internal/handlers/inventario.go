package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lord-einar/megasys/internal/ids"
	"github.com/lord-einar/megasys/internal/models"
	"github.com/lord-einar/megasys/internal/repository"
)

type inventarioRequest struct {
	SedeID      string `json:"sedeId" binding:"required"`
	Nombre      string `json:"nombre" binding:"required"`
	Marca       string `json:"marca"`
	Modelo      string `json:"modelo"`
	NumeroSerie string `json:"numeroSerie"`
	Estado      string `json:"estado"`
	Observacion string `json:"observacion"`
}

func validItemEstado(s string) (models.ItemEstado, bool) {
	switch models.ItemEstado(s) {
	case models.ItemDisponible, models.ItemPrestado, models.ItemBaja:
		return models.ItemEstado(s), true
	}
	return "", false
}

func (h HandlerSet) ListInventario(c *gin.Context) {
	limit, offset := pagination(c)

	items, err := h.inventario.List(c.Request.Context(), c.Query("sedeId"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "page": gin.H{"limit": limit, "offset": offset}})
}

func (h HandlerSet) GetInventarioItem(c *gin.Context) {
	item, err := h.inventario.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h HandlerSet) CreateInventarioItem(c *gin.Context) {
	var req inventarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	estado := models.ItemDisponible
	if req.Estado != "" {
		var ok bool
		if estado, ok = validItemEstado(req.Estado); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_estado"})
			return
		}
	}

	item := models.InventarioItem{
		ID:          ids.New(),
		SedeID:      req.SedeID,
		Nombre:      req.Nombre,
		Marca:       req.Marca,
		Modelo:      req.Modelo,
		NumeroSerie: req.NumeroSerie,
		Estado:      estado,
		Observacion: req.Observacion,
	}

	if err := h.inventario.Create(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h HandlerSet) UpdateInventarioItem(c *gin.Context) {
	var req inventarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.inventario.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	item.SedeID = req.SedeID
	item.Nombre = req.Nombre
	item.Marca = req.Marca
	item.Modelo = req.Modelo
	item.NumeroSerie = req.NumeroSerie
	item.Observacion = req.Observacion
	if req.Estado != "" {
		estado, ok := validItemEstado(req.Estado)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_estado"})
			return
		}
		item.Estado = estado
	}

	if err := h.inventario.Update(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h HandlerSet) DeleteInventarioItem(c *gin.Context) {
	if err := h.inventario.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
