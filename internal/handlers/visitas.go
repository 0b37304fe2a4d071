package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lord-einar/megasys/internal/ids"
	"github.com/lord-einar/megasys/internal/models"
	"github.com/lord-einar/megasys/internal/repository"
)

type visitaRequest struct {
	SedeID      string  `json:"sedeId" binding:"required"`
	TecnicoID   *string `json:"tecnicoId"`
	Fecha       string  `json:"fecha" binding:"required"`
	Estado      string  `json:"estado"`
	Descripcion string  `json:"descripcion"`
}

func validVisitaEstado(s string) (models.VisitaEstado, bool) {
	switch models.VisitaEstado(s) {
	case models.VisitaProgramada, models.VisitaRealizada, models.VisitaCancelada:
		return models.VisitaEstado(s), true
	}
	return "", false
}

func (h HandlerSet) ListVisitas(c *gin.Context) {
	limit, offset := pagination(c)

	visitas, err := h.visitas.List(c.Request.Context(), c.Query("sedeId"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": visitas, "page": gin.H{"limit": limit, "offset": offset}})
}

func (h HandlerSet) GetVisita(c *gin.Context) {
	visita, err := h.visitas.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrVisitaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "visita_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, visita)
}

func (h HandlerSet) CreateVisita(c *gin.Context) {
	var req visitaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fecha, err := time.Parse(time.RFC3339, req.Fecha)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_fecha"})
		return
	}

	visita := models.Visita{
		ID:          ids.New(),
		SedeID:      req.SedeID,
		TecnicoID:   req.TecnicoID,
		Fecha:       fecha,
		Estado:      models.VisitaProgramada,
		Descripcion: req.Descripcion,
	}

	if err := h.visitas.Create(c.Request.Context(), visita); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, visita)
}

func (h HandlerSet) UpdateVisita(c *gin.Context) {
	var req visitaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visita, err := h.visitas.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrVisitaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "visita_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fecha, err := time.Parse(time.RFC3339, req.Fecha)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_fecha"})
		return
	}

	visita.SedeID = req.SedeID
	visita.TecnicoID = req.TecnicoID
	visita.Fecha = fecha
	visita.Descripcion = req.Descripcion
	if req.Estado != "" {
		estado, ok := validVisitaEstado(req.Estado)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_estado"})
			return
		}
		visita.Estado = estado
	}

	if err := h.visitas.Update(c.Request.Context(), visita); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, visita)
}

func (h HandlerSet) DeleteVisita(c *gin.Context) {
	if err := h.visitas.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrVisitaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "visita_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// EnviarAvisoVisita queues the visit notice and marks the visita as notified.
func (h HandlerSet) EnviarAvisoVisita(c *gin.Context) {
	visita, err := h.visitas.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrVisitaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "visita_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.avisos.VisitaAviso(c.Request.Context(), visita.ID, visita.SedeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue_aviso_failed"})
		return
	}

	if err := h.visitas.MarkAvisoEnviado(c.Request.Context(), visita.ID); err != nil {
		h.log.Error().Err(err).Str("visita_id", visita.ID).Msg("mark aviso enviado failed")
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "aviso_enqueued"})
}
