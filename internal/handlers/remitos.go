package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lord-einar/megasys/internal/models"
	"github.com/lord-einar/megasys/internal/repository"
	"github.com/lord-einar/megasys/internal/service"
)

type remitoRequest struct {
	Tipo             string   `json:"tipo" binding:"required"`
	SedeOrigenID     string   `json:"sedeOrigenId" binding:"required"`
	SedeDestinoID    string   `json:"sedeDestinoId" binding:"required"`
	SolicitanteID    *string  `json:"solicitanteId"`
	FechaVencimiento *string  `json:"fechaVencimiento"`
	Observacion      string   `json:"observacion"`
	ItemIDs          []string `json:"itemIds" binding:"required"`
}

// remitoResponse augments the stored remito with the derived loan-tracking
// fields the front end renders as badges.
type remitoResponse struct {
	models.Remito
	DiasHastaVencimiento *int              `json:"diasHastaVencimiento,omitempty"`
	EstadoPrestamo       models.LoanStatus `json:"estadoPrestamo"`
	FechaEmisionDisplay  string            `json:"fechaEmisionDisplay"`
}

func newRemitoResponse(remito models.Remito, now time.Time) remitoResponse {
	resp := remitoResponse{
		Remito:              remito,
		EstadoPrestamo:      remito.LoanStatusAt(now),
		FechaEmisionDisplay: models.DisplayDate(remito.FechaEmision),
	}
	if days, ok := remito.DaysUntilDue(now); ok {
		resp.DiasHastaVencimiento = &days
	}
	return resp
}

func (h HandlerSet) ListRemitos(c *gin.Context) {
	limit, offset := pagination(c)

	remitos, err := h.remitos.List(c.Request.Context(), c.Query("sedeId"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	items := make([]remitoResponse, 0, len(remitos))
	for _, remito := range remitos {
		items = append(items, newRemitoResponse(remito, now))
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "page": gin.H{"limit": limit, "offset": offset}})
}

func (h HandlerSet) GetRemito(c *gin.Context) {
	remito, err := h.remitos.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRemitoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "remito_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newRemitoResponse(remito, time.Now()))
}

func (h HandlerSet) CreateRemito(c *gin.Context) {
	var req remitoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tipo := models.RemitoTipo(req.Tipo)
	if tipo != models.RemitoTransferencia && tipo != models.RemitoPrestamo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_tipo"})
		return
	}

	var vencimiento *time.Time
	if req.FechaVencimiento != nil {
		// Accepts both the API's RFC 3339 form and the dd/MM/yyyy display form.
		parsed, err := time.Parse(time.RFC3339, *req.FechaVencimiento)
		if err != nil {
			parsed, err = models.ParseDisplayDate(*req.FechaVencimiento)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_fecha_vencimiento"})
			return
		}
		vencimiento = &parsed
	}

	remito, err := h.remitoService.Create(c.Request.Context(), service.CreateRemitoInput{
		Tipo:             tipo,
		SedeOrigenID:     req.SedeOrigenID,
		SedeDestinoID:    req.SedeDestinoID,
		SolicitanteID:    req.SolicitanteID,
		FechaVencimiento: vencimiento,
		Observacion:      req.Observacion,
		ItemIDs:          req.ItemIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRemitoSinItems),
			errors.Is(err, service.ErrPrestamoSinVencimiento),
			errors.Is(err, service.ErrItemNoDisponible):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, newRemitoResponse(remito, time.Now()))
}

func (h HandlerSet) DevolverRemito(c *gin.Context) {
	remito, err := h.remitoService.Devolver(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRemitoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "remito_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newRemitoResponse(remito, time.Now()))
}
