package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lord-einar/megasys/internal/ids"
	"github.com/lord-einar/megasys/internal/models"
)

var (
	ErrItemNoDisponible       = errors.New("item no disponible")
	ErrRemitoSinItems         = errors.New("remito requires at least one item")
	ErrPrestamoSinVencimiento = errors.New("prestamo requires a due date")
)

// RemitoStore is the slice of the remito repository the service needs.
type RemitoStore interface {
	Create(ctx context.Context, remito models.Remito) error
	GetByID(ctx context.Context, id string) (models.Remito, error)
	UpdateEstado(ctx context.Context, id string, estado models.RemitoEstado, fechaDevolucion *time.Time) error
}

// ItemStore is the slice of the inventario repository the service needs.
type ItemStore interface {
	GetByID(ctx context.Context, id string) (models.InventarioItem, error)
	UpdateEstado(ctx context.Context, id string, estado models.ItemEstado) error
}

type RemitoService struct {
	remitos    RemitoStore
	inventario ItemStore
	log        zerolog.Logger
}

func NewRemitoService(
	remitos RemitoStore,
	inventario ItemStore,
	log zerolog.Logger,
) *RemitoService {
	return &RemitoService{
		remitos:    remitos,
		inventario: inventario,
		log:        log,
	}
}

type CreateRemitoInput struct {
	Tipo             models.RemitoTipo
	SedeOrigenID     string
	SedeDestinoID    string
	SolicitanteID    *string
	FechaVencimiento *time.Time
	Observacion      string
	ItemIDs          []string
}

// Create registers the remito and flips every referenced item to prestado.
// Every item must be disponible at creation time.
func (s *RemitoService) Create(ctx context.Context, input CreateRemitoInput) (models.Remito, error) {
	if len(input.ItemIDs) == 0 {
		return models.Remito{}, ErrRemitoSinItems
	}
	if input.Tipo == models.RemitoPrestamo && input.FechaVencimiento == nil {
		return models.Remito{}, ErrPrestamoSinVencimiento
	}

	for _, itemID := range input.ItemIDs {
		item, err := s.inventario.GetByID(ctx, itemID)
		if err != nil {
			return models.Remito{}, err
		}
		if item.Estado != models.ItemDisponible {
			return models.Remito{}, fmt.Errorf("%w: %s", ErrItemNoDisponible, itemID)
		}
	}

	now := time.Now()
	remito := models.Remito{
		ID:               ids.New(),
		Numero:           fmt.Sprintf("R-%s", now.Format("20060102-150405")),
		Tipo:             input.Tipo,
		Estado:           models.RemitoPendiente,
		SedeOrigenID:     input.SedeOrigenID,
		SedeDestinoID:    input.SedeDestinoID,
		SolicitanteID:    input.SolicitanteID,
		FechaEmision:     now,
		FechaVencimiento: input.FechaVencimiento,
		Observacion:      input.Observacion,
	}
	for _, itemID := range input.ItemIDs {
		remito.Items = append(remito.Items, models.RemitoItem{
			RemitoID: remito.ID,
			ItemID:   itemID,
			Cantidad: 1,
		})
	}

	if err := s.remitos.Create(ctx, remito); err != nil {
		return models.Remito{}, err
	}

	for _, itemID := range input.ItemIDs {
		if err := s.inventario.UpdateEstado(ctx, itemID, models.ItemPrestado); err != nil {
			s.log.Error().Err(err).Str("item_id", itemID).Str("remito_id", remito.ID).
				Msg("mark item prestado failed")
		}
	}

	return remito, nil
}

// Devolver closes a loan: marks the remito devuelto and releases its items.
func (s *RemitoService) Devolver(ctx context.Context, remitoID string) (models.Remito, error) {
	remito, err := s.remitos.GetByID(ctx, remitoID)
	if err != nil {
		return models.Remito{}, err
	}

	now := time.Now()
	if err := s.remitos.UpdateEstado(ctx, remitoID, models.RemitoDevuelto, &now); err != nil {
		return models.Remito{}, err
	}

	for _, item := range remito.Items {
		if err := s.inventario.UpdateEstado(ctx, item.ItemID, models.ItemDisponible); err != nil {
			s.log.Error().Err(err).Str("item_id", item.ItemID).Str("remito_id", remitoID).
				Msg("release item failed")
		}
	}

	remito.Estado = models.RemitoDevuelto
	remito.FechaDevolucion = &now
	return remito, nil
}
