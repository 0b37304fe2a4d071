package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lord-einar/megasys/internal/models"
)

type fakeRemitoStore struct {
	created  []models.Remito
	remitos  map[string]models.Remito
	returned map[string]time.Time
}

func newFakeRemitoStore() *fakeRemitoStore {
	return &fakeRemitoStore{
		remitos:  make(map[string]models.Remito),
		returned: make(map[string]time.Time),
	}
}

func (f *fakeRemitoStore) Create(_ context.Context, remito models.Remito) error {
	f.created = append(f.created, remito)
	f.remitos[remito.ID] = remito
	return nil
}

func (f *fakeRemitoStore) GetByID(_ context.Context, id string) (models.Remito, error) {
	remito, ok := f.remitos[id]
	if !ok {
		return models.Remito{}, errors.New("remito not found")
	}
	return remito, nil
}

func (f *fakeRemitoStore) UpdateEstado(_ context.Context, id string, estado models.RemitoEstado, fechaDevolucion *time.Time) error {
	remito := f.remitos[id]
	remito.Estado = estado
	remito.FechaDevolucion = fechaDevolucion
	f.remitos[id] = remito
	if fechaDevolucion != nil {
		f.returned[id] = *fechaDevolucion
	}
	return nil
}

type fakeItemStore struct {
	items  map[string]models.InventarioItem
	states map[string]models.ItemEstado
}

func newFakeItemStore(items ...models.InventarioItem) *fakeItemStore {
	f := &fakeItemStore{
		items:  make(map[string]models.InventarioItem),
		states: make(map[string]models.ItemEstado),
	}
	for _, item := range items {
		f.items[item.ID] = item
	}
	return f
}

func (f *fakeItemStore) GetByID(_ context.Context, id string) (models.InventarioItem, error) {
	return f.items[id], nil
}

func (f *fakeItemStore) UpdateEstado(_ context.Context, id string, estado models.ItemEstado) error {
	f.states[id] = estado
	item := f.items[id]
	item.Estado = estado
	f.items[id] = item
	return nil
}

func disponible(id string) models.InventarioItem {
	return models.InventarioItem{ID: id, Nombre: "notebook", Estado: models.ItemDisponible}
}

func TestCreateRemitoValidation(t *testing.T) {
	due := time.Now().Add(14 * 24 * time.Hour)

	tests := []struct {
		name    string
		input   CreateRemitoInput
		items   []models.InventarioItem
		wantErr error
	}{
		{
			name:    "no items",
			input:   CreateRemitoInput{Tipo: models.RemitoTransferencia},
			wantErr: ErrRemitoSinItems,
		},
		{
			name: "prestamo without due date",
			input: CreateRemitoInput{
				Tipo:    models.RemitoPrestamo,
				ItemIDs: []string{"it-1"},
			},
			items:   []models.InventarioItem{disponible("it-1")},
			wantErr: ErrPrestamoSinVencimiento,
		},
		{
			name: "item already prestado",
			input: CreateRemitoInput{
				Tipo:             models.RemitoPrestamo,
				FechaVencimiento: &due,
				ItemIDs:          []string{"it-1"},
			},
			items: []models.InventarioItem{
				{ID: "it-1", Estado: models.ItemPrestado},
			},
			wantErr: ErrItemNoDisponible,
		},
		{
			name: "item dado de baja",
			input: CreateRemitoInput{
				Tipo:    models.RemitoTransferencia,
				ItemIDs: []string{"it-1"},
			},
			items: []models.InventarioItem{
				{ID: "it-1", Estado: models.ItemBaja},
			},
			wantErr: ErrItemNoDisponible,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			remitos := newFakeRemitoStore()
			svc := NewRemitoService(remitos, newFakeItemStore(tc.items...), zerolog.Nop())

			_, err := svc.Create(context.Background(), tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, remitos.created, "nothing may be stored when validation fails")
		})
	}
}

func TestCreateRemitoMarksItemsPrestado(t *testing.T) {
	due := time.Now().Add(14 * 24 * time.Hour)
	remitos := newFakeRemitoStore()
	items := newFakeItemStore(disponible("it-1"), disponible("it-2"))
	svc := NewRemitoService(remitos, items, zerolog.Nop())

	remito, err := svc.Create(context.Background(), CreateRemitoInput{
		Tipo:             models.RemitoPrestamo,
		SedeOrigenID:     "sede-a",
		SedeDestinoID:    "sede-b",
		FechaVencimiento: &due,
		ItemIDs:          []string{"it-1", "it-2"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, remito.ID)
	assert.Regexp(t, `^R-\d{8}-\d{6}$`, remito.Numero)
	assert.Equal(t, models.RemitoPendiente, remito.Estado)
	require.Len(t, remito.Items, 2)
	assert.Equal(t, remito.ID, remito.Items[0].RemitoID)

	assert.Equal(t, models.ItemPrestado, items.states["it-1"])
	assert.Equal(t, models.ItemPrestado, items.states["it-2"])
	require.Len(t, remitos.created, 1)
}

func TestDevolverReleasesItems(t *testing.T) {
	due := time.Now().Add(24 * time.Hour)
	remitos := newFakeRemitoStore()
	items := newFakeItemStore(disponible("it-1"))
	svc := NewRemitoService(remitos, items, zerolog.Nop())

	created, err := svc.Create(context.Background(), CreateRemitoInput{
		Tipo:             models.RemitoPrestamo,
		FechaVencimiento: &due,
		ItemIDs:          []string{"it-1"},
	})
	require.NoError(t, err)
	require.Equal(t, models.ItemPrestado, items.states["it-1"])

	returned, err := svc.Devolver(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, models.RemitoDevuelto, returned.Estado)
	require.NotNil(t, returned.FechaDevolucion)
	assert.Equal(t, models.ItemDisponible, items.states["it-1"])

	_, recorded := remitos.returned[created.ID]
	assert.True(t, recorded)
}
