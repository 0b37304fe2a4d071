package models

import "time"

type ItemEstado string

const (
	ItemDisponible ItemEstado = "disponible"
	ItemPrestado   ItemEstado = "prestado"
	ItemBaja       ItemEstado = "baja"
)

// InventarioItem is a tracked piece of equipment assigned to a sede.
type InventarioItem struct {
	ID           string
	SedeID       string
	Nombre       string
	Marca        string
	Modelo       string
	NumeroSerie  string
	Estado       ItemEstado
	Observacion  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
