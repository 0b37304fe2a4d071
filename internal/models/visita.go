package models

import "time"

type VisitaEstado string

const (
	VisitaProgramada VisitaEstado = "programada"
	VisitaRealizada  VisitaEstado = "realizada"
	VisitaCancelada  VisitaEstado = "cancelada"
)

// Visita is a scheduled maintenance visit to a sede.
type Visita struct {
	ID           string
	SedeID       string
	TecnicoID    *string
	Fecha        time.Time
	Estado       VisitaEstado
	Descripcion  string
	AvisoEnviado bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
