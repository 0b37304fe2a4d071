package models

import "time"

// Sede is a physical site managed by the business.
type Sede struct {
	ID        string
	Nombre    string
	Direccion string
	Ciudad    string
	Provincia string
	Telefono  string
	Email     string
	Activa    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Personal is a staff record, optionally attached to a sede.
type Personal struct {
	ID        string
	SedeID    *string
	Nombre    string
	Apellido  string
	Email     string
	Telefono  string
	Puesto    string
	Activo    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
