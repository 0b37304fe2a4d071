package models

import "time"

type RemitoTipo string

const (
	RemitoTransferencia RemitoTipo = "transferencia"
	RemitoPrestamo      RemitoTipo = "prestamo"
)

type RemitoEstado string

const (
	RemitoPendiente RemitoEstado = "pendiente"
	RemitoEntregado RemitoEstado = "entregado"
	RemitoDevuelto  RemitoEstado = "devuelto"
)

// LoanStatus is the derived due-date badge state for a loan remito.
type LoanStatus string

const (
	LoanOK        LoanStatus = "ok"
	LoanPorVencer LoanStatus = "por_vencer"
	LoanVencido   LoanStatus = "vencido"
)

// DueWarningWindow is how close to the due date a loan starts flagging.
const DueWarningWindow = 7 * 24 * time.Hour

// DisplayDateFormat is the dd/MM/yyyy form shown in the UI; the API itself
// speaks RFC 3339.
const DisplayDateFormat = "02/01/2006"

// Remito is a delivery/transfer note moving equipment between sedes.
type Remito struct {
	ID               string
	Numero           string
	Tipo             RemitoTipo
	Estado           RemitoEstado
	SedeOrigenID     string
	SedeDestinoID    string
	SolicitanteID    *string
	FechaEmision     time.Time
	FechaVencimiento *time.Time
	FechaDevolucion  *time.Time
	Observacion      string
	Items            []RemitoItem
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type RemitoItem struct {
	RemitoID string
	ItemID   string
	Cantidad int
}

// DaysUntilDue returns whole days until the loan due date relative to now,
// negative when overdue. The second return is false for remitos without a due
// date (plain transfers).
func (r Remito) DaysUntilDue(now time.Time) (int, bool) {
	if r.FechaVencimiento == nil {
		return 0, false
	}
	days := int(r.FechaVencimiento.Sub(now).Hours() / 24)
	return days, true
}

// LoanStatusAt derives the due badge for the remito. Returned/devuelto remitos
// and plain transfers are always LoanOK.
func (r Remito) LoanStatusAt(now time.Time) LoanStatus {
	if r.Estado == RemitoDevuelto || r.FechaVencimiento == nil {
		return LoanOK
	}
	due := *r.FechaVencimiento
	switch {
	case now.After(due):
		return LoanVencido
	case due.Sub(now) <= DueWarningWindow:
		return LoanPorVencer
	default:
		return LoanOK
	}
}

// DisplayDate renders a backend timestamp in the dd/MM/yyyy form used by the
// front end.
func DisplayDate(t time.Time) string {
	return t.Format(DisplayDateFormat)
}

// ParseDisplayDate parses dd/MM/yyyy input back into a time.
func ParseDisplayDate(s string) (time.Time, error) {
	return time.Parse(DisplayDateFormat, s)
}
