package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDaysUntilDue(t *testing.T) {
	now := date("2026-03-10T12:00:00Z")

	due := date("2026-03-20T12:00:00Z")
	r := Remito{Tipo: RemitoPrestamo, FechaVencimiento: &due}

	days, ok := r.DaysUntilDue(now)
	require.True(t, ok)
	assert.Equal(t, 10, days)

	past := date("2026-03-05T12:00:00Z")
	r.FechaVencimiento = &past
	days, ok = r.DaysUntilDue(now)
	require.True(t, ok)
	assert.Equal(t, -5, days)

	transfer := Remito{Tipo: RemitoTransferencia}
	_, ok = transfer.DaysUntilDue(now)
	assert.False(t, ok)
}

func TestLoanStatusAt(t *testing.T) {
	now := date("2026-03-10T12:00:00Z")

	tests := []struct {
		name   string
		due    string
		estado RemitoEstado
		want   LoanStatus
	}{
		{"far due date is ok", "2026-04-10T12:00:00Z", RemitoEntregado, LoanOK},
		{"inside warning window", "2026-03-15T12:00:00Z", RemitoEntregado, LoanPorVencer},
		{"exactly at boundary warns", "2026-03-17T12:00:00Z", RemitoEntregado, LoanPorVencer},
		{"past due is vencido", "2026-03-01T12:00:00Z", RemitoEntregado, LoanVencido},
		{"returned loans never flag", "2026-03-01T12:00:00Z", RemitoDevuelto, LoanOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := date(tt.due)
			r := Remito{Tipo: RemitoPrestamo, Estado: tt.estado, FechaVencimiento: &due}
			assert.Equal(t, tt.want, r.LoanStatusAt(now))
		})
	}

	t.Run("transfers have no due state", func(t *testing.T) {
		r := Remito{Tipo: RemitoTransferencia, Estado: RemitoEntregado}
		assert.Equal(t, LoanOK, r.LoanStatusAt(now))
	})
}

func TestDisplayDateRoundTrip(t *testing.T) {
	ts := date("2026-03-10T00:00:00Z")
	assert.Equal(t, "10/03/2026", DisplayDate(ts))

	parsed, err := ParseDisplayDate("10/03/2026")
	require.NoError(t, err)
	assert.Equal(t, ts, parsed)

	_, err = ParseDisplayDate("2026-03-10")
	assert.Error(t, err)
}
