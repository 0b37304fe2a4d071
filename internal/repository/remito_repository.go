package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lord-einar/megasys/internal/models"
)

var ErrRemitoNotFound = errors.New("remito not found")

type RemitoRepository struct {
	pool *pgxpool.Pool
}

func NewRemitoRepository(pool *pgxpool.Pool) *RemitoRepository {
	return &RemitoRepository{pool: pool}
}

const remitoColumns = `
	id, numero, tipo, estado, sede_origen_id, sede_destino_id, solicitante_id,
	fecha_emision, fecha_vencimiento, fecha_devolucion, observacion, created_at, updated_at
`

func scanRemito(row pgx.Row) (models.Remito, error) {
	var remito models.Remito
	err := row.Scan(
		&remito.ID,
		&remito.Numero,
		&remito.Tipo,
		&remito.Estado,
		&remito.SedeOrigenID,
		&remito.SedeDestinoID,
		&remito.SolicitanteID,
		&remito.FechaEmision,
		&remito.FechaVencimiento,
		&remito.FechaDevolucion,
		&remito.Observacion,
		&remito.CreatedAt,
		&remito.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Remito{}, ErrRemitoNotFound
		}
		return models.Remito{}, err
	}
	return remito, nil
}

// Create stores the remito and its item lines in one transaction.
func (r *RemitoRepository) Create(ctx context.Context, remito models.Remito) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO remitos (
			id, numero, tipo, estado, sede_origen_id, sede_destino_id, solicitante_id,
			fecha_emision, fecha_vencimiento, fecha_devolucion, observacion, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()
		)
	`
	if _, err := tx.Exec(ctx, query,
		remito.ID, remito.Numero, remito.Tipo, remito.Estado,
		remito.SedeOrigenID, remito.SedeDestinoID, remito.SolicitanteID,
		remito.FechaEmision, remito.FechaVencimiento, remito.FechaDevolucion,
		remito.Observacion,
	); err != nil {
		return err
	}

	const itemQuery = `
		INSERT INTO remito_items (remito_id, item_id, cantidad) VALUES ($1, $2, $3)
	`
	for _, item := range remito.Items {
		if _, err := tx.Exec(ctx, itemQuery, remito.ID, item.ItemID, item.Cantidad); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *RemitoRepository) GetByID(ctx context.Context, id string) (models.Remito, error) {
	const query = `SELECT ` + remitoColumns + ` FROM remitos WHERE id = $1`
	remito, err := scanRemito(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.Remito{}, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return models.Remito{}, err
	}
	remito.Items = items
	return remito, nil
}

func (r *RemitoRepository) listItems(ctx context.Context, remitoID string) ([]models.RemitoItem, error) {
	const query = `SELECT remito_id, item_id, cantidad FROM remito_items WHERE remito_id = $1`

	rows, err := r.pool.Query(ctx, query, remitoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.RemitoItem
	for rows.Next() {
		var item models.RemitoItem
		if err := rows.Scan(&item.RemitoID, &item.ItemID, &item.Cantidad); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *RemitoRepository) List(ctx context.Context, sedeID string, limit, offset int) ([]models.Remito, error) {
	const query = `
		SELECT ` + remitoColumns + `
		FROM remitos
		WHERE ($1 = '' OR sede_origen_id = $1 OR sede_destino_id = $1)
		ORDER BY fecha_emision DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, sedeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var remitos []models.Remito
	for rows.Next() {
		remito, err := scanRemito(rows)
		if err != nil {
			return nil, err
		}
		remitos = append(remitos, remito)
	}
	return remitos, rows.Err()
}

// ListDueLoans returns undelivered-back loan remitos whose due date falls
// before the horizon, for the reminder job.
func (r *RemitoRepository) ListDueLoans(ctx context.Context, horizon time.Time) ([]models.Remito, error) {
	const query = `
		SELECT ` + remitoColumns + `
		FROM remitos
		WHERE tipo = 'prestamo'
		  AND estado <> 'devuelto'
		  AND fecha_vencimiento IS NOT NULL
		  AND fecha_vencimiento <= $1
		ORDER BY fecha_vencimiento
	`
	rows, err := r.pool.Query(ctx, query, horizon)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var remitos []models.Remito
	for rows.Next() {
		remito, err := scanRemito(rows)
		if err != nil {
			return nil, err
		}
		remitos = append(remitos, remito)
	}
	return remitos, rows.Err()
}

func (r *RemitoRepository) UpdateEstado(ctx context.Context, id string, estado models.RemitoEstado, fechaDevolucion *time.Time) error {
	const query = `
		UPDATE remitos
		SET estado = $2, fecha_devolucion = $3, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, estado, fechaDevolucion)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRemitoNotFound
	}
	return nil
}
