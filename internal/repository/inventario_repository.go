package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lord-einar/megasys/internal/models"
)

var ErrItemNotFound = errors.New("inventario item not found")

type InventarioRepository struct {
	pool *pgxpool.Pool
}

func NewInventarioRepository(pool *pgxpool.Pool) *InventarioRepository {
	return &InventarioRepository{pool: pool}
}

const itemColumns = `
	id, sede_id, nombre, marca, modelo, numero_serie, estado, observacion, created_at, updated_at
`

func scanItem(row pgx.Row) (models.InventarioItem, error) {
	var item models.InventarioItem
	err := row.Scan(
		&item.ID,
		&item.SedeID,
		&item.Nombre,
		&item.Marca,
		&item.Modelo,
		&item.NumeroSerie,
		&item.Estado,
		&item.Observacion,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.InventarioItem{}, ErrItemNotFound
		}
		return models.InventarioItem{}, err
	}
	return item, nil
}

func (r *InventarioRepository) Create(ctx context.Context, item models.InventarioItem) error {
	const query = `
		INSERT INTO inventario (
			id, sede_id, nombre, marca, modelo, numero_serie, estado, observacion, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		item.ID, item.SedeID, item.Nombre, item.Marca, item.Modelo,
		item.NumeroSerie, item.Estado, item.Observacion,
	)
	return err
}

func (r *InventarioRepository) GetByID(ctx context.Context, id string) (models.InventarioItem, error) {
	const query = `SELECT ` + itemColumns + ` FROM inventario WHERE id = $1`
	return scanItem(r.pool.QueryRow(ctx, query, id))
}

func (r *InventarioRepository) List(ctx context.Context, sedeID string, limit, offset int) ([]models.InventarioItem, error) {
	const query = `
		SELECT ` + itemColumns + `
		FROM inventario
		WHERE ($1 = '' OR sede_id = $1)
		ORDER BY nombre
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, sedeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.InventarioItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *InventarioRepository) Update(ctx context.Context, item models.InventarioItem) error {
	const query = `
		UPDATE inventario
		SET sede_id = $2, nombre = $3, marca = $4, modelo = $5,
		    numero_serie = $6, estado = $7, observacion = $8, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		item.ID, item.SedeID, item.Nombre, item.Marca, item.Modelo,
		item.NumeroSerie, item.Estado, item.Observacion,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *InventarioRepository) UpdateEstado(ctx context.Context, id string, estado models.ItemEstado) error {
	const query = `UPDATE inventario SET estado = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, estado)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *InventarioRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM inventario WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}
