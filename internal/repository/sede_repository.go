package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lord-einar/megasys/internal/models"
)

var ErrSedeNotFound = errors.New("sede not found")

type SedeRepository struct {
	pool *pgxpool.Pool
}

func NewSedeRepository(pool *pgxpool.Pool) *SedeRepository {
	return &SedeRepository{pool: pool}
}

const sedeColumns = `
	id, nombre, direccion, ciudad, provincia, telefono, email, activa, created_at, updated_at
`

func scanSede(row pgx.Row) (models.Sede, error) {
	var sede models.Sede
	err := row.Scan(
		&sede.ID,
		&sede.Nombre,
		&sede.Direccion,
		&sede.Ciudad,
		&sede.Provincia,
		&sede.Telefono,
		&sede.Email,
		&sede.Activa,
		&sede.CreatedAt,
		&sede.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Sede{}, ErrSedeNotFound
		}
		return models.Sede{}, err
	}
	return sede, nil
}

func (r *SedeRepository) Create(ctx context.Context, sede models.Sede) error {
	const query = `
		INSERT INTO sedes (
			id, nombre, direccion, ciudad, provincia, telefono, email, activa, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		sede.ID, sede.Nombre, sede.Direccion, sede.Ciudad, sede.Provincia,
		sede.Telefono, sede.Email, sede.Activa,
	)
	return err
}

func (r *SedeRepository) GetByID(ctx context.Context, id string) (models.Sede, error) {
	const query = `SELECT ` + sedeColumns + ` FROM sedes WHERE id = $1`
	return scanSede(r.pool.QueryRow(ctx, query, id))
}

func (r *SedeRepository) List(ctx context.Context, limit, offset int) ([]models.Sede, error) {
	const query = `SELECT ` + sedeColumns + ` FROM sedes ORDER BY nombre LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sedes []models.Sede
	for rows.Next() {
		sede, err := scanSede(rows)
		if err != nil {
			return nil, err
		}
		sedes = append(sedes, sede)
	}
	return sedes, rows.Err()
}

func (r *SedeRepository) Update(ctx context.Context, sede models.Sede) error {
	const query = `
		UPDATE sedes
		SET nombre = $2, direccion = $3, ciudad = $4, provincia = $5,
		    telefono = $6, email = $7, activa = $8, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		sede.ID, sede.Nombre, sede.Direccion, sede.Ciudad, sede.Provincia,
		sede.Telefono, sede.Email, sede.Activa,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSedeNotFound
	}
	return nil
}

func (r *SedeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM sedes WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSedeNotFound
	}
	return nil
}
