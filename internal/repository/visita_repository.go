package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lord-einar/megasys/internal/models"
)

var ErrVisitaNotFound = errors.New("visita not found")

type VisitaRepository struct {
	pool *pgxpool.Pool
}

func NewVisitaRepository(pool *pgxpool.Pool) *VisitaRepository {
	return &VisitaRepository{pool: pool}
}

const visitaColumns = `
	id, sede_id, tecnico_id, fecha, estado, descripcion, aviso_enviado, created_at, updated_at
`

func scanVisita(row pgx.Row) (models.Visita, error) {
	var visita models.Visita
	err := row.Scan(
		&visita.ID,
		&visita.SedeID,
		&visita.TecnicoID,
		&visita.Fecha,
		&visita.Estado,
		&visita.Descripcion,
		&visita.AvisoEnviado,
		&visita.CreatedAt,
		&visita.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Visita{}, ErrVisitaNotFound
		}
		return models.Visita{}, err
	}
	return visita, nil
}

func (r *VisitaRepository) Create(ctx context.Context, visita models.Visita) error {
	const query = `
		INSERT INTO visitas (
			id, sede_id, tecnico_id, fecha, estado, descripcion, aviso_enviado, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		visita.ID, visita.SedeID, visita.TecnicoID, visita.Fecha,
		visita.Estado, visita.Descripcion, visita.AvisoEnviado,
	)
	return err
}

func (r *VisitaRepository) GetByID(ctx context.Context, id string) (models.Visita, error) {
	const query = `SELECT ` + visitaColumns + ` FROM visitas WHERE id = $1`
	return scanVisita(r.pool.QueryRow(ctx, query, id))
}

func (r *VisitaRepository) List(ctx context.Context, sedeID string, limit, offset int) ([]models.Visita, error) {
	const query = `
		SELECT ` + visitaColumns + `
		FROM visitas
		WHERE ($1 = '' OR sede_id = $1)
		ORDER BY fecha DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, sedeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitas []models.Visita
	for rows.Next() {
		visita, err := scanVisita(rows)
		if err != nil {
			return nil, err
		}
		visitas = append(visitas, visita)
	}
	return visitas, rows.Err()
}

// ListUpcoming returns programmed visits inside the window that have not been
// notified yet.
func (r *VisitaRepository) ListUpcoming(ctx context.Context, from, to time.Time) ([]models.Visita, error) {
	const query = `
		SELECT ` + visitaColumns + `
		FROM visitas
		WHERE estado = 'programada'
		  AND aviso_enviado = FALSE
		  AND fecha BETWEEN $1 AND $2
		ORDER BY fecha
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitas []models.Visita
	for rows.Next() {
		visita, err := scanVisita(rows)
		if err != nil {
			return nil, err
		}
		visitas = append(visitas, visita)
	}
	return visitas, rows.Err()
}

func (r *VisitaRepository) Update(ctx context.Context, visita models.Visita) error {
	const query = `
		UPDATE visitas
		SET sede_id = $2, tecnico_id = $3, fecha = $4, estado = $5,
		    descripcion = $6, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		visita.ID, visita.SedeID, visita.TecnicoID, visita.Fecha,
		visita.Estado, visita.Descripcion,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVisitaNotFound
	}
	return nil
}

func (r *VisitaRepository) MarkAvisoEnviado(ctx context.Context, id string) error {
	const query = `UPDATE visitas SET aviso_enviado = TRUE, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVisitaNotFound
	}
	return nil
}

func (r *VisitaRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM visitas WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVisitaNotFound
	}
	return nil
}
