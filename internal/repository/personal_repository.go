package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lord-einar/megasys/internal/models"
)

var ErrPersonalNotFound = errors.New("personal not found")

type PersonalRepository struct {
	pool *pgxpool.Pool
}

func NewPersonalRepository(pool *pgxpool.Pool) *PersonalRepository {
	return &PersonalRepository{pool: pool}
}

const personalColumns = `
	id, sede_id, nombre, apellido, email, telefono, puesto, activo, created_at, updated_at
`

func scanPersonal(row pgx.Row) (models.Personal, error) {
	var p models.Personal
	err := row.Scan(
		&p.ID,
		&p.SedeID,
		&p.Nombre,
		&p.Apellido,
		&p.Email,
		&p.Telefono,
		&p.Puesto,
		&p.Activo,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Personal{}, ErrPersonalNotFound
		}
		return models.Personal{}, err
	}
	return p, nil
}

func (r *PersonalRepository) Create(ctx context.Context, p models.Personal) error {
	const query = `
		INSERT INTO personal (
			id, sede_id, nombre, apellido, email, telefono, puesto, activo, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.SedeID, p.Nombre, p.Apellido, p.Email, p.Telefono, p.Puesto, p.Activo,
	)
	return err
}

func (r *PersonalRepository) GetByID(ctx context.Context, id string) (models.Personal, error) {
	const query = `SELECT ` + personalColumns + ` FROM personal WHERE id = $1`
	return scanPersonal(r.pool.QueryRow(ctx, query, id))
}

func (r *PersonalRepository) List(ctx context.Context, sedeID string, limit, offset int) ([]models.Personal, error) {
	const query = `
		SELECT ` + personalColumns + `
		FROM personal
		WHERE ($1 = '' OR sede_id = $1)
		ORDER BY apellido, nombre
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, sedeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var personal []models.Personal
	for rows.Next() {
		p, err := scanPersonal(rows)
		if err != nil {
			return nil, err
		}
		personal = append(personal, p)
	}
	return personal, rows.Err()
}

func (r *PersonalRepository) Update(ctx context.Context, p models.Personal) error {
	const query = `
		UPDATE personal
		SET sede_id = $2, nombre = $3, apellido = $4, email = $5,
		    telefono = $6, puesto = $7, activo = $8, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		p.ID, p.SedeID, p.Nombre, p.Apellido, p.Email, p.Telefono, p.Puesto, p.Activo,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPersonalNotFound
	}
	return nil
}

func (r *PersonalRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM personal WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPersonalNotFound
	}
	return nil
}
