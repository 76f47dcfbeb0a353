package properties

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/propman/internal/common"
	"github.com/dmitrijs2005/propman/internal/dbx"
	"github.com/dmitrijs2005/propman/internal/server/models"
)

const selectColumns = `id, owner_id, title, type, address, city, lat, lng, notes, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	query :=
		`INSERT INTO properties (id, owner_id, title, type, address, city, lat, lng, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.OwnerID, p.Title, p.Type, p.Address, p.City, p.Lat, p.Lng, p.Notes).Scan(&p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM properties
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]models.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (*models.Property, error) {
	query :=
		`SELECT ` + selectColumns + ` FROM properties
		 WHERE id = $1 AND owner_id = $2`

	p, err := scanProperty(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Property) (*models.Property, error) {
	query :=
		`UPDATE properties
		 SET title = $3, type = $4, address = $5, city = $6, lat = $7, lng = $8, notes = $9
		 WHERE id = $1 AND owner_id = $2
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.ID, p.OwnerID, p.Title, p.Type, p.Address, p.City, p.Lat, p.Lng, p.Notes).Scan(&p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM properties WHERE id = $1 AND owner_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProperty(s scanner) (*models.Property, error) {
	p := &models.Property{}
	var lat, lng sql.NullFloat64
	err := s.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Type, &p.Address, &p.City, &lat, &lng, &p.Notes, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if lat.Valid {
		p.Lat = &lat.Float64
	}
	if lng.Valid {
		p.Lng = &lng.Float64
	}
	return p, nil
}
