package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepository)(nil)

// WarehouseRepository implementación PostgreSQL del repositorio de bodegas.
type WarehouseRepository struct {
	db Querier
}

// NewWarehouseRepository crea el repositorio atado a un pool o a una transacción.
func NewWarehouseRepository(db Querier) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

// GetByID devuelve la bodega o nil, nil si no existe.
func (r *WarehouseRepository) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM warehouses
		WHERE id = $1`

	var w entity.Warehouse
	err := r.db.QueryRow(ctx, query, id).Scan(
		&w.ID,
		&w.Name,
		&w.Address,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("obtener bodega: %w", err)
	}
	return &w, nil
}
