package repository

import (
	"context"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
)

// WarehouseRepository acceso a bodegas (solo lectura para el motor de kardex).
type WarehouseRepository interface {
	// GetByID devuelve la bodega o nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
}
