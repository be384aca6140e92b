package repository

import (
	"context"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
)

// SaleRepository persistencia de ventas (flujo llamador del kardex).
type SaleRepository interface {
	// Create inserta la cabecera y sus detalles.
	Create(ctx context.Context, sale *entity.Sale, details []*entity.SaleDetail) error

	// GetByID devuelve la venta con sus detalles, o nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, []*entity.SaleDetail, error)
}
