package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
)

// ArticleRepository acceso a artículos. El CRUD completo vive en otro servicio;
// el motor de kardex solo necesita leer y ajustar el contador agregado.
type ArticleRepository interface {
	// GetByID devuelve el artículo o nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Article, error)

	// IncrementStock suma delta al contador agregado con un UPDATE atómico
	// (stock = stock + δ), nunca read-modify-write en la aplicación.
	IncrementStock(ctx context.Context, id string, delta decimal.Decimal) error
}
