package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepository)(nil)

// ArticleRepository implementación PostgreSQL del repositorio de artículos.
type ArticleRepository struct {
	db Querier
}

// NewArticleRepository crea el repositorio atado a un pool o a una transacción.
func NewArticleRepository(db Querier) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// GetByID devuelve el artículo o nil, nil si no existe.
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	query := `
		SELECT id, code, name, description, unit_measure, stock, cost, price, created_at, updated_at
		FROM articles
		WHERE id = $1`

	var a entity.Article
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.Code,
		&a.Name,
		&a.Description,
		&a.UnitMeasure,
		&a.Stock,
		&a.Cost,
		&a.Price,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("obtener artículo: %w", err)
	}
	return &a, nil
}

// IncrementStock suma delta al contador agregado del artículo.
// Siempre UPDATE atómico en SQL, nunca read-modify-write en la aplicación.
func (r *ArticleRepository) IncrementStock(ctx context.Context, id string, delta decimal.Decimal) error {
	query := `
		UPDATE articles
		SET stock = stock + $2,
		    updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("incrementar stock del artículo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("incrementar stock: artículo %s no existe", id)
	}
	return nil
}
