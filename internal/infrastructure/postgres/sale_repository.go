package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepository)(nil)

// SaleRepository implementación PostgreSQL del repositorio de ventas.
type SaleRepository struct {
	db Querier
}

// NewSaleRepository crea el repositorio atado a un pool o a una transacción.
func NewSaleRepository(db Querier) *SaleRepository {
	return &SaleRepository{db: db}
}

// Create inserta la cabecera de la venta y sus detalles.
func (r *SaleRepository) Create(ctx context.Context, sale *entity.Sale, details []*entity.SaleDetail) error {
	query := `
		INSERT INTO sales (id, warehouse_id, number, customer_ref, date, total, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, now(), $7)`

	_, err := r.db.Exec(ctx, query,
		sale.ID,
		sale.WarehouseID,
		sale.Number,
		sale.CustomerRef,
		sale.Date,
		sale.Total,
		sale.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número de venta %s: %w", sale.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("crear venta: %w", err)
	}

	detailQuery := `
		INSERT INTO sale_details (id, sale_id, article_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, d := range details {
		_, err := r.db.Exec(ctx, detailQuery,
			d.ID,
			d.SaleID,
			d.ArticleID,
			d.Quantity,
			d.UnitPrice,
			d.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("crear detalle de venta: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la venta con sus detalles, o nil, nil si no existe.
func (r *SaleRepository) GetByID(ctx context.Context, id string) (*entity.Sale, []*entity.SaleDetail, error) {
	query := `
		SELECT id, warehouse_id, number, customer_ref, date, total, created_at, created_by
		FROM sales
		WHERE id = $1`

	var s entity.Sale
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.WarehouseID,
		&s.Number,
		&s.CustomerRef,
		&s.Date,
		&s.Total,
		&s.CreatedAt,
		&s.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("obtener venta: %w", err)
	}

	detailQuery := `
		SELECT id, sale_id, article_id, quantity, unit_price, subtotal
		FROM sale_details
		WHERE sale_id = $1
		ORDER BY id`

	rows, err := r.db.Query(ctx, detailQuery, id)
	if err != nil {
		return nil, nil, fmt.Errorf("listar detalles de venta: %w", err)
	}
	defer rows.Close()

	var details []*entity.SaleDetail
	for rows.Next() {
		var d entity.SaleDetail
		if err := rows.Scan(&d.ID, &d.SaleID, &d.ArticleID, &d.Quantity, &d.UnitPrice, &d.Subtotal); err != nil {
			return nil, nil, fmt.Errorf("escanear detalle de venta: %w", err)
		}
		details = append(details, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterar detalles de venta: %w", err)
	}
	return &s, details, nil
}
