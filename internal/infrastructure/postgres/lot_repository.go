package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepository)(nil)

// LotRepository implementación PostgreSQL del repositorio de lotes.
type LotRepository struct {
	db Querier
}

// NewLotRepository crea el repositorio atado a un pool o a una transacción.
func NewLotRepository(db Querier) *LotRepository {
	return &LotRepository{db: db}
}

const lotColumns = `id, article_id, warehouse_id, expiration_date, quantity, balance, created_at, updated_at`

// ListForUpdate devuelve los lotes del par en orden FIFO bloqueando las filas.
// El orden es el de agotamiento: vence primero, nulos al final, id como desempate.
func (r *LotRepository) ListForUpdate(ctx context.Context, articleID, warehouseID string) ([]entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE article_id = $1 AND warehouse_id = $2
		ORDER BY expiration_date ASC NULLS LAST, id ASC
		FOR UPDATE`

	rows, err := r.db.Query(ctx, query, articleID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("listar lotes for update: %w", err)
	}
	defer rows.Close()

	return scanLots(rows)
}

// List devuelve los lotes del par sin bloquear.
func (r *LotRepository) List(ctx context.Context, articleID, warehouseID string) ([]entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE article_id = $1 AND warehouse_id = $2
		ORDER BY expiration_date ASC NULLS LAST, id ASC`

	rows, err := r.db.Query(ctx, query, articleID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("listar lotes: %w", err)
	}
	defer rows.Close()

	return scanLots(rows)
}

// SumBalance devuelve SUM(balance) del par (artículo, bodega).
func (r *LotRepository) SumBalance(ctx context.Context, articleID, warehouseID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(balance), 0)
		FROM lots
		WHERE article_id = $1 AND warehouse_id = $2`

	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, articleID, warehouseID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sumar saldo del par: %w", err)
	}
	return sum, nil
}

// SumBalanceByArticle devuelve SUM(balance) del artículo en todas las bodegas.
func (r *LotRepository) SumBalanceByArticle(ctx context.Context, articleID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(balance), 0)
		FROM lots
		WHERE article_id = $1`

	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, articleID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sumar saldo del artículo: %w", err)
	}
	return sum, nil
}

// Create inserta un lote nuevo y asigna su ID.
func (r *LotRepository) Create(ctx context.Context, lot *entity.Lot) error {
	query := `
		INSERT INTO lots (article_id, warehouse_id, expiration_date, quantity, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		lot.ArticleID,
		lot.WarehouseID,
		lot.ExpirationDate,
		lot.Quantity,
		lot.Balance,
	).Scan(&lot.ID, &lot.CreatedAt, &lot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("crear lote: %w", err)
	}
	return nil
}

// ApplyDelta aplica delta a quantity y balance con la guarda balance + δ >= 0
// en el mismo UPDATE. Cero filas afectadas significa que la guarda falló
// (o el lote desapareció): el llamador debe abortar la transacción.
func (r *LotRepository) ApplyDelta(ctx context.Context, lotID int64, delta decimal.Decimal) error {
	query := `
		UPDATE lots
		SET quantity = quantity + $2,
		    balance = balance + $2,
		    updated_at = now()
		WHERE id = $1 AND balance + $2 >= 0`

	tag, err := r.db.Exec(ctx, query, lotID, delta)
	if err != nil {
		return fmt.Errorf("aplicar delta al lote %d: %w", lotID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIntegrity
	}
	return nil
}

func scanLots(rows pgx.Rows) ([]entity.Lot, error) {
	var lots []entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(
			&l.ID,
			&l.ArticleID,
			&l.WarehouseID,
			&l.ExpirationDate,
			&l.Quantity,
			&l.Balance,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("escanear lote: %w", err)
		}
		lots = append(lots, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar lotes: %w", err)
	}
	return lots, nil
}
