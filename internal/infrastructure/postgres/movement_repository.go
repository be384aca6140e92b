package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepository)(nil)

// MovementRepository implementación PostgreSQL del libro de movimientos.
// El libro es append-only: el único UPDATE permitido es UpdateRunningBalance,
// que usa exclusivamente la recomputación de saldos.
type MovementRepository struct {
	db Querier
}

// NewMovementRepository crea el repositorio atado a un pool o a una transacción.
func NewMovementRepository(db Querier) *MovementRepository {
	return &MovementRepository{db: db}
}

const movementColumns = `
	m.id, m.date, m.type, m.document_type, m.document_number,
	m.article_id, m.warehouse_id,
	m.quantity_in, m.quantity_out, m.running_balance,
	m.unit_cost, m.total_cost, m.unit_price, m.total_price,
	m.notes, m.actor_id, m.sale_id, m.purchase_id, m.transfer_id,
	m.created_at`

// Create persiste un movimiento y asigna su ID (bigserial, monotónico).
func (r *MovementRepository) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (
			date, type, document_type, document_number,
			article_id, warehouse_id,
			quantity_in, quantity_out, running_balance,
			unit_cost, total_cost, unit_price, total_price,
			notes, actor_id, sale_id, purchase_id, transfer_id,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, now()
		)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		m.Date,
		m.Type,
		m.DocumentType,
		m.DocumentNumber,
		m.ArticleID,
		m.WarehouseID,
		m.QuantityIn,
		m.QuantityOut,
		m.RunningBalance,
		m.UnitCost,
		m.TotalCost,
		m.UnitPrice,
		m.TotalPrice,
		m.Notes,
		m.ActorID,
		m.SaleID,
		m.PurchaseID,
		m.TransferID,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("crear movimiento: %w", err)
	}
	return nil
}

// GetByID devuelve el movimiento con nombres de artículo y bodega.
func (r *MovementRepository) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `, a.name, w.name
		FROM movements m
		JOIN articles a ON a.id = m.article_id
		JOIN warehouses w ON w.id = m.warehouse_id
		WHERE m.id = $1`

	m, err := scanMovement(r.db.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("obtener movimiento: %w", err)
	}
	return m, nil
}

// ListByPair devuelve el kardex del par ordenado por (date, id) ascendente.
func (r *MovementRepository) ListByPair(ctx context.Context, articleID, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `, a.name, w.name
		FROM movements m
		JOIN articles a ON a.id = m.article_id
		JOIN warehouses w ON w.id = m.warehouse_id
		WHERE m.article_id = $1 AND m.warehouse_id = $2
		ORDER BY m.date ASC, m.id ASC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.Query(ctx, query, articleID, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar kardex del par: %w", err)
	}
	defer rows.Close()

	return scanMovements(rows, true)
}

// ListForReplay devuelve todos los movimientos del par en orden cronológico
// bloqueando las filas. Solo para la recomputación, dentro de una transacción.
func (r *MovementRepository) ListForReplay(ctx context.Context, articleID, warehouseID string) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements m
		WHERE m.article_id = $1 AND m.warehouse_id = $2
		ORDER BY m.date ASC, m.id ASC
		FOR UPDATE`

	rows, err := r.db.Query(ctx, query, articleID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos para replay: %w", err)
	}
	defer rows.Close()

	return scanMovements(rows, false)
}

// UpdateRunningBalance reescribe el saldo foto de un movimiento (recomputación).
func (r *MovementRepository) UpdateRunningBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	query := `UPDATE movements SET running_balance = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, balance)
	if err != nil {
		return fmt.Errorf("actualizar running_balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("actualizar running_balance: movimiento %d no existe", id)
	}
	return nil
}

// SumDeltaBefore suma quantity_in - quantity_out de los movimientos anteriores
// a la fecha. warehouseID vacío agrega todas las bodegas.
func (r *MovementRepository) SumDeltaBefore(ctx context.Context, articleID, warehouseID string, before time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity_in - quantity_out), 0)
		FROM movements
		WHERE article_id = $1 AND date < $2`
	args := []any{articleID, before}

	if warehouseID != "" {
		query += ` AND warehouse_id = $3`
		args = append(args, warehouseID)
	}

	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sumar delta de apertura: %w", err)
	}
	return sum, nil
}

// Totals calcula cantidades y montos de entradas y salidas según el filtro.
func (r *MovementRepository) Totals(ctx context.Context, filter repository.ReportFilter) (repository.ReportTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(quantity_in), 0),
			COALESCE(SUM(quantity_out), 0),
			COALESCE(SUM(CASE WHEN quantity_in > 0 THEN total_cost ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN quantity_out > 0 THEN total_cost ELSE 0 END), 0)
		FROM movements
		WHERE article_id = $1`
	args := []any{filter.ArticleID}
	pos := 2

	if filter.WarehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, filter.WarehouseID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}

	var t repository.ReportTotals
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&t.QuantityIn,
		&t.QuantityOut,
		&t.CostIn,
		&t.CostOut,
	)
	if err != nil {
		return repository.ReportTotals{}, fmt.Errorf("calcular totales del reporte: %w", err)
	}
	return t, nil
}

func scanMovement(row pgx.Row, withNames bool) (*entity.Movement, error) {
	var m entity.Movement
	dest := []any{
		&m.ID, &m.Date, &m.Type, &m.DocumentType, &m.DocumentNumber,
		&m.ArticleID, &m.WarehouseID,
		&m.QuantityIn, &m.QuantityOut, &m.RunningBalance,
		&m.UnitCost, &m.TotalCost, &m.UnitPrice, &m.TotalPrice,
		&m.Notes, &m.ActorID, &m.SaleID, &m.PurchaseID, &m.TransferID,
		&m.CreatedAt,
	}
	if withNames {
		dest = append(dest, &m.ArticleName, &m.WarehouseName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMovements(rows pgx.Rows, withNames bool) ([]*entity.Movement, error) {
	var movements []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows, withNames)
		if err != nil {
			return nil, fmt.Errorf("escanear movimiento: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar movimientos: %w", err)
	}
	return movements, nil
}
