package kardex

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/kardex"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/repository"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/pkg/logger"
)

// KardexUseCase es el orquestador del libro de kardex: valida el movimiento,
// calcula el saldo nuevo desde los lotes (fuente de verdad), muta lotes y
// contador agregado, y agrega la entrada inmutable al libro, todo como una
// unidad atómica con bloqueo de fila (SELECT FOR UPDATE).
type KardexUseCase struct {
	txRunner      TxRunner
	movRepo       repository.MovementRepository
	lotRepo       repository.LotRepository
	articleRepo   repository.ArticleRepository
	warehouseRepo repository.WarehouseRepository
	log           *logger.Logger
}

// NewKardexUseCase construye el caso de uso. movRepo y lotRepo van atados al
// pool (lecturas fuera de transacción); las escrituras usan txRunner.
func NewKardexUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
	articleRepo repository.ArticleRepository,
	warehouseRepo repository.WarehouseRepository,
	log *logger.Logger,
) *KardexUseCase {
	return &KardexUseCase{
		txRunner:      txRunner,
		movRepo:       movRepo,
		lotRepo:       lotRepo,
		articleRepo:   articleRepo,
		warehouseRepo: warehouseRepo,
		log:           log,
	}
}

// MovementInput entrada para registrar un movimiento de kardex.
// Exactamente una de QuantityIn/QuantityOut debe ser positiva.
// UnitCost es obligatorio (>= 0); UnitPrice opcional (>= 0).
// ExpirationDate solo aplica a entradas que crean un lote nuevo.
type MovementInput struct {
	ArticleID      string
	WarehouseID    string
	Type           string
	Date           time.Time
	QuantityIn     decimal.Decimal
	QuantityOut    decimal.Decimal
	UnitCost       decimal.Decimal
	UnitPrice      *decimal.Decimal
	DocumentType   string
	DocumentNumber string
	Notes          string
	ActorID        string
	ExpirationDate *time.Time
	SaleID         *string
	PurchaseID     *string
	TransferID     *string
}

// entrada/salida según las cantidades ya validadas.
func (in MovementInput) isEntry() bool { return in.QuantityIn.IsPositive() }

// validate verifica el contrato de entrada sin mutar nada.
func (in MovementInput) validate() error {
	if in.ArticleID == "" || in.WarehouseID == "" {
		return domain.ErrInvalidInput
	}
	if !entity.ValidMovementType(in.Type) {
		return domain.ErrInvalidInput
	}
	if in.QuantityIn.IsNegative() || in.QuantityOut.IsNegative() {
		return domain.ErrInvalidInput
	}
	// Exactamente una cantidad positiva: ambas o ninguna es error de entrada.
	if in.QuantityIn.IsPositive() == in.QuantityOut.IsPositive() {
		return domain.ErrInvalidInput
	}
	if in.UnitCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return domain.ErrInvalidInput
	}
	// La dirección debe corresponder al tipo de movimiento.
	switch in.Type {
	case entity.MovementTypePurchase, entity.MovementTypeTransferIn, entity.MovementTypeReturn:
		if !in.QuantityIn.IsPositive() {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeSale, entity.MovementTypeTransferOut:
		if !in.QuantityOut.IsPositive() {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// RegisterMovement valida el movimiento, verifica que artículo y bodega
// existan, y lo registra dentro de una transacción propia (Commit/Rollback a
// cargo del TxRunner). Devuelve el movimiento persistido con nombres unidos.
func (uc *KardexUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.Movement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, input.ArticleID, input.WarehouseID); err != nil {
		return nil, err
	}

	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		articleRepo repository.ArticleRepository,
	) error {
		m, err := uc.recordInTx(ctx, movRepo, lotRepo, articleRepo, input)
		if err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Releer con JOIN para la respuesta (fuera de la tx, ya commiteado).
	if full, err := uc.movRepo.GetByID(ctx, mov.ID); err == nil && full != nil {
		return full, nil
	}
	return mov, nil
}

// RegisterMovementInTx registra un movimiento usando los repositorios del
// caller (misma transacción). No abre ni cierra transacción alguna: participa
// en la del caller, que decide Commit o Rollback. Es el punto de integración
// para ventas, compras y traslados multi-línea.
func (uc *KardexUseCase) RegisterMovementInTx(
	ctx context.Context,
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
	articleRepo repository.ArticleRepository,
	input MovementInput,
) (*entity.Movement, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return uc.recordInTx(ctx, movRepo, lotRepo, articleRepo, input)
}

// recordInTx ejecuta el algoritmo del kardex sobre repositorios ya atados a
// una transacción:
//  1. lee los lotes del par con bloqueo de fila y suma su saldo (fuente de
//     verdad: los lotes, no el libro),
//  2. rechaza la salida que dejaría el saldo negativo,
//  3. entrada: acumula en el lote más antiguo (o crea uno); salida: depleta
//     en orden FIFO con decrementos atómicos,
//  4. incremento atómico del contador agregado del artículo,
//  5. agrega la entrada del libro con el saldo resultante.
func (uc *KardexUseCase) recordInTx(
	ctx context.Context,
	movRepo repository.MovementRepository,
	lotRepo repository.LotRepository,
	articleRepo repository.ArticleRepository,
	input MovementInput,
) (*entity.Movement, error) {
	now := time.Now()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	lots, err := lotRepo.ListForUpdate(ctx, input.ArticleID, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	current := kardex.SumBalances(lots)
	delta := input.QuantityIn.Sub(input.QuantityOut)
	newBalance := current.Add(delta)

	if newBalance.IsNegative() {
		return nil, &domain.InsufficientStockError{
			ArticleID:   input.ArticleID,
			WarehouseID: input.WarehouseID,
			Available:   current,
			Requested:   input.QuantityOut,
		}
	}

	if input.isEntry() {
		if err := uc.applyEntry(ctx, lotRepo, lots, input); err != nil {
			return nil, err
		}
	} else {
		if err := uc.applyExit(ctx, lotRepo, lots, input, current); err != nil {
			return nil, err
		}
	}

	if err := articleRepo.IncrementStock(ctx, input.ArticleID, delta); err != nil {
		return nil, err
	}

	grossQty := input.QuantityIn.Add(input.QuantityOut)
	mov := &entity.Movement{
		Date:           date,
		Type:           input.Type,
		DocumentType:   input.DocumentType,
		DocumentNumber: input.DocumentNumber,
		ArticleID:      input.ArticleID,
		WarehouseID:    input.WarehouseID,
		QuantityIn:     input.QuantityIn,
		QuantityOut:    input.QuantityOut,
		RunningBalance: newBalance,
		UnitCost:       input.UnitCost,
		TotalCost:      grossQty.Mul(input.UnitCost),
		Notes:          input.Notes,
		ActorID:        input.ActorID,
		SaleID:         input.SaleID,
		PurchaseID:     input.PurchaseID,
		TransferID:     input.TransferID,
		CreatedAt:      now,
	}
	if input.UnitPrice != nil {
		price := *input.UnitPrice
		total := grossQty.Mul(price)
		mov.UnitPrice = &price
		mov.TotalPrice = &total
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// applyEntry acumula la entrada en el lote de creación más antigua, o crea el
// lote si el par no tiene ninguno (primer ingreso del triple artículo-bodega-
// vencimiento).
func (uc *KardexUseCase) applyEntry(
	ctx context.Context,
	lotRepo repository.LotRepository,
	lots []entity.Lot,
	input MovementInput,
) error {
	oldest := kardex.OldestLot(lots)
	if oldest == nil {
		lot := &entity.Lot{
			ArticleID:      input.ArticleID,
			WarehouseID:    input.WarehouseID,
			ExpirationDate: input.ExpirationDate,
			Quantity:       input.QuantityIn,
			Balance:        input.QuantityIn,
		}
		return lotRepo.Create(ctx, lot)
	}
	return lotRepo.ApplyDelta(ctx, oldest.ID, input.QuantityIn)
}

// applyExit depleta los lotes en orden FIFO. Si el recorrido no cubre la
// salida ya aprobada, o una guarda atómica falla, es una actualización perdida:
// se registra con severidad error y se aborta con IntegrityError.
func (uc *KardexUseCase) applyExit(
	ctx context.Context,
	lotRepo repository.LotRepository,
	lots []entity.Lot,
	input MovementInput,
	current decimal.Decimal,
) error {
	plan := kardex.PlanFIFO(lots, input.QuantityOut)
	if !plan.Covered() {
		return uc.integrityFailure(input, current, plan.Remaining)
	}
	for _, d := range plan.Deductions {
		if err := lotRepo.ApplyDelta(ctx, d.LotID, d.Quantity.Neg()); err != nil {
			if errors.Is(err, domain.ErrIntegrity) {
				return uc.integrityFailure(input, current, d.Quantity)
			}
			return err
		}
	}
	return nil
}

func (uc *KardexUseCase) integrityFailure(input MovementInput, current, remaining decimal.Decimal) error {
	ierr := &domain.IntegrityError{
		ArticleID:   input.ArticleID,
		WarehouseID: input.WarehouseID,
		Requested:   input.QuantityOut,
		Remaining:   remaining,
	}
	uc.log.Error().
		Str("article_id", input.ArticleID).
		Str("warehouse_id", input.WarehouseID).
		Str("tipo", input.Type).
		Str("saldo_leido", current.String()).
		Str("solicitado", input.QuantityOut.String()).
		Str("faltante", remaining.String()).
		Msg("recorrido FIFO no cubrió la salida aprobada: actualización concurrente perdida")
	return ierr
}

// checkRefs valida que artículo y bodega existan.
func (uc *KardexUseCase) checkRefs(ctx context.Context, articleID, warehouseID string) error {
	article, err := uc.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return domain.ErrNotFound
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if warehouse == nil {
		return domain.ErrNotFound
	}
	return nil
}

// Balance devuelve el saldo actual del par como SUM(balance) de sus lotes.
// La fuente de verdad del "ahora" son los lotes, no el replay del libro.
func (uc *KardexUseCase) Balance(ctx context.Context, articleID, warehouseID string) (decimal.Decimal, error) {
	if articleID == "" || warehouseID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return uc.lotRepo.SumBalance(ctx, articleID, warehouseID)
}

// TransferInput entrada para un traslado entre bodegas.
type TransferInput struct {
	ArticleID       string
	FromWarehouseID string
	ToWarehouseID   string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	Date            time.Time
	Notes           string
	ActorID         string
}

// Transfer ejecuta un traslado como dos movimientos (TRANSFER_OUT en origen,
// TRANSFER_IN en destino) dentro de una sola transacción, compartiendo el
// mismo id de traslado. Si el origen no tiene saldo, ninguna pata se aplica.
func (uc *KardexUseCase) Transfer(ctx context.Context, input TransferInput) (*entity.Movement, *entity.Movement, error) {
	if input.ArticleID == "" || input.FromWarehouseID == "" || input.ToWarehouseID == "" {
		return nil, nil, domain.ErrInvalidInput
	}
	if input.FromWarehouseID == input.ToWarehouseID || !input.Quantity.IsPositive() {
		return nil, nil, domain.ErrInvalidInput
	}
	if input.UnitCost.IsNegative() {
		return nil, nil, domain.ErrInvalidInput
	}
	if err := uc.checkRefs(ctx, input.ArticleID, input.FromWarehouseID); err != nil {
		return nil, nil, err
	}
	if err := uc.checkRefs(ctx, input.ArticleID, input.ToWarehouseID); err != nil {
		return nil, nil, err
	}

	transferID := uuid.New().String()
	var outMov, inMov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		articleRepo repository.ArticleRepository,
	) error {
		// Primero la salida en origen: si no hay saldo se aborta sin tocar destino.
		out, err := uc.recordInTx(ctx, movRepo, lotRepo, articleRepo, MovementInput{
			ArticleID:   input.ArticleID,
			WarehouseID: input.FromWarehouseID,
			Type:        entity.MovementTypeTransferOut,
			Date:        input.Date,
			QuantityOut: input.Quantity,
			UnitCost:    input.UnitCost,
			Notes:       input.Notes,
			ActorID:     input.ActorID,
			TransferID:  &transferID,
		})
		if err != nil {
			return err
		}
		in, err := uc.recordInTx(ctx, movRepo, lotRepo, articleRepo, MovementInput{
			ArticleID:   input.ArticleID,
			WarehouseID: input.ToWarehouseID,
			Type:        entity.MovementTypeTransferIn,
			Date:        input.Date,
			QuantityIn:  input.Quantity,
			UnitCost:    input.UnitCost,
			Notes:       input.Notes,
			ActorID:     input.ActorID,
			TransferID:  &transferID,
		})
		if err != nil {
			return err
		}
		outMov, inMov = out, in
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return outMov, inMov, nil
}

// History devuelve el kardex del par en orden cronológico (date, id).
func (uc *KardexUseCase) History(ctx context.Context, articleID, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	if articleID == "" || warehouseID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 50
	}
	return uc.movRepo.ListByPair(ctx, articleID, warehouseID, limit, offset)
}
