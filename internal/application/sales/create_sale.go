package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/application/kardex"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/repository"
)

// CreateSaleUseCase crea una venta y descuenta el inventario en una sola
// transacción: un movimiento SALE por línea, todos referenciando la venta.
type CreateSaleUseCase struct {
	txRunner      SaleTxRunner
	kardexUC      KardexService
	articleRepo   repository.ArticleRepository
	warehouseRepo repository.WarehouseRepository
	saleRepo      repository.SaleRepository
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner SaleTxRunner,
	kardexUC KardexService,
	articleRepo repository.ArticleRepository,
	warehouseRepo repository.WarehouseRepository,
	saleRepo repository.SaleRepository,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:      txRunner,
		kardexUC:      kardexUC,
		articleRepo:   articleRepo,
		warehouseRepo: warehouseRepo,
		saleRepo:      saleRepo,
	}
}

// SaleItemInput línea de venta.
type SaleItemInput struct {
	ArticleID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// SaleInput entrada para crear una venta.
type SaleInput struct {
	WarehouseID string
	Number      string
	CustomerRef string
	Items       []SaleItemInput
	ActorID     string
}

// CreateSale valida la venta, y dentro de UNA transacción registra un
// movimiento de kardex por línea (vía RegisterMovementInTx) y persiste
// cabecera y detalles. Si cualquier línea falla (ej. stock insuficiente en la
// línea 3 de 5), el rollback deshace los movimientos y mutaciones de las
// líneas ya procesadas: nada queda a medias.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, input SaleInput) (*entity.Sale, error) {
	if input.WarehouseID == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}

	// Validar artículos y precios fuera de la tx (solo lectura).
	articlesByID := make(map[string]*entity.Article, len(input.Items))
	for i := range input.Items {
		item := &input.Items[i]
		if item.ArticleID == "" || !item.Quantity.IsPositive() || item.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		article, err := uc.articleRepo.GetByID(ctx, item.ArticleID)
		if err != nil {
			return nil, err
		}
		if article == nil {
			return nil, domain.ErrNotFound
		}
		if item.UnitPrice.IsZero() {
			item.UnitPrice = article.Price
		}
		articlesByID[item.ArticleID] = article
	}

	now := time.Now()
	saleID := uuid.New().String()
	number := input.Number
	if number == "" {
		number = fmt.Sprintf("V-%d", now.Unix())
	}

	var sale *entity.Sale
	err = uc.txRunner.RunSale(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		articleRepo repository.ArticleRepository,
		saleRepo repository.SaleRepository,
	) error {
		var total decimal.Decimal
		details := make([]*entity.SaleDetail, 0, len(input.Items))
		for _, item := range input.Items {
			article := articlesByID[item.ArticleID]
			price := item.UnitPrice
			if _, err := uc.kardexUC.RegisterMovementInTx(ctx, movRepo, lotRepo, articleRepo, kardex.MovementInput{
				ArticleID:      item.ArticleID,
				WarehouseID:    input.WarehouseID,
				Type:           entity.MovementTypeSale,
				Date:           now,
				QuantityOut:    item.Quantity,
				UnitCost:       article.Cost,
				UnitPrice:      &price,
				DocumentType:   "VENTA",
				DocumentNumber: number,
				ActorID:        input.ActorID,
				SaleID:         &saleID,
			}); err != nil {
				return err
			}
			subtotal := item.Quantity.Mul(item.UnitPrice)
			total = total.Add(subtotal)
			details = append(details, &entity.SaleDetail{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ArticleID: item.ArticleID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Subtotal:  subtotal,
			})
		}
		sale = &entity.Sale{
			ID:          saleID,
			WarehouseID: input.WarehouseID,
			Number:      number,
			CustomerRef: input.CustomerRef,
			Date:        now,
			Total:       total,
			CreatedAt:   now,
			CreatedBy:   input.ActorID,
		}
		return saleRepo.Create(ctx, sale, details)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// ReturnItemInput línea a devolver.
type ReturnItemInput struct {
	ArticleID string
	Quantity  decimal.Decimal
}

// ReturnSale registra la devolución (total o parcial) de una venta: un
// movimiento RETURN por línea devuelta, referenciando la venta original,
// dentro de una sola transacción.
func (uc *CreateSaleUseCase) ReturnSale(ctx context.Context, saleID, actorID string, items []ReturnItemInput) ([]*entity.Movement, error) {
	if saleID == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	sale, details, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}

	// Solo se devuelven artículos presentes en la venta, sin exceder lo vendido.
	soldByArticle := make(map[string]decimal.Decimal, len(details))
	for _, d := range details {
		soldByArticle[d.ArticleID] = soldByArticle[d.ArticleID].Add(d.Quantity)
	}
	for _, item := range items {
		if item.ArticleID == "" || !item.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		sold, ok := soldByArticle[item.ArticleID]
		if !ok || item.Quantity.GreaterThan(sold) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	var movements []*entity.Movement
	err = uc.txRunner.RunSale(ctx, func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		articleRepo repository.ArticleRepository,
		_ repository.SaleRepository,
	) error {
		for _, item := range items {
			article, err := uc.articleRepo.GetByID(ctx, item.ArticleID)
			if err != nil {
				return err
			}
			if article == nil {
				return domain.ErrNotFound
			}
			mov, err := uc.kardexUC.RegisterMovementInTx(ctx, movRepo, lotRepo, articleRepo, kardex.MovementInput{
				ArticleID:      item.ArticleID,
				WarehouseID:    sale.WarehouseID,
				Type:           entity.MovementTypeReturn,
				Date:           now,
				QuantityIn:     item.Quantity,
				UnitCost:       article.Cost,
				DocumentType:   "DEVOLUCION",
				DocumentNumber: sale.Number,
				ActorID:        actorID,
				SaleID:         &sale.ID,
			})
			if err != nil {
				return err
			}
			movements = append(movements, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}
