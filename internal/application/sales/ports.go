package sales

import (
	"context"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/application/kardex"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/repository"
)

// SaleTxRunner abre una transacción con los repositorios de venta e inventario
// atados a ella. La venta multi-línea exige una sola transacción externa: si
// una línea falla, todas las anteriores se revierten.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		articleRepo repository.ArticleRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// KardexService interfaz para integrar ventas con el motor de kardex.
// RegisterMovementInTx participa en la transacción del caller: nunca abre ni
// cierra la suya, de modo que el Commit/Rollback queda en esta capa.
type KardexService interface {
	RegisterMovementInTx(
		ctx context.Context,
		movRepo repository.MovementRepository,
		lotRepo repository.LotRepository,
		articleRepo repository.ArticleRepository,
		input kardex.MovementInput,
	) (*entity.Movement, error)
}
