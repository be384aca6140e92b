package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/application/kardex"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/application/sales"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newSaleUC(db *memDB) *sales.CreateSaleUseCase {
	// El motor de kardex participa en la transacción de la venta vía
	// RegisterMovementInTx: su runner propio no se usa en este flujo.
	kardexUC := kardex.NewKardexUseCase(
		nil,
		&movRepo{db: db},
		&lotRepo{db: db},
		&articleRepo{db: db},
		&warehouseRepo{db: db},
		logger.Nop(),
	)
	return sales.NewCreateSaleUseCase(
		&saleRunner{db: db},
		kardexUC,
		&articleRepo{db: db},
		&warehouseRepo{db: db},
		&saleRepo{db: db},
	)
}

func seedSaleDB() *memDB {
	db := newMemDB()
	db.addWarehouse("W1")
	db.addArticle("A1", d("10"), d("15"))
	db.addArticle("A2", d("20"), d("30"))
	db.addArticle("A3", d("5"), d("8"))
	db.addLot("A1", "W1", d("50"))
	db.addLot("A2", "W1", d("50"))
	db.addLot("A3", "W1", d("2"))
	return db
}

func TestCreateSale_RegistraUnMovimientoPorLinea(t *testing.T) {
	db := seedSaleDB()
	uc := newSaleUC(db)

	sale, err := uc.CreateSale(context.Background(), sales.SaleInput{
		WarehouseID: "W1",
		Number:      "V-001",
		CustomerRef: "cliente-42",
		ActorID:     "user-1",
		Items: []sales.SaleItemInput{
			{ArticleID: "A1", Quantity: d("3"), UnitPrice: d("15")},
			{ArticleID: "A2", Quantity: d("2"), UnitPrice: d("30")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, sale)

	assert.Equal(t, "V-001", sale.Number)
	assert.True(t, sale.Total.Equal(d("105")), "total = 3*15 + 2*30")

	require.Len(t, db.movements, 2, "un movimiento SALE por línea")
	for _, m := range db.movements {
		assert.Equal(t, entity.MovementTypeSale, m.Type)
		assert.Equal(t, "VENTA", m.DocumentType)
		assert.Equal(t, "V-001", m.DocumentNumber)
		require.NotNil(t, m.SaleID)
		assert.Equal(t, sale.ID, *m.SaleID, "cada movimiento referencia la venta")
	}

	assert.True(t, db.articles["A1"].Stock.Equal(d("47")))
	assert.True(t, db.articles["A2"].Stock.Equal(d("48")))

	stored, details, err := (&saleRepo{db: db}).GetByID(context.Background(), sale.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, details, 2)
}

func TestCreateSale_LineaSinStock_RevierteTodaLaVenta(t *testing.T) {
	db := seedSaleDB()
	uc := newSaleUC(db)

	// La tercera línea pide 5 de A3 y solo hay 2: las dos primeras líneas ya
	// habían descontado stock dentro de la transacción.
	_, err := uc.CreateSale(context.Background(), sales.SaleInput{
		WarehouseID: "W1",
		ActorID:     "user-1",
		Items: []sales.SaleItemInput{
			{ArticleID: "A1", Quantity: d("3"), UnitPrice: d("15")},
			{ArticleID: "A2", Quantity: d("2"), UnitPrice: d("30")},
			{ArticleID: "A3", Quantity: d("5"), UnitPrice: d("8")},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "A3", insufficient.ArticleID)
	assert.True(t, insufficient.Shortfall().Equal(d("3")))

	// Nada queda a medias: ni movimientos, ni venta, ni stock descontado.
	assert.Empty(t, db.movements)
	assert.Empty(t, db.sales)
	assert.Empty(t, db.details)
	assert.True(t, db.articles["A1"].Stock.Equal(d("50")), "las líneas previas se revierten")
	assert.True(t, db.articles["A2"].Stock.Equal(d("50")))
	assert.True(t, db.lots[0].Balance.Equal(d("50")))
	assert.True(t, db.lots[1].Balance.Equal(d("50")))
}

func TestCreateSale_PrecioCeroUsaPrecioDeLista(t *testing.T) {
	db := seedSaleDB()
	uc := newSaleUC(db)

	sale, err := uc.CreateSale(context.Background(), sales.SaleInput{
		WarehouseID: "W1",
		ActorID:     "user-1",
		Items: []sales.SaleItemInput{
			{ArticleID: "A1", Quantity: d("2")}, // sin precio: toma 15 del artículo
		},
	})
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(d("30")))

	require.Len(t, db.movements, 1)
	require.NotNil(t, db.movements[0].UnitPrice)
	assert.True(t, db.movements[0].UnitPrice.Equal(d("15")))
	assert.True(t, db.movements[0].UnitCost.Equal(d("10")), "el costo del movimiento es el del artículo")
}

func TestCreateSale_Validaciones(t *testing.T) {
	db := seedSaleDB()
	uc := newSaleUC(db)
	ctx := context.Background()

	_, err := uc.CreateSale(ctx, sales.SaleInput{WarehouseID: "W1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "venta sin líneas")

	_, err = uc.CreateSale(ctx, sales.SaleInput{
		WarehouseID: "W1",
		Items:       []sales.SaleItemInput{{ArticleID: "A1", Quantity: d("0")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad no positiva")

	_, err = uc.CreateSale(ctx, sales.SaleInput{
		WarehouseID: "no-existe",
		Items:       []sales.SaleItemInput{{ArticleID: "A1", Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "bodega inexistente")

	_, err = uc.CreateSale(ctx, sales.SaleInput{
		WarehouseID: "W1",
		Items:       []sales.SaleItemInput{{ArticleID: "no-existe", Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "artículo inexistente")

	assert.Empty(t, db.movements)
	assert.Empty(t, db.sales)
}

func TestReturnSale_ReponeStockYReferenciaLaVenta(t *testing.T) {
	db := seedSaleDB()
	uc := newSaleUC(db)
	ctx := context.Background()

	sale, err := uc.CreateSale(ctx, sales.SaleInput{
		WarehouseID: "W1",
		Number:      "V-002",
		ActorID:     "user-1",
		Items: []sales.SaleItemInput{
			{ArticleID: "A1", Quantity: d("4"), UnitPrice: d("15")},
		},
	})
	require.NoError(t, err)
	require.True(t, db.articles["A1"].Stock.Equal(d("46")))

	movements, err := uc.ReturnSale(ctx, sale.ID, "user-2", []sales.ReturnItemInput{
		{ArticleID: "A1", Quantity: d("3")},
	})
	require.NoError(t, err)
	require.Len(t, movements, 1)

	ret := movements[0]
	assert.Equal(t, entity.MovementTypeReturn, ret.Type)
	assert.Equal(t, "DEVOLUCION", ret.DocumentType)
	assert.Equal(t, "V-002", ret.DocumentNumber)
	require.NotNil(t, ret.SaleID)
	assert.Equal(t, sale.ID, *ret.SaleID)
	assert.True(t, ret.QuantityIn.Equal(d("3")))

	assert.True(t, db.articles["A1"].Stock.Equal(d("49")), "la devolución repone el stock")
}

func TestReturnSale_NoExcedeLoVendido(t *testing.T) {
	db := seedSaleDB()
	uc := newSaleUC(db)
	ctx := context.Background()

	sale, err := uc.CreateSale(ctx, sales.SaleInput{
		WarehouseID: "W1",
		ActorID:     "user-1",
		Items: []sales.SaleItemInput{
			{ArticleID: "A1", Quantity: d("2"), UnitPrice: d("15")},
		},
	})
	require.NoError(t, err)

	_, err = uc.ReturnSale(ctx, sale.ID, "user-1", []sales.ReturnItemInput{
		{ArticleID: "A1", Quantity: d("5")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "devolver más de lo vendido")

	_, err = uc.ReturnSale(ctx, sale.ID, "user-1", []sales.ReturnItemInput{
		{ArticleID: "A2", Quantity: d("1")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "artículo que no está en la venta")
}

func TestReturnSale_VentaInexistente(t *testing.T) {
	db := seedSaleDB()
	uc := newSaleUC(db)

	_, err := uc.ReturnSale(context.Background(), "no-existe", "user-1", []sales.ReturnItemInput{
		{ArticleID: "A1", Quantity: d("1")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
