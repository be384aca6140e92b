package sales_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/entity"
	kardexdom "github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/kardex"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/domain/repository"
)

// memDB estado en memoria de inventario y ventas. El saleRunner toma una foto
// antes del callback y la restaura si falla, emulando el rollback de la
// transacción externa de la venta.
type memDB struct {
	articles   map[string]*entity.Article
	warehouses map[string]*entity.Warehouse
	lots       []entity.Lot
	movements  []*entity.Movement
	sales      map[string]*entity.Sale
	details    []*entity.SaleDetail
	nextLotID  int64
	nextMovID  int64
}

func newMemDB() *memDB {
	return &memDB{
		articles:   make(map[string]*entity.Article),
		warehouses: make(map[string]*entity.Warehouse),
		sales:      make(map[string]*entity.Sale),
		nextLotID:  1,
		nextMovID:  1,
	}
}

func (db *memDB) clone() *memDB {
	c := newMemDB()
	c.nextLotID, c.nextMovID = db.nextLotID, db.nextMovID
	for id, a := range db.articles {
		cp := *a
		c.articles[id] = &cp
	}
	for id, w := range db.warehouses {
		cp := *w
		c.warehouses[id] = &cp
	}
	c.lots = append([]entity.Lot(nil), db.lots...)
	for _, m := range db.movements {
		cp := *m
		c.movements = append(c.movements, &cp)
	}
	for id, s := range db.sales {
		cp := *s
		c.sales[id] = &cp
	}
	for _, d := range db.details {
		cp := *d
		c.details = append(c.details, &cp)
	}
	return c
}

func (db *memDB) addArticle(id string, cost, price decimal.Decimal) {
	db.articles[id] = &entity.Article{ID: id, Code: id, Name: "art-" + id, Cost: cost, Price: price}
}

func (db *memDB) addWarehouse(id string) {
	db.warehouses[id] = &entity.Warehouse{ID: id, Name: "bodega-" + id}
}

func (db *memDB) addLot(articleID, warehouseID string, balance decimal.Decimal) {
	db.lots = append(db.lots, entity.Lot{
		ID: db.nextLotID, ArticleID: articleID, WarehouseID: warehouseID,
		Quantity: balance, Balance: balance,
	})
	db.nextLotID++
	db.articles[articleID].Stock = db.articles[articleID].Stock.Add(balance)
}

type lotRepo struct{ db *memDB }

func (r *lotRepo) pair(articleID, warehouseID string) []entity.Lot {
	var lots []entity.Lot
	for _, l := range r.db.lots {
		if l.ArticleID == articleID && l.WarehouseID == warehouseID {
			lots = append(lots, l)
		}
	}
	kardexdom.SortFIFO(lots)
	return lots
}

func (r *lotRepo) ListForUpdate(_ context.Context, articleID, warehouseID string) ([]entity.Lot, error) {
	return r.pair(articleID, warehouseID), nil
}

func (r *lotRepo) List(_ context.Context, articleID, warehouseID string) ([]entity.Lot, error) {
	return r.pair(articleID, warehouseID), nil
}

func (r *lotRepo) SumBalance(_ context.Context, articleID, warehouseID string) (decimal.Decimal, error) {
	return kardexdom.SumBalances(r.pair(articleID, warehouseID)), nil
}

func (r *lotRepo) SumBalanceByArticle(_ context.Context, articleID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, l := range r.db.lots {
		if l.ArticleID == articleID {
			sum = sum.Add(l.Balance)
		}
	}
	return sum, nil
}

func (r *lotRepo) Create(_ context.Context, lot *entity.Lot) error {
	lot.ID = r.db.nextLotID
	r.db.nextLotID++
	r.db.lots = append(r.db.lots, *lot)
	return nil
}

func (r *lotRepo) ApplyDelta(_ context.Context, lotID int64, delta decimal.Decimal) error {
	for i := range r.db.lots {
		if r.db.lots[i].ID != lotID {
			continue
		}
		if r.db.lots[i].Balance.Add(delta).IsNegative() {
			return domain.ErrIntegrity
		}
		r.db.lots[i].Quantity = r.db.lots[i].Quantity.Add(delta)
		r.db.lots[i].Balance = r.db.lots[i].Balance.Add(delta)
		return nil
	}
	return domain.ErrIntegrity
}

type movRepo struct{ db *memDB }

func (r *movRepo) Create(_ context.Context, m *entity.Movement) error {
	m.ID = r.db.nextMovID
	r.db.nextMovID++
	cp := *m
	r.db.movements = append(r.db.movements, &cp)
	return nil
}

func (r *movRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	for _, m := range r.db.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movRepo) ListByPair(_ context.Context, articleID, warehouseID string, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.db.movements {
		if m.ArticleID == articleID && m.WarehouseID == warehouseID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *movRepo) ListForReplay(ctx context.Context, articleID, warehouseID string) ([]*entity.Movement, error) {
	return r.ListByPair(ctx, articleID, warehouseID, 0, 0)
}

func (r *movRepo) UpdateRunningBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	for _, m := range r.db.movements {
		if m.ID == id {
			m.RunningBalance = balance
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *movRepo) SumDeltaBefore(_ context.Context, articleID, warehouseID string, before time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.db.movements {
		if m.ArticleID != articleID || !m.Date.Before(before) {
			continue
		}
		if warehouseID != "" && m.WarehouseID != warehouseID {
			continue
		}
		sum = sum.Add(m.Delta())
	}
	return sum, nil
}

func (r *movRepo) Totals(_ context.Context, filter repository.ReportFilter) (repository.ReportTotals, error) {
	var t repository.ReportTotals
	for _, m := range r.db.movements {
		if m.ArticleID != filter.ArticleID {
			continue
		}
		t.QuantityIn = t.QuantityIn.Add(m.QuantityIn)
		t.QuantityOut = t.QuantityOut.Add(m.QuantityOut)
	}
	return t, nil
}

type articleRepo struct{ db *memDB }

func (r *articleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	a, ok := r.db.articles[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *articleRepo) IncrementStock(_ context.Context, id string, delta decimal.Decimal) error {
	a, ok := r.db.articles[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Stock = a.Stock.Add(delta)
	return nil
}

type warehouseRepo struct{ db *memDB }

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.db.warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

type saleRepo struct{ db *memDB }

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale, details []*entity.SaleDetail) error {
	cp := *sale
	r.db.sales[sale.ID] = &cp
	for _, d := range details {
		dc := *d
		r.db.details = append(r.db.details, &dc)
	}
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, []*entity.SaleDetail, error) {
	s, ok := r.db.sales[id]
	if !ok {
		return nil, nil, nil
	}
	cp := *s
	var details []*entity.SaleDetail
	for _, d := range r.db.details {
		if d.SaleID == id {
			dc := *d
			details = append(details, &dc)
		}
	}
	return &cp, details, nil
}

// saleRunner emula la transacción externa de la venta con foto y restauración.
type saleRunner struct{ db *memDB }

func (r *saleRunner) RunSale(_ context.Context, fn func(
	repository.MovementRepository,
	repository.LotRepository,
	repository.ArticleRepository,
	repository.SaleRepository,
) error) error {
	snapshot := r.db.clone()
	err := fn(&movRepo{db: r.db}, &lotRepo{db: r.db}, &articleRepo{db: r.db}, &saleRepo{db: r.db})
	if err != nil {
		*r.db = *snapshot
	}
	return err
}
