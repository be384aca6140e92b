package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta.
type SaleItemRequest struct {
	ArticleID string          `json:"article_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"` // 0 = usar precio de lista del artículo
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	WarehouseID string            `json:"warehouse_id" validate:"required"`
	Number      string            `json:"number,omitempty"`
	CustomerRef string            `json:"customer_ref,omitempty"`
	Items       []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ReturnItemRequest línea a devolver.
type ReturnItemRequest struct {
	ArticleID string          `json:"article_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ReturnSaleRequest body para POST /api/sales/:id/returns.
type ReturnSaleRequest struct {
	Items []ReturnItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleResponse representación HTTP de la venta creada.
type SaleResponse struct {
	ID          string          `json:"id"`
	WarehouseID string          `json:"warehouse_id"`
	Number      string          `json:"number"`
	CustomerRef string          `json:"customer_ref,omitempty"`
	Date        time.Time       `json:"date"`
	Total       decimal.Decimal `json:"total"`
}
