package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/application/dto"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/application/sales"
)

// SaleHandler maneja las peticiones HTTP de ventas (protegido).
type SaleHandler struct {
	uc *sales.CreateSaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.CreateSaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear venta
// @Description  Crea una venta multi-línea. Cada línea genera un movimiento
//
//	SALE en el kardex dentro de la misma transacción: si una línea
//	no tiene stock, la venta completa se revierte.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "venta a crear"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var req dto.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	items := make([]sales.SaleItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, sales.SaleItemInput{
			ArticleID: it.ArticleID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	sale, err := h.uc.CreateSale(c.Context(), sales.SaleInput{
		WarehouseID: req.WarehouseID,
		Number:      req.Number,
		CustomerRef: req.CustomerRef,
		Items:       items,
		ActorID:     userID,
	})
	if err != nil {
		return kardexError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaleResponse{
		ID:          sale.ID,
		WarehouseID: sale.WarehouseID,
		Number:      sale.Number,
		CustomerRef: sale.CustomerRef,
		Date:        sale.Date,
		Total:       sale.Total,
	})
}

// Return godoc
// @Summary      Devolver líneas de una venta
// @Description  Registra un movimiento RETURN por línea devuelta, referenciando
//
//	la venta original. No se puede devolver más de lo vendido.
//
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la venta"
// @Param        body  body  dto.ReturnSaleRequest  true  "líneas a devolver"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/returns [post]
func (h *SaleHandler) Return(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	saleID := c.Params("id")
	var req dto.ReturnSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	items := make([]sales.ReturnItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, sales.ReturnItemInput{
			ArticleID: it.ArticleID,
			Quantity:  it.Quantity,
		})
	}
	movements, err := h.uc.ReturnSale(c.Context(), saleID, userID, items)
	if err != nil {
		return kardexError(c, err)
	}
	resp := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		resp = append(resp, dto.MovementToResponse(m))
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
