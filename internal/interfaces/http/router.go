package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/application/kardex"
	"github.com/aGuizada/inventarios-oficial-backent-sub000/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	KardexUC  *kardex.KardexUseCase
	SaleUC    *sales.CreateSaleUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todo el kardex requiere Bearer Token;
// la recomputación queda restringida a admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Kardex (protegido)
	kardexGroup := protected.Group("/kardex")
	kardexHandler := NewKardexHandler(deps.KardexUC)
	kardexGroup.Post("/movements", RequireRole("admin", "bodeguero"), kardexHandler.RegisterMovement)
	kardexGroup.Get("/movements", kardexHandler.GetHistory)
	kardexGroup.Post("/transfers", RequireRole("admin", "bodeguero"), kardexHandler.Transfer)
	kardexGroup.Get("/balance", kardexHandler.GetBalance)
	kardexGroup.Get("/report", kardexHandler.GetReport)
	kardexGroup.Post("/recompute", RequireRole("admin"), kardexHandler.Recompute)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", RequireRole("admin", "vendedor"), saleHandler.Create)
	salesGroup.Post("/:id/returns", RequireRole("admin", "vendedor"), saleHandler.Return)
}
