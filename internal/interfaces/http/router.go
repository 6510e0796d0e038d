package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shayar/CommissionApp/internal/application/analytics"
	"github.com/shayar/CommissionApp/internal/application/audit"
	"github.com/shayar/CommissionApp/internal/application/auth"
	"github.com/shayar/CommissionApp/internal/application/reports"
	"github.com/shayar/CommissionApp/internal/application/sales"
	"github.com/shayar/CommissionApp/internal/application/taxonomy"
	"github.com/shayar/CommissionApp/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *auth.UserUseCase
	Resolver    *taxonomy.RateResolver
	Recorder    *sales.Recorder
	Aggregator  *reports.Aggregator
	AuditUC     *audit.ListUseCase
	DashboardUC *analytics.DashboardUseCase
	PDF         reports.PDFRenderer // nil deshabilita /export.pdf
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC)
	userHandler := NewUserHandler(deps.UserUC)
	categoryHandler := NewCategoryHandler(deps.Resolver)
	saleHandler := NewSaleHandler(deps.Recorder, deps.Aggregator)
	reportHandler := NewReportHandler(deps.Aggregator, deps.PDF)
	auditHandler := NewAuditHandler(deps.AuditUC)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)

	// Auth (público)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyUser := RequireRole(entity.RoleAdmin, entity.RoleEmployee)
	adminOnly := RequireRole(entity.RoleAdmin)

	protected.Post("/auth/register", adminOnly, authHandler.Register)
	protected.Get("/auth/me", anyUser, userHandler.Me)
	protected.Get("/users", adminOnly, userHandler.List)

	// Taxonomía: lectura para todos, escritura solo admin
	categories := protected.Group("/categories")
	categories.Get("/", anyUser, categoryHandler.List)
	categories.Get("/commissionable", anyUser, categoryHandler.Commissionable)
	categories.Get("/:id", anyUser, categoryHandler.GetByID)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Put("/:id", adminOnly, categoryHandler.Update)
	categories.Post("/:id/subcategories", adminOnly, categoryHandler.CreateSubCategory)
	protected.Put("/subcategories/:id", adminOnly, categoryHandler.UpdateSubCategory)

	// Ventas del usuario autenticado
	salesGroup := protected.Group("/sales", anyUser)
	salesGroup.Post("/", saleHandler.Log)
	salesGroup.Get("/history", saleHandler.History)
	salesGroup.Get("/payment-types", saleHandler.PaymentTypes)

	// Reportes y bitácora (admin)
	reportGroup := protected.Group("/reports", adminOnly)
	reportGroup.Get("/admin", reportHandler.Admin)
	reportGroup.Get("/admin/export.csv", reportHandler.ExportCSV)
	reportGroup.Get("/admin/export.pdf", reportHandler.ExportPDF)
	protected.Get("/audits", adminOnly, auditHandler.List)

	protected.Get("/dashboard", anyUser, dashboardHandler.Get)
}
