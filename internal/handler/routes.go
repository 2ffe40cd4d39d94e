package handler

import (
	"go-inventory-pos/internal/middleware"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Routes groups the handlers mounted under /api/v1.
type Routes struct {
	AuthService service.AuthService
	Auth        *AuthHandler
	Inventory   *InventoryHandler
	Checkout    *CheckoutHandler
	Dashboard   *DashboardHandler
	Admin       *AdminHandler
}

func (r Routes) Register(app fiber.Router) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", r.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(r.AuthService))

	protected.Get("/products", r.Inventory.GetProducts)
	protected.Get("/products/:id", r.Inventory.GetProduct)
	protected.Post("/products", r.Inventory.CreateProduct)
	protected.Put("/products/:id", r.Inventory.UpdateProduct)
	protected.Post("/products/:id/archive", r.Inventory.ArchiveProduct)
	protected.Post("/products/:id/restore", r.Inventory.RestoreProduct)

	protected.Post("/checkout", r.Checkout.Checkout)
	protected.Get("/history", r.Checkout.GetHistory)
	protected.Get("/history/:id", r.Checkout.GetReceipt)

	protected.Get("/dashboard/summary", r.Dashboard.GetSummary)

	// ============ ADMIN ROUTES ============
	admin := protected.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.Get("/activity", r.Admin.GetActivity)
	admin.Get("/incidents", r.Admin.GetIncidents)
	admin.Post("/incidents/:id/resolve", r.Admin.ResolveIncident)
}
