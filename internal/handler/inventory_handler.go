package handler

import (
	"go-inventory-pos/internal/middleware"
	"go-inventory-pos/internal/model"
	"go-inventory-pos/internal/service"
	"go-inventory-pos/pkg/apperr"
	"go-inventory-pos/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// withSession runs next with the caller's session, set by RequireAuth.
func withSession(c *fiber.Ctx, next func(session model.Session) error) error {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		return response.Fail(c, apperr.New(apperr.KindUnauthorized, apperr.CodeUnauthorized, "Missing session"))
	}
	return next(session)
}

// GET /api/v1/products?status=
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	return withSession(c, func(session model.Session) error {
		products, err := h.service.ListProducts(c.UserContext(), session, c.Query("status"))
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, fiber.StatusOK, products)
	})
}

// GET /api/v1/products/:id
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	return withSession(c, func(session model.Session) error {
		product, err := h.service.GetProduct(c.UserContext(), session, c.Params("id"))
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, fiber.StatusOK, product)
	})
}

// POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	return withSession(c, func(session model.Session) error {
		var in service.ProductInput
		if err := c.BodyParser(&in); err != nil {
			return response.BadRequest(c, "Invalid JSON")
		}

		product, err := h.service.CreateProduct(c.UserContext(), session, in)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, fiber.StatusCreated, product)
	})
}

// PUT /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	return withSession(c, func(session model.Session) error {
		var in service.ProductInput
		if err := c.BodyParser(&in); err != nil {
			return response.BadRequest(c, "Invalid JSON")
		}

		product, err := h.service.UpdateProduct(c.UserContext(), session, c.Params("id"), in)
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, fiber.StatusOK, product)
	})
}

// POST /api/v1/products/:id/archive
func (h *InventoryHandler) ArchiveProduct(c *fiber.Ctx) error {
	return withSession(c, func(session model.Session) error {
		product, err := h.service.ArchiveProduct(c.UserContext(), session, c.Params("id"))
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, fiber.StatusOK, product)
	})
}

// POST /api/v1/products/:id/restore
func (h *InventoryHandler) RestoreProduct(c *fiber.Ctx) error {
	return withSession(c, func(session model.Session) error {
		product, err := h.service.RestoreProduct(c.UserContext(), session, c.Params("id"))
		if err != nil {
			return response.Fail(c, err)
		}
		return response.OK(c, fiber.StatusOK, product)
	})
}
