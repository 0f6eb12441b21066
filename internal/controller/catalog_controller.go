package controller

import (
	"github.com/Rouggerxavier/projeto-chatbot/internal/dto"
	"github.com/Rouggerxavier/projeto-chatbot/internal/pkg/serverutils"
	"github.com/Rouggerxavier/projeto-chatbot/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	CreateKnowledge(ctx *fiber.Ctx) error
}

type catalogController struct {
	service service.ICatalogService
}

func NewCatalogController(service service.ICatalogService) ICatalogController {
	return &catalogController{service: service}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/catalog/v1")
	h.Get("/product", c.GetAll)
	h.Post("/product", c.Create)
	h.Get("/product/:id", c.Show)
	h.Put("/product/:id", c.Update)
	h.Delete("/product/:id", c.Delete)
	h.Post("/knowledge", c.CreateKnowledge)
}

func (c *catalogController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAllProducts(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all products", res))
}

func (c *catalogController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateProduct(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create product", res))
}

func (c *catalogController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	res, err := c.service.GetProduct(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show product", res))
}

func (c *catalogController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	var req dto.UpdateProductRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateProduct(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update product", res))
}

func (c *catalogController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}

	if err := c.service.DeleteProduct(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete product", nil))
}

func (c *catalogController) CreateKnowledge(ctx *fiber.Ctx) error {
	var req dto.CreateKnowledgeChunkRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateKnowledgeChunk(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create knowledge chunk", res))
}
