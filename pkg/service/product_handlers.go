package service

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/theapemachine/shopchat/pkg/stores"
)

func (srv *Server) handleProducts(ctx fiber.Ctx) error {
	filter := stores.ProductFilter{
		Category: ctx.Query("category"),
		Brand:    ctx.Query("brand"),
		MinPrice: queryFloat(ctx, "min_price"),
		MaxPrice: queryFloat(ctx, "max_price"),
		Featured: queryBool(ctx, "featured"),
		OnSale:   queryBool(ctx, "on_sale"),
		Limit:    queryInt(ctx, "limit", 50),
		Offset:   queryInt(ctx, "offset", 0),
	}

	products, total, err := srv.config.Products.List(ctx.Context(), filter)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"products":    products,
		"total_count": total,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
		"has_more":    filter.Offset+len(products) < total,
	})
}

func (srv *Server) handleProductQuery(ctx fiber.Ctx) error {
	query := ctx.Query("q")
	if query == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Search query is required",
		})
	}

	products, err := srv.config.Products.Query(ctx.Context(), query, queryInt(ctx, "limit", 20))
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"products":      products,
		"query":         query,
		"total_results": len(products),
	})
}

func (srv *Server) handleProduct(ctx fiber.Ctx) error {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product id"})
	}

	product, err := srv.config.Products.Get(ctx.Context(), id)
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{"product": product})
}

func (srv *Server) handleCategories(ctx fiber.Ctx) error {
	categories, err := srv.config.Products.Categories(ctx.Context())
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{"categories": categories})
}

func (srv *Server) handleBrands(ctx fiber.Ctx) error {
	brands, err := srv.config.Products.Brands(ctx.Context())
	if err != nil {
		return fail(ctx, err)
	}

	return ctx.JSON(fiber.Map{"brands": brands})
}

func queryFloat(ctx fiber.Ctx, key string) *float64 {
	raw := ctx.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func queryBool(ctx fiber.Ctx, key string) *bool {
	raw := ctx.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

func queryInt(ctx fiber.Ctx, key string, fallback int) int {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
