package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/getProducts", h.HandleGetProducts)
	productRoutes.Get("/showProduct", h.HandleShowProduct)
	productRoutes.Post("/saveProducts", h.HandleSaveProduct)
	productRoutes.Post("/updateProduct", h.HandleUpdateProduct)
	productRoutes.Delete("/deleteProduct", h.HandleDeleteProduct)
}

// ListProductsQuery carries the optional listing filters. The price
// bounds stay strings here so each can report its own parse failure; the
// range applies only when both are supplied.
type ListProductsQuery struct {
	Name     string `query:"name"`
	Category string `query:"category"`
	MinPrice string `query:"min_price"`
	MaxPrice string `query:"max_price"`
	SortBy   string `query:"sort_by"`
	SortDir  string `query:"sort_dir"`
}

// HandleGetProducts lists the products matching the query filters,
// projected to {name, price, category}.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	var query ListProductsQuery
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": []string{"The request query is invalid."},
		})
	}

	filter := repositories.ProductFilter{
		Name:     query.Name,
		Category: query.Category,
		SortBy:   query.SortBy,
		SortDir:  query.SortDir,
	}

	var errs []string
	if query.MinPrice != "" {
		minPrice, err := strconv.ParseFloat(query.MinPrice, 64)
		if err != nil {
			errs = append(errs, "The min_price field must be a number.")
		} else {
			filter.MinPrice = &minPrice
		}
	}
	if query.MaxPrice != "" {
		maxPrice, err := strconv.ParseFloat(query.MaxPrice, 64)
		if err != nil {
			errs = append(errs, "The max_price field must be a number.")
		} else {
			filter.MaxPrice = &maxPrice
		}
	}
	if len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": errs})
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}

	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, p.View())
	}
	return c.JSON(views)
}

// HandleShowProduct returns a single product projected to
// {name, price, category}.
func (h *ProductHandler) HandleShowProduct(c *fiber.Ctx) error {
	id, errs := parseID(c.Query("id"))
	if errs != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": errs})
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(product.View())
}

// SaveProductRequest is the create payload. Price is a pointer so a
// supplied zero survives the required check.
type SaveProductRequest struct {
	Name     string   `json:"name" validate:"required,max=255"`
	Price    *float64 `json:"price" validate:"required"`
	Category string   `json:"category" validate:"required,max=255"`
}

// HandleSaveProduct creates a new product.
func (h *ProductHandler) HandleSaveProduct(c *fiber.Ctx) error {
	var req SaveProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": []string{"The request body is invalid."},
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": validationMessages(err),
		})
	}

	product := models.Product{
		Name:     req.Name,
		Price:    *req.Price,
		Category: req.Category,
	}
	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return h.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"product": product,
	})
}

// UpdateProductRequest is the partial update payload: absent fields leave
// the stored values untouched.
type UpdateProductRequest struct {
	ID       *uint    `json:"id"`
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Category *string  `json:"category"`
}

// HandleUpdateProduct overwrites the supplied fields of an existing
// product and returns the full updated record.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": []string{"The request body is invalid."},
		})
	}

	if req.ID == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": []string{"The id field is required."},
		})
	}

	patch := models.ProductPatch{
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
	}
	product, err := h.service.UpdateProduct(c.UserContext(), *req.ID, patch)
	if err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DeleteProductRequest carries the ID of the product to delete.
type DeleteProductRequest struct {
	ID *uint `json:"id"`
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	var req DeleteProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": []string{"The request body is invalid."},
		})
	}

	if req.ID == nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": []string{"The id field is required."},
		})
	}

	if err := h.service.DeleteProduct(c.UserContext(), *req.ID); err != nil {
		return h.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// respondError maps service failures to the documented statuses:
// validation failures to 422, missing records to 404, everything else to
// the generic 500 branch.
func (h *ProductHandler) respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": verr.Errors,
		})
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Product not found",
		})
	}

	log.Printf("Catalog request failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not process request",
		"error":   err.Error(),
	})
}

// parseID validates the id query parameter. An absent id is a missing
// required field; an unparsable one can never reference an existing row.
func parseID(raw string) (uint, []string) {
	if raw == "" {
		return 0, []string{"The id field is required."}
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, []string{"The selected id is invalid."}
	}
	return uint(id), nil
}

// validationMessages renders validator violations as one human-readable
// message per violated rule.
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("The %s field is required.", field))
		case "max":
			messages = append(messages, fmt.Sprintf("The %s field must not be greater than %s characters.", field, e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("The %s field is invalid.", field))
		}
	}
	return messages
}
