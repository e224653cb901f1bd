package handler

import (
	"net/http"
	"strconv"

	"timezone/store-service/internal/app/store/entity"
	"timezone/store-service/internal/app/store/service"

	"github.com/gin-gonic/gin"
)

// itemsHeader - лимит выдачи GET /products
const itemsHeader = "items"

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// ListProducts обрабатывает GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context(), parseLimit(c.GetHeader(itemsHeader)))
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct обрабатывает GET /products/:id, для отсутствующего товара - null
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct обрабатывает POST /product
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product entity.Product
	// null в теле дает nil-документ без ошибки
	if err := c.ShouldBindJSON(&product); err != nil || product == nil {
		respondMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.productService.CreateProduct(c.Request.Context(), product)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteProduct обрабатывает DELETE /product/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	result, err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseLimit: пустой, нечисловой или отрицательный заголовок - без лимита
func parseLimit(raw string) int64 {
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
