package handler

import (
	"errors"
	"net/http"

	"timezone/store-service/internal/app/store/entity"
	"timezone/store-service/internal/app/store/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// ListUserOrders обрабатывает GET /userorders?email=
func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	orders, err := h.orderService.ListUserOrders(c.Request.Context(), IdentityFromContext(c), c.Query("email"))
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			respondMessage(c, http.StatusUnauthorized, msgNotAuthorized)
			return
		}
		respondError(c, err, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// ListAllOrders обрабатывает GET /manageorders?email=
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	orders, err := h.orderService.ListAllOrders(c.Request.Context(), IdentityFromContext(c), c.Query("email"))
	if err != nil {
		if errors.Is(err, service.ErrNotAuthorized) {
			respondMessage(c, http.StatusUnauthorized, msgNotAuthorized)
			return
		}
		respondError(c, err, "Failed to list orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// CreateOrder обрабатывает POST /order
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var order entity.Order
	// null в теле дает nil-документ без ошибки
	if err := c.ShouldBindJSON(&order); err != nil || order == nil {
		respondMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), order)
	if err != nil {
		respondError(c, err, "Failed to create order")
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateOrderStatus обрабатывает PUT /manageorders/:id
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req entity.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update order")
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteOrder обрабатывает DELETE /order/:id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	result, err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to delete order")
		return
	}

	c.JSON(http.StatusOK, result)
}
