package httpserver

import (
	"errors"
	"net/http"

	"storefront/internal/domain"
	ordersvc "storefront/internal/service/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func placeOrderHandler(logger *zap.Logger, svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ordersvc.DirectInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		order, err := svc.PlaceDirect(c.Request.Context(), req)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order placed", "orderId": order.ID, "total": order.Total})
	}
}

func listOrdersHandler(logger *zap.Logger, svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListByOwner(c.Request.Context(), c.Param("userId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// deleteOrderHandler answers success for unknown ids too; the order is gone either way.
func deleteOrderHandler(logger *zap.Logger, svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.Delete(c.Request.Context(), c.Param("orderId"))
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
	}
}
