package httpserver

import (
	"net/http"

	cartsvc "storefront/internal/service/cart"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type cartLineRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

func getCartHandler(logger *zap.Logger, svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Get(c.Request.Context(), c.Param("userId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func addToCartHandler(logger *zap.Logger, svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartsvc.AddItemInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		cart, err := svc.AddItem(c.Request.Context(), req)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "cart": cart})
	}
}

func updateCartHandler(logger *zap.Logger, svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		cart, err := svc.SetQuantity(c.Request.Context(), req.UserID, req.ProductID, req.Qty)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "cart": cart})
	}
}

func removeFromCartHandler(logger *zap.Logger, svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		cart, err := svc.RemoveItem(c.Request.Context(), req.UserID, req.ProductID)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed", "cart": cart})
	}
}

func clearCartHandler(logger *zap.Logger, svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), c.Param("userId")); err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
