package httpserver

import (
	"net/http"

	"storefront/internal/domain"
	checkoutsvc "storefront/internal/service/checkout"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// checkoutAddress also accepts productIds nested in the address, which older clients send.
type checkoutAddress struct {
	domain.Address
	ProductIDs []string `json:"productIds"`
}

type checkoutRequest struct {
	UserID        string           `json:"userId"`
	Address       *checkoutAddress `json:"address"`
	PaymentMethod string           `json:"paymentMethod"`
	ProductIDs    []string         `json:"productIds"`
	SaveAddress   bool             `json:"saveAddress"`
}

func (r checkoutRequest) toInput() checkoutsvc.CartCheckout {
	in := checkoutsvc.CartCheckout{
		UserID:        r.UserID,
		PaymentMethod: r.PaymentMethod,
		ProductIDs:    r.ProductIDs,
		SaveAddress:   r.SaveAddress,
	}
	if r.Address != nil {
		addr := r.Address.Address
		in.Address = &addr
		if len(in.ProductIDs) == 0 {
			in.ProductIDs = r.Address.ProductIDs
		}
	}
	return in
}

type checkoutResponse struct {
	Message string          `json:"message"`
	OrderID string          `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
	Warning string          `json:"warning,omitempty"`
}

type checkoutSessionRequest struct {
	UserID string            `json:"userId"`
	Items  []domain.CartItem `json:"items"`
}

func checkoutCartHandler(logger *zap.Logger, svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		res, err := svc.CheckoutCart(c.Request.Context(), req.toInput())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toCheckoutResponse(res))
	}
}

func buyNowHandler(logger *zap.Logger, svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutsvc.SingleCheckout
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		res, err := svc.CheckoutSingle(c.Request.Context(), req)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toCheckoutResponse(res))
	}
}

func toCheckoutResponse(res *checkoutsvc.Result) checkoutResponse {
	return checkoutResponse{
		Message: "Checkout successful",
		OrderID: res.Order.ID,
		Total:   res.Order.Total,
		Warning: res.Warning,
	}
}

func setCheckoutSessionHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		if err := svc.SetCheckoutSession(c.Request.Context(), req.UserID, req.Items); err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Checkout session created"})
	}
}

func getCheckoutSessionHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := svc.GetCheckoutSession(c.Request.Context(), c.Param("userId"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func clearCheckoutSessionHandler(logger *zap.Logger, svc UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ClearCheckoutSession(c.Request.Context(), c.Param("userId")); err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Checkout session cleared"})
	}
}
