package httpserver

import (
	"context"
	"net/http"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	ordersvc "storefront/internal/service/order"
	usersvc "storefront/internal/service/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserService covers accounts, sessions, addresses and preferences.
type UserService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Logout(ctx context.Context, token string) error
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, in usersvc.ProfileUpdate) (*domain.User, error)
	SetLocation(ctx context.Context, userID, location string) (string, error)
	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
	AddAddress(ctx context.Context, userID string, in usersvc.AddressInput) ([]domain.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID string, in usersvc.AddressInput) ([]domain.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) ([]domain.Address, error)
	SetCheckoutSession(ctx context.Context, userID string, items []domain.CartItem) error
	GetCheckoutSession(ctx context.Context, userID string) (domain.CheckoutSession, error)
	ClearCheckoutSession(ctx context.Context, userID string) error
}

type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, in cartsvc.AddItemInput) (*domain.Cart, error)
	SetQuantity(ctx context.Context, userID, productID string, qty int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type OrderService interface {
	PlaceDirect(ctx context.Context, in ordersvc.DirectInput) (*domain.Order, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Order, error)
	Delete(ctx context.Context, id string) error
}

type CheckoutService interface {
	CheckoutCart(ctx context.Context, in checkoutsvc.CartCheckout) (*checkoutsvc.Result, error)
	CheckoutSingle(ctx context.Context, in checkoutsvc.SingleCheckout) (*checkoutsvc.Result, error)
}

// Deps groups the services the router exposes. Metrics is optional.
type Deps struct {
	UserSvc     UserService
	CartSvc     CartService
	OrderSvc    OrderService
	CheckoutSvc CheckoutService
	Metrics     http.Handler
	CORSOrigins []string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db Pinger, deps Deps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestIDMiddleware(), loggerMiddleware(logger), gin.Recovery(), corsMiddleware(deps.CORSOrigins))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", signupHandler(logger, deps.UserSvc))
	auth.POST("/login", loginHandler(logger, deps.UserSvc))
	auth.POST("/logout", logoutHandler(logger, deps.UserSvc))
	auth.GET("/me", meHandler(logger, deps.UserSvc))
	auth.GET("/user/:userId", getUserHandler(logger, deps.UserSvc))
	auth.PUT("/update-profile/:userId", updateProfileHandler(logger, deps.UserSvc))

	cart := api.Group("/cart")
	cart.GET("/:userId", getCartHandler(logger, deps.CartSvc))
	cart.POST("/add", addToCartHandler(logger, deps.CartSvc))
	cart.PUT("/update", updateCartHandler(logger, deps.CartSvc))
	cart.DELETE("/remove", removeFromCartHandler(logger, deps.CartSvc))
	cart.DELETE("/clear/:userId", clearCartHandler(logger, deps.CartSvc))

	orders := api.Group("/orders")
	orders.POST("", placeOrderHandler(logger, deps.OrderSvc))
	orders.GET("/:userId", listOrdersHandler(logger, deps.OrderSvc))
	orders.DELETE("/:orderId", deleteOrderHandler(logger, deps.OrderSvc))

	checkout := api.Group("/checkout")
	checkout.POST("", checkoutCartHandler(logger, deps.CheckoutSvc))
	checkout.POST("/buy-now", buyNowHandler(logger, deps.CheckoutSvc))
	checkout.POST("/session", setCheckoutSessionHandler(logger, deps.UserSvc))
	checkout.GET("/session/:userId", getCheckoutSessionHandler(logger, deps.UserSvc))
	checkout.DELETE("/session/:userId", clearCheckoutSessionHandler(logger, deps.UserSvc))

	addresses := api.Group("/addresses")
	addresses.GET("/:userId", listAddressesHandler(logger, deps.UserSvc))
	addresses.POST("", addAddressHandler(logger, deps.UserSvc))
	addresses.PUT("/:userId/:addressId", updateAddressHandler(logger, deps.UserSvc))
	addresses.DELETE("/:userId/:addressId", deleteAddressHandler(logger, deps.UserSvc))

	api.PUT("/preferences/location", setLocationHandler(logger, deps.UserSvc))

	router.NoRoute(notFoundHandler)

	return router
}
