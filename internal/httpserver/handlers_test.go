package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"storefront/internal/domain"
	checkoutsvc "storefront/internal/service/checkout"
	usersvc "storefront/internal/service/user"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupHandler(t *testing.T) {
	users := &stubUserService{user: &domain.User{ID: "u1"}}
	router := newTestRouter(Deps{UserSvc: users})

	rec := do(t, router, http.MethodPost, "/api/auth/signup", `{"name":"Asha","email":"a@x.com","password":"secret1"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Signup successful"`)
}

func TestSignupHandler_Duplicate(t *testing.T) {
	router := newTestRouter(Deps{UserSvc: &stubUserService{err: usersvc.ErrDuplicateEmail}})

	rec := do(t, router, http.MethodPost, "/api/auth/signup", `{"name":"Asha","email":"a@x.com","password":"secret1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestSignupHandler_BadBody(t *testing.T) {
	router := newTestRouter(Deps{})

	rec := do(t, router, http.MethodPost, "/api/auth/signup", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	users := &stubUserService{user: &domain.User{ID: "u1", Name: "Asha", Email: "a@x.com", PasswordHash: "hash"}, token: "tok"}
	router := newTestRouter(Deps{UserSvc: users})

	rec := do(t, router, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"secret1"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, loginResponse{Message: "Login successful", SessionToken: "tok", UserID: "u1", UserName: "Asha", UserEmail: "a@x.com"}, body)
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	router := newTestRouter(Deps{UserSvc: &stubUserService{err: domain.ErrInvalidCredentials}})

	rec := do(t, router, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"nope"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeHandler(t *testing.T) {
	users := &stubUserService{user: &domain.User{ID: "u1", Email: "me@x.com"}}
	router := newTestRouter(Deps{UserSvc: users})

	rec := do(t, router, http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/auth/me", "", "Authorization", "Bearer tok")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"me@x.com"`)
	assert.Equal(t, "tok", users.lastToken)
}

func TestLogoutHandler(t *testing.T) {
	users := &stubUserService{err: domain.ErrUnauthorized}
	router := newTestRouter(Deps{UserSvc: users})

	rec := do(t, router, http.MethodPost, "/api/auth/logout", "", "Authorization", "Bearer stale")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "stale", users.lastToken)
}

func TestGetUserHandler_HidesSecrets(t *testing.T) {
	token := "secret-token"
	users := &stubUserService{user: &domain.User{ID: "u1", PasswordHash: "bcrypt-hash", SessionToken: &token}}
	router := newTestRouter(Deps{UserSvc: users})

	rec := do(t, router, http.MethodGet, "/api/auth/user/u1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "bcrypt-hash")
	assert.NotContains(t, rec.Body.String(), token)
}

func TestGetUserHandler_NotFound(t *testing.T) {
	router := newTestRouter(Deps{UserSvc: &stubUserService{err: domain.ErrNotFound}})

	rec := do(t, router, http.MethodGet, "/api/auth/user/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandlers(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{OwnerID: "u1", Items: []domain.CartItem{
		{ProductID: "p1", Name: "Tea", UnitPrice: decimal.RequireFromString("2.5"), Quantity: 1},
	}}}
	router := newTestRouter(Deps{CartSvc: carts})

	rec := do(t, router, http.MethodGet, "/api/cart/u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":2.5`)

	rec = do(t, router, http.MethodPost, "/api/cart/add", `{"userId":"u1","productId":"p1","name":"Tea","price":2.5}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/cart/update", `{"userId":"u1","productId":"p1","qty":0}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, carts.lastQty)

	rec = do(t, router, http.MethodDelete, "/api/cart/remove", `{"userId":"u1","productId":"p1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/cart/clear/u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Cart cleared"}`, rec.Body.String())
}

func TestCartHandlers_Errors(t *testing.T) {
	router := newTestRouter(Deps{CartSvc: &stubCartService{err: domain.ErrValidation}})
	rec := do(t, router, http.MethodPost, "/api/cart/add", `{"name":"Tea","price":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	router = newTestRouter(Deps{CartSvc: &stubCartService{err: domain.ErrNotFound}})
	rec = do(t, router, http.MethodDelete, "/api/cart/remove", `{"userId":"u1","productId":"p1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderHandlers(t *testing.T) {
	orders := &stubOrderService{
		order:  &domain.Order{ID: "o1", Total: decimal.NewFromInt(10)},
		orders: []domain.Order{{ID: "o2"}, {ID: "o1"}},
	}
	router := newTestRouter(Deps{OrderSvc: orders})

	rec := do(t, router, http.MethodPost, "/api/orders", `{"userId":"u1","items":[{"name":"Tea","price":5,"qty":2}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"orderId":"o1"`)

	rec = do(t, router, http.MethodGet, "/api/orders/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "o2", listed[0].ID)
}

func TestDeleteOrder_MissingStillOK(t *testing.T) {
	router := newTestRouter(Deps{OrderSvc: &stubOrderService{err: domain.ErrNotFound}})

	rec := do(t, router, http.MethodDelete, "/api/orders/nope", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckoutHandler(t *testing.T) {
	co := &stubCheckoutService{result: &checkoutsvc.Result{Order: &domain.Order{ID: "o1", Total: decimal.NewFromInt(250)}}}
	router := newTestRouter(Deps{CheckoutSvc: co})

	rec := do(t, router, http.MethodPost, "/api/checkout", `{"userId":"u1","address":{"name":"Home","city":"Pune","productIds":["p1"]}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Checkout successful","orderId":"o1","total":250}`, rec.Body.String())
	assert.Equal(t, "u1", co.lastCart.UserID)
	assert.Equal(t, []string{"p1"}, co.lastCart.ProductIDs)
	require.NotNil(t, co.lastCart.Address)
	assert.Equal(t, "Pune", co.lastCart.Address.City)
}

func TestCheckoutHandler_Warning(t *testing.T) {
	co := &stubCheckoutService{result: &checkoutsvc.Result{Order: &domain.Order{ID: "o1"}, Warning: checkoutsvc.PruneWarning}}
	router := newTestRouter(Deps{CheckoutSvc: co})

	rec := do(t, router, http.MethodPost, "/api/checkout", `{"userId":"u1","productIds":["p2"],"address":{"productIds":["p1"]}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), checkoutsvc.PruneWarning)
	assert.Equal(t, []string{"p2"}, co.lastCart.ProductIDs)
}

func TestCheckoutHandler_EmptyCart(t *testing.T) {
	router := newTestRouter(Deps{CheckoutSvc: &stubCheckoutService{err: domain.ErrEmptyCart}})

	rec := do(t, router, http.MethodPost, "/api/checkout", `{"userId":"u1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cart is empty")
}

func TestBuyNowHandler(t *testing.T) {
	co := &stubCheckoutService{result: &checkoutsvc.Result{Order: &domain.Order{ID: "o9", Total: decimal.RequireFromString("37.5")}}}
	router := newTestRouter(Deps{CheckoutSvc: co})

	rec := do(t, router, http.MethodPost, "/api/checkout/buy-now", `{"userId":"u1","item":{"productId":"p9","name":"Mug","price":12.5},"qty":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, co.lastSingle.Item)
	assert.Equal(t, "Mug", co.lastSingle.Item.Name)
	assert.Equal(t, 3, co.lastSingle.Quantity)
	assert.Contains(t, rec.Body.String(), `"total":37.5`)
}

func TestCheckoutSessionHandlers(t *testing.T) {
	users := &stubUserService{session: domain.CheckoutSession{Items: []domain.CartItem{{ProductID: "p1", Name: "Tea", Quantity: 1}}}}
	router := newTestRouter(Deps{UserSvc: users})

	rec := do(t, router, http.MethodPost, "/api/checkout/session", `{"userId":"u1","items":[{"productId":"p1","name":"Tea","price":1,"qty":1}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/checkout/session/u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"productId":"p1"`)

	rec = do(t, router, http.MethodDelete, "/api/checkout/session/u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddressHandlers(t *testing.T) {
	users := &stubUserService{addresses: []domain.Address{{ID: "a1", RecipientName: "Home", IsDefault: true}}}
	router := newTestRouter(Deps{UserSvc: users})

	rec := do(t, router, http.MethodGet, "/api/addresses/u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isDefault":true`)

	rec = do(t, router, http.MethodPost, "/api/addresses", `{"userId":"u1","address":{"name":"Home","isDefault":true}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Address added"`)

	rec = do(t, router, http.MethodPut, "/api/addresses/u1/a1", `{"name":"Home 2"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a1", users.lastAddressID)

	rec = do(t, router, http.MethodDelete, "/api/addresses/u1/a1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddressHandlers_UserNotFound(t *testing.T) {
	router := newTestRouter(Deps{UserSvc: &stubUserService{err: domain.ErrNotFound}})

	rec := do(t, router, http.MethodGet, "/api/addresses/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetLocationHandler(t *testing.T) {
	users := &stubUserService{}
	router := newTestRouter(Deps{UserSvc: users})

	rec := do(t, router, http.MethodPut, "/api/preferences/location", `{"userId":"u1","location":"Pune"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Location updated","location":"Pune"}`, rec.Body.String())
	assert.Equal(t, "Pune", users.lastLocation)
}
