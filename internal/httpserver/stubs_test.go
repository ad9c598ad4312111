package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	ordersvc "storefront/internal/service/order"
	usersvc "storefront/internal/service/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubUserService struct {
	user      *domain.User
	token     string
	addresses []domain.Address
	session   domain.CheckoutSession
	err       error

	lastToken     string
	lastAddressID string
	lastLocation  string
}

func (s *stubUserService) Signup(context.Context, usersvc.SignupInput) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubUserService) Login(context.Context, string, string) (*domain.User, string, error) {
	return s.user, s.token, s.err
}

func (s *stubUserService) Logout(_ context.Context, token string) error {
	s.lastToken = token
	return s.err
}

func (s *stubUserService) LookupByToken(_ context.Context, token string) (*domain.User, error) {
	s.lastToken = token
	return s.user, s.err
}

func (s *stubUserService) Get(context.Context, string) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubUserService) UpdateProfile(context.Context, string, usersvc.ProfileUpdate) (*domain.User, error) {
	return s.user, s.err
}

func (s *stubUserService) SetLocation(_ context.Context, _ string, location string) (string, error) {
	s.lastLocation = location
	return location, s.err
}

func (s *stubUserService) ListAddresses(context.Context, string) ([]domain.Address, error) {
	return s.addresses, s.err
}

func (s *stubUserService) AddAddress(context.Context, string, usersvc.AddressInput) ([]domain.Address, error) {
	return s.addresses, s.err
}

func (s *stubUserService) UpdateAddress(_ context.Context, _ string, addressID string, _ usersvc.AddressInput) ([]domain.Address, error) {
	s.lastAddressID = addressID
	return s.addresses, s.err
}

func (s *stubUserService) DeleteAddress(_ context.Context, _ string, addressID string) ([]domain.Address, error) {
	s.lastAddressID = addressID
	return s.addresses, s.err
}

func (s *stubUserService) SetCheckoutSession(context.Context, string, []domain.CartItem) error {
	return s.err
}

func (s *stubUserService) GetCheckoutSession(context.Context, string) (domain.CheckoutSession, error) {
	return s.session, s.err
}

func (s *stubUserService) ClearCheckoutSession(context.Context, string) error {
	return s.err
}

type stubCartService struct {
	cart    *domain.Cart
	err     error
	lastQty int
}

func (s *stubCartService) Get(context.Context, string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) AddItem(context.Context, cartsvc.AddItemInput) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) SetQuantity(_ context.Context, _, _ string, qty int) (*domain.Cart, error) {
	s.lastQty = qty
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(context.Context, string, string) (*domain.Cart, error) {
	return s.cart, s.err
}

func (s *stubCartService) Clear(context.Context, string) error {
	return s.err
}

type stubOrderService struct {
	order  *domain.Order
	orders []domain.Order
	err    error
}

func (s *stubOrderService) PlaceDirect(context.Context, ordersvc.DirectInput) (*domain.Order, error) {
	return s.order, s.err
}

func (s *stubOrderService) ListByOwner(context.Context, string) ([]domain.Order, error) {
	return s.orders, s.err
}

func (s *stubOrderService) Delete(context.Context, string) error {
	return s.err
}

type stubCheckoutService struct {
	result     *checkoutsvc.Result
	err        error
	lastCart   checkoutsvc.CartCheckout
	lastSingle checkoutsvc.SingleCheckout
}

func (s *stubCheckoutService) CheckoutCart(_ context.Context, in checkoutsvc.CartCheckout) (*checkoutsvc.Result, error) {
	s.lastCart = in
	return s.result, s.err
}

func (s *stubCheckoutService) CheckoutSingle(_ context.Context, in checkoutsvc.SingleCheckout) (*checkoutsvc.Result, error) {
	s.lastSingle = in
	return s.result, s.err
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

// testDeps fills every service with an empty stub so a test only sets what it exercises.
func testDeps(d Deps) Deps {
	if d.UserSvc == nil {
		d.UserSvc = &stubUserService{}
	}
	if d.CartSvc == nil {
		d.CartSvc = &stubCartService{}
	}
	if d.OrderSvc == nil {
		d.OrderSvc = &stubOrderService{}
	}
	if d.CheckoutSvc == nil {
		d.CheckoutSvc = &stubCheckoutService{}
	}
	return d
}

func newTestRouter(d Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return buildRouter(zap.NewNop(), stubPinger{}, testDeps(d))
}

func do(t *testing.T, router http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
