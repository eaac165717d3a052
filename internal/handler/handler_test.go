package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gift-service/internal/apperror"
	"gift-service/internal/dto"
	"gift-service/internal/middleware"
	"gift-service/internal/model"
	"gift-service/internal/port"
	"gift-service/internal/service"
	"gift-service/internal/storage/memstore"
	"gift-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type unusedKakao struct{}

func (unusedKakao) LoginWithCode(ctx context.Context, code string) (string, error) {
	return "", apperror.Unauthorized("kakao authentication failed")
}

type testServer struct {
	e      *echo.Echo
	store  *memstore.Store
	tokens *jwtutil.JWTUtil
	option *model.Option
	now    time.Time
}

func newTestServer(t *testing.T, quantity int) *testServer {
	return newTestServerWithLifetime(t, quantity, time.Hour)
}

// newTestServerWithLifetime issues tokens against the server's own clock, s.now
func newTestServerWithLifetime(t *testing.T, quantity int, lifetime time.Duration) *testServer {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	store := memstore.New(time.Second)
	product := &model.Product{Name: "americano", Price: 4500}
	if err := store.Products().Create(ctx, product); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	option := &model.Option{ProductID: product.ID, Name: "tall", Quantity: quantity}
	if err := store.Options().Create(ctx, option); err != nil {
		t.Fatalf("failed to create option: %v", err)
	}

	s := &testServer{store: store, option: option, now: time.Now()}
	tokens := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "handler-test", Lifetime: lifetime},
		jwtutil.WithClock(func() time.Time { return s.now }))

	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Use(middleware.Authenticate(tokens, store.Members(), middleware.DefaultAllowList))
	RegisterRoutes(e, Handlers{
		Auth:    NewAuthHandler(service.NewAuthService(store, tokens, log), unusedKakao{}),
		Members: NewMemberHandler(service.NewMemberService(store, nil, log), service.NewPointService(store, log)),
		Orders:  NewOrderHandler(service.NewOrderService(store, nil, nil, log), 5*time.Second),
		Options: NewOptionHandler(service.NewOptionService(store, nil, log)),
	})
	s.e = e
	s.tokens = tokens
	return s
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(http.MethodPost, "/api/members/register", "",
		fmt.Sprintf(`{"name":"kim","email":%q,"password":"secret"}`, email))
	if rec.Code != http.StatusOK {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	var resp dto.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("unexpected register response %s", rec.Body.String())
	}
	return resp.Token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", rec.Body.String(), err)
	}
	if body.Status != rec.Code {
		t.Errorf("body status %d does not match response %d", body.Status, rec.Code)
	}
	return body
}

func TestOrderFlow(t *testing.T) {
	s := newTestServer(t, 3)
	token := s.register(t, "kim@example.com")

	body := fmt.Sprintf(`{"option_id":%d,"quantity":2,"message":"happy birthday"}`, s.option.ID)
	rec := s.do(http.MethodPost, "/api/orders", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	var created dto.OrderResult
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid order body: %v", err)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != fmt.Sprintf("/api/orders/%d", created.ID) {
		t.Errorf("unexpected location %q", loc)
	}
	if created.Product.Name != "americano" || created.Option.Name != "tall" || created.Quantity != 2 {
		t.Errorf("unexpected order %+v", created)
	}

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", created.ID), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(http.MethodGet, "/api/orders?page=0&size=5&direction=desc", token, "")
	var list []dto.OrderResult
	if rec.Code != http.StatusOK || json.Unmarshal(rec.Body.Bytes(), &list) != nil || len(list) != 1 {
		t.Fatalf("unexpected listing %d %s", rec.Code, rec.Body.String())
	}

	// Oversell leaves the remaining unit untouched
	rec = s.do(http.MethodPost, "/api/orders", token,
		fmt.Sprintf(`{"option_id":%d,"quantity":2,"message":"again"}`, s.option.ID))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decodeError(t, rec).Message; msg != apperror.MsgInsufficientInventory {
		t.Errorf("unexpected message %q", msg)
	}

	for i := 0; i < 2; i++ {
		rec = s.do(http.MethodDelete, fmt.Sprintf("/api/orders/%d", created.ID), token, "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete %d: expected 204, got %d", i, rec.Code)
		}
	}
	rec = s.do(http.MethodGet, fmt.Sprintf("/api/orders/%d", created.ID), token, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestOrder_Validation(t *testing.T) {
	s := newTestServer(t, 3)
	token := s.register(t, "kim@example.com")

	rec := s.do(http.MethodPost, "/api/orders", token,
		fmt.Sprintf(`{"option_id":%d,"quantity":0,"message":"   "}`, s.option.ID))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	msg := decodeError(t, rec).Message
	if !strings.Contains(msg, "quantity is required") || !strings.Contains(msg, "message must not be blank") || !strings.Contains(msg, "; ") {
		t.Errorf("expected both field messages, got %q", msg)
	}

	rec = s.do(http.MethodPost, "/api/orders", token, `{"option_id":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}

	rec = s.do(http.MethodGet, "/api/orders/abc", token, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, 3)

	rec := s.do(http.MethodGet, "/api/orders", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := decodeError(t, rec).Message; msg != middleware.ReasonInvalidTokenInfo {
		t.Errorf("unexpected message %q", msg)
	}

	rec = s.do(http.MethodGet, "/api/points", "not-a-token", "")
	if msg := decodeError(t, rec).Message; rec.Code != http.StatusUnauthorized || msg != middleware.ReasonInvalidToken {
		t.Errorf("expected 401 %q, got %d %q", middleware.ReasonInvalidToken, rec.Code, msg)
	}

	// A token for a member that no longer exists
	ghost, err := s.tokens.GenerateToken(99)
	if err != nil {
		t.Fatal(err)
	}
	rec = s.do(http.MethodGet, "/api/points", ghost, "")
	if msg := decodeError(t, rec).Message; msg != middleware.ReasonMemberNotFound {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t, 3)
	s.register(t, "kim@example.com")

	rec := s.do(http.MethodPost, "/api/members/register", "", `{"name":"kim","email":"kim@example.com","password":"secret"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/api/members/login", "", `{"email":"kim@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/api/members/login", "", `{"email":"kim@example.com","password":"secret"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(http.MethodPost, "/api/members/login/kakao", "", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without code, got %d", rec.Code)
	}
}

func TestPointsAndMemberDeletion(t *testing.T) {
	s := newTestServer(t, 3)
	token := s.register(t, "kim@example.com")

	rec := s.do(http.MethodPost, "/api/points", token, `{"point":150}`)
	var balance dto.PointResponse
	if rec.Code != http.StatusOK || json.Unmarshal(rec.Body.Bytes(), &balance) != nil || balance.Point != 150 {
		t.Fatalf("unexpected add point response %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(http.MethodDelete, "/api/members", token, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = s.do(http.MethodGet, "/api/points", token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected deleted member to be rejected, got %d", rec.Code)
	}
}

func TestOptionEndpoints(t *testing.T) {
	s := newTestServer(t, 3)
	token := s.register(t, "kim@example.com")

	path := fmt.Sprintf("/api/products/%d/options", s.option.ProductID)
	rec := s.do(http.MethodGet, path, token, "")
	var options []dto.OptionResult
	if rec.Code != http.StatusOK || json.Unmarshal(rec.Body.Bytes(), &options) != nil || len(options) != 1 {
		t.Fatalf("unexpected options %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(http.MethodDelete, fmt.Sprintf("/api/products/%d/options/%d", s.option.ProductID+1, s.option.ID), token, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for wrong product, got %d", rec.Code)
	}

	for i := 0; i < 2; i++ {
		rec = s.do(http.MethodDelete, fmt.Sprintf("%s/%d", path, s.option.ID), token, "")
		if rec.Code != http.StatusNoContent {
			t.Errorf("delete %d: expected 204, got %d", i, rec.Code)
		}
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"busy", apperror.Busy("option is busy, retry later", context.DeadlineExceeded), http.StatusServiceUnavailable, "option is busy, retry later"},
		{"not found", apperror.NotFound("order not found"), http.StatusNotFound, "order not found"},
		{"wrapped", fmt.Errorf("outer: %w", apperror.Conflict("email already registered")), http.StatusConflict, "email already registered"},
		{"echo", echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"), http.StatusMethodNotAllowed, "method not allowed"},
		{"internal", apperror.Internal("order failed", errors.New("disk full")), http.StatusInternalServerError, "order failed: disk full"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}
	e := echo.New()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			HTTPErrorHandler(tc.err, c)

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if msg := decodeError(t, rec).Message; msg != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, msg)
			}
			retry := rec.Header().Get("Retry-After")
			if (tc.name == "busy") != (retry == "1") {
				t.Errorf("unexpected Retry-After %q", retry)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	e.GET("/health", HealthCheck("gift-service"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestOrder_ExpiredTokenLeavesInventoryUntouched(t *testing.T) {
	s := newTestServerWithLifetime(t, 3, time.Second)
	token := s.register(t, "kim@example.com")

	s.now = s.now.Add(2 * time.Second)
	body := fmt.Sprintf(`{"option_id":%d,"quantity":1,"message":"too late"}`, s.option.ID)
	rec := s.do(http.MethodPost, "/api/orders", token, body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d %s", rec.Code, rec.Body.String())
	}
	if msg := decodeError(t, rec).Message; msg != middleware.ReasonExpiredToken {
		t.Errorf("expected %q, got %q", middleware.ReasonExpiredToken, msg)
	}

	option, err := s.store.Options().FindByID(context.Background(), s.option.ID)
	if err != nil {
		t.Fatalf("failed to load option: %v", err)
	}
	if option.Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", option.Quantity)
	}
	member, err := s.store.Members().FindByEmail(context.Background(), "kim@example.com")
	if err != nil {
		t.Fatalf("failed to load member: %v", err)
	}
	if n, _ := s.store.Orders().FindAllByMemberID(context.Background(), member.ID, port.Page{Size: 10}); len(n) != 0 {
		t.Errorf("expected no orders, got %d", len(n))
	}
}
