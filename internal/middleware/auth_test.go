package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gift-service/internal/apperror"
	"gift-service/internal/model"
	"gift-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
)

type fakeVerifier struct {
	tokens map[string]uint
	err    map[string]error
	calls  int
}

func (v *fakeVerifier) ValidateToken(token string) (uint, error) {
	v.calls++
	if err, ok := v.err[token]; ok {
		return 0, err
	}
	if id, ok := v.tokens[token]; ok {
		return id, nil
	}
	return 0, jwtutil.ErrMalformedToken
}

type fakeMembers map[uint]*model.Member

func (m fakeMembers) FindByID(ctx context.Context, id uint) (*model.Member, error) {
	if member, ok := m[id]; ok {
		return member, nil
	}
	return nil, apperror.NotFound("member not found")
}

func newGate() (*fakeVerifier, echo.MiddlewareFunc) {
	verifier := &fakeVerifier{
		tokens: map[string]uint{"good": 1, "ghost": 9},
		err:    map[string]error{"old": jwtutil.ErrExpiredToken},
	}
	members := fakeMembers{1: {ID: 1, Email: "kim@example.com", Role: model.RoleMember}}
	return verifier, Authenticate(verifier, members, DefaultAllowList)
}

// run passes the request through the gate and RequireMember
func run(t *testing.T, gate echo.MiddlewareFunc, method, path, authorization string) (Identity, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var got Identity
	handler := gate(RequireMember(func(c echo.Context) error {
		got, _ = IdentityFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}))
	return got, handler(c)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	_, gate := newGate()

	id, err := run(t, gate, http.MethodGet, "/api/orders", "Bearer good")
	if err != nil {
		t.Fatalf("expected request to pass, got %v", err)
	}
	if id.MemberID != 1 || id.Email != "kim@example.com" || id.Authority != model.RoleMember {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestAuthenticate_RejectionReasons(t *testing.T) {
	cases := []struct {
		name          string
		authorization string
		reason        string
		kind          apperror.Kind
	}{
		{"missing header", "", ReasonInvalidTokenInfo, apperror.KindMalformedCredential},
		{"not bearer", "Basic abc", ReasonInvalidTokenInfo, apperror.KindMalformedCredential},
		{"empty bearer", "Bearer ", ReasonInvalidTokenInfo, apperror.KindMalformedCredential},
		{"expired", "Bearer old", ReasonExpiredToken, apperror.KindExpiredCredential},
		{"malformed", "Bearer junk", ReasonInvalidToken, apperror.KindMalformedCredential},
		{"unknown member", "Bearer ghost", ReasonMemberNotFound, apperror.KindUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, gate := newGate()
			_, err := run(t, gate, http.MethodGet, "/api/orders", tc.authorization)
			if !apperror.IsKind(err, tc.kind) {
				t.Fatalf("expected %s, got %v", tc.kind, err)
			}
			if err.Error() != tc.reason {
				t.Errorf("expected reason %q, got %q", tc.reason, err.Error())
			}
		})
	}
}

func TestAuthenticate_AllowListSkipsParsing(t *testing.T) {
	verifier, gate := newGate()
	e := echo.New()

	for _, path := range []string{"/api/members/login", "/api/members/login/kakao", "/api/members/register", "/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer junk")
		c := e.NewContext(req, httptest.NewRecorder())

		reached := false
		err := gate(func(c echo.Context) error {
			reached = true
			if _, ok := IdentityFrom(c.Request().Context()); ok {
				t.Errorf("%s: expected no identity", path)
			}
			if c.Get(authFailureKey) != nil {
				t.Errorf("%s: expected no recorded failure", path)
			}
			return nil
		})(c)
		if err != nil || !reached {
			t.Errorf("%s: expected pass through, got %v", path, err)
		}
	}

	if _, err := run(t, gate, http.MethodOptions, "/api/orders", "Bearer junk"); !apperror.IsKind(err, apperror.KindUnauthorized) || err.Error() != ReasonAuthRequired {
		t.Errorf("expected pre-flight to stay anonymous, got %v", err)
	}
	if verifier.calls != 0 {
		t.Errorf("expected no token validation, got %d calls", verifier.calls)
	}
}

func TestRequireMember_DefaultReason(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/points", nil), httptest.NewRecorder())

	err := RequireMember(func(c echo.Context) error { return nil })(c)
	if !apperror.IsKind(err, apperror.KindUnauthorized) || err.Error() != ReasonAuthRequired {
		t.Fatalf("expected %q, got %v", ReasonAuthRequired, err)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := RequestIDMiddleware(func(c echo.Context) error { return nil })(c); err != nil {
		t.Fatal(err)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated request id")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if err := RequestIDMiddleware(func(c echo.Context) error { return nil })(c); err != nil {
		t.Fatal(err)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "abc" {
		t.Errorf("expected propagated id, got %q", got)
	}
}

func TestAuthenticate_AllowListMatchesWholeSegments(t *testing.T) {
	cases := map[string]bool{
		"/health":                  true,
		"/health/live":             true,
		"/metrics":                 true,
		"/swagger/index.html":      true,
		"/api/members/login/kakao": true,
		"/healthcheck-admin":       false,
		"/metricsX":                false,
		"/swaggerfoo":              false,
		"/api/members/loginx":      false,
		"/api/members":             false,
	}
	for path, want := range cases {
		if got := allowed(path, DefaultAllowList); got != want {
			t.Errorf("allowed(%q) = %v, want %v", path, got, want)
		}
	}

	verifier, gate := newGate()
	if _, err := run(t, gate, http.MethodGet, "/metricsX", "Bearer junk"); !apperror.IsKind(err, apperror.KindMalformedCredential) {
		t.Errorf("expected a look-alike path to go through the gate, got %v", err)
	}
	if verifier.calls != 1 {
		t.Errorf("expected the token to be validated once, got %d", verifier.calls)
	}
}
