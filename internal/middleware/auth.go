package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gift-service/internal/apperror"
	"gift-service/internal/model"
	"gift-service/pkg/jwtutil"
	"gift-service/pkg/logger"
	"gift-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Reasons a request is left anonymous
const (
	ReasonInvalidTokenInfo = "invalid token information"
	ReasonExpiredToken     = "token has expired"
	ReasonInvalidToken     = "token is invalid"
	ReasonMemberNotFound   = "member not found"
	ReasonAuthRequired     = "authentication required"
)

const authFailureKey = "auth_failure"

// DefaultAllowList holds the path prefixes that never carry credentials
var DefaultAllowList = []string{
	"/api/members/login",
	"/api/members/register",
	"/swagger",
	"/v3/api-docs",
	"/health",
	"/metrics",
}

// TokenVerifier checks a bearer token and returns its member id
type TokenVerifier interface {
	ValidateToken(token string) (uint, error)
}

// MemberFinder resolves a member by id
type MemberFinder interface {
	FindByID(ctx context.Context, id uint) (*model.Member, error)
}

// Authenticate resolves the caller from the Authorization header. It never
// rejects a request: failures are recorded on the context and left for
// RequireMember on protected routes.
func Authenticate(verifier TokenVerifier, members MemberFinder, allowList []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method == http.MethodOptions || allowed(req.URL.Path, allowList) {
				return next(c)
			}

			log := logger.FromContext(c)

			token, ok := bearerToken(req.Header.Get(echo.HeaderAuthorization))
			if !ok {
				recordFailure(c, ReasonInvalidTokenInfo)
				return next(c)
			}

			memberID, err := verifier.ValidateToken(token)
			switch {
			case errors.Is(err, jwtutil.ErrExpiredToken):
				recordFailure(c, ReasonExpiredToken)
				return next(c)
			case err != nil:
				log.Debug("Rejected bearer token", zap.Error(err))
				recordFailure(c, ReasonInvalidToken)
				return next(c)
			}

			member, err := members.FindByID(req.Context(), memberID)
			if apperror.IsKind(err, apperror.KindNotFound) {
				recordFailure(c, ReasonMemberNotFound)
				return next(c)
			}
			if err != nil {
				log.Error("Failed to load authenticated member", zap.Uint("member_id", memberID), zap.Error(err))
				return err
			}

			ctx := WithIdentity(req.Context(), Identity{
				MemberID:  member.ID,
				Email:     member.Email,
				Authority: member.Role,
			})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// RequireMember rejects requests the gate left anonymous
func RequireMember(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := IdentityFrom(c.Request().Context()); ok {
			return next(c)
		}
		reason, _ := c.Get(authFailureKey).(string)
		switch reason {
		case ReasonExpiredToken:
			return apperror.ExpiredCredential(reason)
		case ReasonInvalidToken, ReasonInvalidTokenInfo:
			return apperror.MalformedCredential(reason)
		case "":
			return apperror.Unauthorized(ReasonAuthRequired)
		default:
			return apperror.Unauthorized(reason)
		}
	}
}

func recordFailure(c echo.Context, reason string) {
	c.Set(authFailureKey, reason)
	prometheus.RecordAuthFailure(reason)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// allowed matches whole path segments, so /health allows /health/live but not /healthz
func allowed(path string, allowList []string) bool {
	for _, prefix := range allowList {
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}
