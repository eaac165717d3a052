package jwtutil

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrExpiredToken is returned when the token's expiry has passed
	ErrExpiredToken = errors.New("token has expired")
	// ErrMalformedToken is returned for any structural, signature or subject failure
	ErrMalformedToken = errors.New("token is invalid")
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey string
	Lifetime   time.Duration
}

// MemberClaims carries the member id as the registered subject claim
type MemberClaims struct {
	jwt.RegisteredClaims
}

// Option configures a JWTUtil
type Option func(*JWTUtil)

// WithClock replaces the wall clock used for issuing and expiry checks
func WithClock(now func() time.Time) Option {
	return func(j *JWTUtil) {
		j.now = now
	}
}

// JWTUtil issues and verifies member tokens
type JWTUtil struct {
	config *JWTConfig
	parser *jwt.Parser
	now    func() time.Time
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *JWTConfig, opts ...Option) *JWTUtil {
	j := &JWTUtil{
		config: config,
		// Expiry is checked against j.now instead of the package-level jwt.TimeFunc
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// GenerateToken creates a signed token whose subject is the member id
func (j *JWTUtil) GenerateToken(memberID uint) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	now := j.now()
	claims := MemberClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(memberID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.config.Lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken verifies the signature and expiry and returns the member id
func (j *JWTUtil) ValidateToken(tokenString string) (uint, error) {
	if j.config == nil {
		return 0, errors.New("JWT configuration not provided")
	}

	claims := &MemberClaims{}
	token, err := j.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.config.SigningKey), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrMalformedToken
	}

	if claims.ExpiresAt == nil {
		return 0, ErrMalformedToken
	}
	// Valid up to and including the expiry instant
	if j.now().After(claims.ExpiresAt.Time) {
		return 0, ErrExpiredToken
	}

	memberID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || memberID == 0 {
		return 0, ErrMalformedToken
	}
	return uint(memberID), nil
}
