package jwtutil

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestUtil(lifetime time.Duration) (*JWTUtil, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	j := NewJWTUtil(&JWTConfig{SigningKey: "test-signing-key", Lifetime: lifetime}, WithClock(clock.Now))
	return j, clock
}

func TestGenerateAndValidate_RoundTrip(t *testing.T) {
	j, clock := newTestUtil(time.Hour)

	for _, memberID := range []uint{1, 7, 42, 1 << 30} {
		token, err := j.GenerateToken(memberID)
		if err != nil {
			t.Fatalf("GenerateToken(%d) failed: %v", memberID, err)
		}
		if parts := strings.Split(token, "."); len(parts) != 3 {
			t.Fatalf("expected three-part token, got %d parts", len(parts))
		}

		clock.now = clock.now.Add(59 * time.Minute)
		got, err := j.ValidateToken(token)
		if err != nil {
			t.Fatalf("ValidateToken failed: %v", err)
		}
		if got != memberID {
			t.Errorf("expected member %d, got %d", memberID, got)
		}
		clock.now = time.Unix(1_700_000_000, 0)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	j, clock := newTestUtil(time.Second)

	token, err := j.GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	clock.now = clock.now.Add(500 * time.Millisecond)
	if _, err := j.ValidateToken(token); err != nil {
		t.Fatalf("expected token to be valid before expiry, got %v", err)
	}

	clock.now = clock.now.Add(2 * time.Second)
	if _, err := j.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateToken_Tampered(t *testing.T) {
	j, _ := newTestUtil(time.Hour)

	token, err := j.GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	other, err := j.GenerateToken(8)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	// Swap the payload of one token into the other's signature
	a := strings.Split(token, ".")
	b := strings.Split(other, ".")
	forged := a[0] + "." + b[1] + "." + a[2]

	if _, err := j.ValidateToken(forged); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("expected ErrMalformedToken for forged token, got %v", err)
	}
}

func TestValidateToken_WrongKey(t *testing.T) {
	j, clock := newTestUtil(time.Hour)
	other := NewJWTUtil(&JWTConfig{SigningKey: "another-key", Lifetime: time.Hour}, WithClock(clock.Now))

	token, err := other.GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if _, err := j.ValidateToken(token); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("expected ErrMalformedToken, got %v", err)
	}
}

func TestValidateToken_Malformed(t *testing.T) {
	j, clock := newTestUtil(time.Hour)

	noneToken := jwt.NewWithClaims(jwt.SigningMethodNone, MemberClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
		},
	})
	unsigned, err := noneToken.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to build unsigned token: %v", err)
	}

	badSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, MemberClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "not-a-number",
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
		},
	})
	badSubjectToken, err := badSubject.SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, MemberClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "7"},
	})
	noExpiryToken, err := noExpiry.SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	cases := map[string]string{
		"empty":       "",
		"garbage":     "not.a.jwt",
		"two parts":   "abc.def",
		"alg none":    unsigned,
		"bad subject": badSubjectToken,
		"missing exp": noExpiryToken,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := j.ValidateToken(token); !errors.Is(err, ErrMalformedToken) {
				t.Errorf("expected ErrMalformedToken, got %v", err)
			}
		})
	}
}

func TestValidateToken_ExpiryBoundary(t *testing.T) {
	j, clock := newTestUtil(time.Second)
	issued := clock.now

	token, err := j.GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	clock.now = issued.Add(time.Second)
	if _, err := j.ValidateToken(token); err != nil {
		t.Fatalf("expected token to be valid at the expiry instant, got %v", err)
	}

	clock.now = issued.Add(time.Second + time.Nanosecond)
	if _, err := j.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken just after expiry, got %v", err)
	}
}
