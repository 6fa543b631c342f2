package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fleetgate/reservation-api/internal/core/domain"
)

func testAccount() *domain.Account {
	return &domain.Account{
		ID:       "acc_1",
		Username: "alice",
		Email:    "alice@tenant.com",
		Role:     domain.RoleUser,
	}
}

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager("secret", "reservation-api", "reservation-clients", time.Hour)

	signed, err := m.Issue(testAccount())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "acc_1" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.Username != "alice" {
		t.Fatalf("unexpected username: %s", claims.Username)
	}
	if claims.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
}

func TestManager_Parse_TamperedToken(t *testing.T) {
	m := NewManager("secret", "reservation-api", "reservation-clients", time.Hour)

	signed, err := m.Issue(testAccount())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Flip one byte in the payload segment.
	parts := strings.Split(signed, ".")
	payload := []byte(parts[1])
	if payload[3] == 'A' {
		payload[3] = 'B'
	} else {
		payload[3] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := m.Parse(tampered); err == nil {
		t.Fatalf("expected tampered token to fail validation")
	}
}

func TestManager_Parse_WrongSecret(t *testing.T) {
	m := NewManager("secret", "reservation-api", "reservation-clients", time.Hour)
	other := NewManager("another", "reservation-api", "reservation-clients", time.Hour)

	signed, err := m.Issue(testAccount())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := other.Parse(signed); err == nil {
		t.Fatalf("expected signature mismatch to fail validation")
	}
}

func TestManager_Parse_Expired(t *testing.T) {
	m := NewManager("secret", "reservation-api", "reservation-clients", time.Hour)

	now := time.Now().UTC()
	claims := Claims{
		Username: "alice",
		Role:     domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "acc_1",
			Issuer:    "reservation-api",
			Audience:  jwt.ClaimStrings{"reservation-clients"},
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Parse(signed); err == nil {
		t.Fatalf("expected expired token to fail validation")
	}
}

func TestManager_Parse_WrongIssuerOrAudience(t *testing.T) {
	m := NewManager("secret", "reservation-api", "reservation-clients", time.Hour)

	badIssuer := NewManager("secret", "someone-else", "reservation-clients", time.Hour)
	signed, err := badIssuer.Issue(testAccount())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Parse(signed); err == nil {
		t.Fatalf("expected wrong issuer to fail validation")
	}

	badAudience := NewManager("secret", "reservation-api", "other-clients", time.Hour)
	signed, err = badAudience.Issue(testAccount())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Parse(signed); err == nil {
		t.Fatalf("expected wrong audience to fail validation")
	}
}

func TestManager_Parse_MissingRole(t *testing.T) {
	m := NewManager("secret", "reservation-api", "reservation-clients", time.Hour)

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   "acc_1",
		Issuer:    "reservation-api",
		Audience:  jwt.ClaimStrings{"reservation-clients"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Parse(signed); err == nil {
		t.Fatalf("expected token without role claim to fail validation")
	}
}
