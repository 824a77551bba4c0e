package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/devtogether/platform-api/internal/model"
)

// Claims carried in platform access tokens. Role here is advisory only: the
// authorization gate re-reads the persisted role before anything destructive.
type Claims struct {
	AccountID string     `json:"account_id"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret      []byte
	expiryHours int
}

func NewTokenService(secret string, expiryHours int) *TokenService {
	return &TokenService{
		secret:      []byte(secret),
		expiryHours: expiryHours,
	}
}

// Generate issues a signed access token for the account.
func (s *TokenService) Generate(accountID uuid.UUID, email string, role model.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		AccountID: accountID.String(),
		Email:     email,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expiryHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token, returning its claims.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
