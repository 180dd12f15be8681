package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ServiceClaims identifies a trusted caller acting on behalf of a user.
type ServiceClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and validates HS256 service tokens. These replace the old
// bare X-User-Id header: callers must present a credential signed with the
// shared secret instead of claiming an identity for free.
type Service struct {
	SignatureKey []byte
}

func NewService(secretKey string) *Service {
	return &Service{
		SignatureKey: []byte(secretKey),
	}
}

func (s *Service) Generate(userID string, role string) (string, error) {
	if userID == "" {
		return "", errors.New("user_id cannot be empty")
	}

	if len(s.SignatureKey) == 0 {
		return "", errors.New("signature_key cannot be empty")
	}

	claims := ServiceClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.SignatureKey)
}

func (s *Service) Validate(tokenStr string) (*ServiceClaims, error) {
	// Remove "Bearer " prefix if exists
	if len(tokenStr) > 7 && tokenStr[:7] == "Bearer " {
		tokenStr = tokenStr[7:]
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &ServiceClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("invalid signing method")
		}
		return s.SignatureKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := tok.Claims.(*ServiceClaims); ok && tok.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
