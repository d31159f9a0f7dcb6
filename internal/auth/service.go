// internal/auth/service.go
// Bearer token verification. Token issuance lives in the external auth
// service; this package only validates tokens on inbound requests.

package auth

import (
	"context"
	"errors"

	"github.com/nexora-app/nexora-backend/internal/common/utils"
)

// Service validates bearer tokens
type Service interface {
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
}

type service struct {
	jwtSecret string
}

// NewService creates a token verification service
func NewService(jwtSecret string) Service {
	return &service{jwtSecret: jwtSecret}
}

func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateJWT(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	if claims.Type != "" && claims.Type != "access" {
		return nil, errors.New("invalid token type")
	}

	return claims, nil
}
