package jwttoken

import "locreg/pkg/platform/middleware/auth"

// JWTServiceAdapter exposes a JWTService as the auth middleware's
// validator.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*auth.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &auth.JWTClaims{Account: claims.Account(), JTI: claims.ID}, nil
}
