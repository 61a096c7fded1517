package models

import "github.com/golang-jwt/jwt/v5"

// MerchantClaims is the JWT payload for dashboard sessions.
type MerchantClaims struct {
	jwt.RegisteredClaims
	MerchantID uint   `json:"merchant_id"`
	Email      string `json:"email"`
}
