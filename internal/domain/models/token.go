package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OperatorClaims is the JWT payload for the mutating API surface.
// Genesis is the ledger identity the token acts on behalf of.
type OperatorClaims struct {
	Genesis string `json:"genesis"`
	jwt.RegisteredClaims
}

type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
