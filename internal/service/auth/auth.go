package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/pkg/logger"
	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService guards the mutating endpoints. The service runs under a
// single signature-chain identity, so login is an operator secret
// exchanged for a short-lived bearer token rather than a user database.
type TokenService struct {
	operatorSecret string
	signingSecret  string
	genesis        string
	ttl            time.Duration
	log            logger.Logger
}

func NewTokenService(operatorSecret, signingSecret, genesis string, ttl time.Duration, log logger.Logger) *TokenService {
	return &TokenService{
		operatorSecret: operatorSecret,
		signingSecret:  signingSecret,
		genesis:        genesis,
		ttl:            ttl,
		log:            log,
	}
}

// Login exchanges the operator secret for a bearer token
func (s *TokenService) Login(ctx context.Context, secret string) (*models.Token, error) {
	ctx = wrap.WithAction(ctx, "operator_login")

	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.operatorSecret)) != 1 {
		return nil, ErrInvalidCredentials
	}

	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.ttl)

	claims := models.OperatorClaims{
		Genesis: s.genesis,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.signingSecret))
	if err != nil {
		s.log.Error(ctx, "failed to sign operator token", err)
		return nil, ErrTokenGenerateFail
	}

	return &models.Token{
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// Validate parses and verifies a bearer token
func (s *TokenService) Validate(token string) (*models.OperatorClaims, error) {
	claims := &models.OperatorClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.signingSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
