package middleware

import (
	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/pkg/logger"
)

type (
	AuthService interface {
		Validate(token string) (*models.OperatorClaims, error)
	}

	Middleware struct {
		auth AuthService
		log  logger.Logger
	}
)

func NewMiddleware(auth AuthService, log logger.Logger) *Middleware {
	return &Middleware{
		auth: auth,
		log:  log,
	}
}
