package dto

import (
	"time"

	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/pkg/validator"
)

type LoginRequest struct {
	Secret string `json:"secret"`
}

func (r *LoginRequest) Validate(v *validator.Validator) {
	v.Check(r.Secret != "", "secret", "must be provided")
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func NewLoginResponse(token *models.Token) LoginResponse {
	return LoginResponse{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
	}
}
