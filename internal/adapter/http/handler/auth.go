package handler

import (
	"context"
	"net/http"

	"github.com/distordia/nexgo/internal/adapter/http/handler/dto"
	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/pkg/logger"
	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
	"github.com/distordia/nexgo/pkg/validator"
)

type Auth struct {
	service AuthService
	l       logger.Logger
}

type AuthService interface {
	Login(ctx context.Context, secret string) (*models.Token, error)
	Validate(token string) (*models.OperatorClaims, error)
}

func NewAuth(service AuthService, l logger.Logger) *Auth {
	return &Auth{
		service: service,
		l:       l,
	}
}

// Login godoc
// @Summary      Operator login
// @Description  Exchanges the operator secret for a bearer token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "Credentials"
// @Success      200  {object}  dto.LoginResponse
// @Router       /auth/login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "operator_login")

	var req dto.LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read request JSON data", err)
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	v := validator.New()
	req.Validate(v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data")
		failedValidationResponse(w, v.Errors)
		return
	}

	token, err := h.service.Login(ctx, req.Secret)
	if err != nil {
		h.l.Warn(ctx, "login rejected")
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"token": dto.NewLoginResponse(token)}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}
}
