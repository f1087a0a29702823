package handler

import (
	"context"
	"net/http"

	"github.com/distordia/nexgo/internal/adapter/http/handler/dto"
	"github.com/distordia/nexgo/pkg/logger"
	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
	"github.com/distordia/nexgo/pkg/validator"
)

type Rating struct {
	service RatingService
	l       logger.Logger
}

type RatingService interface {
	SubmitRating(ctx context.Context, driver string, score int, avoid bool) error
}

func NewRating(service RatingService, l logger.Logger) *Rating {
	return &Rating{
		service: service,
		l:       l,
	}
}

// Submit godoc
// @Summary      Rate a driver
// @Description  Records a 1-5 score and optional avoid mark, overwriting any previous rating for the same driver
// @Tags         Rating
// @Accept       json
// @Produce      json
// @Param        request body dto.SubmitRatingRequest true "Rating"
// @Success      200  {object}  map[string]any
// @Router       /ratings [post]
// @Security     BearerAuth
func (h *Rating) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "submit_rating")

	var req dto.SubmitRatingRequest
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

	if err := h.service.SubmitRating(ctx, req.Driver, req.Score, req.Avoid); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to submit rating", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"message": "rating recorded", "driver": req.Driver}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "rating recorded", "driver", req.Driver, "score", req.Score)
}
