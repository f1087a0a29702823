package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/distordia/nexgo/internal/adapter/http/handler/dto"
	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/pkg/logger"
	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
	"github.com/distordia/nexgo/pkg/validator"
)

type Board struct {
	service BoardService
	l       logger.Logger
}

type BoardService interface {
	Board(viewer *models.Position) []models.BoardListing
	RefreshListings(ctx context.Context) error
	RefreshRatings(ctx context.Context) error
}

func NewBoard(service BoardService, l logger.Logger) *Board {
	return &Board{
		service: service,
		l:       l,
	}
}

// GetBoard godoc
// @Summary      Listing board
// @Description  Returns the visible listings ranked by distance from the viewer
// @Tags         Board
// @Produce      json
// @Param        lat  query  number  false  "Viewer latitude"
// @Param        lng  query  number  false  "Viewer longitude"
// @Success      200  {object}  map[string]any
// @Router       /board [get]
func (h *Board) GetBoard(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_board")

	query, err := parseBoardQuery(r)
	if err != nil {
		h.l.Warn(ctx, "invalid board query", "error", err.Error())
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	v := validator.New()
	query.Validate(v)
	if !v.Valid() {
		h.l.Warn(ctx, "invalid request data")
		failedValidationResponse(w, v.Errors)
		return
	}

	listings := h.service.Board(query.Position())

	response := envelope{
		"listings": dto.NewBoardResponse(listings),
		"count":    len(listings),
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}
}

// Refresh godoc
// @Summary      Force a board refresh
// @Description  Pulls listings and ratings from the ledger outside the timer cadence
// @Tags         Board
// @Produce      json
// @Success      202  {object}  map[string]any
// @Router       /board/refresh [post]
// @Security     BearerAuth
func (h *Board) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "refresh_board")

	if err := h.service.RefreshListings(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "manual listing refresh failed", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}
	if err := h.service.RefreshRatings(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "manual rating refresh failed", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"message": "board refreshed"}

	if err := writeJSON(w, http.StatusAccepted, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}
}

func parseBoardQuery(r *http.Request) (dto.BoardQuery, error) {
	var q dto.BoardQuery

	if raw := r.URL.Query().Get("lat"); raw != "" {
		lat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, err
		}
		q.Latitude = &lat
	}
	if raw := r.URL.Query().Get("lng"); raw != "" {
		lng, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, err
		}
		q.Longitude = &lng
	}

	return q, nil
}
