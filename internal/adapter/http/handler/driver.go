package handler

import (
	"context"
	"net/http"

	"github.com/distordia/nexgo/internal/adapter/http/handler/dto"
	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
	"github.com/distordia/nexgo/pkg/logger"
	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
	"github.com/distordia/nexgo/pkg/validator"
)

type Driver struct {
	service DriverService
	l       logger.Logger
}

type DriverService interface {
	Settings() models.DriverSettings
	SaveSettings(ctx context.Context, settings models.DriverSettings) error
	SetStatus(ctx context.Context, status types.ListingStatus) error
	SetPosition(ctx context.Context, pos models.Position)
	AcquirePosition(ctx context.Context) error
	UpsertListing(ctx context.Context) error
	StartBroadcast(ctx context.Context) error
	StopBroadcast(ctx context.Context) error
	Broadcasting() bool
}

func NewDriver(service DriverService, l logger.Logger) *Driver {
	return &Driver{
		service: service,
		l:       l,
	}
}

// GetSettings godoc
// @Summary      Driver settings
// @Tags         Driver
// @Produce      json
// @Success      200  {object}  dto.SettingsResponse
// @Router       /driver/settings [get]
// @Security     BearerAuth
func (h *Driver) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_settings")

	response := envelope{"settings": dto.NewSettingsResponse(h.service.Settings())}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}
}

// UpdateSettings godoc
// @Summary      Update driver settings
// @Tags         Driver
// @Accept       json
// @Produce      json
// @Param        request body dto.SettingsRequest true "Settings"
// @Success      200  {object}  dto.SettingsResponse
// @Router       /driver/settings [put]
// @Security     BearerAuth
func (h *Driver) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_settings")

	var req dto.SettingsRequest
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

	if err := h.service.SaveSettings(ctx, req.ToModel()); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to save settings", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"settings": dto.NewSettingsResponse(h.service.Settings())}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}
}

// SetStatus godoc
// @Summary      Switch advertised status
// @Tags         Driver
// @Accept       json
// @Produce      json
// @Param        request body dto.StatusRequest true "Status"
// @Success      200  {object}  map[string]any
// @Router       /driver/status [post]
// @Security     BearerAuth
func (h *Driver) SetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_status")

	var req dto.StatusRequest
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

	if err := h.service.SetStatus(ctx, types.ListingStatus(req.Status)); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to set status", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"status": req.Status}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}
}

// SetPosition godoc
// @Summary      Pin the vehicle position
// @Tags         Driver
// @Accept       json
// @Produce      json
// @Param        request body dto.PositionRequest true "Coordinates"
// @Success      200  {object}  map[string]any
// @Router       /driver/position [put]
// @Security     BearerAuth
func (h *Driver) SetPosition(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "set_position")

	var req dto.PositionRequest
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

	h.service.SetPosition(ctx, models.Position{Latitude: *req.Latitude, Longitude: *req.Longitude})

	response := envelope{"message": "position updated"}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}
}

// AcquirePosition godoc
// @Summary      Re-run position acquisition
// @Description  Walks the configured locator chain and stores the first position it yields
// @Tags         Driver
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /driver/position/acquire [post]
// @Security     BearerAuth
func (h *Driver) AcquirePosition(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "acquire_position")

	if err := h.service.AcquirePosition(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "position acquisition failed", err)
		errorResponse(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	response := envelope{"message": "position resolved"}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}
}

// UpsertListing godoc
// @Summary      Write the listing on-chain
// @Description  Updates the listing record, creating it when missing
// @Tags         Driver
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /driver/listing [post]
// @Security     BearerAuth
func (h *Driver) UpsertListing(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "upsert_listing")

	if err := h.service.UpsertListing(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write listing", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"message": "listing written"}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}
}

// StartBroadcast godoc
// @Summary      Start broadcasting
// @Description  Writes the listing and starts the periodic position push
// @Tags         Driver
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /driver/broadcast/start [post]
// @Security     BearerAuth
func (h *Driver) StartBroadcast(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "start_broadcast")

	if err := h.service.StartBroadcast(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to start broadcasting", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"broadcasting": true}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "broadcasting started")
}

// StopBroadcast godoc
// @Summary      Stop broadcasting
// @Description  Stops the push timer immediately, the offline write runs in the background
// @Tags         Driver
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /driver/broadcast/stop [post]
// @Security     BearerAuth
func (h *Driver) StopBroadcast(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "stop_broadcast")

	if err := h.service.StopBroadcast(ctx); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to stop broadcasting", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"broadcasting": false}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "broadcasting stopped")
}
