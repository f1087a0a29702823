package geoip

import (
	"context"

	"github.com/distordia/nexgo/internal/domain/models"
)

// Static is a fixed-position locator, used when the operator pins the
// vehicle position in configuration. It sits first in the locator
// chain so the IP lookup only runs as a fallback.
type Static struct {
	pos models.Position
}

func NewStatic(lat, lng float64) *Static {
	return &Static{pos: models.Position{Latitude: lat, Longitude: lng}}
}

func (s *Static) Locate(_ context.Context) (models.Position, error) {
	return s.pos, nil
}
