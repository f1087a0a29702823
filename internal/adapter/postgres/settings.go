package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/distordia/nexgo/internal/domain/models"
	"github.com/distordia/nexgo/internal/domain/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepo persists the small slice of session state that survives
// restarts: vehicle identity and display preference, keyed by genesis.
type SettingsRepo struct {
	db *pgxpool.Pool
}

func NewSettingsRepo(db *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{
		db: db,
	}
}

func (r *SettingsRepo) Get(ctx context.Context, genesis string) (models.DriverSettings, error) {
	const op = "SettingsRepo.Get"
	query := `
		SELECT genesis, vehicle_id, vehicle_class, driver_name, price_per_km, distance_unit, updated_at
		FROM driver_settings
		WHERE genesis = $1`

	var s models.DriverSettings
	if err := r.db.QueryRow(ctx, query, genesis).Scan(
		&s.Genesis,
		&s.VehicleID,
		&s.VehicleClass,
		&s.DriverName,
		&s.PricePerKm,
		&s.DistanceUnit,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.DriverSettings{}, types.ErrSettingsNotFound
		}
		return models.DriverSettings{}, fmt.Errorf("%s: %v", op, err)
	}

	return s, nil
}

func (r *SettingsRepo) Upsert(ctx context.Context, s models.DriverSettings) error {
	const op = "SettingsRepo.Upsert"
	query := `
		INSERT INTO driver_settings(genesis, vehicle_id, vehicle_class, driver_name, price_per_km, distance_unit, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (genesis) DO UPDATE
		SET vehicle_id = EXCLUDED.vehicle_id,
			vehicle_class = EXCLUDED.vehicle_class,
			driver_name = EXCLUDED.driver_name,
			price_per_km = EXCLUDED.price_per_km,
			distance_unit = EXCLUDED.distance_unit,
			updated_at = now()`

	if _, err := r.db.Exec(ctx, query,
		s.Genesis,
		s.VehicleID,
		s.VehicleClass,
		s.DriverName,
		s.PricePerKm,
		s.DistanceUnit,
	); err != nil {
		return fmt.Errorf("%s: %v", op, err)
	}

	return nil
}
