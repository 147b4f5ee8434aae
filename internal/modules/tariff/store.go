// README: Tariff store backed by PostgreSQL: rate-row overrides for the compiled-in table.
package tariff

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// FetchOverrides loads active tariff rows. Rows overlay the default table on
// reload; an empty result keeps the defaults.
func (s *Store) FetchOverrides(ctx context.Context) (map[RateKey]RateEntry, error) {
	rows, err := s.db.Query(ctx, `
        SELECT vehicle, service, base_fare, per_km, per_km_over, threshold_km,
               covered_km, min_trip_km, base_time_min
        FROM tariff_rates
        WHERE active`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[RateKey]RateEntry)
	for rows.Next() {
		var (
			vehicle, service string
			e                RateEntry
		)
		if err := rows.Scan(
			&vehicle, &service, &e.Base, &e.PerKm, &e.PerKmOverThreshold,
			&e.ThresholdKm, &e.CoveredKm, &e.MinTripKm, &e.BaseTimeMin,
		); err != nil {
			return nil, err
		}
		out[RateKey{Vehicle: VehicleClass(vehicle), Service: ServiceType(service)}] = e
	}
	return out, rows.Err()
}
