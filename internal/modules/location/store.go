// README: Location store backed by Redis GEO and Postgres snapshots.
package location

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nocodeci/yatou-sub002/internal/types"
)

const liveKeyPrefix = "location:live:%s"

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

func NewStore(db *pgxpool.Pool, redis *redis.Client) *Store {
	return &Store{db: db, redis: redis}
}

// SetLive writes the driver's current position into the per-vehicle GEO set.
func (s *Store) SetLive(ctx context.Context, id types.ID, vehicle string, pos types.Point) error {
	return s.redis.GeoAdd(ctx, liveKey(vehicle), &redis.GeoLocation{
		Name:      string(id),
		Longitude: pos.Lng,
		Latitude:  pos.Lat,
	}).Err()
}

func (s *Store) RemoveLive(ctx context.Context, id types.ID, vehicle string) error {
	return s.redis.ZRem(ctx, liveKey(vehicle), string(id)).Err()
}

// GetLive returns the last known live position, ok=false when absent.
func (s *Store) GetLive(ctx context.Context, id types.ID, vehicle string) (types.Point, bool, error) {
	results, err := s.redis.GeoPos(ctx, liveKey(vehicle), string(id)).Result()
	if err != nil {
		return types.Point{}, false, err
	}
	if len(results) == 0 || results[0] == nil {
		return types.Point{}, false, nil
	}
	return types.Point{Lat: results[0].Latitude, Lng: results[0].Longitude}, true, nil
}

func (s *Store) AppendSnapshot(ctx context.Context, snap Snapshot) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO location_snapshots (driver_id, vehicle, lat, lng, recorded_at)
        VALUES ($1, $2, $3, $4, $5)`,
		string(snap.DriverID), snap.Vehicle,
		snap.Position.Lat, snap.Position.Lng, snap.RecordedAt,
	)
	return err
}

func liveKey(vehicle string) string {
	return fmt.Sprintf(liveKeyPrefix, vehicle)
}
