// README: Dispatch store backed by Redis GEO, one sorted set per vehicle class.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
	"github.com/nocodeci/yatou-sub002/internal/types"
)

const (
	poolKeyPrefix  = "dispatch:drivers:%s"
	offerKeyPrefix = "dispatch:order:%s:offered"
	// Offer sets expire on their own; orders resolve well within a day.
	offerTTL = 24 * time.Hour
)

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) AddCandidate(ctx context.Context, c Candidate) error {
	return s.redis.GeoAdd(ctx, poolKey(c.Vehicle), &redis.GeoLocation{
		Name:      string(c.ID),
		Longitude: c.Position.Lng,
		Latitude:  c.Position.Lat,
	}).Err()
}

func (s *Store) RemoveCandidate(ctx context.Context, vehicle tariff.VehicleClass, id types.ID) error {
	return s.redis.ZRem(ctx, poolKey(vehicle), string(id)).Err()
}

// NearbyCandidates returns pool members within radiusKm of p, closest first.
func (s *Store) NearbyCandidates(ctx context.Context, vehicle tariff.VehicleClass, p types.Point, radiusKm float64, limit int) ([]Nearby, error) {
	results, err := s.redis.GeoSearchLocation(ctx, poolKey(vehicle), &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  p.Lng,
			Latitude:   p.Lat,
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit,
		},
		WithCoord: true,
		WithDist:  true,
	}).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Nearby, len(results))
	for i, r := range results {
		out[i] = Nearby{
			ID:         types.ID(r.Name),
			Position:   types.Point{Lat: r.Latitude, Lng: r.Longitude},
			DistanceKm: r.Dist,
		}
	}
	return out, nil
}

// RecordOffer remembers which drivers were offered an order so repeat
// dispatch rounds skip them.
func (s *Store) RecordOffer(ctx context.Context, orderID types.ID, driverIDs []types.ID) error {
	if len(driverIDs) == 0 {
		return nil
	}
	members := make([]interface{}, len(driverIDs))
	for i, d := range driverIDs {
		members[i] = string(d)
	}
	key := offerKey(orderID)
	pipe := s.redis.Pipeline()
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, offerTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) WasOffered(ctx context.Context, orderID, driverID types.ID) (bool, error) {
	return s.redis.SIsMember(ctx, offerKey(orderID), string(driverID)).Result()
}

func poolKey(vehicle tariff.VehicleClass) string {
	return fmt.Sprintf(poolKeyPrefix, string(vehicle))
}

func offerKey(orderID types.ID) string {
	return fmt.Sprintf(offerKeyPrefix, string(orderID))
}
