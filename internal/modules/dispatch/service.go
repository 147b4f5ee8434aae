// README: Dispatch service: availability pool and nearest-driver lookups.
package dispatch

import (
	"context"
	"time"

	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
	"github.com/nocodeci/yatou-sub002/internal/types"
)

const (
	// defaultSearchRadiusKm bounds proximity searches; beyond this the
	// pickup point is treated as having no driver nearby.
	defaultSearchRadiusKm = 30.0
	defaultOfferCount     = 5
)

type Service struct {
	store *Store

	searchRadiusKm float64
	offerCount     int
}

func NewService(store *Store) *Service {
	return &Service{
		store:          store,
		searchRadiusKm: defaultSearchRadiusKm,
		offerCount:     defaultOfferCount,
	}
}

// GoOnline adds a driver to the availability pool for its vehicle class.
func (s *Service) GoOnline(ctx context.Context, id types.ID, vehicle tariff.VehicleClass, pos types.Point) error {
	if !vehicle.Valid() {
		return tariff.ErrInvalidInput
	}
	return s.store.AddCandidate(ctx, Candidate{
		ID:       id,
		Vehicle:  vehicle,
		Position: pos,
		JoinedAt: time.Now(),
	})
}

// GoOffline removes a driver from the pool.
func (s *Service) GoOffline(ctx context.Context, id types.ID, vehicle tariff.VehicleClass) error {
	if !vehicle.Valid() {
		return tariff.ErrInvalidInput
	}
	return s.store.RemoveCandidate(ctx, vehicle, id)
}

// NearestDriverKm returns the distance to the closest online driver of the
// given class. ok is false when the pool has nobody within the search radius;
// quoting then falls back to the caller-provided distance.
func (s *Service) NearestDriverKm(ctx context.Context, pickup types.Point, vehicle tariff.VehicleClass) (float64, bool, error) {
	if !vehicle.Valid() {
		return 0, false, tariff.ErrInvalidInput
	}
	nearby, err := s.store.NearbyCandidates(ctx, vehicle, pickup, s.searchRadiusKm, 1)
	if err != nil {
		return 0, false, err
	}
	if len(nearby) == 0 {
		return 0, false, nil
	}
	return nearby[0].DistanceKm, true, nil
}

// Offer returns up to offerCount nearby drivers for an order and records
// them so later rounds skip drivers already contacted.
func (s *Service) Offer(ctx context.Context, orderID types.ID, pickup types.Point, vehicle tariff.VehicleClass) ([]Nearby, error) {
	if !vehicle.Valid() {
		return nil, tariff.ErrInvalidInput
	}
	nearby, err := s.store.NearbyCandidates(ctx, vehicle, pickup, s.searchRadiusKm, s.offerCount*2)
	if err != nil {
		return nil, err
	}

	fresh := nearby[:0]
	for _, n := range nearby {
		offered, err := s.store.WasOffered(ctx, orderID, n.ID)
		if err != nil {
			return nil, err
		}
		if offered {
			continue
		}
		fresh = append(fresh, n)
		if len(fresh) == s.offerCount {
			break
		}
	}

	ids := make([]types.ID, len(fresh))
	for i, n := range fresh {
		ids[i] = n.ID
	}
	if err := s.store.RecordOffer(ctx, orderID, ids); err != nil {
		return nil, err
	}
	return fresh, nil
}
