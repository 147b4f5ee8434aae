// README: Location service handles high-frequency updates with throttled snapshot flushing.
package location

import (
	"context"
	"sync"
	"time"

	"github.com/nocodeci/yatou-sub002/internal/types"
)

// snapshotInterval throttles Postgres writes: live positions land in Redis
// on every update, the history table only every interval per driver.
const snapshotInterval = 30 * time.Second

type Service struct {
	store *Store

	mu        sync.Mutex
	lastFlush map[types.ID]time.Time
	now       func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{
		store:     store,
		lastFlush: make(map[types.ID]time.Time),
		now:       time.Now,
	}
}

type Update struct {
	DriverID types.ID
	Vehicle  string
	Position types.Point
}

// Update writes the live position and, at most once per interval per driver,
// appends a history snapshot.
func (s *Service) Update(ctx context.Context, u Update) error {
	if err := s.store.SetLive(ctx, u.DriverID, u.Vehicle, u.Position); err != nil {
		return err
	}
	if !s.shouldFlush(u.DriverID) {
		return nil
	}
	return s.store.AppendSnapshot(ctx, Snapshot{
		DriverID:   u.DriverID,
		Vehicle:    u.Vehicle,
		Position:   u.Position,
		RecordedAt: s.now(),
	})
}

func (s *Service) Remove(ctx context.Context, id types.ID, vehicle string) error {
	s.mu.Lock()
	delete(s.lastFlush, id)
	s.mu.Unlock()
	return s.store.RemoveLive(ctx, id, vehicle)
}

func (s *Service) Get(ctx context.Context, id types.ID, vehicle string) (types.Point, bool, error) {
	return s.store.GetLive(ctx, id, vehicle)
}

func (s *Service) shouldFlush(id types.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if last, ok := s.lastFlush[id]; ok && now.Sub(last) < snapshotInterval {
		return false
	}
	s.lastFlush[id] = now
	return true
}
