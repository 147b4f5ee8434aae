// README: Tariff service: serves quotes from an immutable table snapshot with atomic reload.
package tariff

import (
	"context"
	"sort"
	"sync/atomic"
)

// RateSource supplies rate-entry overrides for runtime reloads.
type RateSource interface {
	FetchOverrides(ctx context.Context) (map[RateKey]RateEntry, error)
}

// Service wraps the pure engine with a shared configuration snapshot.
// Quotes always read one consistent table: reloads build a fresh table and
// swap the pointer, so in-flight calls never see a partial update.
type Service struct {
	store    RateSource
	snapshot atomic.Pointer[RateTable]
}

func NewService(store RateSource) *Service {
	s := &Service{store: store}
	s.snapshot.Store(DefaultRateTable())
	return s
}

// NewServiceWithTable starts from a caller-supplied table (validated).
func NewServiceWithTable(store RateSource, table *RateTable) (*Service, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	s := &Service{store: store}
	s.snapshot.Store(table)
	return s, nil
}

// Quote prices a request against the current snapshot.
func (s *Service) Quote(_ context.Context, req PricingRequest) (*PricingResult, error) {
	return Quote(req, s.snapshot.Load())
}

// Table returns the current immutable snapshot.
func (s *Service) Table() *RateTable {
	return s.snapshot.Load()
}

// Plans lists the subscription catalogue in a stable order for display.
func (s *Service) Plans() []SubscriptionPlan {
	table := s.snapshot.Load()
	out := make([]SubscriptionPlan, 0, len(table.Plans))
	for _, p := range table.Plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		return out[i].Price < out[j].Price
	})
	return out
}

// Reload overlays stored rate rows onto the defaults and swaps the snapshot.
// The previous table keeps serving until the swap; a table that fails
// validation is discarded and the old snapshot stays in place.
func (s *Service) Reload(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	overrides, err := s.store.FetchOverrides(ctx)
	if err != nil {
		return err
	}
	next := DefaultRateTable()
	next.Location = s.snapshot.Load().Location
	for k, e := range overrides {
		next.Entries[k] = e
	}
	if err := next.Validate(); err != nil {
		return err
	}
	s.snapshot.Store(next)
	return nil
}
