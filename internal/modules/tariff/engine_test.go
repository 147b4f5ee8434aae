// README: Tariff engine tests (observed tariff scenarios + invariants).
package tariff

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// Weekday noon, well outside the night and weekend windows.
var daytime = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func TestQuoteObservedTariff(t *testing.T) {
	table := DefaultRateTable()

	tests := []struct {
		name      string
		req       PricingRequest
		wantTotal int64
	}{
		{
			name: "moto delivery 8km no extras",
			req: PricingRequest{
				Vehicle: VehicleMoto, Service: ServiceLivraison,
				DistanceKm: 8, OrderedAt: daytime, Weather: WeatherGood,
			},
			// base 400 + 8×100 = 1200, already a multiple of 50
			wantTotal: 1200,
		},
		{
			name: "fourgon moving 5km inside minimum band",
			req: PricingRequest{
				Vehicle: VehicleFourgon, Service: ServiceDemenagement,
				DistanceKm: 5, OrderedAt: daytime,
			},
			wantTotal: 3000,
		},
		{
			name: "fourgon moving 12km bills full distance",
			req: PricingRequest{
				Vehicle: VehicleFourgon, Service: ServiceDemenagement,
				DistanceKm: 12, OrderedAt: daytime,
			},
			// 3000 + 12×600 = 10200
			wantTotal: 10200,
		},
		{
			name: "camion 30km under bracket",
			req: PricingRequest{
				Vehicle: VehicleCamion, Service: ServiceDemenagement,
				DistanceKm: 30, OrderedAt: daytime,
			},
			// 5000 + 30×1500 = 50000
			wantTotal: 50000,
		},
		{
			name: "camion 80km bracketed",
			req: PricingRequest{
				Vehicle: VehicleCamion, Service: ServiceDemenagement,
				DistanceKm: 80, OrderedAt: daytime,
			},
			// 5000 + 50×1500 + 30×1000 = 110000
			wantTotal: 110000,
		},
		{
			name: "moto 10km rush hour",
			req: PricingRequest{
				Vehicle: VehicleMoto, Service: ServiceLivraison,
				DistanceKm: 10, OrderedAt: daytime,
				Extras: Extras{RushHour: true},
			},
			// 400 + 1000 = 1400, rush +280 → 1680 → rounds up to 1700
			wantTotal: 1700,
		},
		{
			name: "premium plan discount 30 percent",
			req: PricingRequest{
				Vehicle: VehicleCargo, Service: ServiceLivraison,
				DistanceKm: 36, OrderedAt: daytime,
				Plan: &PlanRef{Tier: PlanPersonal, Level: "premium"},
			},
			// 1000 + 36×250 = 10000, discount 3000 → 7000
			wantTotal: 7000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quote(tt.req, table)
			if err != nil {
				t.Fatalf("Quote() error = %v", err)
			}
			if got.Total != tt.wantTotal {
				t.Errorf("Quote() total = %d, want %d", got.Total, tt.wantTotal)
			}
			assertBreakdownConsistent(t, got, table)
		})
	}
}

func TestQuoteFinalRoundingOnly(t *testing.T) {
	// 400 + round(8.3×100) = 1230; only the final total rounds, up to 1250.
	got, err := Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 8.3, OrderedAt: daytime,
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if got.Distance != 830 {
		t.Errorf("distance = %d, want 830", got.Distance)
	}
	if got.Subtotal != 1230 {
		t.Errorf("subtotal = %d, want 1230", got.Subtotal)
	}
	if got.Total != 1250 {
		t.Errorf("total = %d, want 1250", got.Total)
	}
}

func TestQuoteDeterminism(t *testing.T) {
	req := PricingRequest{
		Vehicle: VehicleCamion, Service: ServiceDemenagement,
		DistanceKm: 63.7, OrderedAt: time.Date(2026, 2, 10, 21, 30, 0, 0, time.UTC),
		NearestDriverKm: 4.2, Weather: WeatherBad,
		Extras: Extras{Loading: true, MovingCrew: true, Packaging: true, WaitingMinutes: 37, Floors: 2, Rooms: 5, RushHour: true},
	}
	table := DefaultRateTable()

	first, err := Quote(req, table)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Quote(req, table)
		if err != nil {
			t.Fatalf("Quote() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Quote() not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestQuoteMonotonicInDistance(t *testing.T) {
	table := DefaultRateTable()
	for _, pair := range []struct {
		vehicle VehicleClass
		service ServiceType
	}{
		{VehicleMoto, ServiceLivraison},
		{VehicleFourgon, ServiceDemenagement},
		{VehicleCamion, ServiceDemenagement},
	} {
		var prev int64 = -1
		for d := 0.0; d <= 90; d += 0.5 {
			got, err := Quote(PricingRequest{
				Vehicle: pair.vehicle, Service: pair.service,
				DistanceKm: d, OrderedAt: daytime,
			}, table)
			if err != nil {
				t.Fatalf("%s/%s d=%.1f: %v", pair.vehicle, pair.service, d, err)
			}
			if got.Total < prev {
				t.Fatalf("%s/%s: total decreased at d=%.1f (%d < %d)", pair.vehicle, pair.service, d, got.Total, prev)
			}
			prev = got.Total
		}
	}
}

func TestQuoteNonTriggeredRulesAbsent(t *testing.T) {
	got, err := Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 8, OrderedAt: daytime, Weather: WeatherGood,
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if len(got.Surcharges) != 0 {
		t.Errorf("expected no surcharge lines, got %+v", got.Surcharges)
	}
}

func TestQuoteInvalidInput(t *testing.T) {
	table := DefaultRateTable()

	tests := []struct {
		name string
		req  PricingRequest
	}{
		{"negative distance", PricingRequest{Vehicle: VehicleMoto, Service: ServiceLivraison, DistanceKm: -1}},
		{"negative driver distance", PricingRequest{Vehicle: VehicleMoto, Service: ServiceLivraison, NearestDriverKm: -3}},
		{"negative waiting", PricingRequest{Vehicle: VehicleMoto, Service: ServiceLivraison, Extras: Extras{WaitingMinutes: -5}}},
		{"negative floors", PricingRequest{Vehicle: VehicleFourgon, Service: ServiceDemenagement, Extras: Extras{Floors: -1}}},
		{"negative rooms", PricingRequest{Vehicle: VehicleFourgon, Service: ServiceDemenagement, Extras: Extras{Rooms: -1}}},
		{"negative weight", PricingRequest{Vehicle: VehicleMoto, Service: ServiceLivraison, Extras: Extras{WeightKg: -2}}},
		{"unknown vehicle", PricingRequest{Vehicle: "charrette", Service: ServiceLivraison}},
		{"unknown service", PricingRequest{Vehicle: VehicleMoto, Service: "teleportation"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Quote(tt.req, table); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestQuoteUnsupportedCombination(t *testing.T) {
	// A moto never serves demenagement; the pair has no rate entry and must
	// be rejected, never priced at zero.
	_, err := Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceDemenagement,
		DistanceKm: 3, OrderedAt: daytime,
	}, DefaultRateTable())
	if !errors.Is(err, ErrUnsupportedCombination) {
		t.Fatalf("expected ErrUnsupportedCombination, got %v", err)
	}
}

func TestQuoteDuration(t *testing.T) {
	table := DefaultRateTable()

	short, err := Quote(PricingRequest{
		Vehicle: VehicleCamion, Service: ServiceDemenagement,
		DistanceKm: 2, OrderedAt: daytime,
	}, table)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	// 2km × 3 min/km = 6 min, below the camion floor of 60.
	if short.EstimatedMinutes != 60 {
		t.Errorf("short trip minutes = %d, want 60", short.EstimatedMinutes)
	}

	long, err := Quote(PricingRequest{
		Vehicle: VehicleCamion, Service: ServiceDemenagement,
		DistanceKm: 30, OrderedAt: daytime,
	}, table)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if long.EstimatedMinutes != 90 {
		t.Errorf("long trip minutes = %d, want 90", long.EstimatedMinutes)
	}
}

// TestQuoteVehicleKeyedPolicy exercises the alternate source policy (rates
// keyed purely by vehicle, first 2 km absorbed, percentage time surcharges)
// expressed as data in the same table structures.
func TestQuoteVehicleKeyedPolicy(t *testing.T) {
	alt := DefaultRateTable()
	alt.Entries = map[RateKey]RateEntry{
		{VehicleMoto, ServiceLivraison}:      {Base: 500, PerKm: 150, CoveredKm: 2, BaseTimeMin: 15},
		{VehicleMoto, ServiceCourse}:         {Base: 500, PerKm: 150, CoveredKm: 2, BaseTimeMin: 15},
		{VehicleCamion, ServiceDemenagement}: {Base: 10000, PerKm: 2000, ThresholdKm: 50, PerKmOverThreshold: 1500, CoveredKm: 2, BaseTimeMin: 60},
	}
	if err := alt.Validate(); err != nil {
		t.Fatalf("alt table invalid: %v", err)
	}

	// First 2 km absorbed: 5 km bills 3 km.
	got, err := Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 5, OrderedAt: daytime,
	}, alt)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if got.Distance != 450 {
		t.Errorf("distance = %d, want 450", got.Distance)
	}
	if got.Total != 950 {
		t.Errorf("total = %d, want 950", got.Total)
	}

	// Bracket applies to the billable distance, not the raw distance.
	got, err = Quote(PricingRequest{
		Vehicle: VehicleCamion, Service: ServiceDemenagement,
		DistanceKm: 62, OrderedAt: daytime,
	}, alt)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	// billable 60 = 50×2000 + 10×1500 → 115000 + base 10000
	if got.Total != 125000 {
		t.Errorf("total = %d, want 125000", got.Total)
	}
}

// assertBreakdownConsistent checks the §-independent structural invariants:
// lines sum to the pre-rounding total and the final total is the subtotal
// minus discount rounded up to the increment.
func assertBreakdownConsistent(t *testing.T, r *PricingResult, table *RateTable) {
	t.Helper()

	sum := r.Base + r.Distance
	for _, l := range r.Surcharges {
		if l.Amount <= 0 {
			t.Errorf("breakdown line %q has non-positive amount %d", l.Label, l.Amount)
		}
		sum += l.Amount
	}
	if sum != r.Subtotal {
		t.Errorf("breakdown sums to %d, subtotal is %d", sum, r.Subtotal)
	}
	if r.Discount < 0 || r.Discount > r.Subtotal {
		t.Errorf("discount %d out of range for subtotal %d", r.Discount, r.Subtotal)
	}
	want := roundUp(r.Subtotal-r.Discount, table.RoundIncrement)
	if r.Total != want {
		t.Errorf("total = %d, want %d", r.Total, want)
	}
	if r.Total < r.Base-r.Discount {
		t.Errorf("total %d below base %d", r.Total, r.Base)
	}
}
