// README: Surcharge pipeline tests (rule gating, ordering, additive percentages).
package tariff

import (
	"testing"
	"time"
)

func TestSurchargeNightRate(t *testing.T) {
	night := time.Date(2026, 2, 10, 21, 0, 0, 0, time.UTC)

	got, err := Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 10, OrderedAt: night,
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	// 8 km beyond the free band × moto night rate 50 = 400
	assertLine(t, got, "majoration nuit", 400)
	if got.Total != 1800 {
		t.Errorf("total = %d, want 1800", got.Total)
	}

	// 19:59 is still daytime.
	evening := time.Date(2026, 2, 10, 19, 59, 0, 0, time.UTC)
	got, err = Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 10, OrderedAt: evening,
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertNoLine(t, got, "majoration nuit")
}

func TestSurchargeNightUsesLocalTime(t *testing.T) {
	table := DefaultRateTable()
	table.Location = time.FixedZone("UTC+5", 5*3600)

	// 16:00 UTC is 21:00 in the trip's local zone: night rate applies.
	got, err := Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 10, OrderedAt: time.Date(2026, 2, 10, 16, 0, 0, 0, time.UTC),
	}, table)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertLine(t, got, "majoration nuit", 400)
}

func TestSurchargeDriverDistance(t *testing.T) {
	got, err := Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 8, OrderedAt: daytime, NearestDriverKm: 5,
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	// 3 km beyond the 2 km threshold × 100
	assertLine(t, got, "eloignement chauffeur", 300)

	// At the threshold exactly, no surcharge.
	got, err = Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 8, OrderedAt: daytime, NearestDriverKm: 2,
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertNoLine(t, got, "eloignement chauffeur")
}

func TestSurchargeBadWeather(t *testing.T) {
	got, err := Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 8, OrderedAt: daytime, Weather: WeatherBad,
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	// 6 km beyond the free band × 100
	assertLine(t, got, "intemperies", 600)
}

func TestSurchargeWaitingBlocks(t *testing.T) {
	tests := []struct {
		minutes int
		want    int64
	}{
		{1, 500},   // one started block
		{15, 500},  // exactly one block
		{16, 1000}, // ceiling into a second block
		{20, 1000},
		{45, 1500},
	}
	for _, tt := range tests {
		got, err := Quote(PricingRequest{
			Vehicle: VehicleMoto, Service: ServiceLivraison,
			DistanceKm: 8, OrderedAt: daytime,
			Extras: Extras{WaitingMinutes: tt.minutes},
		}, DefaultRateTable())
		if err != nil {
			t.Fatalf("Quote() error = %v", err)
		}
		assertLine(t, got, "temps d'attente", tt.want)
	}
}

func TestSurchargeVehicleGatedExtras(t *testing.T) {
	table := DefaultRateTable()

	// Urgency only exists for motos; on a camion it is ignored, not an error.
	got, err := Quote(PricingRequest{
		Vehicle: VehicleCamion, Service: ServiceDemenagement,
		DistanceKm: 10, OrderedAt: daytime,
		Extras: Extras{Urgent: true, Packaging: true, MovingCrew: true},
	}, table)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertNoLine(t, got, "course urgente")
	assertLine(t, got, "emballage", 2000)
	assertLine(t, got, "equipe demenagement", 5000)

	// Packaging and crew are ignored on a moto.
	got, err = Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 8, OrderedAt: daytime,
		Extras: Extras{Urgent: true, Packaging: true, MovingCrew: true},
	}, table)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertLine(t, got, "course urgente", 500)
	assertNoLine(t, got, "emballage")
	assertNoLine(t, got, "equipe demenagement")
}

func TestSurchargeMovingExtras(t *testing.T) {
	got, err := Quote(PricingRequest{
		Vehicle: VehicleFourgon, Service: ServiceDemenagement,
		DistanceKm: 12, OrderedAt: daytime,
		Extras: Extras{Floors: 3, Rooms: 4},
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertLine(t, got, "etages", 3000)
	// Only rooms beyond the first two are billed.
	assertLine(t, got, "pieces supplementaires", 1000)
	if got.Total != 14200 {
		t.Errorf("total = %d, want 14200", got.Total)
	}

	// Two rooms or fewer trigger nothing.
	got, err = Quote(PricingRequest{
		Vehicle: VehicleFourgon, Service: ServiceDemenagement,
		DistanceKm: 12, OrderedAt: daytime,
		Extras: Extras{Rooms: 2},
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertNoLine(t, got, "pieces supplementaires")

	// Floor/room counts are ignored outside demenagement.
	got, err = Quote(PricingRequest{
		Vehicle: VehicleFourgon, Service: ServiceCourse,
		DistanceKm: 12, OrderedAt: daytime,
		Extras: Extras{Floors: 3, Rooms: 5},
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertNoLine(t, got, "etages")
	assertNoLine(t, got, "pieces supplementaires")
}

func TestSurchargePercentagesAdditiveNotCompounded(t *testing.T) {
	// Saturday rush hour: both percentages are computed off the same
	// pre-percentage subtotal (1400) and added. Chaining them would give
	// 1400×1.2×1.3 = 2184 instead.
	saturday := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

	got, err := Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 10, OrderedAt: saturday,
		Extras: Extras{RushHour: true},
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertLine(t, got, "heure de pointe", 280)
	assertLine(t, got, "weekend / jour ferie", 420)
	if got.Subtotal != 2100 {
		t.Errorf("subtotal = %d, want 2100", got.Subtotal)
	}
	if got.Total != 2100 {
		t.Errorf("total = %d, want 2100", got.Total)
	}
}

func TestSurchargePercentagesIncludeFlatRules(t *testing.T) {
	// The percentage stage reads the subtotal after every flat rule:
	// 400 + 1000 + loading 1000 = 2400, rush = 480.
	got, err := Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 10, OrderedAt: daytime,
		Extras: Extras{Loading: true, RushHour: true},
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertLine(t, got, "heure de pointe", 480)
}

func TestSurchargeHolidayFlag(t *testing.T) {
	// A weekday flagged as a public holiday gets the weekend percentage.
	got, err := Quote(PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 10, OrderedAt: daytime,
		Extras: Extras{Holiday: true},
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertLine(t, got, "weekend / jour ferie", 420)
}

func TestSurchargeOrdering(t *testing.T) {
	// Trigger one rule from every stage and check the fixed pipeline order.
	night := time.Date(2026, 2, 14, 22, 0, 0, 0, time.UTC) // Saturday night

	got, err := Quote(PricingRequest{
		Vehicle: VehicleCamion, Service: ServiceDemenagement,
		DistanceKm: 10, OrderedAt: night,
		NearestDriverKm: 4, Weather: WeatherBad,
		Extras: Extras{
			Loading: true, MovingCrew: true, Packaging: true,
			WaitingMinutes: 10, Floors: 1, Rooms: 3, RushHour: true,
		},
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}

	want := []string{
		"majoration nuit",
		"eloignement chauffeur",
		"intemperies",
		"aide au chargement",
		"equipe demenagement",
		"emballage",
		"temps d'attente",
		"etages",
		"pieces supplementaires",
		"heure de pointe",
		"weekend / jour ferie",
	}
	if len(got.Surcharges) != len(want) {
		t.Fatalf("expected %d lines, got %d: %+v", len(want), len(got.Surcharges), got.Surcharges)
	}
	for i, label := range want {
		if got.Surcharges[i].Label != label {
			t.Errorf("line %d = %q, want %q", i, got.Surcharges[i].Label, label)
		}
	}
	assertBreakdownConsistent(t, got, DefaultRateTable())
}

func assertLine(t *testing.T, r *PricingResult, label string, want int64) {
	t.Helper()
	for _, l := range r.Surcharges {
		if l.Label == label {
			if l.Amount != want {
				t.Errorf("%s = %d, want %d", label, l.Amount, want)
			}
			return
		}
	}
	t.Errorf("missing breakdown line %q in %+v", label, r.Surcharges)
}

func assertNoLine(t *testing.T, r *PricingResult, label string) {
	t.Helper()
	for _, l := range r.Surcharges {
		if l.Label == label {
			t.Errorf("unexpected breakdown line %q (amount %d)", label, l.Amount)
		}
	}
}
