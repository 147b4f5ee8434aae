// README: Subscription plan tests (eligibility caps, discount stage).
package tariff

import (
	"errors"
	"testing"
)

func TestPlanDiscountNeverIncreasesPrice(t *testing.T) {
	table := DefaultRateTable()
	base := PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 8, OrderedAt: daytime,
	}

	uncovered, err := Quote(base, table)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}

	for ref := range table.Plans {
		req := base
		r := ref
		req.Plan = &r
		got, err := Quote(req, table)
		if errors.Is(err, ErrPlanNotEligible) {
			continue
		}
		if err != nil {
			t.Fatalf("plan %s/%s: %v", ref.Tier, ref.Level, err)
		}
		if got.Total > uncovered.Total {
			t.Errorf("plan %s/%s increased price: %d > %d", ref.Tier, ref.Level, got.Total, uncovered.Total)
		}
	}
}

func TestPlanWeightCap(t *testing.T) {
	// The express plan caps packages at 10 kg.
	req := PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 8, OrderedAt: daytime,
		Extras: Extras{WeightKg: 15},
		Plan:   &PlanRef{Tier: PlanPersonal, Level: "express"},
	}
	if _, err := Quote(req, DefaultRateTable()); !errors.Is(err, ErrPlanNotEligible) {
		t.Fatalf("expected ErrPlanNotEligible for overweight package, got %v", err)
	}

	req.Extras.WeightKg = 8
	if _, err := Quote(req, DefaultRateTable()); err != nil {
		t.Fatalf("expected eligible quote under the cap, got %v", err)
	}
}

func TestPlanServiceCap(t *testing.T) {
	// express covers livraison only; a course is rejected, not silently
	// priced without the discount.
	req := PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceCourse,
		DistanceKm: 5, OrderedAt: daytime,
		Plan: &PlanRef{Tier: PlanPersonal, Level: "express"},
	}
	if _, err := Quote(req, DefaultRateTable()); !errors.Is(err, ErrPlanNotEligible) {
		t.Fatalf("expected ErrPlanNotEligible, got %v", err)
	}
}

func TestPlanNotFound(t *testing.T) {
	req := PricingRequest{
		Vehicle: VehicleMoto, Service: ServiceLivraison,
		DistanceKm: 5, OrderedAt: daytime,
		Plan: &PlanRef{Tier: PlanPersonal, Level: "gold"},
	}
	if _, err := Quote(req, DefaultRateTable()); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestPlanMovingDiscount(t *testing.T) {
	// premium uses its reduced moving discount for demenagement trips:
	// subtotal 10200, 15% → 1530, total 8670 → rounds up to 8700.
	got, err := Quote(PricingRequest{
		Vehicle: VehicleFourgon, Service: ServiceDemenagement,
		DistanceKm: 12, OrderedAt: daytime,
		Plan: &PlanRef{Tier: PlanPersonal, Level: "premium"},
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if got.Discount != 1530 {
		t.Errorf("discount = %d, want 1530", got.Discount)
	}
	if got.Total != 8700 {
		t.Errorf("total = %d, want 8700", got.Total)
	}
}

func TestPlanDiscountAppearsLastInLines(t *testing.T) {
	got, err := Quote(PricingRequest{
		Vehicle: VehicleCargo, Service: ServiceLivraison,
		DistanceKm: 36, OrderedAt: daytime,
		Extras: Extras{Loading: true},
		Plan:   &PlanRef{Tier: PlanBusiness, Level: "unlimited"},
	}, DefaultRateTable())
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	lines := got.Lines()
	if len(lines) < 3 {
		t.Fatalf("expected base, distance, surcharge and discount lines, got %+v", lines)
	}
	last := lines[len(lines)-1]
	if last.Label != "remise abonnement" || last.Amount != -got.Discount {
		t.Errorf("expected trailing discount line, got %+v", last)
	}
	if lines[0].Label != "prise en charge" {
		t.Errorf("expected leading base line, got %+v", lines[0])
	}
}
