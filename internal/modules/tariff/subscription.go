// README: Subscription plans: catalogue, eligibility caps and discount stage.
package tariff

import "math"

// SubscriptionPlan is a pre-paid membership granting a discount fraction on
// trip prices, with optional per-service caps.
type SubscriptionPlan struct {
	Tier     PlanTier `json:"tier"`
	Level    string   `json:"level"`
	Price    int64    `json:"price"`
	Discount float64  `json:"discount"` // fraction of the computed trip price, within [0,1]

	// DeliveriesPerPeriod caps covered trips per billing period; -1 = unlimited.
	DeliveriesPerPeriod int `json:"deliveries_per_period"`

	// MaxWeightKg rejects trips whose package exceeds the cap; 0 = no cap.
	MaxWeightKg float64 `json:"max_weight_kg,omitempty"`

	// Services restricts which service types the plan covers; empty = all.
	Services []ServiceType `json:"services,omitempty"`

	// MovingDiscount, when set, replaces Discount for demenagement trips.
	MovingDiscount float64 `json:"moving_discount,omitempty"`
}

// Covers reports whether the plan covers the given service type.
func (p SubscriptionPlan) Covers(s ServiceType) bool {
	if len(p.Services) == 0 {
		return true
	}
	for _, svc := range p.Services {
		if svc == s {
			return true
		}
	}
	return false
}

// eligible enforces the plan caps against a request. The engine never
// silently ignores a cap; callers fall back to uncovered pricing.
func (p SubscriptionPlan) eligible(req PricingRequest) error {
	if !p.Covers(req.Service) {
		return ErrPlanNotEligible
	}
	if p.MaxWeightKg > 0 && req.Extras.WeightKg > p.MaxWeightKg {
		return ErrPlanNotEligible
	}
	return nil
}

// discountAmount returns the rounded discount for a pre-rounding subtotal.
// Applying a plan never increases the price and never exceeds the subtotal.
func (p SubscriptionPlan) discountAmount(subtotal int64, service ServiceType) int64 {
	fraction := p.Discount
	if service == ServiceDemenagement && p.MovingDiscount > 0 {
		fraction = p.MovingDiscount
	}
	amount := int64(math.Round(float64(subtotal) * fraction))
	if amount < 0 {
		return 0
	}
	if amount > subtotal {
		return subtotal
	}
	return amount
}

func defaultPlans() map[PlanRef]SubscriptionPlan {
	plans := []SubscriptionPlan{
		{
			Tier: PlanPersonal, Level: "express",
			Price: 5000, Discount: 0.10, DeliveriesPerPeriod: 10,
			MaxWeightKg: 10, Services: []ServiceType{ServiceLivraison},
		},
		{
			Tier: PlanPersonal, Level: "flex",
			Price: 10000, Discount: 0.20, DeliveriesPerPeriod: 25,
			MaxWeightKg: 25, Services: []ServiceType{ServiceLivraison, ServiceCourse},
		},
		{
			Tier: PlanPersonal, Level: "premium",
			Price: 20000, Discount: 0.30, DeliveriesPerPeriod: -1,
			MaxWeightKg: 50, MovingDiscount: 0.15,
		},
		{
			Tier: PlanBusiness, Level: "pro",
			Price: 30000, Discount: 0.15, DeliveriesPerPeriod: 60,
			MaxWeightKg: 50, Services: []ServiceType{ServiceLivraison, ServiceCourse},
		},
		{
			Tier: PlanBusiness, Level: "proPlus",
			Price: 50000, Discount: 0.25, DeliveriesPerPeriod: 150,
			MaxWeightKg: 100,
		},
		{
			Tier: PlanBusiness, Level: "unlimited",
			Price: 100000, Discount: 0.35, DeliveriesPerPeriod: -1,
		},
	}
	out := make(map[PlanRef]SubscriptionPlan, len(plans))
	for _, p := range plans {
		out[PlanRef{Tier: p.Tier, Level: p.Level}] = p
	}
	return out
}
