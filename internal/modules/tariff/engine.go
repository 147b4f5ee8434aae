// README: Quote pipeline: validate, base + distance price, surcharges, discount, rounding, duration.
package tariff

import "math"

// Quote prices a request against a rate table. It is a pure function: no
// I/O, no shared mutable state, bit-identical output for identical inputs.
//
// Pipeline: validate → base price → distance price → ordered surcharges →
// subscription discount → single final rounding → duration estimate.
func Quote(req PricingRequest, table *RateTable) (*PricingResult, error) {
	if table == nil {
		table = DefaultRateTable()
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	entry, err := table.Rate(req.Vehicle, req.Service)
	if err != nil {
		return nil, err
	}

	base := entry.Base
	distance := distancePrice(req.DistanceKm, entry)

	subtotal, lines := applySurcharges(req, base+distance, table)

	var discount int64
	if req.Plan != nil {
		plan, err := table.Plan(*req.Plan)
		if err != nil {
			return nil, err
		}
		if err := plan.eligible(req); err != nil {
			return nil, err
		}
		discount = plan.discountAmount(subtotal, req.Service)
	}

	return &PricingResult{
		Vehicle:          req.Vehicle,
		Service:          req.Service,
		Base:             base,
		Distance:         distance,
		Surcharges:       lines,
		Subtotal:         subtotal,
		Discount:         discount,
		Total:            roundUp(subtotal-discount, table.RoundIncrement),
		Currency:         table.Currency,
		EstimatedMinutes: estimateMinutes(req.DistanceKm, entry, table),
	}, nil
}

func validate(req PricingRequest) error {
	if !req.Vehicle.Valid() || !req.Service.Valid() {
		return ErrInvalidInput
	}
	if req.DistanceKm < 0 || req.NearestDriverKm < 0 {
		return ErrInvalidInput
	}
	e := req.Extras
	if e.WaitingMinutes < 0 || e.Floors < 0 || e.Rooms < 0 || e.WeightKg < 0 {
		return ErrInvalidInput
	}
	return nil
}

// distancePrice computes the distance-dependent charge for one rate entry.
func distancePrice(distanceKm float64, e RateEntry) int64 {
	// Minimum band: the base fare alone covers short trips; beyond the band
	// the whole billable distance is charged, not just the excess.
	if e.MinTripKm > 0 && distanceKm <= e.MinTripKm {
		return 0
	}

	billable := distanceKm - e.CoveredKm
	if billable <= 0 {
		return 0
	}

	if e.ThresholdKm > 0 && billable > e.ThresholdKm {
		over := billable - e.ThresholdKm
		return kmCharge(e.ThresholdKm, e.PerKm) + kmCharge(over, e.PerKmOverThreshold)
	}
	return kmCharge(billable, e.PerKm)
}

// kmCharge rounds a fractional-kilometre charge to the nearest currency unit.
func kmCharge(km float64, perKm int64) int64 {
	return int64(math.Round(km * float64(perKm)))
}

// roundUp rounds a non-negative amount up to the nearest increment. Applied
// exactly once, after discounting, never per line item.
func roundUp(amount, increment int64) int64 {
	if increment <= 1 {
		return amount
	}
	if amount <= 0 {
		return 0
	}
	return (amount + increment - 1) / increment * increment
}

// estimateMinutes is the advisory duration estimate; it never affects price.
func estimateMinutes(distanceKm float64, e RateEntry, t *RateTable) int {
	travel := int(math.Round(distanceKm * t.MinutesPerKm))
	if travel < e.BaseTimeMin {
		return e.BaseTimeMin
	}
	return travel
}
