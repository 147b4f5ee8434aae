// README: Surcharge pipeline: ordered rules producing breakdown lines.
package tariff

import (
	"math"
	"time"
)

// rule is one named adjustment of the surcharge pipeline. amount receives the
// request and returns the charge; a zero amount means the rule did not
// trigger and produces no breakdown line.
type rule struct {
	label  string
	amount func(req PricingRequest) int64
}

// applySurcharges runs the fixed pipeline over the running subtotal:
//
//  1. night per-extra-km (vehicle-specific rate)
//  2. nearest-driver-distance per-extra-km
//  3. bad-weather per-extra-km
//  4. flat extras: loading, moving crew, packaging, urgency, waiting blocks
//  5. moving linear extras: per-floor, per-room beyond the free count
//  6. rush-hour and weekend/holiday percentages, each computed independently
//     against the same pre-percentage subtotal and added, never compounded
//
// The order is significant: every flat/per-km rule is summed before any
// percentage rule reads the subtotal.
func applySurcharges(req PricingRequest, subtotal int64, table *RateTable) (int64, []Line) {
	cfg := table.Surcharges
	var lines []Line

	for _, r := range flatRules(req, cfg, table) {
		if amount := r.amount(req); amount > 0 {
			subtotal += amount
			lines = append(lines, Line{Label: r.label, Amount: amount})
		}
	}

	// Percentage window surcharges read the subtotal after all flat rules.
	prePercent := subtotal
	if req.Extras.RushHour {
		if amount := percentOf(prePercent, cfg.RushPercent); amount > 0 {
			subtotal += amount
			lines = append(lines, Line{Label: "heure de pointe", Amount: amount})
		}
	}
	if req.Extras.Holiday || isWeekend(req.OrderedAt, table.Location) {
		if amount := percentOf(prePercent, cfg.WeekendPercent); amount > 0 {
			subtotal += amount
			lines = append(lines, Line{Label: "weekend / jour ferie", Amount: amount})
		}
	}

	return subtotal, lines
}

func flatRules(req PricingRequest, cfg SurchargeConfig, table *RateTable) []rule {
	return []rule{
		{label: "majoration nuit", amount: func(req PricingRequest) int64 {
			if localHour(req.OrderedAt, table.Location) < cfg.NightStartHour {
				return 0
			}
			return kmCharge(extraKm(req.DistanceKm, cfg.FreeKm), cfg.NightPerKm[req.Vehicle])
		}},
		{label: "eloignement chauffeur", amount: func(req PricingRequest) int64 {
			if req.NearestDriverKm <= cfg.DriverThresholdKm {
				return 0
			}
			return kmCharge(req.NearestDriverKm-cfg.DriverThresholdKm, cfg.DriverPerKm)
		}},
		{label: "intemperies", amount: func(req PricingRequest) int64 {
			if req.Weather != WeatherBad {
				return 0
			}
			return kmCharge(extraKm(req.DistanceKm, cfg.FreeKm), cfg.WeatherPerKm)
		}},
		{label: "aide au chargement", amount: func(req PricingRequest) int64 {
			if !req.Extras.Loading {
				return 0
			}
			return cfg.LoadingFee
		}},
		{label: "equipe demenagement", amount: func(req PricingRequest) int64 {
			// Crew assistance only exists for the larger vehicles.
			if !req.Extras.MovingCrew || (req.Vehicle != VehicleFourgon && req.Vehicle != VehicleCamion) {
				return 0
			}
			return cfg.MovingCrewFee
		}},
		{label: "emballage", amount: func(req PricingRequest) int64 {
			if !req.Extras.Packaging || req.Vehicle != VehicleCamion {
				return 0
			}
			return cfg.PackagingFee
		}},
		{label: "course urgente", amount: func(req PricingRequest) int64 {
			if !req.Extras.Urgent || req.Vehicle != VehicleMoto {
				return 0
			}
			return cfg.UrgentFee
		}},
		{label: "temps d'attente", amount: func(req PricingRequest) int64 {
			if req.Extras.WaitingMinutes == 0 {
				return 0
			}
			blocks := (req.Extras.WaitingMinutes + cfg.WaitBlockMinutes - 1) / cfg.WaitBlockMinutes
			return int64(blocks) * cfg.WaitBlockFee
		}},
		{label: "etages", amount: func(req PricingRequest) int64 {
			if req.Service != ServiceDemenagement || req.Extras.Floors == 0 {
				return 0
			}
			return int64(req.Extras.Floors) * cfg.FloorFee
		}},
		{label: "pieces supplementaires", amount: func(req PricingRequest) int64 {
			if req.Service != ServiceDemenagement || req.Extras.Rooms <= cfg.RoomFreeCount {
				return 0
			}
			return int64(req.Extras.Rooms-cfg.RoomFreeCount) * cfg.RoomFee
		}},
	}
}

// extraKm is the trip distance beyond the free band used by the per-extra-km
// rules. It is a pipeline constant, independent of any CoveredKm on the rate
// entry.
func extraKm(distanceKm, freeKm float64) float64 {
	if distanceKm <= freeKm {
		return 0
	}
	return distanceKm - freeKm
}

func percentOf(amount, percent int64) int64 {
	return int64(math.Round(float64(amount) * float64(percent) / 100))
}

// localHour evaluates the order timestamp in the trip's local time zone; the
// night and weekend windows are user-facing, not UTC.
func localHour(t time.Time, loc *time.Location) int {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Hour()
}

func isWeekend(t time.Time, loc *time.Location) bool {
	if t.IsZero() {
		return false
	}
	if loc != nil {
		t = t.In(loc)
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
