// README: Rate tables: immutable tariff configuration, lookup and validation.
package tariff

import (
	"errors"
	"fmt"
	"time"

	"github.com/nocodeci/yatou-sub002/internal/types"
)

// RateKey keys a rate entry by vehicle and service. New combinations are
// purely additive data, never code changes.
type RateKey struct {
	Vehicle VehicleClass
	Service ServiceType
}

// RateEntry is the distance-pricing configuration of one vehicle/service pair.
//
// Three distance conventions coexist in the tariff and are selectable per entry:
//   - flat: price = billable × PerKm (CoveredKm and ThresholdKm both zero)
//   - covered: the first CoveredKm kilometres are absorbed into the base fare,
//     billable = max(0, distance − CoveredKm)
//   - minimum band: at or under MinTripKm the base fare alone applies; over it
//     the full billable distance is charged (fourgon demenagement tariff)
//
// ThresholdKm/PerKmOverThreshold add the camion bracket: kilometres beyond the
// threshold are billed at the second rate. The over-threshold rate must be
// configured explicitly whenever ThresholdKm is set.
type RateEntry struct {
	Base               int64
	PerKm              int64
	PerKmOverThreshold int64
	ThresholdKm        float64
	CoveredKm          float64
	MinTripKm          float64
	BaseTimeMin        int
}

// SurchargeConfig holds every named constant of the surcharge pipeline so the
// rules stay data, not embedded literals.
type SurchargeConfig struct {
	NightStartHour int                    // after this local hour the night rate applies
	NightPerKm     map[VehicleClass]int64 // per-extra-km night rate, vehicle-specific

	DriverThresholdKm float64 // nearest-driver distance beyond which the pickup surcharge starts
	DriverPerKm       int64

	WeatherPerKm int64

	FreeKm float64 // the "beyond 2 km" constant shared by the per-extra-km trip rules

	LoadingFee    int64
	MovingCrewFee int64
	PackagingFee  int64
	UrgentFee     int64

	WaitBlockMinutes int
	WaitBlockFee     int64

	FloorFee      int64
	RoomFee       int64
	RoomFreeCount int

	RushPercent    int64
	WeekendPercent int64
}

// RateTable is the engine's full immutable configuration. A table is never
// mutated after construction; runtime reloads swap in a fresh snapshot.
type RateTable struct {
	Entries    map[RateKey]RateEntry
	Surcharges SurchargeConfig
	Plans      map[PlanRef]SubscriptionPlan

	RoundIncrement int64
	MinutesPerKm   float64
	Currency       string
	Location       *time.Location
}

// Rate returns the entry for a vehicle/service pair, or ErrUnsupportedCombination.
func (t *RateTable) Rate(v VehicleClass, s ServiceType) (RateEntry, error) {
	e, ok := t.Entries[RateKey{Vehicle: v, Service: s}]
	if !ok {
		return RateEntry{}, ErrUnsupportedCombination
	}
	return e, nil
}

// Plan returns the subscription plan for a tier/level, or ErrPlanNotFound.
func (t *RateTable) Plan(ref PlanRef) (SubscriptionPlan, error) {
	p, ok := t.Plans[ref]
	if !ok {
		return SubscriptionPlan{}, ErrPlanNotFound
	}
	return p, nil
}

// Validate rejects incoherent tables before they are put into service.
func (t *RateTable) Validate() error {
	if t.RoundIncrement <= 0 {
		return errors.New("round increment must be positive")
	}
	if t.MinutesPerKm <= 0 {
		return errors.New("minutes-per-km must be positive")
	}
	if len(t.Entries) == 0 {
		return errors.New("at least one rate entry is required")
	}
	for k, e := range t.Entries {
		if e.Base < 0 || e.PerKm < 0 || e.PerKmOverThreshold < 0 {
			return fmt.Errorf("%s/%s: rates must be non-negative", k.Vehicle, k.Service)
		}
		if e.ThresholdKm < 0 || e.CoveredKm < 0 || e.MinTripKm < 0 {
			return fmt.Errorf("%s/%s: distance fields must be non-negative", k.Vehicle, k.Service)
		}
		// The bracket rate is never silently defaulted to the first-bracket rate.
		if e.ThresholdKm > 0 && e.PerKmOverThreshold == 0 {
			return fmt.Errorf("%s/%s: over-threshold rate must be configured with a threshold", k.Vehicle, k.Service)
		}
		if e.ThresholdKm == 0 && e.PerKmOverThreshold != 0 {
			return fmt.Errorf("%s/%s: over-threshold rate set without a threshold", k.Vehicle, k.Service)
		}
	}
	for ref, p := range t.Plans {
		if p.Discount < 0 || p.Discount > 1 {
			return fmt.Errorf("plan %s/%s: discount must be within [0,1]", ref.Tier, ref.Level)
		}
		if p.MovingDiscount < 0 || p.MovingDiscount > 1 {
			return fmt.Errorf("plan %s/%s: moving discount must be within [0,1]", ref.Tier, ref.Level)
		}
		if p.MaxWeightKg < 0 {
			return fmt.Errorf("plan %s/%s: weight cap must be non-negative", ref.Tier, ref.Level)
		}
	}
	return nil
}

// DefaultRateTable is the shipped tariff: the vehicle×service keyed table with
// additive per-factor surcharges. The alternate vehicle-keyed percentage/bracket
// policy is representable in the same structures (see engine tests).
func DefaultRateTable() *RateTable {
	loc, err := time.LoadLocation("Africa/Abidjan")
	if err != nil {
		loc = time.UTC
	}
	return &RateTable{
		Entries: map[RateKey]RateEntry{
			{VehicleMoto, ServiceLivraison}:        {Base: 400, PerKm: 100, BaseTimeMin: 15},
			{VehicleMoto, ServiceCourse}:           {Base: 500, PerKm: 100, BaseTimeMin: 15},
			{VehicleTricycle, ServiceLivraison}:    {Base: 600, PerKm: 150, BaseTimeMin: 20},
			{VehicleTricycle, ServiceCourse}:       {Base: 700, PerKm: 150, BaseTimeMin: 20},
			{VehicleCargo, ServiceLivraison}:       {Base: 1000, PerKm: 250, BaseTimeMin: 25},
			{VehicleCargo, ServiceCourse}:          {Base: 1200, PerKm: 250, BaseTimeMin: 25},
			{VehicleFourgon, ServiceCourse}:        {Base: 2000, PerKm: 400, BaseTimeMin: 30},
			{VehicleFourgon, ServiceDemenagement}:  {Base: 3000, PerKm: 600, MinTripKm: 5, BaseTimeMin: 45},
			{VehicleCamion, ServiceCourse}:         {Base: 4000, PerKm: 1500, ThresholdKm: 50, PerKmOverThreshold: 1000, BaseTimeMin: 60},
			{VehicleCamion, ServiceDemenagement}:   {Base: 5000, PerKm: 1500, ThresholdKm: 50, PerKmOverThreshold: 1000, BaseTimeMin: 60},
		},
		Surcharges: SurchargeConfig{
			NightStartHour: 20,
			NightPerKm: map[VehicleClass]int64{
				VehicleMoto:     50,
				VehicleTricycle: 50,
				VehicleCargo:    75,
				VehicleFourgon:  100,
				VehicleCamion:   150,
			},
			DriverThresholdKm: 2,
			DriverPerKm:       100,
			WeatherPerKm:      100,
			FreeKm:            2,
			LoadingFee:        1000,
			MovingCrewFee:     5000,
			PackagingFee:      2000,
			UrgentFee:         500,
			WaitBlockMinutes:  15,
			WaitBlockFee:      500,
			FloorFee:          1000,
			RoomFee:           500,
			RoomFreeCount:     2,
			RushPercent:       20,
			WeekendPercent:    30,
		},
		Plans:          defaultPlans(),
		RoundIncrement: 50,
		MinutesPerKm:   3,
		Currency:       types.DefaultCurrency,
		Location:       loc,
	}
}
