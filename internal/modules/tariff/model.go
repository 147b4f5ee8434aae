// README: Tariff engine types: vehicle/service enums, pricing request and result values.
package tariff

import (
	"errors"
	"strings"
	"time"

	"github.com/nocodeci/yatou-sub002/internal/types"
)

// VehicleClass identifies the vehicle category a trip is priced for.
type VehicleClass string

const (
	VehicleMoto     VehicleClass = "moto"
	VehicleTricycle VehicleClass = "tricycle"
	VehicleCargo    VehicleClass = "cargo"
	VehicleFourgon  VehicleClass = "fourgon"
	VehicleCamion   VehicleClass = "camion"
)

// ParseVehicleClass normalizes (lowercases+trims) and validates a vehicle class string.
func ParseVehicleClass(in string) (VehicleClass, error) {
	v := VehicleClass(strings.ToLower(strings.TrimSpace(in)))
	if v.Valid() {
		return v, nil
	}
	return "", ErrInvalidInput
}

func (v VehicleClass) Valid() bool {
	switch v {
	case VehicleMoto, VehicleTricycle, VehicleCargo, VehicleFourgon, VehicleCamion:
		return true
	default:
		return false
	}
}

// ServiceType identifies the kind of service requested.
type ServiceType string

const (
	ServiceLivraison    ServiceType = "livraison"
	ServiceCourse       ServiceType = "course"
	ServiceDemenagement ServiceType = "demenagement"
)

// ParseServiceType normalizes and validates a service type string.
func ParseServiceType(in string) (ServiceType, error) {
	s := ServiceType(strings.ToLower(strings.TrimSpace(in)))
	if s.Valid() {
		return s, nil
	}
	return "", ErrInvalidInput
}

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceLivraison, ServiceCourse, ServiceDemenagement:
		return true
	default:
		return false
	}
}

// Weather is the coarse weather condition supplied by the caller's weather feed.
type Weather string

const (
	WeatherGood Weather = "good"
	WeatherBad  Weather = "bad"
)

// PlanTier distinguishes personal and business subscription catalogues.
type PlanTier string

const (
	PlanPersonal PlanTier = "personal"
	PlanBusiness PlanTier = "business"
)

// PlanRef names a subscription plan a quote should be discounted against.
type PlanRef struct {
	Tier  PlanTier
	Level string
}

// Extras are the optional add-ons of a pricing request. Extras that do not
// apply to the requested vehicle/service combination are ignored, not errors.
type Extras struct {
	Loading        bool    // loading assistance
	MovingCrew     bool    // moving-team assistance (fourgon/camion only)
	Packaging      bool    // packaging materials (camion only)
	WaitingMinutes int     // billed in ceiling-rounded blocks
	Urgent         bool    // urgency flag (moto only)
	RushHour       bool    // rush-hour window flag
	Holiday        bool    // public-holiday flag (weekends are derived from the timestamp)
	Floors         int     // floor count (demenagement only)
	Rooms          int     // room count (demenagement only)
	WeightKg       float64 // package weight, checked against plan caps
	DeclaredValue  int64   // merchandise value, informational
}

// PricingRequest is the engine's sole input. All fields come from external
// collaborators (dispatch, weather feed, clock); the engine performs no I/O.
type PricingRequest struct {
	Vehicle         VehicleClass
	Service         ServiceType
	DistanceKm      float64
	OrderedAt       time.Time
	NearestDriverKm float64
	Weather         Weather
	Extras          Extras
	Plan            *PlanRef
}

// Line is a single itemized charge in a quote breakdown.
type Line struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// PricingResult is the engine's output: every contributing charge, the
// rounded total and an advisory duration estimate.
type PricingResult struct {
	Vehicle          VehicleClass `json:"vehicle"`
	Service          ServiceType  `json:"service"`
	Base             int64        `json:"base"`
	Distance         int64        `json:"distance"`
	Surcharges       []Line       `json:"surcharges,omitempty"`
	Subtotal         int64        `json:"subtotal"`
	Discount         int64        `json:"discount,omitempty"`
	Total            int64        `json:"total"`
	Currency         string       `json:"currency"`
	EstimatedMinutes int          `json:"estimated_minutes"`
}

// Lines returns the full ordered breakdown: base, distance, surcharges in
// pipeline order, then the discount as a negative line. Used by receipts and
// the quote explainer.
func (r *PricingResult) Lines() []Line {
	out := make([]Line, 0, len(r.Surcharges)+3)
	out = append(out, Line{Label: "prise en charge", Amount: r.Base})
	if r.Distance != 0 {
		out = append(out, Line{Label: "distance", Amount: r.Distance})
	}
	out = append(out, r.Surcharges...)
	if r.Discount != 0 {
		out = append(out, Line{Label: "remise abonnement", Amount: -r.Discount})
	}
	return out
}

// Money returns the rounded total as a money value.
func (r *PricingResult) Money() types.Money {
	return types.Money{Amount: r.Total, Currency: r.Currency}
}

var (
	// ErrInvalidInput flags malformed or out-of-range request fields; it is
	// returned before any pricing math runs.
	ErrInvalidInput = errors.New("invalid pricing input")
	// ErrUnsupportedCombination is returned when no rate entry exists for the
	// requested vehicle/service pair. The engine never prices such trips at zero.
	ErrUnsupportedCombination = errors.New("no tariff for vehicle/service combination")
	// ErrPlanNotFound is returned when the named subscription plan does not exist.
	ErrPlanNotFound = errors.New("subscription plan not found")
	// ErrPlanNotEligible is returned when a plan's caps reject the trip; the
	// caller must fall back to uncovered pricing.
	ErrPlanNotEligible = errors.New("subscription plan not eligible for this trip")
)
