// README: Quote handlers: price a trip, explain the breakdown.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nocodeci/yatou-sub002/internal/ai"
	"github.com/nocodeci/yatou-sub002/internal/maps"
	"github.com/nocodeci/yatou-sub002/internal/modules/dispatch"
	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
	"github.com/nocodeci/yatou-sub002/internal/types"
)

// RouteEstimator resolves a driving distance when the caller does not supply one.
type RouteEstimator interface {
	EstimateRoute(ctx context.Context, origin, destination types.Point) (*maps.RouteEstimate, error)
}

type QuoteHandler struct {
	tariff   *tariff.Service
	dispatch *dispatch.Service
	routes   RouteEstimator
	llm      ai.LLMProvider
}

// NewQuoteHandler wires the quote endpoints. dispatch, routes, and llm may be
// nil; the matching features then degrade gracefully.
func NewQuoteHandler(tariffSvc *tariff.Service, dispatchSvc *dispatch.Service, routes RouteEstimator, llm ai.LLMProvider) *QuoteHandler {
	return &QuoteHandler{tariff: tariffSvc, dispatch: dispatchSvc, routes: routes, llm: llm}
}

type pointReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type extrasReq struct {
	Loading        bool    `json:"loading"`
	MovingCrew     bool    `json:"moving_crew"`
	Packaging      bool    `json:"packaging"`
	WaitingMinutes int     `json:"waiting_minutes"`
	Urgent         bool    `json:"urgent"`
	RushHour       bool    `json:"rush_hour"`
	Holiday        bool    `json:"holiday"`
	Floors         int     `json:"floors"`
	Rooms          int     `json:"rooms"`
	WeightKg       float64 `json:"weight_kg"`
	DeclaredValue  int64   `json:"declared_value"`
}

type quoteReq struct {
	Vehicle         string    `json:"vehicle"`
	Service         string    `json:"service"`
	DistanceKm      float64   `json:"distance_km"`
	OrderedAt       string    `json:"ordered_at"`
	NearestDriverKm float64   `json:"nearest_driver_km"`
	Weather         string    `json:"weather"`
	Pickup          *pointReq `json:"pickup"`
	Dropoff         *pointReq `json:"dropoff"`
	Extras          extrasReq `json:"extras"`
	PlanTier        string    `json:"plan_tier"`
	PlanLevel       string    `json:"plan_level"`
}

// Quote handles POST /api/quotes.
func (h *QuoteHandler) Quote(c *gin.Context) {
	req, ok := h.buildRequest(c)
	if !ok {
		return
	}

	result, err := h.tariff.Quote(c.Request.Context(), req)
	if err != nil {
		writeTariffError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"quote": result, "lines": result.Lines()})
}

// Explain handles POST /api/quotes/explain.
func (h *QuoteHandler) Explain(c *gin.Context) {
	if h.llm == nil {
		writeError(c, http.StatusServiceUnavailable, "explanations are not enabled")
		return
	}
	req, ok := h.buildRequest(c)
	if !ok {
		return
	}

	result, err := h.tariff.Quote(c.Request.Context(), req)
	if err != nil {
		writeTariffError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	explanation, err := h.llm.ExplainQuote(ctx, result)
	if err != nil {
		writeError(c, http.StatusBadGateway, "explanation unavailable")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"quote": result, "explanation": explanation})
}

// buildRequest parses and enriches the pricing request. Replies with the
// error itself on failure; callers just bail out.
func (h *QuoteHandler) buildRequest(c *gin.Context) (tariff.PricingRequest, bool) {
	var body quoteReq
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return tariff.PricingRequest{}, false
	}

	vehicle, err := tariff.ParseVehicleClass(body.Vehicle)
	if err != nil {
		writeError(c, http.StatusBadRequest, "unknown vehicle class")
		return tariff.PricingRequest{}, false
	}
	service, err := tariff.ParseServiceType(body.Service)
	if err != nil {
		writeError(c, http.StatusBadRequest, "unknown service type")
		return tariff.PricingRequest{}, false
	}

	orderedAt := time.Now()
	if body.OrderedAt != "" {
		orderedAt, err = time.Parse(time.RFC3339, body.OrderedAt)
		if err != nil {
			writeError(c, http.StatusBadRequest, "ordered_at must be RFC3339")
			return tariff.PricingRequest{}, false
		}
	}

	req := tariff.PricingRequest{
		Vehicle:         vehicle,
		Service:         service,
		DistanceKm:      body.DistanceKm,
		OrderedAt:       orderedAt,
		NearestDriverKm: body.NearestDriverKm,
		Weather:         tariff.Weather(body.Weather),
		Extras: tariff.Extras{
			Loading:        body.Extras.Loading,
			MovingCrew:     body.Extras.MovingCrew,
			Packaging:      body.Extras.Packaging,
			WaitingMinutes: body.Extras.WaitingMinutes,
			Urgent:         body.Extras.Urgent,
			RushHour:       body.Extras.RushHour,
			Holiday:        body.Extras.Holiday,
			Floors:         body.Extras.Floors,
			Rooms:          body.Extras.Rooms,
			WeightKg:       body.Extras.WeightKg,
			DeclaredValue:  body.Extras.DeclaredValue,
		},
	}
	if body.PlanLevel != "" {
		tier := tariff.PlanTier(body.PlanTier)
		if tier == "" {
			tier = tariff.PlanPersonal
		}
		req.Plan = &tariff.PlanRef{Tier: tier, Level: body.PlanLevel}
	}

	// Resolve the distance from the road network when not supplied.
	if req.DistanceKm == 0 && body.Pickup != nil && body.Dropoff != nil && h.routes != nil {
		est, err := h.routes.EstimateRoute(c.Request.Context(),
			types.Point{Lat: body.Pickup.Lat, Lng: body.Pickup.Lng},
			types.Point{Lat: body.Dropoff.Lat, Lng: body.Dropoff.Lng})
		if err != nil {
			writeError(c, http.StatusBadGateway, "route estimation failed")
			return tariff.PricingRequest{}, false
		}
		req.DistanceKm = est.DistanceKm
	}

	// Resolve driver remoteness from the live pool when not supplied.
	if req.NearestDriverKm == 0 && body.Pickup != nil && h.dispatch != nil {
		km, found, err := h.dispatch.NearestDriverKm(c.Request.Context(),
			types.Point{Lat: body.Pickup.Lat, Lng: body.Pickup.Lng}, vehicle)
		if err == nil && found {
			req.NearestDriverKm = km
		}
	}

	return req, true
}
