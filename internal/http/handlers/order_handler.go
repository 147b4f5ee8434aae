// README: Client order handlers: create, get, cancel.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nocodeci/yatou-sub002/internal/http/middleware"
	"github.com/nocodeci/yatou-sub002/internal/modules/order"
	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
	"github.com/nocodeci/yatou-sub002/internal/types"
)

type OrderHandler struct {
	order *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{order: svc}
}

type createOrderReq struct {
	Vehicle         string    `json:"vehicle"`
	Service         string    `json:"service"`
	Pickup          pointReq  `json:"pickup"`
	Dropoff         pointReq  `json:"dropoff"`
	DistanceKm      float64   `json:"distance_km"`
	NearestDriverKm float64   `json:"nearest_driver_km"`
	Weather         string    `json:"weather"`
	Extras          extrasReq `json:"extras"`
	PlanTier        string    `json:"plan_tier"`
	PlanLevel       string    `json:"plan_level"`
}

// Create handles POST /api/orders. The caller's UID becomes the client ID.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	vehicle, err := tariff.ParseVehicleClass(req.Vehicle)
	if err != nil {
		writeError(c, http.StatusBadRequest, "unknown vehicle class")
		return
	}
	service, err := tariff.ParseServiceType(req.Service)
	if err != nil {
		writeError(c, http.StatusBadRequest, "unknown service type")
		return
	}

	cmd := order.CreateCommand{
		ClientID:        types.ID(middleware.CallerUID(c)),
		Pickup:          types.Point{Lat: req.Pickup.Lat, Lng: req.Pickup.Lng},
		Dropoff:         types.Point{Lat: req.Dropoff.Lat, Lng: req.Dropoff.Lng},
		Vehicle:         vehicle,
		Service:         service,
		DistanceKm:      req.DistanceKm,
		NearestDriverKm: req.NearestDriverKm,
		Weather:         tariff.Weather(req.Weather),
		Extras: tariff.Extras{
			Loading:        req.Extras.Loading,
			MovingCrew:     req.Extras.MovingCrew,
			Packaging:      req.Extras.Packaging,
			WaitingMinutes: req.Extras.WaitingMinutes,
			Urgent:         req.Extras.Urgent,
			RushHour:       req.Extras.RushHour,
			Holiday:        req.Extras.Holiday,
			Floors:         req.Extras.Floors,
			Rooms:          req.Extras.Rooms,
			WeightKg:       req.Extras.WeightKg,
			DeclaredValue:  req.Extras.DeclaredValue,
		},
	}
	if req.PlanLevel != "" {
		tier := tariff.PlanTier(req.PlanTier)
		if tier == "" {
			tier = tariff.PlanPersonal
		}
		cmd.Plan = &tariff.PlanRef{Tier: tier, Level: req.PlanLevel}
	}

	id, err := h.order.Create(c.Request.Context(), cmd)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"order_id": id, "status": order.StatusCreated})
}

type orderResp struct {
	OrderID          types.ID      `json:"order_id"`
	Status           order.Status  `json:"status"`
	Vehicle          string        `json:"vehicle"`
	Service          string        `json:"service"`
	DistanceKm       float64       `json:"distance_km"`
	Fare             int64         `json:"fare"`
	Currency         string        `json:"currency"`
	Breakdown        []tariff.Line `json:"breakdown"`
	EstimatedMinutes int           `json:"estimated_minutes"`
	DriverID         *types.ID     `json:"driver_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing order id")
		return
	}
	o, err := h.order.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, orderResp{
		OrderID:          o.ID,
		Status:           o.Status,
		Vehicle:          string(o.Vehicle),
		Service:          string(o.Service),
		DistanceKm:       o.DistanceKm,
		Fare:             o.Fare.Amount,
		Currency:         o.Fare.Currency,
		Breakdown:        o.Breakdown,
		EstimatedMinutes: o.EstimatedMinutes,
		DriverID:         o.DriverID,
		CreatedAt:        o.CreatedAt,
	})
}

type cancelReq struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing order id")
		return
	}
	var req cancelReq
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "user_cancel"
	}
	err := h.order.Cancel(c.Request.Context(), order.CancelCommand{
		OrderID:   types.ID(id),
		ActorType: "client",
		Reason:    req.Reason,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": order.StatusCancelled})
}
