// README: Driver handlers: availability pool and order transitions.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nocodeci/yatou-sub002/internal/http/middleware"
	"github.com/nocodeci/yatou-sub002/internal/modules/dispatch"
	"github.com/nocodeci/yatou-sub002/internal/modules/order"
	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
	"github.com/nocodeci/yatou-sub002/internal/types"
)

type DriverHandler struct {
	order    *order.Service
	dispatch *dispatch.Service
}

func NewDriverHandler(orderSvc *order.Service, dispatchSvc *dispatch.Service) *DriverHandler {
	return &DriverHandler{order: orderSvc, dispatch: dispatchSvc}
}

type onlineReq struct {
	Vehicle string   `json:"vehicle"`
	Pos     pointReq `json:"position"`
}

// Online handles POST /api/drivers/online.
func (h *DriverHandler) Online(c *gin.Context) {
	var req onlineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	vehicle, err := tariff.ParseVehicleClass(req.Vehicle)
	if err != nil {
		writeError(c, http.StatusBadRequest, "unknown vehicle class")
		return
	}
	driverID := types.ID(middleware.CallerUID(c))
	pos := types.Point{Lat: req.Pos.Lat, Lng: req.Pos.Lng}
	if err := h.dispatch.GoOnline(c.Request.Context(), driverID, vehicle, pos); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"online": true})
}

type offlineReq struct {
	Vehicle string `json:"vehicle"`
}

// Offline handles POST /api/drivers/offline.
func (h *DriverHandler) Offline(c *gin.Context) {
	var req offlineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	vehicle, err := tariff.ParseVehicleClass(req.Vehicle)
	if err != nil {
		writeError(c, http.StatusBadRequest, "unknown vehicle class")
		return
	}
	driverID := types.ID(middleware.CallerUID(c))
	if err := h.dispatch.GoOffline(c.Request.Context(), driverID, vehicle); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"online": false})
}

// Accept handles POST /api/drivers/orders/:id/accept.
func (h *DriverHandler) Accept(c *gin.Context) {
	id := c.Param("id")
	err := h.order.Assign(c.Request.Context(), order.AssignCommand{
		OrderID:  types.ID(id),
		DriverID: types.ID(middleware.CallerUID(c)),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": order.StatusAssigned})
}

// Pickup handles POST /api/drivers/orders/:id/pickup.
func (h *DriverHandler) Pickup(c *gin.Context) {
	id := c.Param("id")
	err := h.order.Pickup(c.Request.Context(), order.PickupCommand{
		OrderID:  types.ID(id),
		DriverID: types.ID(middleware.CallerUID(c)),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": order.StatusPickedUp})
}

// Deliver handles POST /api/drivers/orders/:id/deliver.
func (h *DriverHandler) Deliver(c *gin.Context) {
	id := c.Param("id")
	err := h.order.Deliver(c.Request.Context(), order.DeliverCommand{OrderID: types.ID(id)})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": order.StatusDelivered})
}

// Withdraw handles POST /api/drivers/orders/:id/withdraw.
func (h *DriverHandler) Withdraw(c *gin.Context) {
	id := c.Param("id")
	err := h.order.Withdraw(c.Request.Context(), order.WithdrawCommand{
		OrderID:  types.ID(id),
		DriverID: types.ID(middleware.CallerUID(c)),
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": order.StatusCreated})
}
