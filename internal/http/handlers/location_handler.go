// README: Driver location handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nocodeci/yatou-sub002/internal/http/middleware"
	"github.com/nocodeci/yatou-sub002/internal/modules/location"
	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
	"github.com/nocodeci/yatou-sub002/internal/types"
)

type LocationHandler struct {
	location *location.Service
}

func NewLocationHandler(svc *location.Service) *LocationHandler {
	return &LocationHandler{location: svc}
}

type locationUpdateReq struct {
	Vehicle string  `json:"vehicle"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Update handles PUT /api/drivers/location.
func (h *LocationHandler) Update(c *gin.Context) {
	var req locationUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	vehicle, err := tariff.ParseVehicleClass(req.Vehicle)
	if err != nil {
		writeError(c, http.StatusBadRequest, "unknown vehicle class")
		return
	}
	err = h.location.Update(c.Request.Context(), location.Update{
		DriverID: types.ID(middleware.CallerUID(c)),
		Vehicle:  string(vehicle),
		Position: types.Point{Lat: req.Lat, Lng: req.Lng},
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ok": true})
}
