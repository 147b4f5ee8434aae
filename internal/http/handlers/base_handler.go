// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nocodeci/yatou-sub002/internal/modules/order"
	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidState), errors.Is(err, order.ErrActiveOrder), errors.Is(err, order.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	case isTariffError(err):
		writeTariffError(c, err)
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func isTariffError(err error) bool {
	return errors.Is(err, tariff.ErrInvalidInput) ||
		errors.Is(err, tariff.ErrUnsupportedCombination) ||
		errors.Is(err, tariff.ErrPlanNotFound) ||
		errors.Is(err, tariff.ErrPlanNotEligible)
}

func writeTariffError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tariff.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, tariff.ErrPlanNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, tariff.ErrUnsupportedCombination), errors.Is(err, tariff.ErrPlanNotEligible):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
