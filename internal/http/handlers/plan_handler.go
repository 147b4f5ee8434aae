// README: Subscription plan handlers: catalogue listing, AI recommendation.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nocodeci/yatou-sub002/internal/ai"
	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
)

type PlanHandler struct {
	tariff *tariff.Service
	llm    ai.LLMProvider
}

func NewPlanHandler(tariffSvc *tariff.Service, llm ai.LLMProvider) *PlanHandler {
	return &PlanHandler{tariff: tariffSvc, llm: llm}
}

// List handles GET /api/plans.
func (h *PlanHandler) List(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"plans": h.tariff.Plans()})
}

type suggestReq struct {
	Description string `json:"description"`
}

// Suggest handles POST /api/plans/suggest.
func (h *PlanHandler) Suggest(c *gin.Context) {
	if h.llm == nil {
		writeError(c, http.StatusServiceUnavailable, "suggestions are not enabled")
		return
	}
	var req suggestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		writeError(c, http.StatusBadRequest, "missing description")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	suggestion, err := h.llm.SuggestPlan(ctx, req.Description, h.tariff.Plans())
	if err != nil {
		writeError(c, http.StatusBadGateway, "suggestion unavailable")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"suggestion": suggestion})
}
