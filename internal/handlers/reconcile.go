package handlers

import (
	"net/http"
	"strconv"
	"time"

	"heatkeeper/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errRunFailed            = "reconciliation run failed"
	errSimulatedTimeInvalid = "invalid 'simulated_time'; expected unix epoch seconds"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Trigger a reconciliation run
// @Description  Walks every user profile once and issues heater commands as needed. Passing simulated_time (unix epoch seconds) makes the run a dry run: decisions are computed against the given clock but no device is contacted and nothing is persisted.
// @Tags         reconcile
// @Produce      json
// @Param        simulated_time  query  int  false  "Unix epoch seconds to evaluate against (dry run)"  example(1762298100)
// @Success      200  {object}  service.RunSummary
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/reconcile/run [post]
func (h *Handler) runReconciliation(c *gin.Context) {
	var opts service.RunOptions
	if qs := c.Query("simulated_time"); qs != "" {
		epoch, err := strconv.ParseInt(qs, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errSimulatedTimeInvalid})
			return
		}
		at := time.Unix(epoch, 0).UTC()
		opts.SimulatedTime = &at
	}

	sum, err := h.services.Reconciler.Run(c.Request.Context(), opts)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errRunFailed, "reconcile_run_failed", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
