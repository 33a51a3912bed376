package controllers

import (
	"net/http"
	"runtime"
	"time"

	"crmpro-backend/config"
	"crmpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	monitor *config.Monitor
	started time.Time
}

func NewHealthController(monitor *config.Monitor) *HealthController {
	return &HealthController{monitor: monitor, started: time.Now()}
}

// Status reports process uptime, memory usage and the database connectivity
// flag maintained by the monitor.
func (hc *HealthController) Status(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	utils.RespondWithData(c, http.StatusOK, gin.H{
		"uptime":          time.Since(hc.started).String(),
		"allocBytes":      mem.Alloc,
		"totalAllocBytes": mem.TotalAlloc,
		"numGoroutine":    runtime.NumGoroutine(),
		"database":        hc.monitor.Healthy(),
	})
}
