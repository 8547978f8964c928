package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"typist/internal/bootstrap"
)

const (
	statusUp       = "up"
	statusDown     = "down"
	statusDisabled = "disabled"
)

type HealthHandler struct {
	app *bootstrap.App
}

type dependencyStatus struct {
	OK      bool   `json:"ok"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := h.checkDatabase(ctx)
	redisStatus := h.checkRedis(ctx)
	rmqStatus := h.checkRabbitMQ()

	statusCode := http.StatusOK
	if !dbStatus.OK || !redisStatus.OK || !rmqStatus.OK {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"app":        h.app.Config.App.Name,
		"env":        h.app.Config.App.Env,
		"uptime_sec": int(time.Since(h.app.StartedAt).Seconds()),
		"dependencies": gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"rabbitmq": rmqStatus,
		},
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) dependencyStatus {
	if h.app.DB == nil {
		return down("not connected")
	}
	sqlDB, err := h.app.DB.DB()
	if err != nil {
		return down(err.Error())
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return down(err.Error())
	}
	return dependencyStatus{OK: true, Status: statusUp}
}

func (h *HealthHandler) checkRedis(ctx context.Context) dependencyStatus {
	if h.app.Redis == nil {
		return down("not connected")
	}
	if err := h.app.Redis.Ping(ctx).Err(); err != nil {
		return down(err.Error())
	}
	return dependencyStatus{OK: true, Status: statusUp}
}

// checkRabbitMQ only fails when a broker is configured; the service runs
// without one.
func (h *HealthHandler) checkRabbitMQ() dependencyStatus {
	if h.app.Config.RabbitMQ.URL == "" {
		return dependencyStatus{OK: true, Status: statusDisabled}
	}
	if h.app.MQConn == nil || h.app.MQConn.IsClosed() {
		return down("connection closed")
	}
	return dependencyStatus{OK: true, Status: statusUp}
}

func down(message string) dependencyStatus {
	return dependencyStatus{OK: false, Status: statusDown, Message: message}
}
