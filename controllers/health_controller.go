package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"codechat/config"
)

type HealthController struct {
	config *config.Config
}

func NewHealthController(cfg *config.Config) *HealthController {
	return &HealthController{config: cfg}
}

func (hc *HealthController) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"config": map[string]interface{}{
			"ollamaUrl":    hc.config.OllamaURL,
			"defaultModel": hc.config.DefaultModel,
			"port":         hc.config.Port,
		},
	})
}
