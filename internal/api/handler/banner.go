package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type bannerResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Banner returns the service description served at GET /.
func Banner(version string) echo.HandlerFunc {
	body := bannerResponse{
		Message: "Task Manager API",
		Version: version,
		Endpoints: map[string]string{
			"tasks":   "/api/tasks",
			"users":   "/api/users",
			"health":  "/health",
			"metrics": "/metrics",
			"docs":    "/swagger/index.html",
		},
	}
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, body)
	}
}
