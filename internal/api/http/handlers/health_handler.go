package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/zendesk-mcp/internal/api/dto"
)

// HealthHandler answers the unauthenticated health probe.
type HealthHandler struct {
	serviceName string
	version     string
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version}
}

// Check reports a fixed healthy status. It does not probe the backend.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
		Version: h.version,
	})
}
