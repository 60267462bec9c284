package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/baq-transit/service-routing/internal/application"
	"github.com/baq-transit/service-routing/internal/domain/network"
	"github.com/baq-transit/service-routing/internal/platform/middleware"
	"github.com/baq-transit/service-routing/internal/platform/response"
)

// PathHandler handles HTTP requests for journey planning.
type PathHandler struct {
	service *application.PlanningService
}

// NewPathHandler creates a new PathHandler.
func NewPathHandler(service *application.PlanningService) *PathHandler {
	return &PathHandler{service: service}
}

// RegisterRoutes registers all path planning routes.
func (h *PathHandler) RegisterRoutes(r *gin.RouterGroup) {
	paths := r.Group("/api/v1/paths")
	{
		paths.GET("/single", h.GetSinglePaths)
	}
}

// GetSinglePaths plans every single-alternative journey between the start and
// final query points, each given as "lon,lat".
func (h *PathHandler) GetSinglePaths(c *gin.Context) {
	start, err := parseCoordinate("start", c.Query("start"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	final, err := parseCoordinate("final", c.Query("final"))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.PlanSinglePaths(c.Request.Context(), application.PlanRequest{
		RequestID: middleware.GetRequestID(c),
		Start:     start,
		Final:     final,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func parseCoordinate(name, raw string) (network.Coordinate, error) {
	if raw == "" {
		return network.Coordinate{}, fmt.Errorf("%s is required as lon,lat", name)
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return network.Coordinate{}, fmt.Errorf("%s must be lon,lat: %q", name, raw)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return network.Coordinate{}, fmt.Errorf("%s longitude is not a number: %q", name, parts[0])
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return network.Coordinate{}, fmt.Errorf("%s latitude is not a number: %q", name, parts[1])
	}
	coord, err := network.NewCoordinate(lat, lon)
	if err != nil {
		return network.Coordinate{}, fmt.Errorf("%s: %w", name, err)
	}
	return coord, nil
}
