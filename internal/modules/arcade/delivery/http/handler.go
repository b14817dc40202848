package http

import (
	"net/http"

	"anoa.com/arcadecalculator/internal/modules/arcade/dto"
	arcadeService "anoa.com/arcadecalculator/internal/modules/arcade/service"
	"anoa.com/arcadecalculator/pkg/response"
	"anoa.com/arcadecalculator/pkg/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const calculateFailedMessage = "Failed to calculate points"

type ArcadeHandler struct {
	service arcadeService.ArcadeService
	logger  *zap.Logger
}

func NewArcadeHandler(service arcadeService.ArcadeService, logger *zap.Logger) *ArcadeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArcadeHandler{service: service, logger: logger}
}

// CalculatePoints scrapes a public profile and scores its badges.
func (h *ArcadeHandler) CalculatePoints(c *gin.Context) {
	var query dto.ProfileCalculationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.service.CalculateFromProfile(c.Request.Context(), c.ClientIP(), query)
	if err != nil {
		response.ResponseError(c, h.logger, err, calculateFailedMessage)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CalculatePointsFromBadges scores badges supplied in the request body.
func (h *ArcadeHandler) CalculatePointsFromBadges(c *gin.Context) {
	var req dto.BadgeCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.service.CalculateFromBadges(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, h.logger, err, calculateFailedMessage)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ArcadeHandler) GetBadgeType(c *gin.Context) {
	var query dto.BadgeTypeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	c.JSON(http.StatusOK, dto.BadgeTypeResponse{
		Name: query.Name,
		Type: string(h.service.DetermineBadgeType(query.Name)),
	})
}

func (h *ArcadeHandler) GetRules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.service.GetRules()})
}
