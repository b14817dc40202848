package response

import (
	"net/http"

	"anoa.com/arcadecalculator/pkg/apperror"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResponseError standardized error response. Internal errors are logged and
// replaced by fallback so details never leak to clients.
func ResponseError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	code := apperror.MapErrorToStatus(err)

	if code >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			zap.Int("status", code),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
	}

	c.JSON(code, gin.H{"error": apperror.PublicMessage(err, fallback)})
}
