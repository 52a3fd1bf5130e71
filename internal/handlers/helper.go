package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParseStringIDParam reads a non-empty path parameter, answering 400 when it is blank
func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}

// parseBoolQuery returns nil when the parameter is absent or not a boolean
func parseBoolQuery(c *gin.Context, param string) *bool {
	value, err := strconv.ParseBool(c.Query(param))
	if err != nil {
		return nil
	}
	return &value
}

func optionalQuery(c *gin.Context, param string) *string {
	value := strings.TrimSpace(c.Query(param))
	if value == "" {
		return nil
	}
	return &value
}
