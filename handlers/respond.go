package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"blackmarket-backend/services"
	"blackmarket-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// respondError writes the response for an error returned by a service.
// Validation and conflict failures carry their reason to the client; anything
// else is logged and reported as "Failed to <action>".
func respondError(c *gin.Context, err error, action string) {
	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Reason})
	default:
		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("failed to " + action)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": utils.SanitizeValidationError(err)})
}

func respondInvalid(c *gin.Context, msg string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msg})
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		respondInvalid(c, param+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// parsePage reads skip and limit. skip is >= 0 and limit is within 1..maxLimit.
func parsePage(c *gin.Context, defaultLimit, maxLimit int) (skip, limit int, ok bool) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		respondInvalid(c, "skip must be a non-negative integer")
		return 0, 0, false
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > maxLimit {
		respondInvalid(c, fmt.Sprintf("limit must be between 1 and %d", maxLimit))
		return 0, 0, false
	}
	return skip, limit, true
}

// queryBool returns def when the parameter is absent.
func queryBool(c *gin.Context, name string, def *bool) (*bool, bool) {
	raw, present := c.GetQuery(name)
	if !present || raw == "" {
		return def, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		respondInvalid(c, name+" must be a boolean")
		return nil, false
	}
	return &v, true
}

func queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondInvalid(c, name+" must be a valid UUID")
		return nil, false
	}
	return &id, true
}

// queryAmount parses a non-negative money amount.
func queryAmount(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		respondInvalid(c, name+" must be a non-negative number")
		return nil, false
	}
	return &d, true
}

func boolPtr(b bool) *bool { return &b }
