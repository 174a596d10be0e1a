package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dailycash_backend/models"
	"github.com/mmdatafocus/dailycash_backend/reconciliation"
	"github.com/mmdatafocus/dailycash_backend/utils"
)

// respondError maps domain errors to status codes. Anything unrecognised is a
// persistence failure and goes back raw with 500.
func respondError(c *gin.Context, err error) {
	var fieldErr *reconciliation.FieldError
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorUnauthorized),
		errors.Is(err, models.ErrorInvalidCredentials),
		errors.Is(err, models.ErrorUserInactive):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": fieldErr.Field})
	case reconciliation.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case models.IsInputError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": utils.ProcessValidationErrors(err)})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// dateQuery is zero when the parameter is absent.
func dateQuery(c *gin.Context, key string) (utils.DateString, bool) {
	raw := c.Query(key)
	if raw == "" {
		return "", true
	}
	date, err := utils.ParseDateString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "field": key})
		return "", false
	}
	return date, true
}

func dateRangeQuery(c *gin.Context) (utils.DateString, utils.DateString, bool) {
	from, ok := dateQuery(c, "from")
	if !ok {
		return "", "", false
	}
	to, ok := dateQuery(c, "to")
	if !ok {
		return "", "", false
	}
	return from, to, true
}

func intQuery(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return 0, false
	}
	return n, true
}
