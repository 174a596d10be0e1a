package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dailycash_backend/models"
	"github.com/mmdatafocus/dailycash_backend/reconciliation"
	"github.com/mmdatafocus/dailycash_backend/workflow"
)

// dailyRecordRequest is the form plus the warning codes the operator already
// confirmed on a previous attempt.
type dailyRecordRequest struct {
	reconciliation.Form
	AcknowledgedWarnings []string `json:"acknowledged_warnings"`
}

func pendingWarnings(c *gin.Context, err error, pending []reconciliation.Warning) {
	c.JSON(http.StatusConflict, gin.H{
		"error":            err.Error(),
		"pending_warnings": pending,
	})
}

func previewDailyRecordHandler(svc *workflow.DailyRecordService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form reconciliation.Form
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		result, err := svc.Preview(c.Request.Context(), form)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func createDailyRecordHandler(svc *workflow.DailyRecordService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dailyRecordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		ctx := c.Request.Context()
		ack := reconciliation.NewAcknowledged(req.AcknowledgedWarnings...)
		saved, err := svc.Create(ctx, req.Form, ack)
		if err != nil {
			if _, declined := reconciliation.IsDeclined(err); declined {
				warnings, werr := svc.CreateWarnings(ctx, req.Form)
				if werr != nil {
					respondError(c, werr)
					return
				}
				pendingWarnings(c, err, ack.Missing(warnings))
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, saved)
	}
}

func updateDailyRecordHandler(svc *workflow.DailyRecordService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req dailyRecordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		ack := reconciliation.NewAcknowledged(req.AcknowledgedWarnings...)
		saved, err := svc.Update(c.Request.Context(), id, req.Form, ack)
		if err != nil {
			if declined, ok := reconciliation.IsDeclined(err); ok {
				pendingWarnings(c, err, []reconciliation.Warning{declined.Warning})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}

func deleteDailyRecordHandler(svc *workflow.DailyRecordService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
	}
}

func getDailyRecordHandler(svc *workflow.DailyRecordService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		view, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// listDailyRecordsHandler returns the range, or the latest records when only limit is given.
func listDailyRecordsHandler(svc *workflow.DailyRecordService) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := dateRangeQuery(c)
		if !ok {
			return
		}
		limit, ok := intQuery(c, "limit")
		if !ok {
			return
		}
		filter := models.DailyRecordFilter{
			FromDate: from,
			ToDate:   to,
			Limit:    limit,
			Latest:   limit > 0 && from.IsZero() && to.IsZero(),
		}
		views, err := svc.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, views)
	}
}
