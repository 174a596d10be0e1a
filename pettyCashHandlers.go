package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dailycash_backend/models"
)

func listPettyCashHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := dateRangeQuery(c)
		if !ok {
			return
		}
		filter := models.PettyCashFilter{
			FromDate: from,
			ToDate:   to,
			Category: strings.TrimSpace(c.Query("category")),
		}
		list, err := models.ListPettyCashRecords(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func createPettyCashHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPettyCashRecord
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		record, err := models.CreatePettyCashRecord(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, record)
	}
}

func updatePettyCashHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var input models.NewPettyCashRecord
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		record, err := models.UpdatePettyCashRecord(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func deletePettyCashHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		record, err := models.DeletePettyCashRecord(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

// sumPettyCashHandler is the day's total that a daily record would snapshot.
func sumPettyCashHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		date, ok := dateQuery(c, "date")
		if !ok {
			return
		}
		if date.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date is required", "field": "date"})
			return
		}
		total, err := models.SumPettyCash(c.Request.Context(), models.PettyCashFilter{FromDate: date, ToDate: date})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"date": date, "total": total})
	}
}

func listPettyCashCategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := models.ListPettyCashCategories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func createPettyCashCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPettyCashCategory
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		category, err := models.CreatePettyCashCategory(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func deletePettyCashCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		category, err := models.DeletePettyCashCategory(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}
