package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/dailycash_backend/models"
)

func listEmployeesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		employees, err := models.ListEmployees(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, employees)
	}
}

func createEmployeeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewEmployee
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		employee, err := models.CreateEmployee(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, employee)
	}
}

func employeePaymentFilter(c *gin.Context) (models.EmployeePaymentFilter, bool) {
	from, to, ok := dateRangeQuery(c)
	if !ok {
		return models.EmployeePaymentFilter{}, false
	}
	employeeId, ok := intQuery(c, "employee_id")
	if !ok {
		return models.EmployeePaymentFilter{}, false
	}
	return models.EmployeePaymentFilter{FromDate: from, ToDate: to, EmployeeId: employeeId}, true
}

func listEmployeePaymentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := employeePaymentFilter(c)
		if !ok {
			return
		}
		payments, err := models.ListEmployeePayments(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payments)
	}
}

func createEmployeePaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewEmployeePayment
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		payment, err := models.CreateEmployeePayment(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, payment)
	}
}

func deleteEmployeePaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		payment, err := models.DeleteEmployeePayment(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, payment)
	}
}

func employeePaymentTotalsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := employeePaymentFilter(c)
		if !ok {
			return
		}
		totals, err := models.GetEmployeePaymentTotals(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, totals)
	}
}
