package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khata-app/khata-backend/internal/apperrors"
	portssvc "github.com/khata-app/khata-backend/internal/core/ports/services"
	"github.com/khata-app/khata-backend/internal/dto"
	"github.com/khata-app/khata-backend/internal/middleware"
)

// customerHandler handles HTTP requests related to customers.
type customerHandler struct {
	customerService portssvc.CustomerSvcFacade
	ledgerService   portssvc.LedgerSvcFacade
}

// newCustomerHandler creates a new customerHandler.
func newCustomerHandler(cs portssvc.CustomerSvcFacade, ls portssvc.LedgerSvcFacade) *customerHandler {
	return &customerHandler{
		customerService: cs,
		ledgerService:   ls,
	}
}

// registerCustomerRoutes registers all customer-related routes.
func registerCustomerRoutes(rg *gin.RouterGroup, customerService portssvc.CustomerSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newCustomerHandler(customerService, ledgerService)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("", h.listCustomers)
		customers.GET("/:customerID", h.getCustomer)
		customers.PUT("/:customerID", h.updateCustomer)
		customers.DELETE("/:customerID", h.deleteCustomer)
		customers.GET("/:customerID/transactions", h.listCustomerTransactions)
	}
}

// createCustomer godoc
// @Summary Create or upsert a customer
// @Description Creates a customer; a request with an already registered phone updates that customer instead
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to create customer"
// @Router /customers [post]
func (h *customerHandler) createCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create customer request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		logger.Error("Failed to create customer in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create customer"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

// listCustomers godoc
// @Summary List customers
// @Description Retrieves one page of customers filtered by name or phone substring
// @Tags customers
// @Produce  json
// @Param   query query string false "Substring filter on name or phone"
// @Param   page  query int    false "Page number (1-based)"
// @Param   limit query int    false "Page size"
// @Success 200 {object} dto.ListCustomersResponse
// @Failure 500 {object} map[string]string "Failed to list customers"
// @Router /customers [get]
func (h *customerHandler) listCustomers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	customers, meta, err := h.customerService.ListCustomers(c.Request.Context(), req.Params())
	if err != nil {
		logger.Error("Failed to list customers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list customers"})
		return
	}

	c.JSON(http.StatusOK, dto.ListCustomersResponse{
		Customers: dto.ToCustomerResponses(customers),
		Meta:      meta,
	})
}

// getCustomer godoc
// @Summary Get a customer
// @Tags customers
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to retrieve customer"
// @Router /customers/{customerID} [get]
func (h *customerHandler) getCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")

	customer, err := h.customerService.GetCustomerByID(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		logger.Error("Failed to get customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve customer"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// updateCustomer godoc
// @Summary Update a customer
// @Description Partial update of name/phone/address/remark; monetary aggregates are not updatable
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Param   customer body dto.UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 409 {object} map[string]string "Phone already registered"
// @Router /customers/{customerID} [put]
func (h *customerHandler) updateCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")

	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update customer request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), customerID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Phone number already registered"})
		default:
			logger.Error("Failed to update customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// deleteCustomer godoc
// @Summary Delete a customer
// @Description Deletes a customer with no remaining transactions; ledger history is never cascaded
// @Tags customers
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 409 {object} map[string]string "Customer still has transactions"
// @Router /customers/{customerID} [delete]
func (h *customerHandler) deleteCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")

	err := h.customerService.DeleteCustomer(c.Request.Context(), customerID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		case errors.Is(err, apperrors.ErrDependentRecords):
			c.JSON(http.StatusConflict, gin.H{"error": "Customer still has transactions"})
		default:
			logger.Error("Failed to delete customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// listCustomerTransactions godoc
// @Summary List one customer's transactions
// @Tags customers
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 200 {array} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Customer not found"
// @Router /customers/{customerID}/transactions [get]
func (h *customerHandler) listCustomerTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")

	// Resolve the customer first so an unknown ID reads as 404, not an empty list.
	if _, err := h.customerService.GetCustomerByID(c.Request.Context(), customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
			return
		}
		logger.Error("Failed to resolve customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}

	transactions, err := h.ledgerService.ListTransactionsByCustomer(c.Request.Context(), customerID)
	if err != nil {
		logger.Error("Failed to list customer transactions", slog.String("error", err.Error()), slog.String("customer_id", customerID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponses(transactions))
}
