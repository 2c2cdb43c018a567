package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/khata-app/khata-backend/internal/core/ports/services"
	"github.com/khata-app/khata-backend/internal/dto"
	"github.com/khata-app/khata-backend/internal/middleware"
)

// searchHandler serves the customer autocomplete search.
type searchHandler struct {
	customerService portssvc.CustomerSvcFacade
}

// registerSearchRoutes registers the '/search' route.
func registerSearchRoutes(rg *gin.RouterGroup, customerService portssvc.CustomerSvcFacade) {
	h := &searchHandler{customerService: customerService}
	rg.GET("/search", h.searchCustomers)
}

// searchCustomers godoc
// @Summary Search customers
// @Description Returns all customers whose name or phone contains the query, unpaginated
// @Tags search
// @Produce  json
// @Param   query query string false "Substring to match"
// @Success 200 {array} dto.CustomerResponse
// @Failure 500 {object} map[string]string "Search failed"
// @Router /search [get]
func (h *searchHandler) searchCustomers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	query := c.Query("query")

	customers, err := h.customerService.SearchCustomers(c.Request.Context(), query)
	if err != nil {
		logger.Error("Failed to search customers", slog.String("error", err.Error()), slog.String("query", query))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerResponses(customers))
}
