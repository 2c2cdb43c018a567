package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khata-app/khata-backend/internal/core/domain"
	"github.com/khata-app/khata-backend/internal/dto"
)

func setupSearchRouter(mockCustomer *MockCustomerService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerSearchRoutes(r.Group("/api/v1"), mockCustomer)
	return r
}

func TestSearchCustomers_ReturnsMatches(t *testing.T) {
	mockCustomer := new(MockCustomerService)
	router := setupSearchRouter(mockCustomer)

	matches := []domain.Customer{
		{CustomerID: uuid.NewString(), Name: "Rahim Uddin", Phone: "01711111111"},
	}
	mockCustomer.On("SearchCustomers", mock.Anything, "rahim").Return(matches, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?query=rahim", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []dto.CustomerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Rahim Uddin", resp[0].Name)
	mockCustomer.AssertExpectations(t)
}

func TestSearchCustomers_EmptyQueryReturnsAll(t *testing.T) {
	mockCustomer := new(MockCustomerService)
	router := setupSearchRouter(mockCustomer)

	mockCustomer.On("SearchCustomers", mock.Anything, "").Return([]domain.Customer{}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
	mockCustomer.AssertExpectations(t)
}
