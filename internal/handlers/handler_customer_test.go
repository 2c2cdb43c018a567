package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/khata-app/khata-backend/internal/apperrors"
	"github.com/khata-app/khata-backend/internal/core/domain"
	portssvc "github.com/khata-app/khata-backend/internal/core/ports/services"
	"github.com/khata-app/khata-backend/internal/dto"
	"github.com/khata-app/khata-backend/internal/utils/pagination"
)

// --- Mock CustomerService ---
type MockCustomerService struct {
	mock.Mock
}

var _ portssvc.CustomerSvcFacade = (*MockCustomerService)(nil)

func (m *MockCustomerService) GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerService) ListCustomers(ctx context.Context, p pagination.Params) ([]domain.Customer, pagination.Meta, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, pagination.Meta{}, args.Error(2)
	}
	return args.Get(0).([]domain.Customer), args.Get(1).(pagination.Meta), args.Error(2)
}

func (m *MockCustomerService) SearchCustomers(ctx context.Context, query string) ([]domain.Customer, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*domain.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerService) UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest) (*domain.Customer, error) {
	args := m.Called(ctx, customerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerService) DeleteCustomer(ctx context.Context, customerID string) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

// --- Test Suite ---
type CustomerHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCustomer *MockCustomerService
	mockLedger   *MockLedgerService
}

func (suite *CustomerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockCustomer = new(MockCustomerService)
	suite.mockLedger = new(MockLedgerService)
	suite.router = gin.New()
	rg := suite.router.Group("/api/v1")
	registerCustomerRoutes(rg, suite.mockCustomer, suite.mockLedger)
}

func (suite *CustomerHandlerTestSuite) performRequest(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *CustomerHandlerTestSuite) TestCreateCustomer_Success() {
	expected := &domain.Customer{
		CustomerID: uuid.NewString(),
		Name:       "Rahim Uddin",
		Phone:      "01711111111",
	}

	suite.mockCustomer.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(req dto.CreateCustomerRequest) bool {
		return req.Name == "Rahim Uddin" && req.Phone == "01711111111"
	})).Return(expected, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/customers", gin.H{
		"name":  "Rahim Uddin",
		"phone": "01711111111",
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.CustomerResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.CustomerID, resp.CustomerID)
	suite.Equal(expected.Phone, resp.Phone)
	suite.mockCustomer.AssertExpectations(suite.T())
}

func (suite *CustomerHandlerTestSuite) TestCreateCustomer_ShortNameRejected() {
	w := suite.performRequest(http.MethodPost, "/api/v1/customers", gin.H{
		"name":  "R",
		"phone": "01711111111",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "name must be at least 2 characters")
	suite.mockCustomer.AssertNotCalled(suite.T(), "CreateCustomer", mock.Anything, mock.Anything)
}

func (suite *CustomerHandlerTestSuite) TestCreateCustomer_BadPhoneLengthRejected() {
	w := suite.performRequest(http.MethodPost, "/api/v1/customers", gin.H{
		"name":  "Rahim Uddin",
		"phone": "0171",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "phone must be exactly 11 characters")
	suite.mockCustomer.AssertNotCalled(suite.T(), "CreateCustomer", mock.Anything, mock.Anything)
}

func (suite *CustomerHandlerTestSuite) TestGetCustomer_NotFound() {
	customerID := uuid.NewString()
	suite.mockCustomer.On("GetCustomerByID", mock.Anything, customerID).
		Return(nil, fmt.Errorf("lookup: %w", apperrors.ErrNotFound)).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/customers/"+customerID, nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "Customer not found")
	suite.mockCustomer.AssertExpectations(suite.T())
}

func (suite *CustomerHandlerTestSuite) TestListCustomers_ReturnsPageWithMeta() {
	customers := []domain.Customer{
		{CustomerID: uuid.NewString(), Name: "Rahim Uddin", Phone: "01711111111"},
		{CustomerID: uuid.NewString(), Name: "Karim Uddin", Phone: "01722222222"},
	}
	meta := pagination.Meta{Count: 25, CurrentPage: 2, TotalPages: 3, HasNext: true, HasPrev: true}

	suite.mockCustomer.On("ListCustomers", mock.Anything, pagination.Params{Query: "uddin", Page: 2, Limit: 10}).
		Return(customers, meta, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/customers?query=uddin&page=2&limit=10", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListCustomersResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Customers, 2)
	suite.Equal(int64(25), resp.Count)
	suite.Equal(3, resp.TotalPages)
	suite.True(resp.HasNext)
	suite.mockCustomer.AssertExpectations(suite.T())
}

func (suite *CustomerHandlerTestSuite) TestUpdateCustomer_DuplicatePhoneConflict() {
	customerID := uuid.NewString()
	suite.mockCustomer.On("UpdateCustomer", mock.Anything, customerID, mock.Anything).
		Return(nil, fmt.Errorf("update: %w", apperrors.ErrDuplicate)).Once()

	w := suite.performRequest(http.MethodPut, "/api/v1/customers/"+customerID, gin.H{
		"phone": "01733333333",
	})

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "already registered")
	suite.mockCustomer.AssertExpectations(suite.T())
}

func (suite *CustomerHandlerTestSuite) TestDeleteCustomer_Success() {
	customerID := uuid.NewString()
	suite.mockCustomer.On("DeleteCustomer", mock.Anything, customerID).Return(nil).Once()

	w := suite.performRequest(http.MethodDelete, "/api/v1/customers/"+customerID, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockCustomer.AssertExpectations(suite.T())
}

func (suite *CustomerHandlerTestSuite) TestDeleteCustomer_WithTransactionsConflict() {
	customerID := uuid.NewString()
	suite.mockCustomer.On("DeleteCustomer", mock.Anything, customerID).
		Return(fmt.Errorf("delete: %w", apperrors.ErrDependentRecords)).Once()

	w := suite.performRequest(http.MethodDelete, "/api/v1/customers/"+customerID, nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "still has transactions")
	suite.mockCustomer.AssertExpectations(suite.T())
}

func (suite *CustomerHandlerTestSuite) TestListCustomerTransactions_Success() {
	customerID := uuid.NewString()
	transactions := []domain.Transaction{
		{
			TransactionID: uuid.NewString(),
			CustomerID:    customerID,
			Due:           domain.MoneyFromDecimal(decimal.NewFromInt(100)),
			Payment:       domain.MoneyFromDecimal(decimal.NewFromInt(150)),
		},
	}

	suite.mockCustomer.On("GetCustomerByID", mock.Anything, customerID).
		Return(&domain.Customer{CustomerID: customerID}, nil).Once()
	suite.mockLedger.On("ListTransactionsByCustomer", mock.Anything, customerID).
		Return(transactions, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/customers/"+customerID+"/transactions", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 1)
	suite.Equal(customerID, resp[0].CustomerID)
	suite.mockCustomer.AssertExpectations(suite.T())
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *CustomerHandlerTestSuite) TestListCustomerTransactions_UnknownCustomer() {
	customerID := uuid.NewString()
	suite.mockCustomer.On("GetCustomerByID", mock.Anything, customerID).
		Return(nil, fmt.Errorf("lookup: %w", apperrors.ErrNotFound)).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/customers/"+customerID+"/transactions", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "ListTransactionsByCustomer", mock.Anything, mock.Anything)
}

// --- Run Suite ---
func TestCustomerHandler(t *testing.T) {
	suite.Run(t, new(CustomerHandlerTestSuite))
}
