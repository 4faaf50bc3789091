package orders

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/internal/service/orderservice"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (http.Handler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()

	r := chi.NewRouter()
	r.Get("/orders", handler.GetOrders)
	r.Get("/orders/{number}", handler.GetOrder)
	r.Post("/orders/{number}/renew", handler.Renew)
	r.Get("/order/dynamic", handler.DynamicOrders)
	r.Get("/order/static", handler.StaticOrders)
	r.Post("/order/dynamic", handler.CreateDynamic)
	r.Post("/order/static", handler.CreateStatic)
	return r, service
}

type errorReader struct{}

func (r *errorReader) Read([]byte) (int, error) {
	return 0, errors.New("simulated read error")
}

func sampleOrder(typ domain.OrderType) *domain.Order {
	return &domain.Order{
		ID:          1,
		OrderNumber: "79927398713",
		UserID:      7,
		Type:        typ,
		ResourceID:  3,
		Quantity:    10,
		Duration:    30,
		Amount:      decimal.RequireFromString("99.9"),
		Status:      domain.OrderActive,
		ExpiresAt:   time.Date(2026, 11, 18, 0, 0, 0, 0, time.UTC),
		CreatedAt:   time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
	}
}

func TestListHandlers(t *testing.T) {
	router, service := NewMock(t)

	tests := []struct {
		name         string
		url          string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "All types",
			url:  "/orders?page=2",
			prepareMock: func() {
				service.EXPECT().
					List(gomock.Any(), domain.ListQuery{Page: 2}, domain.OrderType("")).
					Return(&domain.Page[domain.Order]{List: []domain.Order{*sampleOrder(domain.OrderDynamic)}, Total: 1}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Filtered by query",
			url:  "/orders?type=static",
			prepareMock: func() {
				service.EXPECT().
					List(gomock.Any(), domain.ListQuery{}, domain.OrderStatic).
					Return(&domain.Page[domain.Order]{}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Unknown type",
			url:          "/orders?type=rotating",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Dynamic page",
			url:  "/order/dynamic",
			prepareMock: func() {
				service.EXPECT().
					List(gomock.Any(), domain.ListQuery{}, domain.OrderDynamic).
					Return(&domain.Page[domain.Order]{}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Static page",
			url:  "/order/static?keyword=us",
			prepareMock: func() {
				service.EXPECT().
					List(gomock.Any(), domain.ListQuery{Keyword: "us"}, domain.OrderStatic).
					Return(&domain.Page[domain.Order]{}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Backend down",
			url:  "/order/static",
			prepareMock: func() {
				service.EXPECT().
					List(gomock.Any(), domain.ListQuery{}, domain.OrderStatic).
					Return(nil, &client.NetworkError{Err: errors.New("connection refused")})
			},
			expectedCode: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestGetOrderHandler(t *testing.T) {
	router, service := NewMock(t)

	service.EXPECT().Get(gomock.Any(), "79927398713").Return(sampleOrder(domain.OrderStatic), nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/orders/79927398713", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var got struct {
		Number        string `json:"order_no"`
		AmountDisplay string `json:"amount_display"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "79927398713", got.Number)
	assert.Equal(t, "99.90", got.AmountDisplay)
}

func TestGetOrderHandler_InvalidNumber(t *testing.T) {
	router, service := NewMock(t)

	service.EXPECT().Get(gomock.Any(), "12345").Return(nil, orderservice.ErrInvalidOrderNumber)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/orders/12345", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.JSONEq(t, `{"message":"Invalid order number"}`, rr.Body.String())
}

func TestCreateHandlers(t *testing.T) {
	router, service := NewMock(t)

	tests := []struct {
		name         string
		url          string
		body         *bytes.Reader
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Dynamic",
			url:  "/order/dynamic",
			body: bytes.NewReader([]byte(`{"user_id":7,"resource_id":3,"quantity":10,"duration":30}`)),
			prepareMock: func() {
				service.EXPECT().
					CreateDynamic(gomock.Any(), dto.CreateDynamicOrderDTO{UserID: 7, ResourceID: 3, Quantity: 10, Duration: 30}).
					Return(sampleOrder(domain.OrderDynamic), nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Static",
			url:  "/order/static",
			body: bytes.NewReader([]byte(`{"user_id":7,"resource_id":3,"region":"us-east","quantity":1,"duration":30}`)),
			prepareMock: func() {
				service.EXPECT().
					CreateStatic(gomock.Any(), dto.CreateStaticOrderDTO{UserID: 7, ResourceID: 3, Region: "us-east", Quantity: 1, Duration: 30}).
					Return(sampleOrder(domain.OrderStatic), nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "Insufficient balance",
			url:  "/order/static",
			body: bytes.NewReader([]byte(`{"user_id":7,"resource_id":3,"region":"us-east","quantity":1,"duration":30}`)),
			prepareMock: func() {
				service.EXPECT().
					CreateStatic(gomock.Any(), gomock.Any()).
					Return(nil, &client.ApplicationError{Code: 1001, Message: "insufficient balance"})
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
		{
			name:         "Malformed body",
			url:          "/order/dynamic",
			body:         bytes.NewReader([]byte(`{"user_id":`)),
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Renew",
			url:  "/orders/79927398713/renew",
			body: bytes.NewReader([]byte(`{"duration":30}`)),
			prepareMock: func() {
				service.EXPECT().
					Renew(gomock.Any(), "79927398713", dto.RenewOrderDTO{Duration: 30}).
					Return(sampleOrder(domain.OrderStatic), nil)
			},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, tt.url, tt.body))

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestCreateDynamic_ReadError(t *testing.T) {
	router, _ := NewMock(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/order/dynamic", &errorReader{}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
