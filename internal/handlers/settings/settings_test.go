package settings

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*SettingsHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

var stored = domain.Settings{
	SiteName:          "Proxy Console",
	MinRecharge:       decimal.RequireFromString("10"),
	DefaultAgentLimit: decimal.RequireFromString("500"),
	AllowRegister:     true,
}

func TestGetHandler(t *testing.T) {
	handler, service := NewMock(t)

	service.EXPECT().Get(gomock.Any()).Return(&stored, nil)

	rr := httptest.NewRecorder()
	handler.Get(rr, httptest.NewRequest(http.MethodGet, "/settings", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"site_name":"Proxy Console","min_recharge":"10","default_agent_limit":"500","allow_register":true}`, rr.Body.String())
}

func TestUpdateHandler(t *testing.T) {
	handler, service := NewMock(t)

	name := "Proxy Console"
	allow := false

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Partial update",
			body: `{"site_name":"Proxy Console","allow_register":false}`,
			prepareMock: func() {
				service.EXPECT().
					Update(gomock.Any(), dto.UpdateSettingsDTO{SiteName: &name, AllowRegister: &allow}).
					Return(&stored, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Broken body",
			body:         `[]`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Backend rejects",
			body: `{}`,
			prepareMock: func() {
				service.EXPECT().
					Update(gomock.Any(), dto.UpdateSettingsDTO{}).
					Return(nil, &client.ApplicationError{Code: 403, Message: "forbidden"})
			},
			expectedCode: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			rr := httptest.NewRecorder()
			handler.Update(rr, httptest.NewRequest(http.MethodPut, "/settings", bytes.NewReader([]byte(tt.body))))

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}
