package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/girojeri/backend/internal/handler/http/mocks"
	"github.com/girojeri/backend/internal/models"
	"github.com/girojeri/backend/internal/service"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPricingHandler_QuotePricing(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockPricingService
		wantStatusCode int
		wantBody       *quoteResponse
	}{
		{
			// 200 — quote computed
			name: "valid_request_returns_200",
			body: `{"serviceId":"service-1","scheduledAt":"2025-07-15T09:00:00Z","peopleCount":3}`,
			setup: func(t *testing.T) *mocks.MockPricingService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPricingService(ctrl)
				svcMock.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(&service.Quote{
					BaseTotal:         300,
					PricingMultiplier: 1.10,
					AdjustmentType:    service.AdjustmentHighSeason,
					FinalTotal:        330,
				}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: &quoteResponse{
				BaseTotal:         300,
				PricingMultiplier: 1.10,
				AdjustmentType:    service.AdjustmentHighSeason,
				FinalTotal:        330,
			},
		},
		{
			// 400 — missing serviceId
			name: "missing_service_returns_400",
			body: `{"scheduledAt":"2025-07-15T09:00:00Z"}`,
			setup: func(t *testing.T) *mocks.MockPricingService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPricingService(ctrl)
				svcMock.EXPECT().Quote(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 404 — unknown service
			name: "unknown_service_returns_404",
			body: `{"serviceId":"missing","scheduledAt":"2025-07-15T09:00:00Z"}`,
			setup: func(t *testing.T) *mocks.MockPricingService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPricingService(ctrl)
				svcMock.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(nil, models.ErrServiceNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			// 500 — internal error
			name: "internal_error_returns_500",
			body: `{"serviceId":"service-1","scheduledAt":"2025-07-15T09:00:00Z"}`,
			setup: func(t *testing.T) *mocks.MockPricingService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPricingService(ctrl)
				svcMock.EXPECT().Quote(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset")).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/pricing/quote", strings.NewReader(tt.body))
			require.NoError(t, err)

			w := httptest.NewRecorder()

			handler := NewPricingHandler(tt.setup(t), zap.NewNop())
			h := handler.QuotePricing()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantBody != nil {
				var got quoteResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				if diff := cmp.Diff(*tt.wantBody, got); diff != "" {
					t.Errorf("unexpected body (-want +got):\n%s", diff)
				}
			}
		})
	}
}
