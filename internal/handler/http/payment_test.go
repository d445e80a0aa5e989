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
	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPaymentHandler_PaymentWebhook(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockPaymentService
		wantStatusCode int
		wantMessage    string
	}{
		{
			// 200 — approved payment opens the dispute
			name: "approved_returns_200",
			body: `{"orderId":"order-1","status":"approved","paymentId":"mp-42"}`,
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ProcessWebhook(gomock.Any(), models.PaymentNotification{
					OrderID:   "order-1",
					Status:    "approved",
					PaymentID: "mp-42",
				}).Return(nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantMessage:    "Payment validated and dispute started.",
		},
		{
			// 200 — rejected payment is acknowledged but ignored
			name: "rejected_returns_200",
			body: `{"orderId":"order-1","status":"rejected"}`,
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ProcessWebhook(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantMessage:    "Payment rejected ignored.",
		},
		{
			// 400 — malformed JSON
			name: "bad_json_returns_400",
			body: `{"orderId":`,
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ProcessWebhook(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 400 — missing orderId
			name: "missing_order_returns_400",
			body: `{"status":"approved"}`,
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ProcessWebhook(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 500 — processing failed
			name: "internal_error_returns_500",
			body: `{"orderId":"order-1","status":"approved"}`,
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ProcessWebhook(gomock.Any(), gomock.Any()).Return(errors.New("connection reset")).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/payments/webhook", strings.NewReader(tt.body))
			require.NoError(t, err)

			w := httptest.NewRecorder()

			handler := NewPaymentHandler(tt.setup(t), zap.NewNop())
			h := handler.PaymentWebhook()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantMessage != "" {
				var resp webhookResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
				assert.True(t, resp.Success)
				assert.Equal(t, tt.wantMessage, resp.Message)
			}
		})
	}
}

func TestPaymentHandler_OrderPayments(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(t *testing.T) *mocks.MockPaymentService
		wantStatusCode int
		wantLen        int
	}{
		{
			// 200 — payment facts recorded for the order
			name: "recorded_facts_return_200",
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ListByOrder(gomock.Any(), "order-1").Return([]models.Payment{
					{ID: "p1", OrderID: "order-1", Status: models.PaymentStatusApproved, Amount: 350, ExternalPaymentID: "mp-42"},
				}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantLen:        1,
		},
		{
			// 204 — no payment facts
			name: "no_facts_return_204",
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ListByOrder(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNoContent,
		},
		{
			// 500 — internal error
			name: "internal_error_returns_500",
			setup: func(t *testing.T) *mocks.MockPaymentService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockPaymentService(ctrl)
				svcMock.EXPECT().ListByOrder(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset")).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/api/orders/order-1/payments", nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()

			handler := NewPaymentHandler(tt.setup(t), zap.NewNop())

			router := chi.NewRouter()
			router.Get("/api/orders/{id}/payments", handler.OrderPayments())
			router.ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantLen > 0 {
				var got []paymentResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
				require.Len(t, got, tt.wantLen)
				assert.Equal(t, "order-1", got[0].OrderID)
			}
		})
	}
}
