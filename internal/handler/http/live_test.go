package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/girojeri/backend/internal/broadcast"
	"github.com/girojeri/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// sseRecorder signals every Flush so the test can sequence writes
// against the handler goroutine without racing on the body buffer.
type sseRecorder struct {
	*httptest.ResponseRecorder
	flushed chan struct{}
}

func newSSERecorder() *sseRecorder {
	return &sseRecorder{
		ResponseRecorder: httptest.NewRecorder(),
		flushed:          make(chan struct{}, 8),
	}
}

func (r *sseRecorder) Flush() {
	r.ResponseRecorder.Flush()
	r.flushed <- struct{}{}
}

func waitFlush(t *testing.T, r *sseRecorder) {
	t.Helper()
	select {
	case <-r.flushed:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a flush")
	}
}

func TestLiveHandler_StreamOrders(t *testing.T) {
	broadcaster := broadcast.New()
	handler := NewLiveHandler(broadcaster, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/agencies/orders/live", nil).WithContext(ctx)

	w := newSSERecorder()
	done := make(chan struct{})
	go func() {
		handler.StreamOrders()(w, req)
		close(done)
	}()

	// the ping frame means the subscription is in place
	waitFlush(t, w)

	broadcaster.Publish(models.Order{
		ID:     "order-1",
		Status: models.OrderStatusAwaitingAcceptance,
	})

	// the data frame has been written and flushed
	waitFlush(t, w)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not return after disconnect")
	}

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, ": ping\n\n")
	assert.Contains(t, body, "data: ")
	assert.Contains(t, body, `"id":"order-1"`)
	assert.Contains(t, body, `"status":"AGUARDANDO_ACEITE"`)
}

func TestLiveHandler_StreamClosesWithSubscriber(t *testing.T) {
	broadcaster := broadcast.New()
	handler := NewLiveHandler(broadcaster, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/agencies/orders/live", nil)

	w := newSSERecorder()
	done := make(chan struct{})
	go func() {
		handler.StreamOrders()(w, req)
		close(done)
	}()

	waitFlush(t, w)

	// closing every subscriber channel ends the stream loop too
	broadcaster.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not return after broadcaster close")
	}
}

type plainWriter struct {
	header http.Header
	status int
}

func (w *plainWriter) Header() http.Header {
	if w.header == nil {
		w.header = http.Header{}
	}
	return w.header
}

func (w *plainWriter) Write(p []byte) (int, error) { return len(p), nil }

func (w *plainWriter) WriteHeader(status int) { w.status = status }

func TestLiveHandler_RequiresFlusher(t *testing.T) {
	handler := NewLiveHandler(broadcast.New(), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/agencies/orders/live", nil)
	w := &plainWriter{}

	handler.StreamOrders()(w, req)
	require.Equal(t, http.StatusInternalServerError, w.status)
}
