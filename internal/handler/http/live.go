package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/girojeri/backend/internal/broadcast"
	"go.uber.org/zap"
)

// LiveHandler streams newly available orders to a connected agency over SSE
type LiveHandler struct {
	broadcaster *broadcast.Broadcaster
	logger      *zap.Logger
}

// NewLiveHandler creates new LiveHandler instance
func NewLiveHandler(broadcaster *broadcast.Broadcaster, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// StreamOrders holds the connection open and relays every published order as
// one SSE frame until the client disconnects. A ping comment goes out first
// so clients and proxies see a live stream before the first real event.
// No filtering here: every connected agency sees every published order.
func (lh *LiveHandler) StreamOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache, no-transform")
		w.Header().Set("Connection", "keep-alive")

		sub := lh.broadcaster.Subscribe()
		defer lh.broadcaster.Unsubscribe(sub)

		fmt.Fprint(w, ": ping\n\n")
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case order, ok := <-sub.C():
				if !ok {
					return
				}
				data, err := json.Marshal(newOrderResponse(order))
				if err != nil {
					lh.logger.Error("marshal order event", zap.String("order", order.ID), zap.Error(err))
					continue
				}
				fmt.Fprintf(w, "data: %s\n\n", data)
				flusher.Flush()
			}
		}
	}
}
