package source

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"taximeter/internal/domain"
	"taximeter/internal/service"
)

// WebSocket consumes live device fixes streamed as JSON frames over a
// websocket connection, e.g. from a phone running the driver app.
type WebSocket struct {
	url    string
	dialer *websocket.Dialer
}

// NewWebSocket creates a websocket source for the given ws:// or wss:// URL.
func NewWebSocket(url string) *WebSocket {
	return &WebSocket{url: url, dialer: websocket.DefaultDialer}
}

// Subscribe dials the fix stream. An unauthorized handshake surfaces as a
// permission denial; any other dial failure as source unavailability. Both
// are terminal for this subscription.
func (w *WebSocket) Subscribe(ctx context.Context) (<-chan domain.Position, error) {
	conn, resp, err := w.dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: %s", service.ErrPositionDenied, resp.Status)
		}
		return nil, fmt.Errorf("%w: dial %s: %v", service.ErrPositionUnavailable, w.url, err)
	}

	ch := make(chan domain.Position, 8)

	// Closing the connection on cancel unblocks the read loop.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	go func() {
		defer close(ch)
		defer conn.Close()
		for {
			var pos domain.Position
			if err := conn.ReadJSON(&pos); err != nil {
				return
			}
			select {
			case ch <- pos:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}
