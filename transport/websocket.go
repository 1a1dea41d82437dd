package transport

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"peerchat/domain/event"
)

const writeDeadline = 5 * time.Second

// WebSocket is the owned connection object of a client session. Its lifecycle
// is tied to session start/stop: dialed once by the caller, closed on
// shutdown, never shared as package state.
//
// It implements contract.Publisher and contract.EventSource. Writes are
// serialized with a mutex because user intents and workers share the
// connection; reads stay on a single goroutine.
type WebSocket struct {
	log     *slog.Logger
	conn    *websocket.Conn
	codec   *Codec
	writeMu sync.Mutex
}

// Dial connects to the chat server at url (ws:// or wss://).
func Dial(ctx context.Context, url string, log *slog.Logger) (*WebSocket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &WebSocket{log: log, conn: conn, codec: NewCodec()}, nil
}

// Publish frames and writes one outbound event.
func (w *WebSocket) Publish(_ context.Context, e event.Event) error {
	raw, err := w.codec.Encode(e)
	if err != nil {
		return err
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	if err := w.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, raw)
}

// Receive blocks for the next decodable inbound event. Frames that fail
// decoding or validation are logged and skipped; only a broken connection
// surfaces as an error.
func (w *WebSocket) Receive(ctx context.Context) (event.Event, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, raw, err := w.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		evt, err := w.codec.Decode(raw)
		if err != nil {
			w.log.Warn("Skipping undecodable frame", "error", err)
			continue
		}
		return evt, nil
	}
}

// Close tears the connection down.
func (w *WebSocket) Close() error {
	return w.conn.Close()
}
