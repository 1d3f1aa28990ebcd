package protocol

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lab1702/tank-agent/game"
)

const (
	writeWait      = 10 * time.Second
	maxRecordBytes = 8 << 20
)

// DialOptions tune DialWebsocket.
type DialOptions struct {
	// Timeout bounds the total time spent retrying the dial; 0 retries until
	// ctx is done.
	Timeout time.Duration
	Logger  *log.Logger
}

// Websocket carries one record per frame over a websocket connection.
type Websocket struct {
	conn  *websocket.Conn
	codec Codec
}

// DialWebsocket connects to url, retrying with exponential backoff while the
// server is unreachable. Handshake rejections are not retried.
func DialWebsocket(ctx context.Context, url string, codec Codec, opts DialOptions) (*Websocket, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = opts.Timeout

	var conn *websocket.Conn
	dial := func() error {
		c, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			if resp != nil && resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
				return backoff.Permanent(fmt.Errorf("handshake rejected with %s: %w", resp.Status, err))
			}
			return err
		}
		conn = c
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("dial failed, retrying", "url", url, "err", err, "wait", wait)
	}

	if err := backoff.RetryNotify(dial, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	conn.SetReadLimit(maxRecordBytes)
	logger.Info("connected", "url", url, "codec", codec.Name())
	return &Websocket{conn: conn, codec: codec}, nil
}

// NewWebsocket wraps an already established connection.
func NewWebsocket(conn *websocket.Conn, codec Codec) *Websocket {
	return &Websocket{conn: conn, codec: codec}
}

func (w *Websocket) Read(ctx context.Context) (Record, error) {
	// Unblock the read when ctx ends; the connection is unusable afterwards
	stop := context.AfterFunc(ctx, func() {
		w.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	_, data, err := w.conn.ReadMessage()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Record{}, ctxErr
		}
		return Record{}, fmt.Errorf("read frame: %w", err)
	}
	return w.codec.Decode(data)
}

func (w *Websocket) Write(ctx context.Context, act game.Action) error {
	data, err := w.codec.Encode(act)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	w.conn.SetWriteDeadline(deadline)

	msgType := websocket.TextMessage
	if w.codec.Binary() {
		msgType = websocket.BinaryMessage
	}
	if err := w.conn.WriteMessage(msgType, data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Close sends a normal closure and closes the connection.
func (w *Websocket) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	if errors.Is(err, websocket.ErrCloseSent) {
		err = nil
	}
	return errors.Join(err, w.conn.Close())
}
