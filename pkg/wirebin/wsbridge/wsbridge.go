// Package wsbridge carries one wirebin-encoded value per WebSocket
// binary frame. Framing lives entirely in the transport: the encoded
// payload is the plain positional wire format, optionally
// brotli-compressed.
//
// A tagged mode prefixes each frame's payload with a message name and
// resolves the concrete type through a wirebin.Registry, for peers that
// exchange more than one message type on a single socket.
package wsbridge

import (
	"bytes"
	"context"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/wavelayer/wirebin/pkg/wirebin"
)

// ErrTextFrame is latched into the reader when the peer sends a text
// frame where a binary frame was expected.
var ErrTextFrame = wirebin.Errorf("unexpected text frame")

// ErrUnknownMessage reports a tagged frame whose name is not in the
// registry.
var ErrUnknownMessage = wirebin.Errorf("unknown message name")

// ErrFrameTooLarge reports a compressed frame whose decompressed size
// exceeds maxFrameSize.
var ErrFrameTooLarge = wirebin.Errorf("decompressed frame exceeds %d bytes", maxFrameSize)

// Conn sends and receives wirebin values over a WebSocket connection.
// One goroutine may send while another receives, but each direction
// must be driven by at most one goroutine at a time.
type Conn struct {
	ws       *websocket.Conn
	log      *zap.Logger
	registry *wirebin.Registry
	compress bool
	budget   uint64
}

// Option configures a Conn.
type Option func(*Conn)

// WithLogger attaches a logger for per-frame debug output.
func WithLogger(log *zap.Logger) Option {
	return func(c *Conn) { c.log = log }
}

// WithBrotli compresses outgoing frames and transparently decompresses
// incoming ones. Both peers must agree.
func WithBrotli() Option {
	return func(c *Conn) { c.compress = true }
}

// WithRegistry enables SendTagged/RecvTagged dispatch.
func WithRegistry(reg *wirebin.Registry) Option {
	return func(c *Conn) { c.registry = reg }
}

// WithFrameBudget caps the decode budget applied to a single decompressed
// frame. Without it the budget is the frame's own length.
func WithFrameBudget(n uint64) Option {
	return func(c *Conn) { c.budget = n }
}

// New wraps an accepted or dialed WebSocket connection.
func New(ws *websocket.Conn, opts ...Option) *Conn {
	c := &Conn{ws: ws, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send encodes v and writes it as one binary frame.
func (c *Conn) Send(ctx context.Context, v wirebin.Encoder) error {
	return c.send(ctx, "", v)
}

// SendTagged writes a frame whose payload is the message name followed
// by the encoded value, for RecvTagged dispatch on the peer.
func (c *Conn) SendTagged(ctx context.Context, name string, v wirebin.Encoder) error {
	if name == "" {
		return wirebin.Errorf("empty message name")
	}
	return c.send(ctx, name, v)
}

func (c *Conn) send(ctx context.Context, name string, v wirebin.Encoder) error {
	var payload bytes.Buffer
	w := wirebin.NewWriter(&payload, wirebin.WithWriteContext(ctx))
	if name != "" {
		w.WriteString(name)
	}
	if err := v.EncodeWire(w); err != nil {
		return err
	}
	if err := w.Err(); err != nil {
		return err
	}
	frame := payload.Bytes()
	if c.compress {
		var compressed bytes.Buffer
		bw := brotli.NewWriter(&compressed)
		if _, err := bw.Write(frame); err != nil {
			return &wirebin.IOError{Op: "write", Err: err}
		}
		if err := bw.Close(); err != nil {
			return &wirebin.IOError{Op: "write", Err: err}
		}
		frame = compressed.Bytes()
	}
	if err := c.ws.Write(ctx, websocket.MessageBinary, frame); err != nil {
		return &wirebin.IOError{Op: "write", Err: err}
	}
	c.log.Debug("frame sent",
		zap.String("name", name),
		zap.Int("bytes", len(frame)),
		zap.Bool("compressed", c.compress))
	return nil
}

// Recv reads one binary frame and decodes it into v.
func (c *Conn) Recv(ctx context.Context, v wirebin.Decoder) error {
	r, err := c.frameReader(ctx)
	if err != nil {
		return err
	}
	if err := v.DecodeWire(r); err != nil {
		return err
	}
	return r.Err()
}

// RecvTagged reads one tagged frame, resolves its message name through
// the registry, and returns the decoded value along with its name.
func (c *Conn) RecvTagged(ctx context.Context) (string, wirebin.Codec, error) {
	if c.registry == nil {
		return "", nil, wirebin.Errorf("no registry configured")
	}
	r, err := c.frameReader(ctx)
	if err != nil {
		return "", nil, err
	}
	name := r.ReadString()
	if err := r.Err(); err != nil {
		return "", nil, err
	}
	v, ok := c.registry.New(name)
	if !ok {
		return name, nil, ErrUnknownMessage
	}
	if err := v.DecodeWire(r); err != nil {
		return name, nil, err
	}
	if err := r.Err(); err != nil {
		return name, nil, err
	}
	return name, v, nil
}

func (c *Conn) frameReader(ctx context.Context) (*wirebin.Reader, error) {
	typ, data, err := c.ws.Read(ctx)
	if err != nil {
		return nil, &wirebin.IOError{Op: "read", Err: err}
	}
	if typ != websocket.MessageBinary {
		return nil, ErrTextFrame
	}
	c.log.Debug("frame received",
		zap.Int("bytes", len(data)),
		zap.Bool("compressed", c.compress))
	if c.compress {
		// Read one byte past the cap so hitting it is distinguishable
		// from a frame of exactly maxFrameSize bytes.
		decompressed, err := io.ReadAll(io.LimitReader(brotli.NewReader(bytes.NewReader(data)), maxFrameSize+1))
		if err != nil {
			return nil, &wirebin.IOError{Op: "read", Err: err}
		}
		if len(decompressed) > maxFrameSize {
			return nil, ErrFrameTooLarge
		}
		data = decompressed
	}
	opts := []wirebin.ReaderOption{wirebin.WithReadContext(ctx)}
	if c.budget > 0 {
		opts = append(opts, wirebin.WithBudget(c.budget))
	}
	return wirebin.NewReader(bytes.NewReader(data), opts...), nil
}

// maxFrameSize bounds how far a compressed frame may inflate.
const maxFrameSize = 64 << 20

// Close closes the underlying WebSocket with a normal-closure status.
func (c *Conn) Close() error {
	return c.ws.Close(websocket.StatusNormalClosure, "")
}
