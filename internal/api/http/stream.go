package http

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	nethttp "net/http"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/zendesk-mcp/pkg/util"
)

// streamingHandler runs a net/http handler behind fiber without buffering.
//
// The handler runs in its own goroutine. If it returns before flushing, its
// response is copied to fiber as a whole. Once it flushes, the status and
// headers are committed and everything it writes afterwards is streamed to the
// client through fasthttp's body stream writer. The handler's request context
// is cancelled when the client goes away or the stream ends.
func streamingHandler(h nethttp.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(context.Background())
		req, err := toHTTPRequest(ctx, c)
		if err != nil {
			cancel()
			return apperrors.NewValidationError("malformed request", map[string]any{"error": err.Error()})
		}

		w := newFlushWriter()
		done := make(chan struct{})
		var panicked any
		go func() {
			defer close(done)
			defer func() {
				if r := recover(); r != nil {
					panicked = r
				}
			}()
			h.ServeHTTP(w, req)
		}()

		select {
		case <-done:
			cancel()
			if panicked != nil {
				return apperrors.NewInternalError(fmt.Errorf("%v", panicked))
			}
			status, header, body := w.snapshot()
			copyHeader(c, header)
			c.Status(status)
			return c.Send(body)
		case <-w.flushed:
		}

		status, header, _ := w.snapshot()
		copyHeader(c, header)
		c.Status(status)
		c.Context().SetBodyStreamWriter(func(bw *bufio.Writer) {
			defer cancel()
			for {
				if chunk := w.drain(); len(chunk) > 0 {
					if _, err := bw.Write(chunk); err != nil {
						return
					}
					if err := bw.Flush(); err != nil {
						return
					}
				}
				select {
				case <-w.notify:
				case <-done:
					if chunk := w.drain(); len(chunk) > 0 {
						_, _ = bw.Write(chunk)
						_ = bw.Flush()
					}
					return
				}
			}
		})
		return nil
	}
}

// toHTTPRequest copies the fiber request. The body is copied because the
// handler may outlive the fiber handler call.
func toHTTPRequest(ctx context.Context, c *fiber.Ctx) (*nethttp.Request, error) {
	body := append([]byte(nil), c.Body()...)
	req, err := nethttp.NewRequestWithContext(ctx, c.Method(), c.OriginalURL(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.Request().Header.VisitAll(func(key, value []byte) {
		req.Header.Add(string(key), string(value))
	})
	req.Host = c.Hostname()
	req.RequestURI = c.OriginalURL()
	req.RemoteAddr = c.Context().RemoteAddr().String()
	req.ContentLength = int64(len(body))
	return req, nil
}

func copyHeader(c *fiber.Ctx, header nethttp.Header) {
	for key, values := range header {
		if strings.EqualFold(key, fiber.HeaderContentLength) || len(values) == 0 {
			continue
		}
		if strings.EqualFold(key, fiber.HeaderContentType) {
			c.Set(fiber.HeaderContentType, values[0])
			continue
		}
		for _, value := range values {
			c.Response().Header.Add(key, value)
		}
	}
}

// flushWriter is an http.ResponseWriter and http.Flusher that hands written
// bytes to the fiber side.
type flushWriter struct {
	mu          sync.Mutex
	header      nethttp.Header
	committed   nethttp.Header
	status      int
	buf         bytes.Buffer
	streaming   bool
	flushed     chan struct{}
	flushedOnce sync.Once
	notify      chan struct{}
}

func newFlushWriter() *flushWriter {
	return &flushWriter{
		header:  make(nethttp.Header),
		flushed: make(chan struct{}),
		notify:  make(chan struct{}, 1),
	}
}

func (w *flushWriter) Header() nethttp.Header {
	return w.header
}

func (w *flushWriter) WriteHeader(status int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writeHeaderLocked(status)
}

func (w *flushWriter) writeHeaderLocked(status int) {
	if w.committed != nil {
		return
	}
	w.status = status
	w.committed = w.header.Clone()
}

func (w *flushWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	w.writeHeaderLocked(nethttp.StatusOK)
	n, err := w.buf.Write(p)
	streaming := w.streaming
	w.mu.Unlock()
	if streaming {
		w.signal()
	}
	return n, err
}

func (w *flushWriter) Flush() {
	w.mu.Lock()
	w.writeHeaderLocked(nethttp.StatusOK)
	w.streaming = true
	w.mu.Unlock()
	w.flushedOnce.Do(func() { close(w.flushed) })
	w.signal()
}

func (w *flushWriter) signal() {
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

// snapshot returns the committed status and headers and the buffered body.
func (w *flushWriter) snapshot() (int, nethttp.Header, []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.committed == nil {
		return nethttp.StatusOK, w.header.Clone(), w.buf.Bytes()
	}
	return w.status, w.committed, w.buf.Bytes()
}

func (w *flushWriter) drain() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() == 0 {
		return nil
	}
	chunk := append([]byte(nil), w.buf.Bytes()...)
	w.buf.Reset()
	return chunk
}
