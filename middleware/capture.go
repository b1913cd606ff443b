package middleware

import (
	"bytes"
	"net/http"
)

// responseCapture tees the response while it streams to the client, so the
// comparison afterwards sees exactly the bytes that were sent.
type responseCapture struct {
	http.ResponseWriter
	code int
	body bytes.Buffer
}

func newResponseCapture(w http.ResponseWriter) *responseCapture {
	return &responseCapture{ResponseWriter: w}
}

// WriteHeader records the first status code written.
func (c *responseCapture) WriteHeader(code int) {
	if c.code == 0 {
		c.code = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.code == 0 {
		c.code = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

// Flush forwards to the underlying writer when it supports streaming.
func (c *responseCapture) Flush() {
	if f, ok := c.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// status returns the recorded status code. Handlers that never write default
// to 200, matching net/http.
func (c *responseCapture) status() int {
	if c.code == 0 {
		return http.StatusOK
	}
	return c.code
}
