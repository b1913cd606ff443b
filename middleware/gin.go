package middleware

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Gin adapts the middleware to a gin handler. Register it before the routes
// it should observe:
//
//	r := gin.New()
//	r.Use(middleware.Gin(m))
//
// The adapter applies the same configuration as Wrap: exempt paths skip
// validation, invalid responses are logged but never blocked, and invalid
// request bodies abort the chain with a 400 when rejection is enabled.
func Gin(m *Middleware) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.exemptPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		log := m.logger.With("correlation_id", uuid.NewString())

		if m.cfg.ValidateRequestBody && !m.checkRequest(c.Writer, c.Request, log) {
			c.Abort()
			return
		}

		if !m.cfg.ValidateResponse {
			c.Next()
			return
		}

		capture := &ginCapture{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Next()
		m.checkResponse(c.Request, capture.Status(), capture.Header(), capture.body.Bytes(), log)
	}
}

// ginCapture tees bytes written through gin's writer. Status and header
// bookkeeping stay with the embedded gin.ResponseWriter.
type ginCapture struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *ginCapture) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *ginCapture) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
