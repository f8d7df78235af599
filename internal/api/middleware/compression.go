package middleware

import (
	"bytes"
	"compress/gzip"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// MinLength is the minimum body size to trigger compression
	MinLength int
	// Level is the gzip compression level (1-9)
	Level int
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinLength: 1024,
		Level:     gzip.DefaultCompression,
	}
}

// Compression returns a middleware that gzips JSON responses large enough to
// benefit, for clients that accept it
func Compression(cfg CompressionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		buf := &bufferedWriter{ResponseWriter: c.Writer, body: new(bytes.Buffer)}
		c.Writer = buf
		c.Header("Vary", "Accept-Encoding")

		c.Next()

		buf.flush(cfg)
	}
}

// bufferedWriter holds the response body until the handler finishes, so the
// compression decision can be made on the final size.
type bufferedWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bufferedWriter) Write(data []byte) (int, error) {
	return w.body.Write(data)
}

func (w *bufferedWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *bufferedWriter) flush(cfg CompressionConfig) {
	content := w.body.Bytes()

	if len(content) < cfg.MinLength || w.Status() == http.StatusNoContent {
		w.ResponseWriter.Write(content)
		return
	}

	gz, err := gzip.NewWriterLevel(w.ResponseWriter, cfg.Level)
	if err != nil {
		w.ResponseWriter.Write(content)
		return
	}
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Del("Content-Length")

	if _, err := gz.Write(content); err != nil {
		gz.Close()
		return
	}
	gz.Close()
}
