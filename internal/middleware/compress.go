package middleware

import (
	"compress/gzip"
	"strings"

	"github.com/gin-gonic/gin"
)

type gzipWriter struct {
	gin.ResponseWriter
	gz *gzip.Writer
}

func (w *gzipWriter) Write(data []byte) (int, error) {
	return w.gz.Write(data)
}

// CompressConfig controls response compression. Paths in Skip are never
// compressed; /metrics stays plain for Prometheus scrapes.
type CompressConfig struct {
	Level int
	Types []string
	Skip  []string
}

func DefaultCompressConfig() CompressConfig {
	return CompressConfig{
		Level: gzip.DefaultCompression,
		Types: []string{"application/json", "text/plain"},
		Skip:  []string{"/metrics", "/api/v1/health"},
	}
}

// Compress gzips responses for clients that advertise support.
func Compress(cfg CompressConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range cfg.Skip {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
			c.Next()
			return
		}

		contentType := c.Writer.Header().Get("Content-Type")
		compressible := false
		for _, t := range cfg.Types {
			if strings.Contains(contentType, t) {
				compressible = true
				break
			}
		}
		if !compressible {
			c.Next()
			return
		}

		gz, err := gzip.NewWriterLevel(c.Writer, cfg.Level)
		if err != nil {
			c.Next()
			return
		}
		defer gz.Close()

		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")
		c.Writer = &gzipWriter{c.Writer, gz}
		c.Next()
	}
}
