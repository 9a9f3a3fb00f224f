package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

// ResponseCache memoizes successful GET responses for a short window.
// Entries are keyed per path, query and caller role so narrowed listings
// never leak across roles.
type ResponseCache struct {
	store *gocache.Cache
	ttl   time.Duration
}

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		store: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

type cacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *cacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (rc *ResponseCache) Cache() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := rc.key(c)
		if v, ok := rc.store.Get(key); ok {
			cached := v.(cachedResponse)
			c.Header("X-Cache", "HIT")
			c.Data(cached.status, cached.contentType, cached.body)
			c.Abort()
			return
		}

		writer := &cacheWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		if c.Writer.Status() == http.StatusOK {
			rc.store.Set(key, cachedResponse{
				status:      c.Writer.Status(),
				contentType: c.Writer.Header().Get("Content-Type"),
				body:        writer.body.Bytes(),
			}, rc.ttl)
		}
	}
}

// Flush drops every cached entry. Wired behind write operations so stale
// listings never outlive a mutation by more than the handler call.
func (rc *ResponseCache) Flush() {
	rc.store.Flush()
}

func (rc *ResponseCache) key(c *gin.Context) string {
	requester := RequesterFrom(c)
	return c.Request.URL.Path + "?" + c.Request.URL.RawQuery + "#" + string(requester.Role)
}
