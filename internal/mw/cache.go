package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"consult-booking-backend/internal/metrics"
)

// ResponseCache keeps successful public GET responses in memory until they
// expire or the slot grid changes. Entries are keyed by route template and
// canonical query, so parameter order does not split the cache.
type ResponseCache struct {
	entries *cache.Cache
	ttl     time.Duration
}

// NewResponseCache returns an empty cache whose entries live for ttl.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{
		entries: cache.New(ttl, 2*ttl),
		ttl:     ttl,
	}
}

// Flush drops every entry. It is the booking service's change hook.
func (rc *ResponseCache) Flush() {
	rc.entries.Flush()
}

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func cacheKey(c *gin.Context) string {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	if query := c.Request.URL.Query().Encode(); query != "" {
		return route + "?" + query
	}
	return route
}

// Handler serves cached responses and records 2xx answers. An X-Cache
// header tells HIT from MISS.
func (rc *ResponseCache) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		route := c.FullPath()
		key := cacheKey(c)
		if v, found := rc.entries.Get(key); found {
			cached := v.(cachedResponse)
			metrics.RecordCacheLookup(route, true)
			c.Header("X-Cache", "HIT")
			c.Data(cached.status, cached.contentType, cached.body)
			c.Abort()
			return
		}

		metrics.RecordCacheLookup(route, false)
		c.Header("X-Cache", "MISS")
		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if blw.Status() >= 200 && blw.Status() < 300 {
			rc.entries.Set(key, cachedResponse{
				status:      blw.Status(),
				contentType: blw.Header().Get("Content-Type"),
				body:        blw.body.Bytes(),
			}, rc.ttl)
		}
	}
}
