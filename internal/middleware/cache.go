package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/postboard/internal/config"
	"github.com/iliyamo/postboard/internal/logger"
)

// captureWriter tees the response body into buf while forwarding it to the
// client.  Once more than limit bytes have been written the copy is dropped.
type captureWriter struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	limit    int
	overflow bool
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.overflow {
		if cw.limit > 0 && cw.buf.Len()+len(b) > cw.limit {
			cw.overflow = true
			cw.buf.Reset()
		} else {
			cw.buf.Write(b)
		}
	}
	return cw.ResponseWriter.Write(b)
}

type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// ResponseCache stores successful GET responses in Redis.  The key covers
// the requester, route and query string, so scoped responses never leak
// between users.
type ResponseCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) *ResponseCache {
	return &ResponseCache{cfg: cfg, rdb: rdb}
}

func (rc *ResponseCache) key(c echo.Context) string {
	r := c.Request()
	tail := strings.Join([]string{"user", requesterID(c), "route", c.Path(), "q", r.URL.RawQuery}, ":")
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", rc.cfg.Prefix, sum[:])
}

// Middleware serves hits straight from Redis and records misses.  Only 200
// responses are stored.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
	if rc == nil || !rc.cfg.Enabled || rc.rdb == nil {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Request().Context()
			key := rc.key(c)

			if hit, ok := rc.lookup(ctx, key); ok {
				h := c.Response().Header()
				for k, vals := range hit.Header {
					if strings.EqualFold(k, echo.HeaderContentLength) {
						continue
					}
					for _, v := range vals {
						h.Add(k, v)
					}
				}
				h.Set("X-Cache", "HIT")
				c.Response().WriteHeader(hit.Status)
				_, err := c.Response().Write(hit.Body)
				return err
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: rc.cfg.MaxBodyBytes}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.overflow {
				return nil
			}

			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			payload, err := json.Marshal(cachedResponse{Status: cw.status, Header: hdr, Body: cw.buf.Bytes()})
			if err != nil {
				return nil
			}
			if err := rc.rdb.Set(context.WithoutCancel(ctx), key, payload, rc.cfg.TTL).Err(); err != nil {
				logger.Warn.Printf("cache: store %s: %v", key, err)
			}
			return nil
		}
	}
}

func (rc *ResponseCache) lookup(ctx context.Context, key string) (cachedResponse, bool) {
	bs, err := rc.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn.Printf("cache: get %s: %v", key, err)
		}
		return cachedResponse{}, false
	}
	var cr cachedResponse
	if err := json.Unmarshal(bs, &cr); err != nil || cr.Status == 0 {
		return cachedResponse{}, false
	}
	return cr, true
}
