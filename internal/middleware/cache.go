package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/booking-directory/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
		cw.buf.Write(b)
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

func (cw *captureWriter) overflowed() bool { return cw.limit > 0 && cw.size > cw.limit }

// RedisCache caches rendered GET pages in Redis.  Every write to the
// directory calls Invalidate so listings never outlive the data they show
// by more than one request.
type RedisCache struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

// NewRedisCache returns a cache backed by rdb.  A nil client or a disabled
// config yields a cache whose middleware passes every request through.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) *RedisCache {
	return &RedisCache{cfg: cfg, rdb: rdb}
}

func (rc *RedisCache) active() bool { return rc != nil && rc.cfg.Enabled && rc.rdb != nil }

// cacheKey builds a stable key honoring prefix and strategy.  The negotiated
// representation is part of the key so HTML and JSON never mix.
func (rc *RedisCache) cacheKey(c echo.Context) string {
	r := c.Request()
	path := r.URL.Path
	query := r.URL.RawQuery
	repr := "html"
	if wantsJSON(r) {
		repr = "json"
	}

	var parts []string
	switch strings.ToLower(rc.cfg.KeyStrategy) {
	case "route":
		parts = []string{"route", path}
	case "method_route":
		parts = []string{"method", r.Method, "route", path}
	case "method_route_query":
		parts = []string{"method", r.Method, "route", path, "q", query}
	default: // "route_query"
		parts = []string{"route", path, "q", query}
	}
	parts = append(parts, "as", repr)

	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%x", rc.cfg.Prefix, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	hdr := make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, hdr, bs[8+hlen:], true
}

// Middleware serves cached copies of successful responses.  Requests that
// carry a flash cookie and responses that set cookies bypass the cache.
func (rc *RedisCache) Middleware() echo.MiddlewareFunc {
	if !rc.active() {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	maxBody := int64(rc.cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !rc.cfg.Methods[strings.ToUpper(req.Method)] || hasFlashCookie(req) {
				return next(c)
			}

			ctx := req.Context()
			key := rc.cacheKey(c)

			if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						// Content-Length is recomputed; request id belongs to this request
						if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, RequestIDHeader) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			}

			// Miss: capture
			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status != http.StatusOK || cw.overflowed() || c.Response().Header().Get("Set-Cookie") != "" {
				return nil
			}
			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				_ = rc.rdb.SetEx(context.Background(), key, payload, rc.cfg.TTL).Err()
			}
			return nil
		}
	}
}

// Invalidate drops every cached page under the configured prefix.
func (rc *RedisCache) Invalidate(ctx context.Context) error {
	if !rc.active() {
		return nil
	}
	iter := rc.rdb.Scan(ctx, 0, rc.cfg.Prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return rc.rdb.Del(ctx, keys...).Err()
}

// wantsJSON reports whether the client asked for JSON through Accept.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// FlashCookieName names the cookie that carries flash messages across a
// redirect.
const FlashCookieName = "flash"

func hasFlashCookie(r *http.Request) bool {
	ck, err := r.Cookie(FlashCookieName)
	return err == nil && ck.Value != ""
}
