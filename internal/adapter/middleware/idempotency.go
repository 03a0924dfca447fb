package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"sinfopers/internal/logger"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// an unfinished reservation blocks retries for at most this long
	provisionalLockTTL = 60 * time.Second
	// allowed client/server clock skew for X-Request-At (in UTC)
	maxClockSkew = 10 * time.Minute

	HeaderRequestID = "X-Request-Id"
	HeaderRequestAt = "X-Request-At"
)

type idempEntry struct {
	Done        bool      `json:"done"`
	Code        int       `json:"code,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// respRecorder tees the handler's response so it can be stored for replay.
type respRecorder struct {
	w    http.ResponseWriter
	buf  bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// IdempotencyMiddleware makes mutating calls safe to retry. The key is
// method + route + actor id + X-Request-Id, so two users can never replay
// each other's responses. It runs after Authenticate.
//
// X-Request-At must be epoch (seconds or ms) or RFC3339 with a zone, within
// maxClockSkew of the server clock.
func IdempotencyMiddleware(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	log := logger.WithComponent("idempotency")
	store := replayStore{rdb: rdb, ttl: ttl}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			actor, ok := ActorFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}

			reqID := strings.TrimSpace(req.Header.Get(HeaderRequestID))
			if reqID == "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing " + HeaderRequestID})
			}
			if !validReqID(reqID) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid " + HeaderRequestID + " format"})
			}
			reqAt, err := parseRequestAt(req.Header.Get(HeaderRequestAt))
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			now := nowUTC()
			if reqAt.Before(now.Add(-maxClockSkew)) || reqAt.After(now.Add(maxClockSkew)) {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": HeaderRequestAt + " too skewed"})
			}

			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewReader(body))
			entry := idempEntry{
				BodySHA256:  bodyHash(body),
				RequestID:   reqID,
				RequestAtMS: reqAt.UnixMilli(),
				CreatedAt:   now,
			}

			key := buildKey(req.Method, c.Path(), actor.UserID, reqID)
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()

			reserved, err := store.reserve(ctx, key, entry)
			if err != nil {
				log.Error("idempotency store unavailable", "key", key, "error", err)
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !reserved {
				prev, err := store.load(ctx, key)
				if err != nil {
					log.Warn("failed to load idempotency entry", "key", key, "error", err)
				}
				if prev.BodySHA256 != "" && prev.BodySHA256 != entry.BodySHA256 {
					return c.JSON(http.StatusConflict, map[string]string{"error": HeaderRequestID + " reused with different body"})
				}
				if prev.Done {
					c.Response().Header().Set("Idempotent-Replayed", "true")
					if len(prev.Body) == 0 {
						return c.NoContent(prev.Code)
					}
					return c.Blob(prev.Code, prev.ContentType, prev.Body)
				}
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}

			rec := &respRecorder{w: c.Response().Writer, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// a server failure is not worth replaying; free the key for a retry
			if rec.code >= http.StatusInternalServerError {
				if err := store.release(context.Background(), key); err != nil {
					log.Warn("failed to release idempotency key", "key", key, "error", err)
				}
				return nil
			}
			entry.Done = true
			entry.Code = rec.code
			entry.ContentType = rec.Header().Get(echo.HeaderContentType)
			entry.Body = rec.buf.Bytes()
			if err := store.finish(context.Background(), key, entry); err != nil {
				log.Warn("failed to store idempotent response", "key", key, "error", err)
			}
			return nil
		}
	}
}
