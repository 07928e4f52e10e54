package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/cache"
	"squash-courts/backend/internal/config"
	"squash-courts/backend/internal/httpjson"
)

const (
	cacheKeyRateLimit = "limiter"

	headerRateLimit          = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitWindow    = "X-RateLimit-Window"
)

// RateLimit counts requests per client in a fixed window kept in the cache.
// Cache failures let the request through.
func RateLimit(cfg config.Config, c cache.Cache) func(http.Handler) http.Handler {
	maxReqs := cfg.App.RateLimiter.MaxRequests
	windowSecs := cfg.App.RateLimiter.WindowSeconds

	return func(next http.Handler) http.Handler {
		if !cfg.App.RateLimiter.Enable {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cache.BuildKey(cacheKeyRateLimit, r.URL.Path, clientIP(r), userAgent(r))

			var count int
			err := c.Get(r.Context(), key, &count)
			switch {
			case err == nil:
				count++
			case cache.IsMiss(err):
				count = 1
			default:
				log.Warn().Err(err).Msg("rate limiter cache unavailable")
				next.ServeHTTP(w, r)
				return
			}

			if count > maxReqs {
				w.Header().Set("Retry-After", strconv.Itoa(windowSecs))
				httpjson.Error(w, http.StatusTooManyRequests, "too many requests, please try again later")
				return
			}

			if err := c.Save(r.Context(), key, count, time.Duration(windowSecs)*time.Second); err != nil {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(headerRateLimit, strconv.Itoa(maxReqs))
			w.Header().Set(headerRateLimitRemaining, strconv.Itoa(max(0, maxReqs-count)))
			w.Header().Set(headerRateLimitWindow, strconv.Itoa(windowSecs))

			next.ServeHTTP(w, r)
		})
	}
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get("User-Agent"); ua != "" {
		return ua
	}
	return "unknown"
}

func clientIP(r *http.Request) string {
	// X-Forwarded-For may hold a chain; the first entry is the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}
